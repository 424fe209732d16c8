package command

import (
	"context"
	"fmt"
	"testing"

	"github.com/kapu/voicebot-go/internal/adapter"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/store"
	"github.com/kapu/voicebot-go/pkg/errors"
	"go.uber.org/zap"
)

const (
	testGuild domain.Snowflake = 1000
	adminRole domain.Snowflake = 42
)

type memoryStore struct {
	initial *domain.Configuration
	saves   int
	last    *domain.Configuration
	saveErr error
}

func (m *memoryStore) Load(context.Context) *domain.Configuration {
	if m.initial == nil {
		return domain.NewConfiguration()
	}
	return m.initial
}

func (m *memoryStore) Save(_ context.Context, cfg *domain.Configuration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.last = cfg.Clone()
	return nil
}

// stubPlatform serves lookups and deletions; provisioning calls are unused here.
type stubPlatform struct {
	channels  map[domain.Snowflake]*domain.Channel
	roles     map[domain.Snowflake]*domain.Role
	occupants map[domain.Snowflake]int
	deletes   []domain.Snowflake
	lookupErr error
}

func newStubPlatform() *stubPlatform {
	return &stubPlatform{
		channels:  make(map[domain.Snowflake]*domain.Channel),
		roles:     make(map[domain.Snowflake]*domain.Role),
		occupants: make(map[domain.Snowflake]int),
	}
}

func (p *stubPlatform) addChannel(id domain.Snowflake) {
	p.channels[id] = &domain.Channel{ID: id, GuildID: testGuild}
}

func (p *stubPlatform) addRole(id domain.Snowflake, name string) {
	p.roles[id] = &domain.Role{ID: id, Name: name}
}

func (p *stubPlatform) CreateVoiceChannel(context.Context, domain.Snowflake, string, domain.Snowflake, domain.Overlay, string) (*domain.Channel, error) {
	return nil, fmt.Errorf("not supported")
}

func (p *stubPlatform) CloneChannel(context.Context, *domain.Channel, string, string) (*domain.Channel, error) {
	return nil, fmt.Errorf("not supported")
}

func (p *stubPlatform) SetPermissions(context.Context, domain.Snowflake, domain.Overwrite) error {
	return nil
}

func (p *stubPlatform) MoveMember(context.Context, domain.Snowflake, domain.Snowflake, domain.Snowflake) error {
	return nil
}

func (p *stubPlatform) DeleteChannel(_ context.Context, channelID domain.Snowflake) error {
	if _, ok := p.channels[channelID]; !ok {
		return errors.NewPlatformError("delete channel", true, fmt.Errorf("unknown channel"))
	}
	delete(p.channels, channelID)
	p.deletes = append(p.deletes, channelID)
	return nil
}

func (p *stubPlatform) Role(_ context.Context, _, roleID domain.Snowflake) (*domain.Role, error) {
	if p.lookupErr != nil {
		return nil, p.lookupErr
	}
	return p.roles[roleID], nil
}

func (p *stubPlatform) Channel(_ context.Context, channelID domain.Snowflake) (*domain.Channel, error) {
	if p.lookupErr != nil {
		return nil, p.lookupErr
	}
	return p.channels[channelID], nil
}

func (p *stubPlatform) Occupants(_ context.Context, _, channelID domain.Snowflake) (int, error) {
	return p.occupants[channelID], nil
}

type harness struct {
	deps     *Dependencies
	platform *stubPlatform
	backing  *memoryStore
	state    *store.State
	messages []string
	errors   []string
}

func newHarness(t *testing.T, cfg *domain.Configuration) *harness {
	t.Helper()
	if cfg == nil {
		cfg = domain.NewConfiguration()
	}
	cfg.CommandRoles.Add(adminRole)

	h := &harness{
		platform: newStubPlatform(),
		backing:  &memoryStore{initial: cfg},
	}
	h.state = store.NewState(context.Background(), h.backing)
	h.deps = &Dependencies{
		State:     h.state,
		Platform:  h.platform,
		Formatter: adapter.NewResponseFormatter(),
		SendMessage: func(_ *domain.CommandContext, message string) error {
			h.messages = append(h.messages, message)
			return nil
		},
		SendError: func(_ *domain.CommandContext, message string) error {
			h.errors = append(h.errors, message)
			return nil
		},
		Logger: zap.NewNop(),
	}
	return h
}

func (h *harness) run(t *testing.T, cmd Command, invoker domain.Member, params map[string]any) {
	t.Helper()
	cmdCtx := domain.NewCommandContext(testGuild, invoker, domain.CommandType(cmd.Name()))
	if err := cmd.Execute(context.Background(), cmdCtx, params); err != nil {
		t.Fatalf("unexpected execute error: %v", err)
	}
}

func (h *harness) lastMessage(t *testing.T) string {
	t.Helper()
	if len(h.messages) == 0 {
		t.Fatalf("expected a reply, errors=%v", h.errors)
	}
	return h.messages[len(h.messages)-1]
}

func (h *harness) lastError(t *testing.T) string {
	t.Helper()
	if len(h.errors) == 0 {
		t.Fatalf("expected an error reply, messages=%v", h.messages)
	}
	return h.errors[len(h.errors)-1]
}

func operator() domain.Member {
	return domain.Member{UserID: 1, GuildID: testGuild, RoleIDs: []domain.Snowflake{adminRole}}
}

func outsider() domain.Member {
	return domain.Member{UserID: 2, GuildID: testGuild, RoleIDs: []domain.Snowflake{99}}
}
