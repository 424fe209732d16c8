package lifecycle

import (
	"context"
	"fmt"

	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/pkg/errors"
)

type createCall struct {
	GuildID  domain.Snowflake
	Name     string
	ParentID domain.Snowflake
	Overlay  domain.Overlay
	Reason   string
}

type permissionCall struct {
	ChannelID domain.Snowflake
	Overwrite domain.Overwrite
}

type moveCall struct {
	GuildID   domain.Snowflake
	UserID    domain.Snowflake
	ChannelID domain.Snowflake
}

type fakePlatform struct {
	channels  map[domain.Snowflake]*domain.Channel
	roles     map[domain.Snowflake]*domain.Role
	occupants map[domain.Snowflake]int
	nextID    domain.Snowflake

	creates     []createCall
	clones      []string
	permissions []permissionCall
	moves       []moveCall
	deletes     []domain.Snowflake

	moveErr   error
	createErr error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels:  make(map[domain.Snowflake]*domain.Channel),
		roles:     make(map[domain.Snowflake]*domain.Role),
		occupants: make(map[domain.Snowflake]int),
		nextID:    5000,
	}
}

func (f *fakePlatform) addChannel(ch *domain.Channel) {
	f.channels[ch.ID] = ch
}

func (f *fakePlatform) addRole(id domain.Snowflake, name string) {
	f.roles[id] = &domain.Role{ID: id, Name: name}
}

func (f *fakePlatform) allocate(guildID, parentID domain.Snowflake, name string) *domain.Channel {
	f.nextID++
	ch := &domain.Channel{ID: f.nextID, GuildID: guildID, ParentID: parentID, Name: name}
	f.channels[ch.ID] = ch
	return ch
}

func (f *fakePlatform) CreateVoiceChannel(_ context.Context, guildID domain.Snowflake, name string, parentID domain.Snowflake, overlay domain.Overlay, reason string) (*domain.Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates = append(f.creates, createCall{GuildID: guildID, Name: name, ParentID: parentID, Overlay: overlay, Reason: reason})
	return f.allocate(guildID, parentID, name), nil
}

func (f *fakePlatform) CloneChannel(_ context.Context, source *domain.Channel, name, _ string) (*domain.Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.clones = append(f.clones, name)
	return f.allocate(source.GuildID, source.ParentID, name), nil
}

func (f *fakePlatform) SetPermissions(_ context.Context, channelID domain.Snowflake, overwrite domain.Overwrite) error {
	f.permissions = append(f.permissions, permissionCall{ChannelID: channelID, Overwrite: overwrite})
	return nil
}

func (f *fakePlatform) MoveMember(_ context.Context, guildID, userID, channelID domain.Snowflake) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, moveCall{GuildID: guildID, UserID: userID, ChannelID: channelID})
	return nil
}

func (f *fakePlatform) DeleteChannel(_ context.Context, channelID domain.Snowflake) error {
	if _, ok := f.channels[channelID]; !ok {
		return errors.NewPlatformError("delete channel", true, fmt.Errorf("unknown channel %s", channelID))
	}
	delete(f.channels, channelID)
	f.deletes = append(f.deletes, channelID)
	return nil
}

func (f *fakePlatform) Role(_ context.Context, _, roleID domain.Snowflake) (*domain.Role, error) {
	return f.roles[roleID], nil
}

func (f *fakePlatform) Channel(_ context.Context, channelID domain.Snowflake) (*domain.Channel, error) {
	return f.channels[channelID], nil
}

func (f *fakePlatform) Occupants(_ context.Context, _, channelID domain.Snowflake) (int, error) {
	return f.occupants[channelID], nil
}

// permissionsFor returns the last overwrite applied to subject on channelID.
func (f *fakePlatform) permissionsFor(channelID, subject domain.Snowflake, kind domain.SubjectKind) (domain.Overwrite, bool) {
	var found domain.Overwrite
	ok := false
	for _, call := range f.permissions {
		if call.ChannelID == channelID && call.Overwrite.Subject == subject && call.Overwrite.Kind == kind {
			found = call.Overwrite
			ok = true
		}
	}
	return found, ok
}
