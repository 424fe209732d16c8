package command

import (
	"strings"
	"testing"

	"github.com/kapu/voicebot-go/internal/domain"
)

const waitingID = "123456789012345678"

func configParams(action, mode, channel string) map[string]any {
	return map[string]any{ParamAction: action, ParamType: mode, ParamChannelID: channel}
}

func TestConfigCommandAddsWaitingChannel(t *testing.T) {
	h := newHarness(t, nil)
	h.platform.addChannel(123456789012345678)

	h.run(t, NewConfigCommand(h.deps), operator(), configParams("ADD", "BDA", waitingID))

	if got := h.lastMessage(t); !strings.Contains(got, "<#"+waitingID+">") || !strings.Contains(got, "'BDA'") {
		t.Fatalf("unexpected reply: %s", got)
	}
	if h.backing.saves != 1 {
		t.Fatalf("expected one save, got %d", h.backing.saves)
	}
	if !h.backing.last.BDAChannels.Contains(123456789012345678) {
		t.Fatalf("expected channel persisted, got %v", h.backing.last.BDAChannels)
	}
}

func TestConfigCommandAddIsIdempotent(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.REFChannels = domain.IDList{123456789012345678}
	h := newHarness(t, cfg)
	h.platform.addChannel(123456789012345678)

	h.run(t, NewConfigCommand(h.deps), operator(), configParams("add", "ref", waitingID))

	if h.backing.saves != 0 {
		t.Fatalf("expected no save for duplicate add, got %d", h.backing.saves)
	}
	if got := h.lastMessage(t); !strings.Contains(got, "déjà inscrit") {
		t.Fatalf("unexpected reply: %s", got)
	}
	if len(h.state.Snapshot().REFChannels) != 1 {
		t.Fatalf("expected a single entry")
	}
}

func TestConfigCommandRejectsOtherModeConflict(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.BDAChannels = domain.IDList{123456789012345678}
	h := newHarness(t, cfg)
	h.platform.addChannel(123456789012345678)

	h.run(t, NewConfigCommand(h.deps), operator(), configParams("ADD", "INVISIBLE", waitingID))

	snapshot := h.state.Snapshot()
	if len(snapshot.InvisibleChannels) != 0 {
		t.Fatalf("expected conflict to leave INVISIBLE untouched, got %v", snapshot.InvisibleChannels)
	}
	if got := h.lastMessage(t); !strings.Contains(got, "Retirez-le") {
		t.Fatalf("unexpected reply: %s", got)
	}
}

func TestConfigCommandRemove(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.BDAChannels = domain.IDList{123456789012345678, 223456789012345678}
	h := newHarness(t, cfg)
	h.platform.addChannel(123456789012345678)

	h.run(t, NewConfigCommand(h.deps), operator(), configParams("REMOVE", "BDA", waitingID))

	if got := h.backing.last.BDAChannels; len(got) != 1 || got[0] != 223456789012345678 {
		t.Fatalf("unexpected list after remove: %v", got)
	}

	h.run(t, NewConfigCommand(h.deps), operator(), configParams("REMOVE", "BDA", waitingID))
	if got := h.lastMessage(t); !strings.Contains(got, "n'est pas inscrit") {
		t.Fatalf("unexpected reply: %s", got)
	}
	if h.backing.saves != 1 {
		t.Fatalf("expected a single save, got %d", h.backing.saves)
	}
}

func TestConfigCommandValidation(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"bad action", configParams("TOGGLE", "BDA", waitingID), "Action invalide"},
		{"bad mode", configParams("ADD", "VIP", waitingID), "Type de configuration invalide"},
		{"letters", configParams("ADD", "BDA", "12345678901234567a"), "L'ID du salon n'est pas correct."},
		{"too short", configParams("ADD", "BDA", "12345"), "L'ID du salon n'est pas correct."},
		{"too long", configParams("ADD", "BDA", "12345678901234567890"), "L'ID du salon n'est pas correct."},
		{"unknown channel", configParams("ADD", "BDA", "999999999999999999"), "Ce salon n'existe pas."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.platform.addChannel(123456789012345678)

			h.run(t, NewConfigCommand(h.deps), operator(), tt.params)

			if got := h.lastError(t); !strings.Contains(got, tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if h.backing.saves != 0 {
				t.Fatalf("expected no save, got %d", h.backing.saves)
			}
		})
	}
}

func TestConfigCommandDeniesUnauthorized(t *testing.T) {
	h := newHarness(t, nil)
	h.platform.addChannel(123456789012345678)

	h.run(t, NewConfigCommand(h.deps), outsider(), configParams("ADD", "BDA", waitingID))

	if got := h.lastError(t); got != "Vous n'avez pas les permissions de faire cela." {
		t.Fatalf("unexpected denial: %s", got)
	}
	if len(h.state.Snapshot().BDAChannels) != 0 {
		t.Fatalf("expected no mutation")
	}
}

func TestConfigCommandAdministratorBypassesRoles(t *testing.T) {
	h := newHarness(t, nil)
	h.platform.addChannel(123456789012345678)
	admin := outsider()
	admin.Administrator = true

	h.run(t, NewConfigCommand(h.deps), admin, configParams("ADD", "BDA", waitingID))

	if len(h.state.Snapshot().BDAChannels) != 1 {
		t.Fatalf("expected administrator to configure the channel")
	}
}
