package command

import (
	"errors"
	"testing"

	"github.com/kapu/voicebot-go/internal/domain"
)

func TestClearCommandDropsStaleAndKeepsOccupied(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.TemporaryChannels = domain.IDList{501, 502}
	h := newHarness(t, cfg)
	h.platform.addChannel(502)
	h.platform.occupants[502] = 3

	h.run(t, NewClearCommand(h.deps), operator(), nil)

	if got := h.lastMessage(t); got != "Aucun salon vide trouvé à supprimer." {
		t.Fatalf("unexpected reply: %s", got)
	}
	if got := h.backing.last.TemporaryChannels; len(got) != 1 || got[0] != 502 {
		t.Fatalf("expected only the occupied channel to remain, got %v", got)
	}
	if len(h.platform.deletes) != 0 {
		t.Fatalf("expected no deletion, got %v", h.platform.deletes)
	}
}

func TestClearCommandDeletesEmptyChannels(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.TemporaryChannels = domain.IDList{601, 602, 603}
	h := newHarness(t, cfg)
	h.platform.addChannel(601)
	h.platform.addChannel(602)
	h.platform.addChannel(603)
	h.platform.occupants[602] = 1

	h.run(t, NewClearCommand(h.deps), operator(), nil)

	if got := h.lastMessage(t); got != "Tous les salons vides ont été supprimés." {
		t.Fatalf("unexpected reply: %s", got)
	}
	if len(h.platform.deletes) != 2 {
		t.Fatalf("expected two deletions, got %v", h.platform.deletes)
	}
	if got := h.state.Snapshot().TemporaryChannels; len(got) != 1 || got[0] != 602 {
		t.Fatalf("unexpected remaining channels: %v", got)
	}
}

func TestClearCommandPersistsEvenWhenNothingChanged(t *testing.T) {
	h := newHarness(t, nil)

	h.run(t, NewClearCommand(h.deps), operator(), nil)

	if h.backing.saves != 1 {
		t.Fatalf("expected an unconditional save, got %d", h.backing.saves)
	}
}

func TestClearCommandStopsOnPlatformError(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.TemporaryChannels = domain.IDList{701}
	h := newHarness(t, cfg)
	h.platform.lookupErr = errors.New("rate limited")

	h.run(t, NewClearCommand(h.deps), operator(), nil)

	if got := h.lastError(t); got != h.deps.Formatter.InternalError() {
		t.Fatalf("unexpected reply: %s", got)
	}
	if len(h.state.Snapshot().TemporaryChannels) != 1 {
		t.Fatalf("expected tracked channel kept after failure")
	}
}

func TestClearCommandDeniesUnauthorized(t *testing.T) {
	cfg := domain.NewConfiguration()
	cfg.TemporaryChannels = domain.IDList{801}
	h := newHarness(t, cfg)

	h.run(t, NewClearCommand(h.deps), outsider(), nil)

	if h.backing.saves != 0 || len(h.state.Snapshot().TemporaryChannels) != 1 {
		t.Fatalf("expected no mutation on denial")
	}
}
