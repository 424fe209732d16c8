package command

import (
	"context"
	"errors"
	"testing"

	"github.com/kapu/voicebot-go/internal/domain"
)

func TestDefaultRegistryRegistersCommands(t *testing.T) {
	h := newHarness(t, nil)
	registry := NewDefaultRegistry(h.deps)

	if registry.Count() != 4 {
		t.Fatalf("expected 4 commands, got %d", registry.Count())
	}

	want := []string{"vb_clear", "vb_config", "vb_list_config", "vb_manage"}
	for i, cmd := range registry.Commands() {
		if cmd.Name() != want[i] {
			t.Fatalf("command %d: expected %s, got %s", i, want[i], cmd.Name())
		}
	}
}

func TestRegistryExecuteUnknownCommand(t *testing.T) {
	registry := NewRegistry()
	cmdCtx := domain.NewCommandContext(testGuild, operator(), domain.CommandUnknown)

	err := registry.Execute(context.Background(), cmdCtx, "vb_nope", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestRegistryExecuteIsCaseInsensitive(t *testing.T) {
	h := newHarness(t, nil)
	registry := NewDefaultRegistry(h.deps)
	cmdCtx := domain.NewCommandContext(testGuild, operator(), domain.CommandClear)

	if err := registry.Execute(context.Background(), cmdCtx, "VB_CLEAR", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.messages) != 1 {
		t.Fatalf("expected clear reply, got %v", h.messages)
	}
}
