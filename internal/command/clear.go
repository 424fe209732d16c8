package command

import (
	"context"

	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/pkg/errors"
	"go.uber.org/zap"
)

// ClearCommand deletes empty temporary channels and forgets stale ones.
type ClearCommand struct {
	deps *Dependencies
}

func NewClearCommand(deps *Dependencies) *ClearCommand {
	return &ClearCommand{deps: deps}
}

func (c *ClearCommand) Name() string {
	return domain.CommandClear.String()
}

func (c *ClearCommand) Description() string {
	return "Nettoyer les salons vides"
}

func (c *ClearCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}
	if !c.deps.authorized(cmdCtx) {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.PermissionDenied())
	}

	tracked := c.deps.State.Snapshot().TemporaryChannels
	removed := make([]domain.Snowflake, 0, len(tracked))
	deleted := 0

	var sweepErr error
	for _, id := range tracked {
		gone, err := c.sweep(ctx, id)
		if err != nil {
			sweepErr = err
			break
		}
		switch gone {
		case sweepDeleted:
			deleted++
			removed = append(removed, id)
		case sweepStale:
			removed = append(removed, id)
		}
	}

	if err := c.deps.State.Update(ctx, func(cfg *domain.Configuration) bool {
		for _, id := range removed {
			cfg.TemporaryChannels.Remove(id)
		}
		return true
	}); err != nil {
		return c.deps.internalError(cmdCtx, "Failed to persist cleanup", err)
	}

	c.deps.Logger.Info("Temporary channels swept",
		zap.Int("tracked", len(tracked)),
		zap.Int("removed", len(removed)),
		zap.Int("deleted", deleted),
	)

	if sweepErr != nil {
		return c.deps.internalError(cmdCtx, "Cleanup aborted", sweepErr)
	}
	return c.deps.SendMessage(cmdCtx, c.deps.Formatter.ClearResult(deleted))
}

type sweepOutcome int

const (
	sweepKept sweepOutcome = iota
	sweepStale
	sweepDeleted
)

func (c *ClearCommand) sweep(ctx context.Context, id domain.Snowflake) (sweepOutcome, error) {
	channel, err := c.deps.Platform.Channel(ctx, id)
	if err != nil {
		return sweepKept, err
	}
	if channel == nil {
		return sweepStale, nil
	}

	occupants, err := c.deps.Platform.Occupants(ctx, channel.GuildID, id)
	if err != nil {
		return sweepKept, err
	}
	if occupants > 0 {
		return sweepKept, nil
	}

	if err := c.deps.Platform.DeleteChannel(ctx, id); err != nil {
		if errors.IsNotFound(err) {
			return sweepStale, nil
		}
		return sweepKept, err
	}
	return sweepDeleted, nil
}
