package command

import (
	"context"

	"github.com/kapu/voicebot-go/internal/constants"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/util"
	"github.com/kapu/voicebot-go/pkg/errors"
	"go.uber.org/zap"
)

// ConfigCommand adds or removes a waiting channel for a provisioning mode.
type ConfigCommand struct {
	deps *Dependencies
}

func NewConfigCommand(deps *Dependencies) *ConfigCommand {
	return &ConfigCommand{deps: deps}
}

func (c *ConfigCommand) Name() string {
	return domain.CommandConfigure.String()
}

func (c *ConfigCommand) Description() string {
	return "Configurer les paramètres d'attente (BDA, REF, INVISIBLE)"
}

func (c *ConfigCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}
	if !c.deps.authorized(cmdCtx) {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.PermissionDenied())
	}

	action, err := domain.ParseAction(stringParam(params, ParamAction))
	if err != nil {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.InvalidAction())
	}
	mode, err := domain.ParseProvisioningMode(stringParam(params, ParamType))
	if err != nil {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.InvalidMode())
	}

	channelID, err := parseChannelID(stringParam(params, ParamChannelID))
	if err != nil {
		c.deps.Logger.Debug("Rejected channel id", zap.Error(err))
		return c.deps.SendError(cmdCtx, c.deps.Formatter.InvalidChannelID())
	}

	channel, err := c.deps.Platform.Channel(ctx, channelID)
	if err != nil {
		return c.deps.internalError(cmdCtx, "Failed to resolve channel", err)
	}
	if channel == nil || (!cmdCtx.GuildID.IsZero() && channel.GuildID != cmdCtx.GuildID) {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.UnknownChannel())
	}

	var (
		changed  bool
		conflict domain.ProvisioningMode
	)
	err = c.deps.State.Update(ctx, func(cfg *domain.Configuration) bool {
		if action == domain.ActionAdd {
			if existing, ok := cfg.ModeFor(channelID); ok && existing != mode {
				conflict = existing
				return false
			}
			changed = cfg.WaitingChannels(mode).Add(channelID)
			return changed
		}
		changed = cfg.WaitingChannels(mode).Remove(channelID)
		return changed
	})
	if err != nil {
		return c.deps.internalError(cmdCtx, "Failed to persist waiting channel", err)
	}

	if conflict != "" {
		return c.deps.SendMessage(cmdCtx, c.deps.Formatter.WaitingChannelConflict(channelID, conflict))
	}

	if changed {
		c.deps.Logger.Info("Waiting channel updated",
			zap.String("action", string(action)),
			zap.String("mode", mode.String()),
			zap.String("channel", channelID.String()),
		)
	}
	return c.deps.SendMessage(cmdCtx, c.deps.Formatter.WaitingChannelResult(action, mode, channelID, changed))
}

// parseChannelID accepts only the decimal form of a platform channel id.
func parseChannelID(raw string) (domain.Snowflake, error) {
	if !util.IsDigits(raw) || len(raw) < constants.ChannelIDLength.Min || len(raw) > constants.ChannelIDLength.Max {
		return 0, errors.NewValidationError("channel id must be 18 or 19 digits", ParamChannelID, raw)
	}
	id, err := domain.ParseSnowflake(raw)
	if err != nil {
		return 0, errors.NewValidationError("channel id out of range", ParamChannelID, raw)
	}
	return id, nil
}
