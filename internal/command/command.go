package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/voicebot-go/internal/adapter"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/service/auth"
	"github.com/kapu/voicebot-go/internal/store"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// Parameter keys filled in by the interaction decoder.
const (
	ParamAction    = "action"
	ParamType      = "type"
	ParamChannelID = "channel_id"
	ParamRoleID    = "role_id"
)

type Dependencies struct {
	State       *store.State
	Platform    domain.Platform
	Formatter   *adapter.ResponseFormatter
	SendMessage func(cmdCtx *domain.CommandContext, message string) error
	SendError   func(cmdCtx *domain.CommandContext, message string) error
	Logger      *zap.Logger
}

func (d *Dependencies) validate() error {
	if d == nil {
		return fmt.Errorf("command dependencies not configured")
	}
	if d.SendMessage == nil || d.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if d.State == nil || d.Platform == nil || d.Formatter == nil {
		return fmt.Errorf("command services not configured")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return nil
}

// authorized applies the authorization check against the live configuration.
func (d *Dependencies) authorized(cmdCtx *domain.CommandContext) bool {
	allowed := false
	d.State.View(func(cfg *domain.Configuration) {
		allowed = auth.IsAuthorized(&cmdCtx.Invoker, cfg)
	})
	if !allowed {
		d.Logger.Info("Command denied",
			zap.String("command", cmdCtx.Command.String()),
			zap.String("user", cmdCtx.Invoker.UserID.String()),
		)
	}
	return allowed
}

func (d *Dependencies) internalError(cmdCtx *domain.CommandContext, msg string, err error) error {
	d.Logger.Error(msg,
		zap.String("command", cmdCtx.Command.String()),
		zap.Error(err),
	)
	return d.SendError(cmdCtx, d.Formatter.InternalError())
}

func stringParam(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}
