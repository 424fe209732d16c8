package command

import (
	"context"

	"github.com/kapu/voicebot-go/internal/domain"
	"go.uber.org/zap"
)

// ManageCommand adds or removes a role from one of the role categories.
type ManageCommand struct {
	deps *Dependencies
}

func NewManageCommand(deps *Dependencies) *ManageCommand {
	return &ManageCommand{deps: deps}
}

func (c *ManageCommand) Name() string {
	return domain.CommandManage.String()
}

func (c *ManageCommand) Description() string {
	return "Gérer les rôles pour les paramètres (permissions)"
}

func (c *ManageCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
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
	category, err := domain.ParseRoleCategory(stringParam(params, ParamType))
	if err != nil {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.InvalidCategory())
	}

	roleID, err := domain.ParseSnowflake(stringParam(params, ParamRoleID))
	if err != nil {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.UnknownRole())
	}
	role, err := c.deps.Platform.Role(ctx, cmdCtx.GuildID, roleID)
	if err != nil {
		return c.deps.internalError(cmdCtx, "Failed to resolve role", err)
	}
	if role == nil {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.UnknownRole())
	}

	changed := false
	err = c.deps.State.Update(ctx, func(cfg *domain.Configuration) bool {
		roles := cfg.Roles(category)
		if action == domain.ActionAdd {
			changed = roles.Add(roleID)
		} else {
			changed = roles.Remove(roleID)
		}
		return changed
	})
	if err != nil {
		return c.deps.internalError(cmdCtx, "Failed to persist role assignment", err)
	}

	if changed {
		c.deps.Logger.Info("Role assignment updated",
			zap.String("action", string(action)),
			zap.String("category", category.String()),
			zap.String("role", roleID.String()),
		)
	}
	return c.deps.SendMessage(cmdCtx, c.deps.Formatter.RoleResult(action, category, role.Name, changed))
}
