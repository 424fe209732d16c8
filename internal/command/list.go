package command

import (
	"context"

	"github.com/kapu/voicebot-go/internal/adapter"
	"github.com/kapu/voicebot-go/internal/domain"
)

// ListConfigCommand renders the whole configuration.
type ListConfigCommand struct {
	deps *Dependencies
}

func NewListConfigCommand(deps *Dependencies) *ListConfigCommand {
	return &ListConfigCommand{deps: deps}
}

func (c *ListConfigCommand) Name() string {
	return domain.CommandListConfig.String()
}

func (c *ListConfigCommand) Description() string {
	return "Liste toutes les configurations et rôles"
}

func (c *ListConfigCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if err := c.deps.validate(); err != nil {
		return err
	}
	if !c.deps.authorized(cmdCtx) {
		return c.deps.SendError(cmdCtx, c.deps.Formatter.PermissionDenied())
	}

	cfg := c.deps.State.Snapshot()
	report := adapter.ConfigReport{
		BDA:       adapter.ChannelMentions(cfg.BDAChannels),
		REF:       adapter.ChannelMentions(cfg.REFChannels),
		Invisible: adapter.ChannelMentions(cfg.InvisibleChannels),
		Temporary: adapter.ChannelMentions(cfg.TemporaryChannels),
	}

	for _, section := range []struct {
		ids  domain.IDList
		dest *[]string
	}{
		{cfg.AllowedRoles, &report.Allowed},
		{cfg.CommandRoles, &report.Command},
		{cfg.ManageRoles, &report.Manage},
		{cfg.CitizenRoles, &report.Citizens},
	} {
		names, err := c.roleNames(ctx, cmdCtx.GuildID, section.ids)
		if err != nil {
			return c.deps.internalError(cmdCtx, "Failed to resolve roles", err)
		}
		*section.dest = names
	}

	return c.deps.SendMessage(cmdCtx, c.deps.Formatter.ConfigReport(report))
}

// roleNames resolves ids to role names, dropping roles that no longer exist.
func (c *ListConfigCommand) roleNames(ctx context.Context, guildID domain.Snowflake, ids domain.IDList) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		role, err := c.deps.Platform.Role(ctx, guildID, id)
		if err != nil {
			return nil, err
		}
		if role != nil {
			names = append(names, role.Name)
		}
	}
	return names, nil
}
