package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kapu/voicebot-go/internal/command"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

func choices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return out
}

func actionOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        command.ParamAction,
		Description: "ADD ou REMOVE",
		Required:    true,
		Choices:     choices(string(domain.ActionAdd), string(domain.ActionRemove)),
	}
}

// ApplicationCommands returns the slash command definitions for every
// registered handler.
func ApplicationCommands(handlers []command.Command) []*discordgo.ApplicationCommand {
	modes := make([]string, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		modes = append(modes, m.String())
	}
	categories := make([]string, 0, len(domain.RoleCategories))
	for _, c := range domain.RoleCategories {
		categories = append(categories, c.String())
	}

	options := map[string][]*discordgo.ApplicationCommandOption{
		domain.CommandConfigure.String(): {
			actionOption(),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        command.ParamType,
				Description: "Type de salon d'attente",
				Required:    true,
				Choices:     choices(modes...),
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        command.ParamChannelID,
				Description: "ID du salon vocal d'attente",
				Required:    true,
			},
		},
		domain.CommandManage.String(): {
			actionOption(),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        command.ParamType,
				Description: "Catégorie de rôle",
				Required:    true,
				Choices:     choices(categories...),
			},
			{
				Type:        discordgo.ApplicationCommandOptionRole,
				Name:        command.ParamRoleID,
				Description: "Rôle concerné",
				Required:    true,
			},
		},
	}

	out := make([]*discordgo.ApplicationCommand, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, &discordgo.ApplicationCommand{
			Name:        h.Name(),
			Description: h.Description(),
			Options:     options[h.Name()],
		})
	}
	return out
}

// RegisterCommands creates every command on the guild concurrently. An empty
// guildID registers global commands.
func RegisterCommands(ctx context.Context, session *discordgo.Session, guildID string, defs []*discordgo.ApplicationCommand, concurrency int, logger *zap.Logger) error {
	if session.State == nil || session.State.User == nil {
		return fmt.Errorf("session not ready: application id unknown")
	}
	appID := session.State.User.ID

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(concurrency)
	for _, def := range defs {
		p.Go(func(ctx context.Context) error {
			if _, err := session.ApplicationCommandCreate(appID, guildID, def, discordgo.WithContext(ctx)); err != nil {
				return wrapError("register command "+def.Name, err)
			}
			logger.Debug("Slash command registered", zap.String("command", def.Name))
			return nil
		})
	}
	return p.Wait()
}

// DecodeInteraction turns an application command interaction into a command
// key, its invocation context and its parameters. ok is false for anything
// other than a guild slash command.
func DecodeInteraction(i *discordgo.InteractionCreate) (key string, cmdCtx *domain.CommandContext, params map[string]any, ok bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand || i.Member == nil {
		return "", nil, nil, false
	}

	data := i.ApplicationCommandData()
	params = make(map[string]any, len(data.Options))
	for _, opt := range data.Options {
		switch v := opt.Value.(type) {
		case string:
			params[opt.Name] = v
		case nil:
		default:
			params[opt.Name] = fmt.Sprint(v)
		}
	}

	userID := ""
	if i.Member.User != nil {
		userID = i.Member.User.ID
	}
	invoker := toMember(i.GuildID, userID, i.Member, i.Member.Permissions)

	cmdType := domain.CommandType(data.Name)
	if !cmdType.IsValid() {
		cmdType = domain.CommandUnknown
	}
	return data.Name, domain.NewCommandContext(parseID(i.GuildID), invoker, cmdType), params, true
}

// Responder is the subset of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Defer acknowledges an interaction without content. It must be sent within
// the platform's acknowledgement window; the answer follows through Reply.
func Defer(ctx context.Context, r Responder, i *discordgo.Interaction) error {
	err := r.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	return wrapError("defer reply", err)
}

// Reply answers a deferred interaction. A public reply replaces the pending
// response; an ephemeral one removes it and is sent as a followup only the
// invoker can see.
func Reply(ctx context.Context, r Responder, i *discordgo.Interaction, content string, ephemeral bool) error {
	if !ephemeral {
		_, err := r.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}, discordgo.WithContext(ctx))
		return wrapError("reply", err)
	}

	if err := r.InteractionResponseDelete(i, discordgo.WithContext(ctx)); err != nil {
		return wrapError("reply", err)
	}
	_, err := r.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	return wrapError("reply", err)
}
