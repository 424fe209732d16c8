package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/kapu/voicebot-go/internal/adapter"
	"github.com/kapu/voicebot-go/internal/command"
	"github.com/kapu/voicebot-go/internal/config"
	"github.com/kapu/voicebot-go/internal/constants"
	"github.com/kapu/voicebot-go/internal/discord"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/service/cache"
	"github.com/kapu/voicebot-go/internal/service/lifecycle"
	"github.com/kapu/voicebot-go/internal/store"
	"go.uber.org/zap"
)

// Dependencies holds the services a Bot is assembled from.
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Session   *discordgo.Session
	State     *store.State
	Platform  domain.Platform
	Manager   *lifecycle.Manager
	Formatter *adapter.ResponseFormatter
	Cache     *cache.CacheService
}

type Bot struct {
	config    *config.Config
	logger    *zap.Logger
	session   *discordgo.Session
	responder discord.Responder
	manager   *lifecycle.Manager
	formatter *adapter.ResponseFormatter
	cache     *cache.CacheService
	registry  *command.Registry
	queue     *eventQueue

	runCtx       context.Context
	registerOnce sync.Once
	removers     []func()

	repliesMu sync.Mutex
	replies   map[*domain.CommandContext]*pendingReply
}

// pendingReply is a deferred interaction awaiting its answer.
type pendingReply struct {
	interaction *discordgo.Interaction
	answered    bool
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies must not be nil")
	}
	if deps.Config == nil || deps.Session == nil || deps.State == nil || deps.Platform == nil || deps.Manager == nil {
		return nil, fmt.Errorf("bot dependencies incomplete")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	formatter := deps.Formatter
	if formatter == nil {
		formatter = adapter.NewResponseFormatter()
	}

	b := &Bot{
		config:    deps.Config,
		logger:    logger,
		session:   deps.Session,
		responder: deps.Session,
		manager:   deps.Manager,
		formatter: formatter,
		cache:     deps.Cache,
		queue:     newEventQueue(deps.Config.Runtime.EventQueueSize, logger),
		replies:   make(map[*domain.CommandContext]*pendingReply),
	}

	b.registry = command.NewDefaultRegistry(&command.Dependencies{
		State:       deps.State,
		Platform:    deps.Platform,
		Formatter:   formatter,
		SendMessage: b.sendMessage,
		SendError:   b.sendError,
		Logger:      logger,
	})

	logger.Info("Bot initialized", zap.Int("commands", b.registry.Count()))
	return b, nil
}

// Start opens the gateway session and processes events until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	// Jobs still queued at shutdown must finish even though ctx is cancelled.
	b.runCtx = context.WithoutCancel(ctx)

	b.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	b.removers = append(b.removers,
		b.session.AddHandler(b.onReady),
		b.session.AddHandler(b.onVoiceStateUpdate),
		b.session.AddHandler(b.onInteractionCreate),
	)

	go b.queue.Run(b.runCtx)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	b.logger.Info("Discord session opened")

	<-ctx.Done()
	return nil
}

// Shutdown drains pending events and closes the session and cache.
func (b *Bot) Shutdown(ctx context.Context) error {
	for _, remove := range b.removers {
		remove()
	}

	drainCtx, cancel := context.WithTimeout(ctx, constants.BotConfig.ShutdownDrainTimeout)
	defer cancel()
	if err := b.queue.Close(drainCtx); err != nil {
		b.logger.Warn("Event queue did not drain before shutdown", zap.Error(err))
	}

	var firstErr error
	if err := b.session.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close discord session: %w", err)
	}
	if b.cache != nil {
		if err := b.cache.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close cache: %w", err)
		}
	}
	return firstErr
}

func (b *Bot) context() context.Context {
	if b.runCtx != nil {
		return b.runCtx
	}
	return context.Background()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	username := ""
	if r.User != nil {
		username = r.User.Username
	}
	b.logger.Info("Connected to gateway",
		zap.String("user", username),
		zap.Int("guilds", len(r.Guilds)),
	)
	for _, g := range r.Guilds {
		name := g.Name
		if cached, err := s.State.Guild(g.ID); err == nil && cached.Name != "" {
			name = cached.Name
		}
		b.logger.Info("Guild available", zap.String("guild", g.ID), zap.String("name", name))
	}

	b.registerOnce.Do(func() {
		go b.registerCommands(s)
	})
}

func (b *Bot) registerCommands(s *discordgo.Session) {
	ctx, cancel := context.WithTimeout(b.context(), 30*time.Second)
	defer cancel()

	defs := discord.ApplicationCommands(b.registry.Commands())
	err := discord.RegisterCommands(ctx, s, b.config.Discord.GuildID, defs,
		constants.BotConfig.CommandRegistrationConcurrency, b.logger)
	if err != nil {
		b.logger.Error("Failed to register slash commands", zap.Error(err))
		return
	}
	b.logger.Info("Slash commands registered",
		zap.Int("count", len(defs)),
		zap.String("guild", b.config.Discord.GuildID),
	)
}

func (b *Bot) onVoiceStateUpdate(_ *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	change := discord.ToVoiceStateChange(vs)
	if !change.Moved() {
		return
	}
	b.queue.Submit(job{
		name: "voice_state_update",
		run: func(ctx context.Context) error {
			return b.manager.HandleVoiceStateChange(ctx, change)
		},
	})
}

func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	key, cmdCtx, params, ok := discord.DecodeInteraction(i)
	if !ok {
		return
	}

	// Acknowledge before queueing: voice events ahead of the command may take
	// longer than the acknowledgement window.
	interaction := i.Interaction
	if err := discord.Defer(b.context(), b.responder, interaction); err != nil {
		b.logger.Warn("Failed to acknowledge interaction", zap.String("command", key), zap.Error(err))
		return
	}

	accepted := b.queue.Submit(job{
		name: key,
		run: func(ctx context.Context) error {
			b.trackReply(cmdCtx, interaction)
			defer b.finishReply(cmdCtx)

			b.logger.Info("Executing command",
				zap.String("command", key),
				zap.String("user", cmdCtx.Invoker.UserID.String()),
			)
			return b.registry.Execute(ctx, cmdCtx, key, params)
		},
	})
	if !accepted {
		if err := discord.Reply(b.context(), b.responder, interaction, b.formatter.InternalError(), true); err != nil {
			b.logger.Warn("Failed to reject interaction", zap.Error(err))
		}
	}
}

func (b *Bot) trackReply(cmdCtx *domain.CommandContext, i *discordgo.Interaction) {
	b.repliesMu.Lock()
	defer b.repliesMu.Unlock()
	b.replies[cmdCtx] = &pendingReply{interaction: i}
}

// finishReply forgets the interaction and answers it with a generic error
// when the command returned without replying.
func (b *Bot) finishReply(cmdCtx *domain.CommandContext) {
	b.repliesMu.Lock()
	pending, ok := b.replies[cmdCtx]
	delete(b.replies, cmdCtx)
	b.repliesMu.Unlock()
	if !ok || pending.answered {
		return
	}
	if err := discord.Reply(b.context(), b.responder, pending.interaction, b.formatter.InternalError(), true); err != nil {
		b.logger.Warn("Failed to close unanswered interaction", zap.Error(err))
	}
}

func (b *Bot) reply(cmdCtx *domain.CommandContext, message string, ephemeral bool) error {
	b.repliesMu.Lock()
	pending, ok := b.replies[cmdCtx]
	if ok {
		pending.answered = true
	}
	b.repliesMu.Unlock()
	if !ok {
		return fmt.Errorf("no pending interaction for %s", cmdCtx.Command)
	}
	return discord.Reply(b.context(), b.responder, pending.interaction, message, ephemeral)
}

func (b *Bot) sendMessage(cmdCtx *domain.CommandContext, message string) error {
	return b.reply(cmdCtx, message, false)
}

func (b *Bot) sendError(cmdCtx *domain.CommandContext, message string) error {
	return b.reply(cmdCtx, message, true)
}
