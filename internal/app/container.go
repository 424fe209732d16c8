package app

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kapu/voicebot-go/internal/adapter"
	"github.com/kapu/voicebot-go/internal/bot"
	"github.com/kapu/voicebot-go/internal/config"
	"github.com/kapu/voicebot-go/internal/discord"
	"github.com/kapu/voicebot-go/internal/service/cache"
	"github.com/kapu/voicebot-go/internal/service/lifecycle"
	"github.com/kapu/voicebot-go/internal/store"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	botDeps *bot.Dependencies
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Build assembles all infrastructure services and returns a container capable of
// creating fully-wired bots. The snapshot is loaded here so that bot.NewBot
// stays focused on orchestration logic.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Optional Redis mirror of the snapshot
	var (
		cacheSvc  *cache.CacheService
		storeOpts []store.FileStoreOption
	)
	if cfg.Redis.Enabled {
		svc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			logger.Warn("Redis mirror unavailable, continuing with the snapshot file only", zap.Error(cacheErr))
		} else {
			cacheSvc = svc
			closers = append(closers, func() {
				_ = cacheSvc.Close()
			})
			storeOpts = append(storeOpts, store.WithMirror(cacheSvc, cfg.Redis.SnapshotKey))
		}
	}

	// Durable state
	fileStore := store.NewFileStore(cfg.Storage.DataFile, logger, storeOpts...)
	state := store.NewState(ctx, fileStore)
	snapshot := state.Snapshot()
	logger.Info("Configuration loaded",
		zap.String("path", fileStore.Path()),
		zap.Int("waiting_channels", len(snapshot.BDAChannels)+len(snapshot.REFChannels)+len(snapshot.InvisibleChannels)),
		zap.Int("temporary_channels", len(snapshot.TemporaryChannels)),
	)

	// Discord session and platform adapter
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	platform := discord.NewClient(session, logger)

	manager := lifecycle.NewManager(platform, state, logger, lifecycle.ManagerConfig{
		PlatformTimeout: cfg.Runtime.PlatformTimeout,
	})

	deps := &bot.Dependencies{
		Config:    cfg,
		Logger:    logger,
		Session:   session,
		State:     state,
		Platform:  platform,
		Manager:   manager,
		Formatter: adapter.NewResponseFormatter(),
		Cache:     cacheSvc,
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		botDeps: deps,
	}, nil
}
