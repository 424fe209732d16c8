package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/store"
	"github.com/kapu/voicebot-go/pkg/errors"
	"go.uber.org/zap"
)

// Manager provisions temporary voice channels when members join a waiting
// channel and deletes them once they are empty.
type Manager struct {
	platform domain.Platform
	state    *store.State
	logger   *zap.Logger
	timeout  time.Duration
}

type ManagerConfig struct {
	// PlatformTimeout bounds every individual platform call. Zero disables it.
	PlatformTimeout time.Duration
}

func NewManager(platform domain.Platform, state *store.State, logger *zap.Logger, cfg ManagerConfig) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		platform: platform,
		state:    state,
		logger:   logger,
		timeout:  cfg.PlatformTimeout,
	}
}

// HandleVoiceStateChange runs provisioning for the destination channel and
// teardown for the origin channel. A platform failure aborts the rest of the
// event and leaves the configuration untouched.
func (m *Manager) HandleVoiceStateChange(ctx context.Context, change domain.VoiceStateChange) error {
	if !change.Moved() {
		return nil
	}

	cfg := m.state.Snapshot()
	if !cfg.HasWaitingChannels() {
		return nil
	}

	if !change.After.IsZero() {
		if mode, ok := cfg.ModeFor(change.After); ok {
			if err := m.provision(ctx, change, mode, cfg); err != nil {
				return err
			}
		}
	}

	if !change.Before.IsZero() {
		return m.teardown(ctx, change.Member.GuildID, change.Before)
	}
	return nil
}

func (m *Manager) provision(ctx context.Context, change domain.VoiceStateChange, mode domain.ProvisioningMode, cfg *domain.Configuration) error {
	member := change.Member
	logger := m.logger.With(
		zap.String("mode", mode.String()),
		zap.String("member", member.UserID.String()),
		zap.String("waiting_channel", change.After.String()),
	)

	waiting, err := m.lookupChannel(ctx, change.After)
	if err != nil {
		return err
	}
	if waiting == nil {
		return errors.NewPlatformError("resolve waiting channel", true, fmt.Errorf("channel %s not found", change.After))
	}

	existing, err := m.existingRoles(ctx, member.GuildID, cfg)
	if err != nil {
		return err
	}

	overlay, err := BuildOverlay(mode, member, cfg, func(id domain.Snowflake) bool {
		_, ok := existing[id]
		return ok
	})
	if err != nil {
		return err
	}

	name := ChannelName(mode, member.DisplayName)
	created, err := m.createChannel(ctx, mode, waiting, name, overlay)
	if err != nil {
		return err
	}

	callCtx, cancel := m.callContext(ctx)
	err = m.platform.MoveMember(callCtx, member.GuildID, member.UserID, created.ID)
	cancel()
	if err != nil {
		m.discard(ctx, created.ID, logger)
		return err
	}

	if err := m.state.Update(ctx, func(c *domain.Configuration) bool {
		return c.TemporaryChannels.Add(created.ID)
	}); err != nil {
		logger.Error("Failed to persist temporary channel", zap.String("channel", created.ID.String()), zap.Error(err))
		return err
	}

	logger.Info("Temporary channel provisioned",
		zap.String("channel", created.ID.String()),
		zap.String("name", name),
		zap.Int("overwrites", len(overlay)),
	)
	return nil
}

// createChannel creates a fresh channel (BDA) or clones the waiting channel and
// applies every overwrite to the clone (REF, INVISIBLE).
func (m *Manager) createChannel(ctx context.Context, mode domain.ProvisioningMode, waiting *domain.Channel, name string, overlay domain.Overlay) (*domain.Channel, error) {
	reason := mode.String()

	if !mode.Clones() {
		callCtx, cancel := m.callContext(ctx)
		defer cancel()
		return m.platform.CreateVoiceChannel(callCtx, waiting.GuildID, name, waiting.ParentID, overlay, reason)
	}

	callCtx, cancel := m.callContext(ctx)
	clone, err := m.platform.CloneChannel(callCtx, waiting, name, reason)
	cancel()
	if err != nil {
		return nil, err
	}

	for _, ow := range overlay {
		callCtx, cancel := m.callContext(ctx)
		err := m.platform.SetPermissions(callCtx, clone.ID, ow)
		cancel()
		if err != nil {
			m.discard(ctx, clone.ID, m.logger)
			return nil, err
		}
	}
	return clone, nil
}

func (m *Manager) teardown(ctx context.Context, guildID, channelID domain.Snowflake) error {
	tracked := false
	m.state.View(func(cfg *domain.Configuration) {
		tracked = cfg.TemporaryChannels.Contains(channelID)
	})
	if !tracked {
		return nil
	}

	callCtx, cancel := m.callContext(ctx)
	occupants, err := m.platform.Occupants(callCtx, guildID, channelID)
	cancel()
	if err != nil {
		return err
	}
	if occupants > 0 {
		return nil
	}

	callCtx, cancel = m.callContext(ctx)
	err = m.platform.DeleteChannel(callCtx, channelID)
	cancel()
	if err != nil && !errors.IsNotFound(err) {
		return err
	}

	if err := m.state.Update(ctx, func(cfg *domain.Configuration) bool {
		return cfg.TemporaryChannels.Remove(channelID)
	}); err != nil {
		m.logger.Error("Failed to persist temporary channel removal", zap.String("channel", channelID.String()), zap.Error(err))
		return err
	}

	m.logger.Info("Temporary channel deleted", zap.String("channel", channelID.String()))
	return nil
}

func (m *Manager) existingRoles(ctx context.Context, guildID domain.Snowflake, cfg *domain.Configuration) (map[domain.Snowflake]struct{}, error) {
	existing := make(map[domain.Snowflake]struct{})
	for _, id := range CandidateRoles(cfg) {
		callCtx, cancel := m.callContext(ctx)
		role, err := m.platform.Role(callCtx, guildID, id)
		cancel()
		if err != nil {
			return nil, err
		}
		if role != nil {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *Manager) lookupChannel(ctx context.Context, id domain.Snowflake) (*domain.Channel, error) {
	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	return m.platform.Channel(callCtx, id)
}

// discard removes a channel created during a provisioning attempt that could
// not complete. The channel was never tracked, so only the platform is touched.
func (m *Manager) discard(ctx context.Context, channelID domain.Snowflake, logger *zap.Logger) {
	callCtx, cancel := m.callContext(ctx)
	defer cancel()
	if err := m.platform.DeleteChannel(callCtx, channelID); err != nil {
		logger.Warn("Failed to discard incomplete temporary channel",
			zap.String("channel", channelID.String()),
			zap.Error(err),
		)
	}
}

func (m *Manager) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}
