package discord

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/pkg/errors"
	"go.uber.org/zap"
)

// restAPI is the subset of *discordgo.Session REST calls used by Client.
type restAPI interface {
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	GuildMemberMove(guildID string, userID string, channelID *string, options ...discordgo.RequestOption) error
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
}

// Client implements domain.Platform on top of a discordgo session. Lookups are
// answered from the gateway state cache first and fall back to REST.
type Client struct {
	rest   restAPI
	state  *discordgo.State
	logger *zap.Logger
}

func NewClient(session *discordgo.Session, logger *zap.Logger) *Client {
	return newClient(session, session.State, logger)
}

func newClient(rest restAPI, state *discordgo.State, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{rest: rest, state: state, logger: logger}
}

func requestOptions(ctx context.Context, reason string) []discordgo.RequestOption {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return opts
}

func (c *Client) CreateVoiceChannel(ctx context.Context, guildID domain.Snowflake, name string, parentID domain.Snowflake, overlay domain.Overlay, reason string) (*domain.Channel, error) {
	data := discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildVoice,
		PermissionOverwrites: toPermissionOverwrites(overlay),
	}
	if !parentID.IsZero() {
		data.ParentID = parentID.String()
	}

	ch, err := c.rest.GuildChannelCreateComplex(guildID.String(), data, requestOptions(ctx, reason)...)
	if err != nil {
		return nil, wrapError("create channel", err)
	}
	c.logger.Debug("Voice channel created", zap.String("channel", ch.ID), zap.String("name", name))
	return toChannel(ch), nil
}

// CloneChannel creates a channel copying the source's type, category,
// position, bitrate, user limit and permission overwrites under a new name.
func (c *Client) CloneChannel(ctx context.Context, source *domain.Channel, name, reason string) (*domain.Channel, error) {
	if source == nil {
		return nil, errors.NewPlatformError("clone channel", true, fmt.Errorf("source channel is nil"))
	}
	src, err := c.rawChannel(ctx, source.ID)
	if err != nil {
		return nil, wrapError("clone channel", err)
	}
	if src == nil {
		return nil, errors.NewPlatformError("clone channel", true, fmt.Errorf("channel %s not found", source.ID))
	}

	data := discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 src.Type,
		Topic:                src.Topic,
		Bitrate:              src.Bitrate,
		UserLimit:            src.UserLimit,
		RateLimitPerUser:     src.RateLimitPerUser,
		Position:             src.Position,
		PermissionOverwrites: src.PermissionOverwrites,
		ParentID:             src.ParentID,
		NSFW:                 src.NSFW,
	}

	ch, err := c.rest.GuildChannelCreateComplex(src.GuildID, data, requestOptions(ctx, reason)...)
	if err != nil {
		return nil, wrapError("clone channel", err)
	}
	c.logger.Debug("Voice channel cloned", zap.String("source", src.ID), zap.String("channel", ch.ID))
	return toChannel(ch), nil
}

func (c *Client) SetPermissions(ctx context.Context, channelID domain.Snowflake, overwrite domain.Overwrite) error {
	allow, deny := permissionBits(overwrite.Grant)
	err := c.rest.ChannelPermissionSet(
		channelID.String(),
		overwrite.Subject.String(),
		overwriteType(overwrite.Kind),
		allow,
		deny,
		requestOptions(ctx, "")...,
	)
	return wrapError("set permissions", err)
}

func (c *Client) MoveMember(ctx context.Context, guildID, userID, channelID domain.Snowflake) error {
	target := channelID.String()
	err := c.rest.GuildMemberMove(guildID.String(), userID.String(), &target, requestOptions(ctx, "")...)
	return wrapError("move member", err)
}

func (c *Client) DeleteChannel(ctx context.Context, channelID domain.Snowflake) error {
	_, err := c.rest.ChannelDelete(channelID.String(), requestOptions(ctx, "")...)
	return wrapError("delete channel", err)
}

func (c *Client) Role(ctx context.Context, guildID, roleID domain.Snowflake) (*domain.Role, error) {
	if c.state != nil {
		role, err := c.state.Role(guildID.String(), roleID.String())
		if err == nil {
			return &domain.Role{ID: roleID, Name: role.Name}, nil
		}
		if !stderrors.Is(err, discordgo.ErrStateNotFound) {
			c.logger.Debug("Role cache lookup failed", zap.Error(err))
		}
	}

	roles, err := c.rest.GuildRoles(guildID.String(), requestOptions(ctx, "")...)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapError("list roles", err)
	}
	for _, role := range roles {
		if parseID(role.ID) == roleID {
			return &domain.Role{ID: roleID, Name: role.Name}, nil
		}
	}
	return nil, nil
}

func (c *Client) Channel(ctx context.Context, channelID domain.Snowflake) (*domain.Channel, error) {
	ch, err := c.rawChannel(ctx, channelID)
	if err != nil {
		return nil, wrapError("get channel", err)
	}
	return toChannel(ch), nil
}

// rawChannel returns (nil, nil) when the channel does not exist.
func (c *Client) rawChannel(ctx context.Context, channelID domain.Snowflake) (*discordgo.Channel, error) {
	if c.state != nil {
		if ch, err := c.state.Channel(channelID.String()); err == nil {
			return ch, nil
		}
	}

	ch, err := c.rest.Channel(channelID.String(), requestOptions(ctx, "")...)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return ch, nil
}

// Occupants counts connected members from the gateway voice state cache.
func (c *Client) Occupants(_ context.Context, guildID, channelID domain.Snowflake) (int, error) {
	if c.state == nil {
		return 0, errors.NewPlatformError("count occupants", false, discordgo.ErrNilState)
	}
	guild, err := c.state.Guild(guildID.String())
	if err != nil {
		return 0, errors.NewPlatformError("count occupants", stderrors.Is(err, discordgo.ErrStateNotFound), err)
	}

	c.state.RLock()
	defer c.state.RUnlock()

	target := channelID.String()
	count := 0
	for _, vs := range guild.VoiceStates {
		if vs != nil && vs.ChannelID == target {
			count++
		}
	}
	return count, nil
}
