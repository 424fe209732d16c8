package domain

import "context"

// Platform is the set of chat-platform operations the bot depends on.
// Lookups return (nil, nil) when the resource does not exist.
type Platform interface {
	CreateVoiceChannel(ctx context.Context, guildID Snowflake, name string, parentID Snowflake, overlay Overlay, reason string) (*Channel, error)
	CloneChannel(ctx context.Context, source *Channel, name, reason string) (*Channel, error)
	SetPermissions(ctx context.Context, channelID Snowflake, overwrite Overwrite) error
	MoveMember(ctx context.Context, guildID, userID, channelID Snowflake) error
	DeleteChannel(ctx context.Context, channelID Snowflake) error
	Role(ctx context.Context, guildID, roleID Snowflake) (*Role, error)
	Channel(ctx context.Context, channelID Snowflake) (*Channel, error)
	Occupants(ctx context.Context, guildID, channelID Snowflake) (int, error)
}
