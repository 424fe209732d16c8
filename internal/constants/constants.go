package constants

import "time"

// ChannelIDLength bounds the accepted length of a channel identifier typed by an operator.
var ChannelIDLength = struct {
	Min int
	Max int
}{
	Min: 18,
	Max: 19,
}

var ChannelNames = struct {
	BDAFormat       string
	REF             string
	InvisibleFormat string
	MaxLength       int
}{
	BDAFormat:       "🚨️ BDA pour %s",
	REF:             "🥑 Entretien",
	InvisibleFormat: "🔒・Bureau invisible %s",
	MaxLength:       100, // Discord channel name limit
}

var RedisConfig = struct {
	ReadyTimeout           time.Duration
	OpTimeout              time.Duration
	MirrorFailureThreshold int
	MirrorResetTimeout     time.Duration
}{
	ReadyTimeout:           5 * time.Second,
	OpTimeout:              3 * time.Second,
	MirrorFailureThreshold: 3,
	MirrorResetTimeout:     30 * time.Second,
}

var BotConfig = struct {
	CommandRegistrationConcurrency int
	ShutdownDrainTimeout           time.Duration
}{
	CommandRegistrationConcurrency: 4,
	ShutdownDrainTimeout:           5 * time.Second,
}

var DiscordLimits = struct {
	MessageLength int
}{
	MessageLength: 2000,
}
