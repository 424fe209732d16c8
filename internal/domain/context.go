package domain

import "time"

// CommandContext carries the invocation metadata of a slash command.
type CommandContext struct {
	GuildID   Snowflake
	Invoker   Member
	Command   CommandType
	Timestamp time.Time
}

func NewCommandContext(guildID Snowflake, invoker Member, command CommandType) *CommandContext {
	return &CommandContext{
		GuildID:   guildID,
		Invoker:   invoker,
		Command:   command,
		Timestamp: time.Now(),
	}
}
