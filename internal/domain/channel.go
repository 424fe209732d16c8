package domain

// Channel is a guild voice channel.
type Channel struct {
	ID       Snowflake
	GuildID  Snowflake
	ParentID Snowflake
	Name     string
}

// Role is a guild role.
type Role struct {
	ID   Snowflake
	Name string
}
