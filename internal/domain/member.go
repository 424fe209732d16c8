package domain

// Member is a guild member as seen by the bot at event time.
type Member struct {
	UserID        Snowflake
	GuildID       Snowflake
	DisplayName   string
	RoleIDs       []Snowflake
	Administrator bool
}

// HasAnyRole reports whether the member holds at least one of ids.
func (m *Member) HasAnyRole(ids IDList) bool {
	if m == nil {
		return false
	}
	for _, roleID := range m.RoleIDs {
		if ids.Contains(roleID) {
			return true
		}
	}
	return false
}

// VoiceStateChange describes a member moving between voice channels.
// A zero Before or After means the member was not connected on that side.
type VoiceStateChange struct {
	Member Member
	Before Snowflake
	After  Snowflake
}

// Moved reports whether origin and destination differ.
func (v VoiceStateChange) Moved() bool {
	return v.Before != v.After
}
