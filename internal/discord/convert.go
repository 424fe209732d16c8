package discord

import (
	stderrors "errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/pkg/errors"
)

// permissionBits folds a tri-state grant into Discord allow/deny bitsets.
func permissionBits(grant domain.Grant) (allow, deny int64) {
	for _, entry := range []struct {
		toggle domain.Toggle
		bit    int64
	}{
		{grant.Connect, discordgo.PermissionVoiceConnect},
		{grant.View, discordgo.PermissionViewChannel},
		{grant.ManageChannel, discordgo.PermissionManageChannels},
		{grant.ManageRoles, discordgo.PermissionManageRoles},
	} {
		switch entry.toggle {
		case domain.Allow:
			allow |= entry.bit
		case domain.Deny:
			deny |= entry.bit
		}
	}
	return allow, deny
}

func overwriteType(kind domain.SubjectKind) discordgo.PermissionOverwriteType {
	if kind == domain.SubjectMember {
		return discordgo.PermissionOverwriteTypeMember
	}
	return discordgo.PermissionOverwriteTypeRole
}

func toPermissionOverwrite(o domain.Overwrite) *discordgo.PermissionOverwrite {
	allow, deny := permissionBits(o.Grant)
	return &discordgo.PermissionOverwrite{
		ID:    o.Subject.String(),
		Type:  overwriteType(o.Kind),
		Allow: allow,
		Deny:  deny,
	}
}

func toPermissionOverwrites(overlay domain.Overlay) []*discordgo.PermissionOverwrite {
	out := make([]*discordgo.PermissionOverwrite, 0, len(overlay))
	for _, o := range overlay {
		out = append(out, toPermissionOverwrite(o))
	}
	return out
}

// parseID converts a Discord string id. Malformed ids map to zero.
func parseID(s string) domain.Snowflake {
	id, err := domain.ParseSnowflake(s)
	if err != nil {
		return 0
	}
	return id
}

func toChannel(ch *discordgo.Channel) *domain.Channel {
	if ch == nil {
		return nil
	}
	return &domain.Channel{
		ID:       parseID(ch.ID),
		GuildID:  parseID(ch.GuildID),
		ParentID: parseID(ch.ParentID),
		Name:     ch.Name,
	}
}

// displayName prefers the guild nickname, then the global name, then the username.
func displayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// toMember converts a guild member. permissions carries the resolved guild
// permissions when known, zero otherwise.
func toMember(guildID string, userID string, m *discordgo.Member, permissions int64) domain.Member {
	member := domain.Member{
		UserID:        parseID(userID),
		GuildID:       parseID(guildID),
		DisplayName:   displayName(m),
		Administrator: permissions&discordgo.PermissionAdministrator != 0,
	}
	if m == nil {
		return member
	}
	if member.UserID.IsZero() && m.User != nil {
		member.UserID = parseID(m.User.ID)
	}
	member.RoleIDs = make([]domain.Snowflake, 0, len(m.Roles))
	for _, r := range m.Roles {
		if id := parseID(r); !id.IsZero() {
			member.RoleIDs = append(member.RoleIDs, id)
		}
	}
	return member
}

// ToVoiceStateChange converts a gateway voice state update. Before is zero
// when the previous state is unknown to the session cache.
func ToVoiceStateChange(vs *discordgo.VoiceStateUpdate) domain.VoiceStateChange {
	change := domain.VoiceStateChange{}
	if vs == nil || vs.VoiceState == nil {
		return change
	}
	change.Member = toMember(vs.GuildID, vs.UserID, vs.Member, 0)
	change.After = parseID(vs.ChannelID)
	if vs.BeforeUpdate != nil {
		change.Before = parseID(vs.BeforeUpdate.ChannelID)
	}
	return change
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if stderrors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func wrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return errors.NewPlatformError(operation, isNotFound(err), err)
}
