package discord

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/pkg/errors"
)

func TestPermissionBits(t *testing.T) {
	tests := []struct {
		name      string
		grant     domain.Grant
		wantAllow int64
		wantDeny  int64
	}{
		{
			name:  "unset leaves both empty",
			grant: domain.Grant{},
		},
		{
			name:      "owner grant",
			grant:     domain.Grant{Connect: domain.Allow, View: domain.Allow, ManageChannel: domain.Allow, ManageRoles: domain.Allow},
			wantAllow: discordgo.PermissionVoiceConnect | discordgo.PermissionViewChannel | discordgo.PermissionManageChannels | discordgo.PermissionManageRoles,
		},
		{
			name:      "mixed",
			grant:     domain.Grant{Connect: domain.Deny, View: domain.Allow, ManageChannel: domain.Deny},
			wantAllow: discordgo.PermissionViewChannel,
			wantDeny:  discordgo.PermissionVoiceConnect | discordgo.PermissionManageChannels,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allow, deny := permissionBits(tt.grant)
			if allow != tt.wantAllow || deny != tt.wantDeny {
				t.Fatalf("expected allow=%d deny=%d, got allow=%d deny=%d", tt.wantAllow, tt.wantDeny, allow, deny)
			}
		})
	}
}

func TestToPermissionOverwriteKinds(t *testing.T) {
	role := toPermissionOverwrite(domain.Overwrite{Subject: 42, Kind: domain.SubjectRole})
	if role.ID != "42" || role.Type != discordgo.PermissionOverwriteTypeRole {
		t.Fatalf("unexpected role overwrite: %+v", role)
	}

	member := toPermissionOverwrite(domain.Overwrite{Subject: 7, Kind: domain.SubjectMember})
	if member.ID != "7" || member.Type != discordgo.PermissionOverwriteTypeMember {
		t.Fatalf("unexpected member overwrite: %+v", member)
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		member *discordgo.Member
		want   string
	}{
		{"nil member", nil, ""},
		{"nickname", &discordgo.Member{Nick: "Mimi", User: &discordgo.User{Username: "marie", GlobalName: "Marie"}}, "Mimi"},
		{"global name", &discordgo.Member{User: &discordgo.User{Username: "marie", GlobalName: "Marie"}}, "Marie"},
		{"username", &discordgo.Member{User: &discordgo.User{Username: "marie"}}, "marie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayName(tt.member); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToVoiceStateChange(t *testing.T) {
	vs := &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{
			GuildID:   "1000",
			UserID:    "7",
			ChannelID: "111",
			Member: &discordgo.Member{
				User:  &discordgo.User{ID: "7", Username: "marie"},
				Roles: []string{"10", "not-an-id", "11"},
			},
		},
		BeforeUpdate: &discordgo.VoiceState{ChannelID: "222"},
	}

	change := ToVoiceStateChange(vs)

	if change.Before != 222 || change.After != 111 {
		t.Fatalf("unexpected channels: before=%s after=%s", change.Before, change.After)
	}
	if change.Member.UserID != 7 || change.Member.GuildID != 1000 || change.Member.DisplayName != "marie" {
		t.Fatalf("unexpected member: %+v", change.Member)
	}
	if len(change.Member.RoleIDs) != 2 {
		t.Fatalf("expected malformed role ids dropped, got %v", change.Member.RoleIDs)
	}
}

func TestToVoiceStateChangeDisconnect(t *testing.T) {
	vs := &discordgo.VoiceStateUpdate{
		VoiceState:   &discordgo.VoiceState{GuildID: "1000", UserID: "7"},
		BeforeUpdate: &discordgo.VoiceState{ChannelID: "222"},
	}

	change := ToVoiceStateChange(vs)
	if !change.After.IsZero() || change.Before != 222 {
		t.Fatalf("unexpected change: %+v", change)
	}
}

func TestWrapErrorDetectsNotFound(t *testing.T) {
	notFound := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound, Status: "404 Not Found"}}
	if !errors.IsNotFound(wrapError("delete channel", notFound)) {
		t.Fatalf("expected 404 to map to not found")
	}

	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"}}
	if errors.IsNotFound(wrapError("delete channel", forbidden)) {
		t.Fatalf("expected 403 to stay a generic platform error")
	}

	if errors.IsNotFound(wrapError("delete channel", fmt.Errorf("boom"))) {
		t.Fatalf("expected plain error to stay generic")
	}
	if wrapError("delete channel", nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
}
