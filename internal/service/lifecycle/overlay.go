package lifecycle

import (
	"fmt"

	"github.com/kapu/voicebot-go/internal/constants"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/util"
)

var (
	everyoneGrant = domain.Grant{Connect: domain.Deny, View: domain.Deny}
	ownerGrant    = domain.Grant{Connect: domain.Allow, View: domain.Allow, ManageChannel: domain.Allow, ManageRoles: domain.Allow}
)

// Template is the permission layout of one provisioning mode. Member is nil
// when the joining member gets no personal overwrite.
type Template struct {
	Member   *domain.Grant
	Manage   domain.Grant
	Allowed  domain.Grant
	Citizens domain.Grant
}

// TemplateFor returns the permission template of mode.
func TemplateFor(mode domain.ProvisioningMode) (Template, error) {
	switch mode {
	case domain.ModeBDA:
		return Template{
			Manage:   domain.Grant{Connect: domain.Allow, View: domain.Allow, ManageChannel: domain.Allow},
			Allowed:  domain.Grant{Connect: domain.Allow, View: domain.Allow},
			Citizens: domain.Grant{Connect: domain.Deny, View: domain.Allow},
		}, nil
	case domain.ModeREF:
		member := ownerGrant
		return Template{
			Member:   &member,
			Manage:   ownerGrant,
			Allowed:  domain.Grant{Connect: domain.Deny, View: domain.Allow, ManageChannel: domain.Deny, ManageRoles: domain.Deny},
			Citizens: domain.Grant{Connect: domain.Deny, View: domain.Allow},
		}, nil
	case domain.ModeInvisible:
		member := ownerGrant
		return Template{
			Member:   &member,
			Manage:   ownerGrant,
			Allowed:  domain.Grant{Connect: domain.Deny, View: domain.Allow, ManageChannel: domain.Deny, ManageRoles: domain.Deny},
			Citizens: domain.Grant{Connect: domain.Deny, View: domain.Deny},
		}, nil
	default:
		return Template{}, fmt.Errorf("no template for provisioning mode %q", mode)
	}
}

// ChannelName returns the temporary channel name for mode.
func ChannelName(mode domain.ProvisioningMode, displayName string) string {
	var name string
	switch mode {
	case domain.ModeBDA:
		name = fmt.Sprintf(constants.ChannelNames.BDAFormat, displayName)
	case domain.ModeREF:
		name = constants.ChannelNames.REF
	case domain.ModeInvisible:
		name = fmt.Sprintf(constants.ChannelNames.InvisibleFormat, displayName)
	default:
		name = displayName
	}
	return util.TruncateString(name, constants.ChannelNames.MaxLength)
}

// CandidateRoles lists every configured role that may receive an overwrite,
// each once, in precedence order manage, allowed, citizens.
func CandidateRoles(cfg *domain.Configuration) []domain.Snowflake {
	seen := make(map[domain.Snowflake]struct{})
	out := make([]domain.Snowflake, 0, len(cfg.ManageRoles)+len(cfg.AllowedRoles)+len(cfg.CitizenRoles))
	for _, list := range []domain.IDList{cfg.ManageRoles, cfg.AllowedRoles, cfg.CitizenRoles} {
		for _, id := range list {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// BuildOverlay computes the overwrites of a new temporary channel. The guild's
// @everyone role (whose id equals the guild id) is denied first; roles for
// which exists returns false are skipped.
func BuildOverlay(mode domain.ProvisioningMode, member domain.Member, cfg *domain.Configuration, exists func(domain.Snowflake) bool) (domain.Overlay, error) {
	tpl, err := TemplateFor(mode)
	if err != nil {
		return nil, err
	}

	overlay := domain.Overlay{}
	overlay = put(overlay, domain.Overwrite{Subject: member.GuildID, Kind: domain.SubjectRole, Grant: everyoneGrant})

	for _, roleID := range CandidateRoles(cfg) {
		if exists != nil && !exists(roleID) {
			continue
		}
		var grant domain.Grant
		switch {
		case cfg.ManageRoles.Contains(roleID):
			grant = tpl.Manage
		case cfg.AllowedRoles.Contains(roleID):
			grant = tpl.Allowed
		default:
			grant = tpl.Citizens
		}
		overlay = put(overlay, domain.Overwrite{Subject: roleID, Kind: domain.SubjectRole, Grant: grant})
	}

	if tpl.Member != nil {
		overlay = put(overlay, domain.Overwrite{Subject: member.UserID, Kind: domain.SubjectMember, Grant: *tpl.Member})
	}

	return overlay, nil
}

// put replaces an existing overwrite for the same subject or appends a new one.
func put(overlay domain.Overlay, ow domain.Overwrite) domain.Overlay {
	for i := range overlay {
		if overlay[i].Subject == ow.Subject && overlay[i].Kind == ow.Kind {
			overlay[i] = ow
			return overlay
		}
	}
	return append(overlay, ow)
}
