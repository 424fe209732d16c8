package auth

import "github.com/kapu/voicebot-go/internal/domain"

// IsAuthorized reports whether member may run configuration commands: server
// administrators always can, everyone else needs one of the command roles.
func IsAuthorized(member *domain.Member, cfg *domain.Configuration) bool {
	if member == nil {
		return false
	}
	if member.Administrator {
		return true
	}
	if cfg == nil {
		return false
	}
	return member.HasAnyRole(cfg.CommandRoles)
}
