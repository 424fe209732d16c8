package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/voicebot-go/internal/constants"
	"github.com/kapu/voicebot-go/internal/domain"
	"github.com/kapu/voicebot-go/internal/util"
)

// ConfigReport is the resolved view of the configuration rendered by vb_list_config.
type ConfigReport struct {
	BDA       []string
	REF       []string
	Invisible []string
	Temporary []string
	Allowed   []string
	Command   []string
	Manage    []string
	Citizens  []string
}

// ResponseFormatter builds the user-facing replies of the slash commands.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) PermissionDenied() string {
	return "Vous n'avez pas les permissions de faire cela."
}

func (f *ResponseFormatter) InvalidChannelID() string {
	return "L'ID du salon n'est pas correct."
}

func (f *ResponseFormatter) UnknownChannel() string {
	return "Ce salon n'existe pas."
}

func (f *ResponseFormatter) UnknownRole() string {
	return "Ce rôle n'existe pas."
}

func (f *ResponseFormatter) InvalidAction() string {
	return "Action invalide. Veuillez utiliser 'ADD' ou 'REMOVE'."
}

func (f *ResponseFormatter) InvalidMode() string {
	return "Type de configuration invalide (BDA, REF, INVISIBLE)."
}

func (f *ResponseFormatter) InvalidCategory() string {
	return "Type de rôle invalide. Veuillez utiliser 'ROLE', 'MANAGE', 'COMMAND' ou 'CITIZENS'."
}

func (f *ResponseFormatter) InternalError() string {
	return "Une erreur est survenue, veuillez réessayer plus tard."
}

// WaitingChannelResult formats the outcome of vb_config.
func (f *ResponseFormatter) WaitingChannelResult(action domain.Action, mode domain.ProvisioningMode, channelID domain.Snowflake, changed bool) string {
	mention := ChannelMention(channelID)
	switch {
	case action == domain.ActionAdd && changed:
		return fmt.Sprintf("Le salon %s est maintenant sur la liste des salons d'attentes pour '%s'.", mention, mode)
	case action == domain.ActionAdd:
		return fmt.Sprintf("Le salon %s est déjà inscrit pour '%s'.", mention, mode)
	case changed:
		return fmt.Sprintf("Le salon %s a été retiré de la liste des salons d'attentes pour '%s'.", mention, mode)
	default:
		return fmt.Sprintf("Le salon %s n'est pas inscrit pour '%s'.", mention, mode)
	}
}

// WaitingChannelConflict reports a channel already registered under another mode.
func (f *ResponseFormatter) WaitingChannelConflict(channelID domain.Snowflake, existing domain.ProvisioningMode) string {
	return fmt.Sprintf("Le salon %s est déjà inscrit pour '%s'. Retirez-le d'abord de cette liste.", ChannelMention(channelID), existing)
}

// RoleResult formats the outcome of vb_manage.
func (f *ResponseFormatter) RoleResult(action domain.Action, category domain.RoleCategory, roleName string, changed bool) string {
	switch {
	case action == domain.ActionAdd && changed:
		return fmt.Sprintf("Le rôle %s a été ajouté à la liste des rôles pour %s.", roleName, category)
	case action == domain.ActionAdd:
		return fmt.Sprintf("Le rôle %s est déjà dans la liste des rôles pour %s.", roleName, category)
	case changed:
		return fmt.Sprintf("Le rôle %s a été retiré de la liste des rôles pour %s.", roleName, category)
	default:
		return fmt.Sprintf("Le rôle %s n'est pas dans la liste des rôles pour %s.", roleName, category)
	}
}

// ClearResult formats the outcome of vb_clear.
func (f *ResponseFormatter) ClearResult(deleted int) string {
	if deleted > 0 {
		return "Tous les salons vides ont été supprimés."
	}
	return "Aucun salon vide trouvé à supprimer."
}

// ConfigReport renders the configuration listing.
// The result is cut to the platform's message length limit.
func (f *ResponseFormatter) ConfigReport(report ConfigReport) string {
	rendered, err := executeFormatterTemplate("config_report", report)
	if err != nil {
		rendered = f.fallbackConfigReport(report)
	}
	return util.TruncateString(rendered, constants.DiscordLimits.MessageLength)
}

func (f *ResponseFormatter) fallbackConfigReport(report ConfigReport) string {
	var sb strings.Builder
	sb.WriteString("Configuration:\n")
	for _, line := range []struct {
		label string
		items []string
	}{
		{"bda", report.BDA},
		{"ref", report.REF},
		{"invisible", report.Invisible},
		{"temporary", report.Temporary},
		{"allowed", report.Allowed},
		{"command", report.Command},
		{"manage", report.Manage},
		{"citizens", report.Citizens},
	} {
		sb.WriteString(fmt.Sprintf("%s: %s\n", line.label, strings.Join(line.items, ", ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ChannelMention renders a clickable channel reference.
func ChannelMention(id domain.Snowflake) string {
	return "<#" + id.String() + ">"
}

// ChannelMentions renders each id as a channel reference.
func ChannelMentions(ids domain.IDList) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, ChannelMention(id))
	}
	return out
}
