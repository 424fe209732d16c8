package domain

import (
	"fmt"
	"strings"
)

// ProvisioningMode selects the naming and permission template of a temporary channel.
type ProvisioningMode string

const (
	ModeBDA       ProvisioningMode = "BDA"
	ModeREF       ProvisioningMode = "REF"
	ModeInvisible ProvisioningMode = "INVISIBLE"
)

// Modes lists every provisioning mode in lookup order.
var Modes = []ProvisioningMode{ModeBDA, ModeREF, ModeInvisible}

func (m ProvisioningMode) String() string {
	return string(m)
}

func (m ProvisioningMode) IsValid() bool {
	switch m {
	case ModeBDA, ModeREF, ModeInvisible:
		return true
	default:
		return false
	}
}

// Clones reports whether the mode derives its channel from the waiting channel
// instead of creating a fresh one.
func (m ProvisioningMode) Clones() bool {
	switch m {
	case ModeREF, ModeInvisible:
		return true
	default:
		return false
	}
}

func ParseProvisioningMode(s string) (ProvisioningMode, error) {
	mode := ProvisioningMode(strings.ToUpper(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid provisioning mode %q", s)
	}
	return mode, nil
}

// RoleCategory selects which role list a role assignment targets.
type RoleCategory string

const (
	CategoryRole     RoleCategory = "ROLE"
	CategoryManage   RoleCategory = "MANAGE"
	CategoryCommand  RoleCategory = "COMMAND"
	CategoryCitizens RoleCategory = "CITIZENS"
)

var RoleCategories = []RoleCategory{CategoryRole, CategoryManage, CategoryCommand, CategoryCitizens}

func (c RoleCategory) String() string {
	return string(c)
}

func (c RoleCategory) IsValid() bool {
	switch c {
	case CategoryRole, CategoryManage, CategoryCommand, CategoryCitizens:
		return true
	default:
		return false
	}
}

func ParseRoleCategory(s string) (RoleCategory, error) {
	category := RoleCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !category.IsValid() {
		return "", fmt.Errorf("invalid role category %q", s)
	}
	return category, nil
}

// Action is the mutation requested by a configuration command.
type Action string

const (
	ActionAdd    Action = "ADD"
	ActionRemove Action = "REMOVE"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionAdd, ActionRemove:
		return true
	default:
		return false
	}
}

func ParseAction(s string) (Action, error) {
	action := Action(strings.ToUpper(strings.TrimSpace(s)))
	if !action.IsValid() {
		return "", fmt.Errorf("invalid action %q", s)
	}
	return action, nil
}
