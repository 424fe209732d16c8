package domain

// Configuration is the whole persisted bot state: waiting channels per mode,
// live temporary channels and the four role categories.
type Configuration struct {
	BDAChannels       IDList `json:"bda_channel_ids"`
	REFChannels       IDList `json:"ref_channel_ids"`
	InvisibleChannels IDList `json:"invisible_channel_ids"`
	TemporaryChannels IDList `json:"temporary_channels"`
	AllowedRoles      IDList `json:"allowed_roles"`
	CommandRoles      IDList `json:"command_roles"`
	ManageRoles       IDList `json:"manage_roles"`
	CitizenRoles      IDList `json:"citizens"`
}

// NewConfiguration returns an empty configuration with non-nil lists.
func NewConfiguration() *Configuration {
	c := &Configuration{}
	c.Normalize()
	return c
}

// Normalize replaces nil lists with empty ones so snapshots always carry [].
func (c *Configuration) Normalize() {
	for _, l := range []*IDList{
		&c.BDAChannels, &c.REFChannels, &c.InvisibleChannels, &c.TemporaryChannels,
		&c.AllowedRoles, &c.CommandRoles, &c.ManageRoles, &c.CitizenRoles,
	} {
		if *l == nil {
			*l = IDList{}
		}
	}
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	return &Configuration{
		BDAChannels:       c.BDAChannels.Clone(),
		REFChannels:       c.REFChannels.Clone(),
		InvisibleChannels: c.InvisibleChannels.Clone(),
		TemporaryChannels: c.TemporaryChannels.Clone(),
		AllowedRoles:      c.AllowedRoles.Clone(),
		CommandRoles:      c.CommandRoles.Clone(),
		ManageRoles:       c.ManageRoles.Clone(),
		CitizenRoles:      c.CitizenRoles.Clone(),
	}
}

// WaitingChannels returns the mutable waiting-channel list for mode.
func (c *Configuration) WaitingChannels(mode ProvisioningMode) *IDList {
	switch mode {
	case ModeBDA:
		return &c.BDAChannels
	case ModeREF:
		return &c.REFChannels
	case ModeInvisible:
		return &c.InvisibleChannels
	default:
		return nil
	}
}

// Roles returns the mutable role list for category.
func (c *Configuration) Roles(category RoleCategory) *IDList {
	switch category {
	case CategoryRole:
		return &c.AllowedRoles
	case CategoryManage:
		return &c.ManageRoles
	case CategoryCommand:
		return &c.CommandRoles
	case CategoryCitizens:
		return &c.CitizenRoles
	default:
		return nil
	}
}

// HasWaitingChannels reports whether any mode has a waiting channel configured.
func (c *Configuration) HasWaitingChannels() bool {
	return len(c.BDAChannels) > 0 || len(c.REFChannels) > 0 || len(c.InvisibleChannels) > 0
}

// ModeFor returns the provisioning mode whose waiting list holds channelID.
// Modes are checked in declaration order.
func (c *Configuration) ModeFor(channelID Snowflake) (ProvisioningMode, bool) {
	for _, mode := range Modes {
		if c.WaitingChannels(mode).Contains(channelID) {
			return mode, true
		}
	}
	return "", false
}
