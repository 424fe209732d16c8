package domain

// Toggle is a tri-state permission flag. Unset leaves the channel's inherited value.
type Toggle int8

const (
	Unset Toggle = iota
	Allow
	Deny
)

func (t Toggle) String() string {
	switch t {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "unset"
	}
}

// Grant is the permission set applied to a single overwrite subject.
type Grant struct {
	Connect       Toggle
	View          Toggle
	ManageChannel Toggle
	ManageRoles   Toggle
}

type SubjectKind int

const (
	SubjectRole SubjectKind = iota
	SubjectMember
)

// Overwrite binds a grant to a role or a member.
type Overwrite struct {
	Subject Snowflake
	Kind    SubjectKind
	Grant   Grant
}

// Overlay is the ordered set of overwrites applied to a temporary channel.
type Overlay []Overwrite

// Find returns the overwrite for subject, if any.
func (o Overlay) Find(subject Snowflake, kind SubjectKind) (Overwrite, bool) {
	for _, ow := range o {
		if ow.Subject == subject && ow.Kind == kind {
			return ow, true
		}
	}
	return Overwrite{}, false
}
