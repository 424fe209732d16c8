package domain

import (
	"strconv"
	"strings"
)

// Snowflake is an opaque platform-assigned identifier. It is stored as a JSON
// number so snapshots stay readable by older tooling.
type Snowflake uint64

// ParseSnowflake parses a decimal identifier string.
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return Snowflake(v), nil
}

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// IsZero reports whether the identifier is unset.
func (s Snowflake) IsZero() bool {
	return s == 0
}

// IDList is an ordered list of identifiers with set-like helpers.
type IDList []Snowflake

func (l IDList) Contains(id Snowflake) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id unless it is already present. Returns false when nothing changed.
func (l *IDList) Add(id Snowflake) bool {
	if l.Contains(id) {
		return false
	}
	*l = append(*l, id)
	return true
}

// Remove drops the first occurrence of id, preserving order.
func (l *IDList) Remove(id Snowflake) bool {
	for i, v := range *l {
		if v == id {
			*l = append((*l)[:i:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

func (l IDList) Clone() IDList {
	out := make(IDList, len(l))
	copy(out, l)
	return out
}
