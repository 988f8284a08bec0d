package core

import (
	"errors"
	"fmt"
)

// Role identifies the author of a Message using the provider-agnostic
// vocabulary. Adapters translate it into their backend's own labels.
type Role string

const (
	// RoleSystem marks the behavioural instruction pinned at the head of a history.
	RoleSystem Role = "system"
	// RoleUser marks human-authored turns.
	RoleUser Role = "user"
	// RoleAssistant marks model-authored turns.
	RoleAssistant Role = "assistant"
)

// ErrInvalidRole is returned by ParseRole for labels outside the closed role set.
var ErrInvalidRole = errors.New("invalid role")

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// ParseRole converts a raw label into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so roles decoded from
// JSON or YAML are checked with ParseRole.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Message is one normalized conversation entry. It is a value type: once
// appended to a history it is never modified, only copied or dropped.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// IsSystem reports whether the message carries the system instruction.
func (m Message) IsSystem() bool { return m.Role == RoleSystem }
