package domain

import "strings"

type Role string

const (
	// Admin accounts can list, filter and block other accounts.
	RoleAdmin Role = "ADMIN"
	// User is the default role for self-registered accounts.
	RoleUser Role = "USER"
)

// ParseRole maps a raw role string onto the closed Role set.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	default:
		return "", false
	}
}

func IsValidRole(raw string) bool {
	_, ok := ParseRole(raw)
	return ok
}

// Title renders the role for client messages: "ADMIN" -> "Admin".
func (r Role) Title() string {
	s := strings.ToLower(string(r))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
