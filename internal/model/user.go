package model

import "github.com/gocql/gocql"

// Role is the user-level tier. It is independent of the per-list access
// level: an ADMIN bypasses membership checks everywhere, a USER is subject
// to them.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// IsAdmin reports whether the role grants the global override.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User mirrors the users table. Password holds the bcrypt hash once the
// record has passed through the service layer; it is accepted on input and
// blanked before a user is returned to a client.
type User struct {
	ID        gocql.UUID `json:"userId"`
	Username  string     `json:"username"`
	Password  string     `json:"password,omitempty"`
	Role      Role       `json:"role"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	Email     string     `json:"emailAddress,omitempty"`
	Audit
}
