package model

import "github.com/gocql/gocql"

// AccessLevel is the per-list authorization tier stored on a membership
// row. OWNER strictly contains WRITE_ACCESS which strictly contains
// READ_ACCESS. The zero value means "no level" and answers false to every
// permission predicate.
type AccessLevel string

const (
	AccessOwner AccessLevel = "OWNER"
	AccessWrite AccessLevel = "WRITE_ACCESS"
	AccessRead  AccessLevel = "READ_ACCESS"
)

// Valid reports whether l is one of the three concrete tiers.
func (l AccessLevel) Valid() bool {
	return l == AccessOwner || l == AccessWrite || l == AccessRead
}

// IsOwner reports whether l is the owner tier.
func (l AccessLevel) IsOwner() bool { return l == AccessOwner }

// CanWrite reports whether l permits mutations.
func (l AccessLevel) CanWrite() bool { return l == AccessOwner || l == AccessWrite }

// CanRead reports whether l permits reads. Any concrete tier may read.
func (l AccessLevel) CanRead() bool { return l.Valid() }

// ParseAccessLevel maps a stored string onto a tier. Unrecognized values
// degrade to READ_ACCESS rather than failing the whole row; a bad level in
// the store should never lock a user out of reading their list.
func ParseAccessLevel(s string) AccessLevel {
	switch AccessLevel(s) {
	case AccessOwner, AccessWrite, AccessRead:
		return AccessLevel(s)
	default:
		return AccessRead
	}
}

// Membership is the user↔list relation in the user_lists table. A user has
// no access to a list unless a membership row exists.
type Membership struct {
	UserID gocql.UUID  `json:"userId"`
	ListID gocql.UUID  `json:"listId"`
	Level  AccessLevel `json:"accessLevel"`
}

// CanRead is nil-safe: an absent membership never grants access.
func (m *Membership) CanRead() bool { return m != nil && m.Level.CanRead() }

// CanWrite is nil-safe: an absent membership never grants access.
func (m *Membership) CanWrite() bool { return m != nil && m.Level.CanWrite() }

// IsOwner is nil-safe: an absent membership never grants access.
func (m *Membership) IsOwner() bool { return m != nil && m.Level.IsOwner() }
