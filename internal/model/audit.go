package model

import (
	"time"

	"github.com/gocql/gocql"
)

// Audit carries the create/update actor and timestamp columns shared by
// every record. The store never fills these in; callers must stamp them
// before a write and repositories reject rows where they are missing.
type Audit struct {
	CreateUser gocql.UUID `json:"createUser"`
	CreateDate time.Time  `json:"createDate"`
	UpdateUser gocql.UUID `json:"updateUser"`
	UpdateDate time.Time  `json:"updateDate"`
}

// Stamp fills all four audit fields for a freshly created record.
func (a *Audit) Stamp(actor gocql.UUID, at time.Time) {
	a.CreateUser = actor
	a.CreateDate = at
	a.UpdateUser = actor
	a.UpdateDate = at
}

// StampUpdate refreshes only the update pair.
func (a *Audit) StampUpdate(actor gocql.UUID, at time.Time) {
	a.UpdateUser = actor
	a.UpdateDate = at
}

// CompleteForCreate reports whether both the create and update pairs are set.
func (a Audit) CompleteForCreate() bool {
	return a.CreateUser != (gocql.UUID{}) && !a.CreateDate.IsZero() &&
		a.UpdateUser != (gocql.UUID{}) && !a.UpdateDate.IsZero()
}

// CompleteForUpdate reports whether the update pair is set.
func (a Audit) CompleteForUpdate() bool {
	return a.UpdateUser != (gocql.UUID{}) && !a.UpdateDate.IsZero()
}
