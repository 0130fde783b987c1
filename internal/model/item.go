package model

import "github.com/gocql/gocql"

// Item mirrors the items table. An item belongs to exactly one list; the
// relation is by convention only, the store does not enforce it.
type Item struct {
	ID     gocql.UUID `json:"itemId"`
	ListID gocql.UUID `json:"listId"`
	Name   string     `json:"itemName"`
	Audit
}
