package model

import "github.com/gocql/gocql"

// List mirrors the lists table. ItemSortOrder is the explicit sequence of
// item ids that renders Items deterministically; it is stored alongside the
// list and must be rewritten whenever the item set changes, the store does
// not derive it. Level is the requesting member's access tier, attached
// when lists are read on behalf of a user; it is never stored on this row.
type List struct {
	ID            gocql.UUID   `json:"listId"`
	Name          string       `json:"listName"`
	ItemSortOrder []gocql.UUID `json:"itemSortOrder,omitempty"`
	Items         []Item       `json:"items,omitempty"`
	Level         AccessLevel  `json:"accessLevel,omitempty"`
	Audit
}
