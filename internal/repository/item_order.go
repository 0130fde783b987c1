package repository

import (
	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/model"
)

// SortItemsByOrder merges a list's stored sort order with the unordered
// items fetched from the store into a deterministic sequence. For each id
// in the stored order the first matching item is removed from the working
// set and appended to the result. The two sides drift independently, and
// both kinds of drift are tolerated deliberately:
//
//   - an order id with no matching item (the item was deleted) is skipped
//     silently;
//   - an item missing from the order (added while the order was stale) is
//     dropped from the result, not appended.
//
// The quadratic scan-and-remove is intentional; lists top out at a few
// hundred items.
func SortItemsByOrder(order []gocql.UUID, items []model.Item) []model.Item {
	if items == nil {
		return nil
	}
	sorted := make([]model.Item, 0, len(items))
	working := make([]model.Item, len(items))
	copy(working, items)

	for _, id := range order {
		for i := range working {
			if working[i].ID == id {
				sorted = append(sorted, working[i])
				working = append(working[:i], working[i+1:]...)
				break
			}
		}
	}
	return sorted
}

// ItemIDs projects items onto their id sequence, preserving order. It
// returns nil for a nil slice so an absent item collection stays absent in
// the stored order column.
func ItemIDs(items []model.Item) []gocql.UUID {
	if items == nil {
		return nil
	}
	ids := make([]gocql.UUID, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}
	return ids
}
