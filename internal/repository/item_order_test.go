package repository

import (
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"github.com/listhub/lists-api/internal/model"
)

func TestSortItemsByOrder(t *testing.T) {
	a, b, c := gocql.TimeUUID(), gocql.TimeUUID(), gocql.TimeUUID()
	items := []model.Item{{ID: c}, {ID: a}, {ID: b}}

	sorted := SortItemsByOrder([]gocql.UUID{a, b, c}, items)

	assert.Equal(t, []gocql.UUID{a, b, c}, ItemIDs(sorted))
}

func TestSortItemsByOrderSkipsDanglingIDs(t *testing.T) {
	a, b, c := gocql.TimeUUID(), gocql.TimeUUID(), gocql.TimeUUID()
	// a was deleted but its id still sits in the stored order.
	items := []model.Item{{ID: b}, {ID: c}}

	sorted := SortItemsByOrder([]gocql.UUID{a, b, c}, items)

	assert.Equal(t, []gocql.UUID{b, c}, ItemIDs(sorted))
}

func TestSortItemsByOrderDropsUnorderedItems(t *testing.T) {
	a, b := gocql.TimeUUID(), gocql.TimeUUID()
	// b was added while the stored order was stale.
	items := []model.Item{{ID: a}, {ID: b}}

	sorted := SortItemsByOrder([]gocql.UUID{a}, items)

	assert.Equal(t, []gocql.UUID{a}, ItemIDs(sorted))
}

func TestSortItemsByOrderIsIdempotent(t *testing.T) {
	a, b, c := gocql.TimeUUID(), gocql.TimeUUID(), gocql.TimeUUID()
	order := []gocql.UUID{b, a}
	items := []model.Item{{ID: a}, {ID: b}, {ID: c}}

	once := SortItemsByOrder(order, items)
	twice := SortItemsByOrder(order, once)

	assert.Equal(t, once, twice)
}

func TestSortItemsByOrderNilItems(t *testing.T) {
	assert.Nil(t, SortItemsByOrder([]gocql.UUID{gocql.TimeUUID()}, nil))
}

func TestItemIDs(t *testing.T) {
	assert.Nil(t, ItemIDs(nil))

	a, b := gocql.TimeUUID(), gocql.TimeUUID()
	assert.Equal(t, []gocql.UUID{a, b}, ItemIDs([]model.Item{{ID: a}, {ID: b}}))
}
