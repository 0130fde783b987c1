package service

import (
	"context"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listhub/lists-api/internal/events"
	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
)

func TestCreateItemsDeniedWithoutWriteAccess(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	l := &model.List{ID: gocql.TimeUUID(), Name: "readonly"}
	lists.lists[l.ID] = l
	lists.grant(actor.ID, l.ID, model.AccessRead)
	svc := NewItems(newFakeUsers(actor), lists, newFakeItems(), nil)

	_, err := svc.CreateItems(context.Background(), actor.ID.String(),
		[]*model.Item{{ListID: l.ID, Name: "apples"}})

	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.Empty(t, lists.addedItems[l.ID])
}

func TestCreateItemsOneDeniedListAbortsAll(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	mine := &model.List{ID: gocql.TimeUUID(), Name: "mine"}
	theirs := &model.List{ID: gocql.TimeUUID(), Name: "theirs"}
	lists.lists[mine.ID] = mine
	lists.lists[theirs.ID] = theirs
	lists.grant(actor.ID, mine.ID, model.AccessOwner)
	svc := NewItems(newFakeUsers(actor), lists, newFakeItems(), nil)

	_, err := svc.CreateItems(context.Background(), actor.ID.String(), []*model.Item{
		{ListID: mine.ID, Name: "ok"},
		{ListID: theirs.ID, Name: "denied"},
	})

	assert.ErrorIs(t, err, repository.ErrForbidden)
	// Nothing may reach the store, not even the authorized list's item.
	assert.Empty(t, lists.addedItems[mine.ID])
}

func TestCreateItemsGroupsByListAndStamps(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	l := &model.List{ID: gocql.TimeUUID(), Name: "groceries"}
	lists.lists[l.ID] = l
	lists.grant(actor.ID, l.ID, model.AccessWrite)
	pub := &fakePub{}
	svc := NewItems(newFakeUsers(actor), lists, newFakeItems(), pub)

	items := []*model.Item{
		{ListID: l.ID, Name: "apples"},
		{ListID: l.ID, Name: "bread"},
	}
	out, err := svc.CreateItems(context.Background(), actor.ID.String(), items)

	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Len(t, lists.addedItems[l.ID], 2)
	for _, it := range out {
		assert.Equal(t, actor.ID, it.CreateUser)
		assert.False(t, it.CreateDate.IsZero())
	}
	require.Len(t, pub.events, 2)
	assert.Equal(t, events.ItemCreated, pub.events[0].Type)
}

func TestGetItemChecksOwningList(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	listID := gocql.TimeUUID()
	it := &model.Item{ID: gocql.TimeUUID(), ListID: listID, Name: "apples"}
	svc := NewItems(newFakeUsers(actor), lists, newFakeItems(it), nil)

	_, err := svc.GetItem(context.Background(), actor.ID.String(), it.ID.String())
	assert.ErrorIs(t, err, repository.ErrForbidden)

	lists.grant(actor.ID, listID, model.AccessRead)
	got, err := svc.GetItem(context.Background(), actor.ID.String(), it.ID.String())
	require.NoError(t, err)
	assert.Equal(t, it, got)
}

func TestGetItemMissingReturnsNil(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	svc := NewItems(newFakeUsers(actor), newFakeLists(), newFakeItems(), nil)

	it, err := svc.GetItem(context.Background(), actor.ID.String(), gocql.TimeUUID().String())
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestGetItemsForListKeepsStoredOrder(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	first, second := gocql.TimeUUID(), gocql.TimeUUID()
	l := &model.List{ID: gocql.TimeUUID(), Items: []model.Item{{ID: second}, {ID: first}}}
	lists.lists[l.ID] = l
	lists.grant(actor.ID, l.ID, model.AccessRead)
	svc := NewItems(newFakeUsers(actor), lists, newFakeItems(), nil)

	items, err := svc.GetItemsForList(context.Background(), actor.ID.String(), l.ID.String())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second, items[0].ID)
	assert.Equal(t, first, items[1].ID)
}

func TestUpdateItemsResolvesOwningList(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	listID := gocql.TimeUUID()
	lists.grant(actor.ID, listID, model.AccessWrite)
	stored := &model.Item{ID: gocql.TimeUUID(), ListID: listID, Name: "apples"}
	items := newFakeItems(stored)
	svc := NewItems(newFakeUsers(actor), lists, items, nil)

	// The incoming record names only the item; the owning list comes from
	// the stored row.
	upd := &model.Item{ID: stored.ID, Name: "green apples"}
	out, err := svc.UpdateItems(context.Background(), actor.ID.String(), []*model.Item{upd})

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, listID, out[0].ListID)
	assert.Equal(t, actor.ID, out[0].UpdateUser)
	assert.Len(t, items.updated, 1)
}

func TestUpdateItemsUnresolvableItemNotFound(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	svc := NewItems(newFakeUsers(actor), newFakeLists(), newFakeItems(), nil)

	upd := &model.Item{ID: gocql.TimeUUID(), Name: "ghost"}
	_, err := svc.UpdateItems(context.Background(), actor.ID.String(), []*model.Item{upd})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateItemsMissingBothIDsInvalid(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	svc := NewItems(newFakeUsers(actor), newFakeLists(), newFakeItems(), nil)

	_, err := svc.UpdateItems(context.Background(), actor.ID.String(),
		[]*model.Item{{Name: "nameless"}})

	assert.ErrorIs(t, err, repository.ErrInvalid)
}

func TestDeleteItemsRemovesPerOwningList(t *testing.T) {
	actor := testUser("alice", model.RoleUser)
	lists := newFakeLists()
	l := &model.List{ID: gocql.TimeUUID(), Name: "groceries"}
	lists.lists[l.ID] = l
	lists.grant(actor.ID, l.ID, model.AccessOwner)
	it := &model.Item{ID: gocql.TimeUUID(), ListID: l.ID, Name: "apples"}
	pub := &fakePub{}
	svc := NewItems(newFakeUsers(actor), lists, newFakeItems(it), pub)

	_, err := svc.DeleteItems(context.Background(), actor.ID.String(),
		[]*model.Item{{ID: it.ID, ListID: l.ID}})

	require.NoError(t, err)
	assert.Equal(t, []gocql.UUID{it.ID}, lists.removedItems[l.ID])
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ItemDeleted, pub.events[0].Type)
}
