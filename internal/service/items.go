package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/events"
	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
)

// Items is the gate in front of the item repository. Item permissions are
// the owning list's permissions: whoever may write the list may create,
// update and delete its items. Creating or deleting items also rewrites
// the owning list's sort order, in the same batch as the item rows.
type Items struct {
	users UserStore
	lists ListStore
	items ItemStore
	pub   Publisher
}

// NewItems returns the item service. pub may be nil to disable events.
func NewItems(users UserStore, lists ListStore, items ItemStore, pub Publisher) *Items {
	return &Items{users: users, lists: lists, items: items, pub: pub}
}

// CreateItems creates the items, grouped by owning list. Every target list
// is authorized before anything executes; one denied list aborts the whole
// request. Each list's inserts and its sort-order rewrite form one batch.
func (s *Items) CreateItems(ctx context.Context, actorID string, items []*model.Item) ([]*model.Item, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	listIDs, byList := groupByList(items)

	var denied []error
	for _, listID := range listIDs {
		if err := s.authorizeWrite(ctx, actor, listID); err != nil {
			denied = append(denied, err)
		}
	}
	if len(denied) > 0 {
		return nil, errors.Join(denied...)
	}

	now := time.Now().UTC()
	for _, it := range items {
		it.Stamp(actor.ID, now)
	}
	for _, listID := range listIDs {
		l, err := s.lists.GetByID(ctx, listID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("list %s: %w", listID, repository.ErrNotFound)
		}
		if err := s.lists.AddItems(ctx, l, byList[listID]); err != nil {
			return nil, err
		}
	}
	for _, it := range items {
		s.emit(ctx, events.Event{Type: events.ItemCreated, ActorID: actor.ID.String(),
			ListID: it.ListID.String(), ItemID: it.ID.String(), OccurredAt: now})
	}
	return items, nil
}

// GetItem returns the item, or nil when it does not exist. Read access on
// the owning list is required.
func (s *Items) GetItem(ctx context.Context, actorID, itemID string) (*model.Item, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := ParseID(itemID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil || it == nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, it.ListID); err != nil {
		return nil, err
	}
	return it, nil
}

// GetItemsForList returns the list's items in stored order, or nil when
// the list does not exist.
func (s *Items) GetItemsForList(ctx context.Context, actorID, listID string) ([]model.Item, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := ParseID(listID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, actor, id); err != nil {
		return nil, err
	}
	l, err := s.lists.GetByID(ctx, id)
	if err != nil || l == nil {
		return nil, err
	}
	return l.Items, nil
}

// UpdateItems rewrites item attributes. Items must carry their owning list
// id or resolve to an existing row; every target is authorized before the
// single update batch executes.
func (s *Items) UpdateItems(ctx context.Context, actorID string, items []*model.Item) ([]*model.Item, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.fillListIDs(ctx, items); err != nil {
		return nil, err
	}
	listIDs, _ := groupByList(items)
	var denied []error
	for _, listID := range listIDs {
		if err := s.authorizeWrite(ctx, actor, listID); err != nil {
			denied = append(denied, err)
		}
	}
	if len(denied) > 0 {
		return nil, errors.Join(denied...)
	}

	now := time.Now().UTC()
	for _, it := range items {
		it.StampUpdate(actor.ID, now)
	}
	if err := s.items.UpdateItems(ctx, items); err != nil {
		return nil, err
	}
	for _, it := range items {
		s.emit(ctx, events.Event{Type: events.ItemUpdated, ActorID: actor.ID.String(),
			ListID: it.ListID.String(), ItemID: it.ID.String(), OccurredAt: now})
	}
	return items, nil
}

// DeleteItems removes the items, grouped by owning list; each group's row
// deletes and its list's sort-order rewrite form one batch.
func (s *Items) DeleteItems(ctx context.Context, actorID string, items []*model.Item) ([]*model.Item, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.fillListIDs(ctx, items); err != nil {
		return nil, err
	}
	listIDs, byList := groupByList(items)
	var denied []error
	for _, listID := range listIDs {
		if err := s.authorizeWrite(ctx, actor, listID); err != nil {
			denied = append(denied, err)
		}
	}
	if len(denied) > 0 {
		return nil, errors.Join(denied...)
	}

	now := time.Now().UTC()
	for _, listID := range listIDs {
		l, err := s.lists.GetByID(ctx, listID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("list %s: %w", listID, repository.ErrNotFound)
		}
		ids := make([]gocql.UUID, 0, len(byList[listID]))
		for _, it := range byList[listID] {
			ids = append(ids, it.ID)
		}
		if err := s.lists.RemoveItems(ctx, actor.ID, now, l, ids); err != nil {
			return nil, err
		}
	}
	for _, it := range items {
		s.emit(ctx, events.Event{Type: events.ItemDeleted, ActorID: actor.ID.String(),
			ListID: it.ListID.String(), ItemID: it.ID.String(), OccurredAt: now})
	}
	return items, nil
}

// fillListIDs resolves the owning list for items that arrived without one.
// An item that resolves to no row is an error: the write targets a
// nonexistent entity.
func (s *Items) fillListIDs(ctx context.Context, items []*model.Item) error {
	var errs []error
	for _, it := range items {
		if it.ListID != (gocql.UUID{}) {
			continue
		}
		if it.ID == (gocql.UUID{}) {
			errs = append(errs, fmt.Errorf("item is missing its id: %w", repository.ErrInvalid))
			continue
		}
		existing, err := s.items.GetByID(ctx, it.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			errs = append(errs, fmt.Errorf("item %s: %w", it.ID, repository.ErrNotFound))
			continue
		}
		it.ListID = existing.ListID
	}
	return errors.Join(errs...)
}

func (s *Items) authorizeRead(ctx context.Context, actor *model.User, listID gocql.UUID) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	m, err := s.lists.GetMembership(ctx, actor.ID, listID)
	if err != nil {
		return err
	}
	if !m.CanRead() {
		return fmt.Errorf("user %s does not have read access on list %s: %w", actor.ID, listID, repository.ErrForbidden)
	}
	return nil
}

func (s *Items) authorizeWrite(ctx context.Context, actor *model.User, listID gocql.UUID) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	m, err := s.lists.GetMembership(ctx, actor.ID, listID)
	if err != nil {
		return err
	}
	if !m.CanWrite() {
		return fmt.Errorf("user %s does not have write access on list %s: %w", actor.ID, listID, repository.ErrForbidden)
	}
	return nil
}

// groupByList buckets items by owning list, preserving first-seen order.
func groupByList(items []*model.Item) ([]gocql.UUID, map[gocql.UUID][]*model.Item) {
	var order []gocql.UUID
	byList := make(map[gocql.UUID][]*model.Item)
	for _, it := range items {
		if _, ok := byList[it.ListID]; !ok {
			order = append(order, it.ListID)
		}
		byList[it.ListID] = append(byList[it.ListID], it)
	}
	return order, byList
}

func (s *Items) emit(ctx context.Context, e events.Event) {
	if s.pub != nil {
		_ = s.pub.Publish(ctx, e)
	}
}
