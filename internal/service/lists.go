package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/events"
	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
)

// Lists is the gate in front of the list/membership repository.
type Lists struct {
	users UserStore
	lists ListStore
	pub   Publisher
}

// NewLists returns the list service. pub may be nil to disable events.
func NewLists(users UserStore, lists ListStore, pub Publisher) *Lists {
	return &Lists{users: users, lists: lists, pub: pub}
}

// CreateLists creates lists owned by forUser, or by the actor when forUser
// is empty. The actor stamps the audit fields either way; the membership
// rows belong to the member the lists are created for.
func (s *Lists) CreateLists(ctx context.Context, actorID, forUser string, lists []*model.List) ([]*model.List, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	member := actor
	if forUser != "" {
		member, err = resolveUser(ctx, s.users, forUser)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("user %q: %w", forUser, repository.ErrNotFound)
		}
	}

	now := time.Now().UTC()
	for _, l := range lists {
		l.Stamp(actor.ID, now)
	}
	if err := s.lists.CreateLists(ctx, member, lists); err != nil {
		return nil, err
	}
	for _, l := range lists {
		s.emit(ctx, events.Event{Type: events.ListCreated, ActorID: actor.ID.String(), ListID: l.ID.String(), OccurredAt: now})
	}
	return lists, nil
}

// GetList returns the list with its items in stored order. The actor must
// hold a membership on the list (any level) or be an ADMIN; the membership
// is checked before the list is fetched, so an outsider learns nothing
// about the list's existence.
func (s *Lists) GetList(ctx context.Context, actorID, listID string) (*model.List, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := ParseID(listID)
	if err != nil {
		return nil, err
	}
	m, err := s.authorizeRead(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	l, err := s.lists.GetByID(ctx, id)
	if err != nil || l == nil {
		return nil, err
	}
	if m != nil {
		l.Level = m.Level
	}
	return l, nil
}

// GetListsForUser returns every list the target user can access, with the
// target's access level attached. Only the user themselves or an ADMIN may
// enumerate a user's lists.
func (s *Lists) GetListsForUser(ctx context.Context, actorID, idOrUsername string) ([]model.List, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	target, err := resolveUser(ctx, s.users, idOrUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("user %q: %w", idOrUsername, repository.ErrNotFound)
	}
	if !actor.Role.IsAdmin() && actor.ID != target.ID {
		return nil, fmt.Errorf("user %s may not read lists of user %s: %w", actor.ID, target.ID, repository.ErrForbidden)
	}
	return s.lists.GetListsByUser(ctx, target.ID)
}

// UpdateLists rewrites list attributes. Authorization is per target inside
// the repository: one denied list aborts the whole batch.
func (s *Lists) UpdateLists(ctx context.Context, actorID string, lists []*model.List) ([]*model.List, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, l := range lists {
		l.StampUpdate(actor.ID, now)
	}
	if err := s.lists.UpdateLists(ctx, actor, lists); err != nil {
		return nil, err
	}
	for _, l := range lists {
		s.emit(ctx, events.Event{Type: events.ListUpdated, ActorID: actor.ID.String(), ListID: l.ID.String(), OccurredAt: now})
	}
	return lists, nil
}

// DeleteLists removes lists, their membership rows travelling in the same
// batch as the list rows.
func (s *Lists) DeleteLists(ctx context.Context, actorID string, lists []*model.List) ([]*model.List, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.lists.DeleteLists(ctx, actor, lists); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for _, l := range lists {
		s.emit(ctx, events.Event{Type: events.ListDeleted, ActorID: actor.ID.String(), ListID: l.ID.String(), OccurredAt: now})
	}
	return lists, nil
}

// Share grants member the given access level on a list. Ownership (or the
// ADMIN override) is required; write access alone cannot change what other
// members may do.
func (s *Lists) Share(ctx context.Context, actorID, listID, member string, level model.AccessLevel) (*model.Membership, error) {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	id, err := ParseID(listID)
	if err != nil {
		return nil, err
	}
	target, err := resolveUser(ctx, s.users, member)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("user %q: %w", member, repository.ErrNotFound)
	}
	m := model.Membership{UserID: target.ID, ListID: id, Level: level}
	if err := s.lists.PutMembership(ctx, actor, m); err != nil {
		return nil, err
	}
	s.emit(ctx, events.Event{Type: events.ListShared, ActorID: actor.ID.String(), ListID: id.String(), OccurredAt: time.Now().UTC()})
	return &m, nil
}

// Unshare revokes member's access to a list. Owner-gated like Share.
func (s *Lists) Unshare(ctx context.Context, actorID, listID, member string) error {
	actor, err := resolveActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}
	id, err := ParseID(listID)
	if err != nil {
		return err
	}
	target, err := resolveUser(ctx, s.users, member)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("user %q: %w", member, repository.ErrNotFound)
	}
	return s.lists.RemoveMembership(ctx, actor, target.ID, id)
}

// authorizeRead demands read access on the list. It returns the resolved
// membership (nil for an ADMIN actor) so callers can attach the level.
func (s *Lists) authorizeRead(ctx context.Context, actor *model.User, listID gocql.UUID) (*model.Membership, error) {
	if actor.Role.IsAdmin() {
		return nil, nil
	}
	m, err := s.lists.GetMembership(ctx, actor.ID, listID)
	if err != nil {
		return nil, err
	}
	if !m.CanRead() {
		return nil, fmt.Errorf("user %s does not have read access on list %s: %w", actor.ID, listID, repository.ErrForbidden)
	}
	return m, nil
}

func (s *Lists) emit(ctx context.Context, e events.Event) {
	if s.pub != nil {
		_ = s.pub.Publish(ctx, e)
	}
}
