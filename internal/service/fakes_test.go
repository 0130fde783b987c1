package service

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/events"
	"github.com/listhub/lists-api/internal/model"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	byID   map[gocql.UUID]*model.User
	byName map[string]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{
		byID:   make(map[gocql.UUID]*model.User),
		byName: make(map[string]*model.User),
	}
	for _, u := range users {
		f.add(u)
	}
	return f
}

func (f *fakeUsers) add(u *model.User) {
	f.byID[u.ID] = u
	f.byName[u.Username] = u
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if u.ID == (gocql.UUID{}) {
		u.ID = gocql.TimeUUID()
	}
	// Store a copy so later scrubbing of the caller's record does not
	// reach back into the "database".
	cp := *u
	f.add(&cp)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id gocql.UUID) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return f.byName[username], nil
}

func (f *fakeUsers) Update(_ context.Context, u *model.User) error            { f.add(u); return nil }
func (f *fakeUsers) UpdateCredentials(_ context.Context, u *model.User) error { f.add(u); return nil }

func (f *fakeUsers) Delete(_ context.Context, id gocql.UUID) error {
	if u := f.byID[id]; u != nil {
		delete(f.byName, u.Username)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) DeleteByUsername(_ context.Context, username string) error {
	if u := f.byName[username]; u != nil {
		delete(f.byID, u.ID)
	}
	delete(f.byName, username)
	return nil
}

type membershipKey struct {
	userID gocql.UUID
	listID gocql.UUID
}

// fakeLists is an in-memory ListStore. Mutations are recorded for
// assertions; authorization behavior belongs to the real repository and is
// not replicated here.
type fakeLists struct {
	lists       map[gocql.UUID]*model.List
	memberships map[membershipKey]model.AccessLevel

	created      []*model.List
	createdFor   *model.User
	updated      []*model.List
	deleted      []*model.List
	put          []model.Membership
	removed      []membershipKey
	addedItems   map[gocql.UUID][]*model.Item
	removedItems map[gocql.UUID][]gocql.UUID
}

func newFakeLists() *fakeLists {
	return &fakeLists{
		lists:        make(map[gocql.UUID]*model.List),
		memberships:  make(map[membershipKey]model.AccessLevel),
		addedItems:   make(map[gocql.UUID][]*model.Item),
		removedItems: make(map[gocql.UUID][]gocql.UUID),
	}
}

func (f *fakeLists) grant(userID, listID gocql.UUID, level model.AccessLevel) {
	f.memberships[membershipKey{userID, listID}] = level
}

func (f *fakeLists) CreateLists(_ context.Context, member *model.User, lists []*model.List) error {
	f.createdFor = member
	for _, l := range lists {
		if l.ID == (gocql.UUID{}) {
			l.ID = gocql.TimeUUID()
		}
		if l.Level == "" {
			l.Level = model.AccessOwner
		}
		f.lists[l.ID] = l
		f.grant(member.ID, l.ID, l.Level)
		f.created = append(f.created, l)
	}
	return nil
}

func (f *fakeLists) GetByID(_ context.Context, id gocql.UUID) (*model.List, error) {
	return f.lists[id], nil
}

func (f *fakeLists) GetListsByUser(_ context.Context, userID gocql.UUID) ([]model.List, error) {
	out := make([]model.List, 0)
	for key, level := range f.memberships {
		if key.userID != userID {
			continue
		}
		if l := f.lists[key.listID]; l != nil {
			withLevel := *l
			withLevel.Level = level
			out = append(out, withLevel)
		}
	}
	return out, nil
}

func (f *fakeLists) GetMembership(_ context.Context, userID, listID gocql.UUID) (*model.Membership, error) {
	level, ok := f.memberships[membershipKey{userID, listID}]
	if !ok {
		return nil, nil
	}
	return &model.Membership{UserID: userID, ListID: listID, Level: level}, nil
}

func (f *fakeLists) UpdateLists(_ context.Context, _ *model.User, lists []*model.List) error {
	f.updated = append(f.updated, lists...)
	return nil
}

func (f *fakeLists) DeleteLists(_ context.Context, _ *model.User, lists []*model.List) error {
	f.deleted = append(f.deleted, lists...)
	return nil
}

func (f *fakeLists) PutMembership(_ context.Context, _ *model.User, m model.Membership) error {
	f.put = append(f.put, m)
	f.grant(m.UserID, m.ListID, m.Level)
	return nil
}

func (f *fakeLists) RemoveMembership(_ context.Context, _ *model.User, userID, listID gocql.UUID) error {
	key := membershipKey{userID, listID}
	f.removed = append(f.removed, key)
	delete(f.memberships, key)
	return nil
}

func (f *fakeLists) AddItems(_ context.Context, list *model.List, items []*model.Item) error {
	for _, it := range items {
		if it.ID == (gocql.UUID{}) {
			it.ID = gocql.TimeUUID()
		}
	}
	f.addedItems[list.ID] = append(f.addedItems[list.ID], items...)
	return nil
}

func (f *fakeLists) RemoveItems(_ context.Context, _ gocql.UUID, _ time.Time, list *model.List, ids []gocql.UUID) error {
	f.removedItems[list.ID] = append(f.removedItems[list.ID], ids...)
	return nil
}

// fakeItems is an in-memory ItemStore.
type fakeItems struct {
	byID    map[gocql.UUID]*model.Item
	updated []*model.Item
}

func newFakeItems(items ...*model.Item) *fakeItems {
	f := &fakeItems{byID: make(map[gocql.UUID]*model.Item)}
	for _, it := range items {
		f.byID[it.ID] = it
	}
	return f
}

func (f *fakeItems) GetByID(_ context.Context, id gocql.UUID) (*model.Item, error) {
	return f.byID[id], nil
}

func (f *fakeItems) UpdateItems(_ context.Context, items []*model.Item) error {
	f.updated = append(f.updated, items...)
	return nil
}

// fakePub records published events.
type fakePub struct {
	events []events.Event
}

func (f *fakePub) Publish(_ context.Context, e events.Event) error {
	f.events = append(f.events, e)
	return nil
}
