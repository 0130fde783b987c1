package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/store"
)

const (
	cqlInsertMembership = `INSERT INTO user_lists (user_id, list_id, authorization_level)
		VALUES (?, ?, ?)`
	cqlSelectMembership = `SELECT user_id, list_id, authorization_level
		FROM user_lists WHERE user_id = ? AND list_id = ?`
	cqlSelectMembershipsByUser = `SELECT user_id, list_id, authorization_level
		FROM user_lists WHERE user_id = ?`
	cqlDeleteMembership = `DELETE FROM user_lists WHERE user_id = ? AND list_id = ?`

	cqlInsertList = `INSERT INTO lists (list_id, list_name, item_sort_order, create_user, create_date, update_user, update_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	cqlSelectListByID = `SELECT list_id, list_name, item_sort_order, create_user, create_date, update_user, update_date
		FROM lists WHERE list_id = ?`
	cqlSelectListsByIDs = `SELECT list_id, list_name, item_sort_order, create_user, create_date, update_user, update_date
		FROM lists WHERE list_id IN ?`
	cqlUpdateList = `UPDATE lists SET list_name = ?, item_sort_order = ?, update_user = ?, update_date = ?
		WHERE list_id = ?`
	cqlUpdateListSortOrder = `UPDATE lists SET item_sort_order = ?, update_user = ?, update_date = ?
		WHERE list_id = ?`
	cqlDeleteList = `DELETE FROM lists WHERE list_id = ?`
)

// ListRepo maintains the two denormalized relations behind a list: the
// list attributes row and the user_lists membership rows. The store has no
// multi-table transactions, so every logical change that touches both
// relations is staged into a single write-set and submitted as one batch;
// the pairing is enforced here, not by the store.
type ListRepo struct {
	db    store.Client
	items *ItemRepo
}

// NewListRepo returns a ListRepo. The item repository is used to load and
// co-mutate the list's item collection.
func NewListRepo(db store.Client, items *ItemRepo) *ListRepo {
	return &ListRepo{db: db, items: items}
}

// CreateLists inserts the given lists for member. Each list gets an id if
// it lacks one and an OWNER membership unless another level was specified,
// so every list has at least one owner from the moment it exists. The
// membership row and the list row of every list travel in one batch.
func (r *ListRepo) CreateLists(ctx context.Context, member *model.User, lists []*model.List) error {
	errs := make([]error, len(lists))
	for i, l := range lists {
		if l.Level == "" {
			l.Level = model.AccessOwner
		}
		if !l.Level.Valid() {
			errs[i] = fmt.Errorf("unknown access level %q: %w", l.Level, ErrInvalid)
			continue
		}
		if !l.CompleteForCreate() {
			errs[i] = fmt.Errorf("create and update user and timestamp cannot be blank: %w", ErrInvalid)
		}
	}
	if err := batchError(errs); err != nil {
		return err
	}

	var ws store.WriteSet
	for _, l := range lists {
		if l.ID == (gocql.UUID{}) {
			l.ID = newID()
		}
		l.ItemSortOrder = ItemIDs(l.Items)
		ws.Add(cqlInsertMembership, member.ID, l.ID, string(l.Level))
		ws.Add(cqlInsertList,
			l.ID, l.Name, l.ItemSortOrder,
			l.CreateUser, l.CreateDate, l.UpdateUser, l.UpdateDate)
	}
	return r.db.ExecBatch(ctx, &ws)
}

// GetByID returns the list with its items attached in stored order, or nil
// when no row exists.
func (r *ListRepo) GetByID(ctx context.Context, id gocql.UUID) (*model.List, error) {
	l, err := r.getRow(ctx, id)
	if err != nil || l == nil {
		return nil, err
	}
	items, err := r.items.GetByListID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Items = SortItemsByOrder(l.ItemSortOrder, items)
	return l, nil
}

// GetMembership returns the membership row for (userID, listID), or nil
// when the user has no access to the list.
func (r *ListRepo) GetMembership(ctx context.Context, userID, listID gocql.UUID) (*model.Membership, error) {
	var m model.Membership
	var level string
	err := r.db.QueryOne(ctx,
		store.Bound{Stmt: cqlSelectMembership, Args: []interface{}{userID, listID}},
		&m.UserID, &m.ListID, &level)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Level = model.ParseAccessLevel(level)
	return &m, nil
}

// GetMembershipsByUser scans every membership row of the user.
func (r *ListRepo) GetMembershipsByUser(ctx context.Context, userID gocql.UUID) ([]model.Membership, error) {
	iter := r.db.Query(ctx, store.Bound{Stmt: cqlSelectMembershipsByUser, Args: []interface{}{userID}})
	memberships := make([]model.Membership, 0)
	var m model.Membership
	var level string
	for iter.Scan(&m.UserID, &m.ListID, &level) {
		m.Level = model.ParseAccessLevel(level)
		memberships = append(memberships, m)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return memberships, nil
}

// GetListsByUser returns every list the user holds a membership for, with
// the user's own access level attached to each record. Items are not
// loaded here; GetByID serves the detailed view.
func (r *ListRepo) GetListsByUser(ctx context.Context, userID gocql.UUID) ([]model.List, error) {
	memberships, err := r.GetMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []model.List{}, nil
	}

	ids := make([]gocql.UUID, 0, len(memberships))
	levels := make(map[gocql.UUID]model.AccessLevel, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.ListID)
		levels[m.ListID] = m.Level
	}

	iter := r.db.Query(ctx, store.Bound{Stmt: cqlSelectListsByIDs, Args: []interface{}{ids}})
	lists := make([]model.List, 0, len(ids))
	var l model.List
	for iter.Scan(&l.ID, &l.Name, &l.ItemSortOrder,
		&l.CreateUser, &l.CreateDate, &l.UpdateUser, &l.UpdateDate) {
		l.Level = levels[l.ID]
		lists = append(lists, l)
		l = model.List{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return lists, nil
}

// UpdateLists rewrites the attribute rows of the given lists on behalf of
// actor. Every list is authorized and validated before anything is staged;
// one denied or invalid list aborts the whole batch. The stored sort order
// is recomputed from each list's in-memory item collection. Membership
// rows are not touched here; PutMembership changes those.
func (r *ListRepo) UpdateLists(ctx context.Context, actor *model.User, lists []*model.List) error {
	errs := make([]error, len(lists))
	for i, l := range lists {
		if err := r.requireWrite(ctx, actor, l.ID); err != nil {
			errs[i] = err
			continue
		}
		if !l.CompleteForUpdate() {
			errs[i] = fmt.Errorf("update user and timestamp cannot be blank: %w", ErrInvalid)
		}
	}
	if err := batchError(errs); err != nil {
		return err
	}

	var ws store.WriteSet
	for _, l := range lists {
		l.ItemSortOrder = ItemIDs(l.Items)
		ws.Add(cqlUpdateList, l.Name, l.ItemSortOrder, l.UpdateUser, l.UpdateDate, l.ID)
	}
	return r.db.ExecBatch(ctx, &ws)
}

// DeleteLists removes the given lists on behalf of actor. For each list
// the actor's membership row and the list row are deleted in the same
// batch. Membership rows of other members live in partitions keyed by
// their user id and are left behind; the read path tolerates the dangling
// references (see DESIGN.md).
func (r *ListRepo) DeleteLists(ctx context.Context, actor *model.User, lists []*model.List) error {
	errs := make([]error, len(lists))
	for i, l := range lists {
		errs[i] = r.requireWrite(ctx, actor, l.ID)
	}
	if err := batchError(errs); err != nil {
		return err
	}

	var ws store.WriteSet
	for _, l := range lists {
		ws.Add(cqlDeleteMembership, actor.ID, l.ID)
		ws.Add(cqlDeleteList, l.ID)
	}
	return r.db.ExecBatch(ctx, &ws)
}

// PutMembership grants or changes a member's access level on a list.
// Changing what another user may do requires ownership, not mere write
// access; an ADMIN actor bypasses the check.
func (r *ListRepo) PutMembership(ctx context.Context, actor *model.User, m model.Membership) error {
	if !m.Level.Valid() {
		return fmt.Errorf("unknown access level %q: %w", m.Level, ErrInvalid)
	}
	if err := r.requireOwner(ctx, actor, m.ListID); err != nil {
		return err
	}
	return r.db.Exec(ctx, store.Bound{Stmt: cqlInsertMembership,
		Args: []interface{}{m.UserID, m.ListID, string(m.Level)}})
}

// RemoveMembership revokes a member's access to a list. Owner-gated like
// PutMembership.
func (r *ListRepo) RemoveMembership(ctx context.Context, actor *model.User, userID, listID gocql.UUID) error {
	if err := r.requireOwner(ctx, actor, listID); err != nil {
		return err
	}
	return r.db.Exec(ctx, store.Bound{Stmt: cqlDeleteMembership,
		Args: []interface{}{userID, listID}})
}

// AddItems inserts items into the list and rewrites the stored sort order
// in the same write-set, appending the new ids after the surviving ones.
// The caller supplies the list as read through GetByID so the current item
// collection is known.
func (r *ListRepo) AddItems(ctx context.Context, list *model.List, items []*model.Item) error {
	var ws store.WriteSet
	if err := r.items.StageCreate(&ws, items); err != nil {
		return err
	}

	order := ItemIDs(list.Items)
	var updateUser gocql.UUID
	var updateDate = list.UpdateDate
	for _, it := range items {
		order = append(order, it.ID)
		updateUser = it.UpdateUser
		updateDate = it.UpdateDate
	}
	list.ItemSortOrder = order
	ws.Add(cqlUpdateListSortOrder, order, updateUser, updateDate, list.ID)
	return r.db.ExecBatch(ctx, &ws)
}

// RemoveItems deletes items from the list and drops their ids from the
// stored sort order in the same write-set.
func (r *ListRepo) RemoveItems(ctx context.Context, actorID gocql.UUID, at time.Time, list *model.List, ids []gocql.UUID) error {
	drop := make(map[gocql.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	order := make([]gocql.UUID, 0, len(list.ItemSortOrder))
	for _, id := range list.ItemSortOrder {
		if !drop[id] {
			order = append(order, id)
		}
	}

	var ws store.WriteSet
	r.items.StageDelete(&ws, ids)
	list.ItemSortOrder = order
	ws.Add(cqlUpdateListSortOrder, order, actorID, at, list.ID)
	return r.db.ExecBatch(ctx, &ws)
}

// requireWrite resolves the actor's membership on the list and demands
// write access. Absent membership means no access, never an implicit
// grant; an ADMIN actor bypasses the lookup entirely.
func (r *ListRepo) requireWrite(ctx context.Context, actor *model.User, listID gocql.UUID) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	m, err := r.GetMembership(ctx, actor.ID, listID)
	if err != nil {
		return err
	}
	if !m.CanWrite() {
		return fmt.Errorf("user %s does not have write access on list %s: %w", actor.ID, listID, ErrForbidden)
	}
	return nil
}

func (r *ListRepo) requireOwner(ctx context.Context, actor *model.User, listID gocql.UUID) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	m, err := r.GetMembership(ctx, actor.ID, listID)
	if err != nil {
		return err
	}
	if !m.IsOwner() {
		return fmt.Errorf("user %s does not own list %s: %w", actor.ID, listID, ErrForbidden)
	}
	return nil
}

func (r *ListRepo) getRow(ctx context.Context, id gocql.UUID) (*model.List, error) {
	var l model.List
	err := r.db.QueryOne(ctx, store.Bound{Stmt: cqlSelectListByID, Args: []interface{}{id}},
		&l.ID, &l.Name, &l.ItemSortOrder,
		&l.CreateUser, &l.CreateDate, &l.UpdateUser, &l.UpdateDate)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
