package repository

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/store"
)

const (
	cqlInsertItem = `INSERT INTO items (item_id, list_id, item_name, create_user, create_date, update_user, update_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	cqlSelectItemByID = `SELECT item_id, list_id, item_name, create_user, create_date, update_user, update_date
		FROM items WHERE item_id = ?`
	cqlSelectItemsByList = `SELECT item_id, list_id, item_name, create_user, create_date, update_user, update_date
		FROM items WHERE list_id = ?`
	cqlUpdateItem = `UPDATE items SET item_name = ?, update_user = ?, update_date = ?
		WHERE item_id = ?`
	cqlDeleteItem = `DELETE FROM items WHERE item_id = ?`
)

// ItemRepo provides batched CRUD for items. It carries no authorization
// logic; callers must have cleared the acting user against the owning
// list's membership before reaching it.
type ItemRepo struct {
	db store.Client
}

// NewItemRepo returns an ItemRepo bound to the given store client.
func NewItemRepo(db store.Client) *ItemRepo { return &ItemRepo{db: db} }

// StageCreate validates the whole batch, assigns ids to items lacking one,
// and appends one insert per item to the write-set. Validation is
// all-or-nothing: one bad item fails the call before anything is staged.
func (r *ItemRepo) StageCreate(ws *store.WriteSet, items []*model.Item) error {
	errs := make([]error, len(items))
	for i, it := range items {
		if it.ListID == (gocql.UUID{}) {
			errs[i] = fmt.Errorf("item is missing its list id: %w", ErrInvalid)
			continue
		}
		if !it.CompleteForCreate() {
			errs[i] = fmt.Errorf("create and update user and timestamp cannot be blank: %w", ErrInvalid)
		}
	}
	if err := batchError(errs); err != nil {
		return err
	}
	for _, it := range items {
		if it.ID == (gocql.UUID{}) {
			it.ID = newID()
		}
		ws.Add(cqlInsertItem,
			it.ID, it.ListID, it.Name,
			it.CreateUser, it.CreateDate, it.UpdateUser, it.UpdateDate)
	}
	return nil
}

// StageUpdate validates the batch and appends one update per item. Ids are
// never assigned here; an item without one is invalid.
func (r *ItemRepo) StageUpdate(ws *store.WriteSet, items []*model.Item) error {
	errs := make([]error, len(items))
	for i, it := range items {
		if it.ID == (gocql.UUID{}) {
			errs[i] = fmt.Errorf("item is missing its id: %w", ErrInvalid)
			continue
		}
		if !it.CompleteForUpdate() {
			errs[i] = fmt.Errorf("update user and timestamp cannot be blank: %w", ErrInvalid)
		}
	}
	if err := batchError(errs); err != nil {
		return err
	}
	for _, it := range items {
		ws.Add(cqlUpdateItem, it.Name, it.UpdateUser, it.UpdateDate, it.ID)
	}
	return nil
}

// StageDelete appends one delete per id.
func (r *ItemRepo) StageDelete(ws *store.WriteSet, ids []gocql.UUID) {
	for _, id := range ids {
		ws.Add(cqlDeleteItem, id)
	}
}

// CreateItems stages and submits a standalone create batch.
func (r *ItemRepo) CreateItems(ctx context.Context, items []*model.Item) error {
	var ws store.WriteSet
	if err := r.StageCreate(&ws, items); err != nil {
		return err
	}
	return r.db.ExecBatch(ctx, &ws)
}

// UpdateItems stages and submits a standalone update batch.
func (r *ItemRepo) UpdateItems(ctx context.Context, items []*model.Item) error {
	var ws store.WriteSet
	if err := r.StageUpdate(&ws, items); err != nil {
		return err
	}
	return r.db.ExecBatch(ctx, &ws)
}

// DeleteItems stages and submits a standalone delete batch.
func (r *ItemRepo) DeleteItems(ctx context.Context, ids []gocql.UUID) error {
	var ws store.WriteSet
	r.StageDelete(&ws, ids)
	return r.db.ExecBatch(ctx, &ws)
}

// GetByID returns the item, or nil when no row exists.
func (r *ItemRepo) GetByID(ctx context.Context, id gocql.UUID) (*model.Item, error) {
	var it model.Item
	err := r.db.QueryOne(ctx, store.Bound{Stmt: cqlSelectItemByID, Args: []interface{}{id}},
		&it.ID, &it.ListID, &it.Name,
		&it.CreateUser, &it.CreateDate, &it.UpdateUser, &it.UpdateDate)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByListID returns every item belonging to the list, in storage order.
// The scan is paginated underneath; callers see one flat slice.
func (r *ItemRepo) GetByListID(ctx context.Context, listID gocql.UUID) ([]model.Item, error) {
	iter := r.db.Query(ctx, store.Bound{Stmt: cqlSelectItemsByList, Args: []interface{}{listID}})
	items := make([]model.Item, 0)
	var it model.Item
	for iter.Scan(&it.ID, &it.ListID, &it.Name,
		&it.CreateUser, &it.CreateDate, &it.UpdateUser, &it.UpdateDate) {
		items = append(items, it)
		it = model.Item{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}
