package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/store"
)

const (
	cqlInsertUser = `INSERT INTO users (user_id, username, password, role, first_name, last_name, email_address, create_user, create_date, update_user, update_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	cqlSelectUserByID = `SELECT user_id, username, password, role, first_name, last_name, email_address, create_user, create_date, update_user, update_date
		FROM users WHERE user_id = ?`
	cqlSelectUserByName = `SELECT user_id, username, password, role, first_name, last_name, email_address, create_user, create_date, update_user, update_date
		FROM users WHERE username = ?`
	cqlCountUserByName = `SELECT COUNT(*) FROM users WHERE username = ?`
	cqlUpdateUser      = `UPDATE users SET role = ?, first_name = ?, last_name = ?, email_address = ?, update_user = ?, update_date = ?
		WHERE user_id = ?`
	cqlUpdateUserCredentials = `UPDATE users SET username = ?, password = ?, update_user = ?, update_date = ?
		WHERE user_id = ?`
	cqlDeleteUserByID   = `DELETE FROM users WHERE user_id = ?`
	cqlDeleteUserByName = `DELETE FROM users WHERE username = ?`
)

// Usernames may not contain '-' so they can never collide with the
// 8-4-4-4-12 id grammar used to disambiguate identifiers on the wire.
var validUsername = regexp.MustCompile(`^[A-Za-z0-9_.]{3,64}$`)

// UserRepo provides CRUD for user records. It enforces store-level safety
// (required attributes, username uniqueness); whether the caller may
// perform the operation is decided in the service layer.
type UserRepo struct {
	db store.Client
}

// NewUserRepo returns a UserRepo bound to the given store client.
func NewUserRepo(db store.Client) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user. A missing id is assigned. The username and
// password must be non-blank and the username unused; the uniqueness check
// is check-then-insert and therefore racy under concurrent creates of the
// same name (see DESIGN.md).
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.Username == "" || u.Password == "" {
		return fmt.Errorf("username and password are required: %w", ErrInvalid)
	}
	if !validUsername.MatchString(u.Username) {
		return fmt.Errorf("username %q is not valid: %w", u.Username, ErrInvalid)
	}
	if !u.CompleteForCreate() {
		return fmt.Errorf("create and update user and timestamp cannot be blank: %w", ErrInvalid)
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	taken, err := r.usernameTaken(ctx, u.Username)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("username %q already exists: %w", u.Username, ErrConflict)
	}
	if u.ID == (gocql.UUID{}) {
		u.ID = newID()
	}
	return r.db.Exec(ctx, store.Bound{Stmt: cqlInsertUser, Args: []interface{}{
		u.ID, u.Username, u.Password, string(u.Role), u.FirstName, u.LastName, u.Email,
		u.CreateUser, u.CreateDate, u.UpdateUser, u.UpdateDate,
	}})
}

// GetByID returns the user, or nil when no row exists.
func (r *UserRepo) GetByID(ctx context.Context, id gocql.UUID) (*model.User, error) {
	return r.getOne(ctx, store.Bound{Stmt: cqlSelectUserByID, Args: []interface{}{id}})
}

// GetByUsername returns the user, or nil when no row exists.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, store.Bound{Stmt: cqlSelectUserByName, Args: []interface{}{username}})
}

// Update rewrites the user's profile attributes. The username and password
// are never touched here; UpdateCredentials handles those. Updating a user
// that does not exist is an error, not an upsert.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	if !u.CompleteForUpdate() {
		return fmt.Errorf("update user and timestamp cannot be blank: %w", ErrInvalid)
	}
	existing, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	if u.Role == "" {
		u.Role = existing.Role
	}
	return r.db.Exec(ctx, store.Bound{Stmt: cqlUpdateUser, Args: []interface{}{
		string(u.Role), u.FirstName, u.LastName, u.Email, u.UpdateUser, u.UpdateDate, u.ID,
	}})
}

// UpdateCredentials changes the username and/or password hash. A username
// change re-checks uniqueness against the new name.
func (r *UserRepo) UpdateCredentials(ctx context.Context, u *model.User) error {
	if u.Username == "" || u.Password == "" {
		return fmt.Errorf("username and password are required: %w", ErrInvalid)
	}
	if !validUsername.MatchString(u.Username) {
		return fmt.Errorf("username %q is not valid: %w", u.Username, ErrInvalid)
	}
	if !u.CompleteForUpdate() {
		return fmt.Errorf("update user and timestamp cannot be blank: %w", ErrInvalid)
	}
	existing, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	if u.Username != existing.Username {
		taken, err := r.usernameTaken(ctx, u.Username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q already exists: %w", u.Username, ErrConflict)
		}
	}
	return r.db.Exec(ctx, store.Bound{Stmt: cqlUpdateUserCredentials, Args: []interface{}{
		u.Username, u.Password, u.UpdateUser, u.UpdateDate, u.ID,
	}})
}

// Delete removes the user row by id.
func (r *UserRepo) Delete(ctx context.Context, id gocql.UUID) error {
	return r.db.Exec(ctx, store.Bound{Stmt: cqlDeleteUserByID, Args: []interface{}{id}})
}

// DeleteByUsername removes the user row by username.
func (r *UserRepo) DeleteByUsername(ctx context.Context, username string) error {
	return r.db.Exec(ctx, store.Bound{Stmt: cqlDeleteUserByName, Args: []interface{}{username}})
}

func (r *UserRepo) usernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.QueryOne(ctx, store.Bound{Stmt: cqlCountUserByName, Args: []interface{}{username}}, &n)
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) getOne(ctx context.Context, b store.Bound) (*model.User, error) {
	var u model.User
	var role string
	err := r.db.QueryOne(ctx, b,
		&u.ID, &u.Username, &u.Password, &role, &u.FirstName, &u.LastName, &u.Email,
		&u.CreateUser, &u.CreateDate, &u.UpdateUser, &u.UpdateDate,
	)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}

// newID generates a random v4 id via google/uuid; both id types are 16-byte
// arrays so the conversion is direct.
func newID() gocql.UUID {
	return gocql.UUID(uuid.New())
}
