package service

import (
	"context"
	"fmt"
	"time"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
	"github.com/listhub/lists-api/internal/utils"
)

// Users handles user onboarding and maintenance. User records carry no
// membership logic themselves; the only gate duty here is stamping the
// acting identity onto the audit fields and keeping password hashes out of
// responses.
type Users struct {
	users      UserStore
	bcryptCost int
}

// NewUsers returns the user service.
func NewUsers(users UserStore, bcryptCost int) *Users {
	return &Users{users: users, bcryptCost: bcryptCost}
}

// Create onboards a new user. actorID stamps the audit fields; it is not
// required to resolve to an existing user, since the very first user has
// no creator on record.
func (s *Users) Create(ctx context.Context, actorID string, u *model.User) (*model.User, error) {
	actor, err := ParseID(actorID)
	if err != nil {
		return nil, err
	}
	if u.Password != "" {
		hash, err := utils.HashPassword(u.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	u.Stamp(actor, time.Now().UTC())
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return scrub(u), nil
}

// Get loads a user by id or username. A missing user returns nil.
func (s *Users) Get(ctx context.Context, idOrUsername string) (*model.User, error) {
	u, err := resolveUser(ctx, s.users, idOrUsername)
	if err != nil || u == nil {
		return nil, err
	}
	return scrub(u), nil
}

// Update rewrites a user's profile attributes. Username and password stay
// untouched; UpdateCredentials is the path for those.
func (s *Users) Update(ctx context.Context, actorID string, u *model.User) (*model.User, error) {
	actor, err := ParseID(actorID)
	if err != nil {
		return nil, err
	}
	u.StampUpdate(actor, time.Now().UTC())
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return scrub(u), nil
}

// UpdateCredentials changes username and/or password. The new password is
// hashed before it reaches the repository.
func (s *Users) UpdateCredentials(ctx context.Context, actorID string, u *model.User) (*model.User, error) {
	actor, err := ParseID(actorID)
	if err != nil {
		return nil, err
	}
	if u.Password == "" {
		return nil, fmt.Errorf("password is required: %w", repository.ErrInvalid)
	}
	hash, err := utils.HashPassword(u.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u.Password = hash
	u.StampUpdate(actor, time.Now().UTC())
	if err := s.users.UpdateCredentials(ctx, u); err != nil {
		return nil, err
	}
	return scrub(u), nil
}

// Delete removes a user by id or username.
func (s *Users) Delete(ctx context.Context, idOrUsername string) error {
	if IsUserID(idOrUsername) {
		id, err := ParseID(idOrUsername)
		if err != nil {
			return err
		}
		return s.users.Delete(ctx, id)
	}
	return s.users.DeleteByUsername(ctx, idOrUsername)
}

// scrub blanks the password hash before a record leaves the service.
func scrub(u *model.User) *model.User {
	u.Password = ""
	return u
}
