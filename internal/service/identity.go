package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
)

// Identifier strings on the wire are either an opaque user id or a
// username. Ids follow a strict 8-4-4-4-12 hexadecimal grammar; usernames
// may not contain '-' (enforced at user creation), so the two can never
// collide and a structural match is a safe routing decision.
var userIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUserID reports whether s is structurally a user id.
func IsUserID(s string) bool {
	if !userIDPattern.MatchString(s) {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ParseID parses a wire identifier that must be an id.
func ParseID(s string) (gocql.UUID, error) {
	if !IsUserID(s) {
		return gocql.UUID{}, fmt.Errorf("%q is not a valid id: %w", s, repository.ErrInvalid)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return gocql.UUID{}, fmt.Errorf("%q is not a valid id: %w", s, repository.ErrInvalid)
	}
	return gocql.UUID(u), nil
}

// resolveUser loads a user by id or by username, depending on the shape of
// the identifier. A missing user resolves to nil.
func resolveUser(ctx context.Context, users UserStore, idOrUsername string) (*model.User, error) {
	if IsUserID(idOrUsername) {
		id, err := ParseID(idOrUsername)
		if err != nil {
			return nil, err
		}
		return users.GetByID(ctx, id)
	}
	return users.GetByUsername(ctx, idOrUsername)
}

// resolveActor resolves the acting identity for an operation. The actor
// parameter is always an id, and failure to resolve it to an existing user
// is fatal for the request.
func resolveActor(ctx context.Context, users UserStore, rawID string) (*model.User, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	actor, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, fmt.Errorf("acting user %s does not exist: %w", rawID, repository.ErrForbidden)
	}
	return actor, nil
}
