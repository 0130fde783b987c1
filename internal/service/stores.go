// Package service is the request authorization gate in front of the
// repositories. Every operation resolves the acting identity, authorizes
// each target against its membership (with the ADMIN override), and only
// then lets the repositories execute. Authorization failures abort whole
// batches before anything is written.
package service

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"github.com/listhub/lists-api/internal/events"
	"github.com/listhub/lists-api/internal/model"
)

// UserStore is the user persistence surface the gate needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id gocql.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	UpdateCredentials(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id gocql.UUID) error
	DeleteByUsername(ctx context.Context, username string) error
}

// ListStore is the list/membership persistence surface.
type ListStore interface {
	CreateLists(ctx context.Context, member *model.User, lists []*model.List) error
	GetByID(ctx context.Context, id gocql.UUID) (*model.List, error)
	GetListsByUser(ctx context.Context, userID gocql.UUID) ([]model.List, error)
	GetMembership(ctx context.Context, userID, listID gocql.UUID) (*model.Membership, error)
	UpdateLists(ctx context.Context, actor *model.User, lists []*model.List) error
	DeleteLists(ctx context.Context, actor *model.User, lists []*model.List) error
	PutMembership(ctx context.Context, actor *model.User, m model.Membership) error
	RemoveMembership(ctx context.Context, actor *model.User, userID, listID gocql.UUID) error
	AddItems(ctx context.Context, list *model.List, items []*model.Item) error
	RemoveItems(ctx context.Context, actorID gocql.UUID, at time.Time, list *model.List, ids []gocql.UUID) error
}

// ItemStore is the item persistence surface.
type ItemStore interface {
	GetByID(ctx context.Context, id gocql.UUID) (*model.Item, error)
	UpdateItems(ctx context.Context, items []*model.Item) error
}

// Publisher emits change events. Implementations log and swallow broker
// trouble; the gate never fails a request over a lost event.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}
