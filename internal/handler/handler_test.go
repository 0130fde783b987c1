package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
	"github.com/listhub/lists-api/internal/service"
)

// userStoreStub answers user lookups from a fixed set and ignores writes.
type userStoreStub struct {
	byID   map[gocql.UUID]*model.User
	byName map[string]*model.User
}

func newUserStoreStub(users ...*model.User) *userStoreStub {
	s := &userStoreStub{
		byID:   make(map[gocql.UUID]*model.User),
		byName: make(map[string]*model.User),
	}
	for _, u := range users {
		s.byID[u.ID] = u
		s.byName[u.Username] = u
	}
	return s
}

func (s *userStoreStub) Create(_ context.Context, u *model.User) error { return nil }
func (s *userStoreStub) GetByID(_ context.Context, id gocql.UUID) (*model.User, error) {
	return s.byID[id], nil
}
func (s *userStoreStub) GetByUsername(_ context.Context, name string) (*model.User, error) {
	return s.byName[name], nil
}
func (s *userStoreStub) Update(_ context.Context, u *model.User) error            { return nil }
func (s *userStoreStub) UpdateCredentials(_ context.Context, u *model.User) error { return nil }
func (s *userStoreStub) Delete(_ context.Context, id gocql.UUID) error            { return nil }
func (s *userStoreStub) DeleteByUsername(_ context.Context, name string) error    { return nil }

// listStoreStub fails CreateLists with a fixed error and rejects the rest.
type listStoreStub struct {
	createErr error
}

func (s *listStoreStub) CreateLists(_ context.Context, _ *model.User, lists []*model.List) error {
	return s.createErr
}
func (s *listStoreStub) GetByID(_ context.Context, _ gocql.UUID) (*model.List, error) {
	return nil, nil
}
func (s *listStoreStub) GetListsByUser(_ context.Context, _ gocql.UUID) ([]model.List, error) {
	return nil, nil
}
func (s *listStoreStub) GetMembership(_ context.Context, _, _ gocql.UUID) (*model.Membership, error) {
	return nil, nil
}
func (s *listStoreStub) UpdateLists(_ context.Context, _ *model.User, _ []*model.List) error {
	return repository.ErrForbidden
}
func (s *listStoreStub) DeleteLists(_ context.Context, _ *model.User, _ []*model.List) error {
	return repository.ErrForbidden
}
func (s *listStoreStub) PutMembership(_ context.Context, _ *model.User, _ model.Membership) error {
	return repository.ErrForbidden
}
func (s *listStoreStub) RemoveMembership(_ context.Context, _ *model.User, _, _ gocql.UUID) error {
	return repository.ErrForbidden
}
func (s *listStoreStub) AddItems(_ context.Context, _ *model.List, _ []*model.Item) error {
	return nil
}
func (s *listStoreStub) RemoveItems(_ context.Context, _ gocql.UUID, _ time.Time, _ *model.List, _ []gocql.UUID) error {
	return nil
}

func TestHTTPStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, httpStatus(repository.ErrForbidden))
	assert.Equal(t, http.StatusNotFound, httpStatus(repository.ErrNotFound))
	assert.Equal(t, http.StatusConflict, httpStatus(repository.ErrConflict))
	assert.Equal(t, http.StatusBadRequest, httpStatus(repository.ErrInvalid))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(assert.AnError))

	// Wrapped and aggregated errors keep their mapping.
	wrapped := fmt.Errorf("user x: %w", repository.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, httpStatus(wrapped))
	be := &repository.BatchError{Errs: []error{nil, wrapped}}
	assert.Equal(t, http.StatusForbidden, httpStatus(be))
}

func TestMissingActingUserIs400(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(service.NewUsers(newUserStoreStub(), bcrypt.MinCost))

	req := httptest.NewRequest(http.MethodGet, "/user/alice", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userIdOrUsername")
	c.SetParamValues("alice")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserGetMissingIs404(t *testing.T) {
	e := echo.New()
	actor := &model.User{ID: gocql.TimeUUID(), Username: "root"}
	h := NewUserHandler(service.NewUsers(newUserStoreStub(actor), bcrypt.MinCost))

	req := httptest.NewRequest(http.MethodGet, "/user/ghost?userId="+actor.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userIdOrUsername")
	c.SetParamValues("ghost")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchCreateProjectsPerRecordErrors(t *testing.T) {
	e := echo.New()
	actor := &model.User{ID: gocql.TimeUUID(), Username: "alice", Role: model.RoleUser}
	createErr := &repository.BatchError{Errs: []error{
		nil,
		fmt.Errorf("unknown access level %q: %w", "SUPERUSER", repository.ErrInvalid),
	}}
	lists := service.NewLists(newUserStoreStub(actor), &listStoreStub{createErr: createErr}, nil)
	h := NewListHandler(lists)

	body := `[{"listName":"good"},{"listName":"bad","accessLevel":"SUPERUSER"}]`
	req := httptest.NewRequest(http.MethodPost, "/lists?userId="+actor.ID.String(),
		strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateBatch(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	payload := rec.Body.String()
	assert.Contains(t, payload, `"aborted"`)
	assert.Contains(t, payload, `"error"`)
	assert.Contains(t, payload, "unknown access level")
}

func TestListDeleteForbiddenIs403(t *testing.T) {
	e := echo.New()
	actor := &model.User{ID: gocql.TimeUUID(), Username: "alice", Role: model.RoleUser}
	lists := service.NewLists(newUserStoreStub(actor), &listStoreStub{}, nil)
	h := NewListHandler(lists)

	listID := gocql.TimeUUID().String()
	req := httptest.NewRequest(http.MethodDelete, "/list/"+listID+"?userId="+actor.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("listId")
	c.SetParamValues(listID)

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
