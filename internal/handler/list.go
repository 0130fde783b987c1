package handler

import (
	"errors"
	"net/http"

	"github.com/gocql/gocql"
	"github.com/labstack/echo/v4"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/repository"
	"github.com/listhub/lists-api/internal/service"
)

// ListHandler serves the list and membership endpoints.
type ListHandler struct {
	Lists *service.Lists
}

func NewListHandler(l *service.Lists) *ListHandler { return &ListHandler{Lists: l} }

type shareReq struct {
	Member string            `json:"member"`
	Level  model.AccessLevel `json:"accessLevel"`
}

// batchResult is the per-record projection returned by the batch create
// endpoint. The underlying batch is all-or-nothing at the validation
// boundary, so on failure every record reports either its own error or
// that it was aborted by a sibling.
type batchResult struct {
	ListID string `json:"listId,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Create handles POST /list, multiplexing update and delete through the
// action parameter for API compatibility.
func (h *ListHandler) Create(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var l model.List
	if err := c.Bind(&l); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	switch c.QueryParam("action") {
	case "UPDATE":
		out, err := h.Lists.UpdateLists(ctx, actorID, []*model.List{&l})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out[0])
	case "DELETE":
		out, err := h.Lists.DeleteLists(ctx, actorID, []*model.List{&l})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out[0])
	default:
		out, err := h.Lists.CreateLists(ctx, actorID, "", []*model.List{&l})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, out[0])
	}
}

// CreateForUser handles POST /user/:userIdOrUsername/list: the named user
// becomes the member, the actor stamps the audit fields.
func (h *ListHandler) CreateForUser(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var l model.List
	if err := c.Bind(&l); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Lists.CreateLists(ctx, actorID, c.Param("userIdOrUsername"), []*model.List{&l})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out[0])
}

// CreateBatch handles POST /lists. Unlike the single-record endpoints it
// reports a per-record projection, since silent partial failure is the
// risk batch callers care about.
func (h *ListHandler) CreateBatch(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var lists []*model.List
	if err := c.Bind(&lists); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(lists) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty batch"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Lists.CreateLists(ctx, actorID, "", lists)
	if err != nil {
		var be *repository.BatchError
		if errors.As(err, &be) && len(be.Errs) == len(lists) {
			results := make([]batchResult, len(lists))
			for i, recordErr := range be.Errs {
				results[i] = batchResult{Status: "aborted"}
				if lists[i].ID != (gocql.UUID{}) {
					results[i].ListID = lists[i].ID.String()
				}
				if recordErr != nil {
					results[i].Status = "error"
					results[i].Error = recordErr.Error()
				}
			}
			return c.JSON(httpStatus(err), echo.Map{"results": results})
		}
		return respondError(c, err)
	}
	results := make([]batchResult, len(out))
	for i, l := range out {
		results[i] = batchResult{ListID: l.ID.String(), Status: "created"}
	}
	return c.JSON(http.StatusCreated, echo.Map{"results": results, "lists": out})
}

// Get handles GET /list/:listId.
func (h *ListHandler) Get(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	l, err := h.Lists.GetList(ctx, actorID, c.Param("listId"))
	if err != nil {
		return respondError(c, err)
	}
	if l == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
	}
	return c.JSON(http.StatusOK, l)
}

// GetForUser handles GET /user/:userIdOrUsername/lists.
func (h *ListHandler) GetForUser(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	lists, err := h.Lists.GetListsForUser(ctx, actorID, c.Param("userIdOrUsername"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

// Update handles PUT /list/:listId. The path id wins over any id in the
// body.
func (h *ListHandler) Update(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var l model.List
	if err := c.Bind(&l); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id, err := service.ParseID(c.Param("listId"))
	if err != nil {
		return respondError(c, err)
	}
	l.ID = id
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Lists.UpdateLists(ctx, actorID, []*model.List{&l})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out[0])
}

// Delete handles DELETE /list/:listId.
func (h *ListHandler) Delete(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := service.ParseID(c.Param("listId"))
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Lists.DeleteLists(ctx, actorID, []*model.List{{ID: id}})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out[0])
}

// Share handles PUT /list/:listId/share.
func (h *ListHandler) Share(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req shareReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Member == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member is required"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	m, err := h.Lists.Share(ctx, actorID, c.Param("listId"), req.Member, req.Level)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Unshare handles DELETE /list/:listId/share.
func (h *ListHandler) Unshare(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req shareReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Member == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "member is required"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	if err := h.Lists.Unshare(ctx, actorID, c.Param("listId"), req.Member); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
