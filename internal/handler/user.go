package handler

import (
	"net/http"

	"github.com/gocql/gocql"
	"github.com/labstack/echo/v4"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/service"
)

// UserHandler serves the user endpoints.
type UserHandler struct {
	Users *service.Users
}

func NewUserHandler(u *service.Users) *UserHandler { return &UserHandler{Users: u} }

// Create handles POST /user. The nominal create endpoint also multiplexes
// updates and deletes through the action parameter, kept for API
// compatibility with existing clients.
func (h *UserHandler) Create(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var u model.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	switch c.QueryParam("action") {
	case "UPDATE":
		out, err := h.Users.Update(ctx, actorID, &u)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	case "DELETE":
		if err := h.deleteUser(c, &u); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, &u)
	default:
		out, err := h.Users.Create(ctx, actorID, &u)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, out)
	}
}

// Get handles GET /user/:userIdOrUsername.
func (h *UserHandler) Get(c echo.Context) error {
	if _, err := actingUser(c); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	u, err := h.Users.Get(ctx, c.Param("userIdOrUsername"))
	if err != nil {
		return respondError(c, err)
	}
	if u == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /user. Username and password are left untouched;
// UpdateCredentials is the path for those.
func (h *UserHandler) Update(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var u model.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Users.Update(ctx, actorID, &u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateCredentials handles PUT /user/:userIdOrUsername/credentials. The
// path names the target by id; the body carries the new username and
// password.
func (h *UserHandler) UpdateCredentials(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var u model.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id, err := service.ParseID(c.Param("userIdOrUsername"))
	if err != nil {
		return respondError(c, err)
	}
	u.ID = id
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Users.UpdateCredentials(ctx, actorID, &u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /user. The target may be named by id or username
// in the body.
func (h *UserHandler) Delete(c echo.Context) error {
	if _, err := actingUser(c); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var u model.User
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.deleteUser(c, &u); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, &u)
}

func (h *UserHandler) deleteUser(c echo.Context, u *model.User) error {
	ctx, cancel := opContext(c)
	defer cancel()

	target := u.Username
	if u.ID != (gocql.UUID{}) {
		target = u.ID.String()
	}
	return h.Users.Delete(ctx, target)
}
