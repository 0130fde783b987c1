package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/listhub/lists-api/internal/model"
	"github.com/listhub/lists-api/internal/service"
)

// ItemHandler serves the item endpoints. Item requests carry one or more
// items in the body; permissions come from the owning lists.
type ItemHandler struct {
	Items *service.Items
}

func NewItemHandler(i *service.Items) *ItemHandler { return &ItemHandler{Items: i} }

// Create handles POST /items, multiplexing update and delete through the
// action parameter for API compatibility.
func (h *ItemHandler) Create(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := bindItems(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	switch c.QueryParam("action") {
	case "UPDATE":
		out, err := h.Items.UpdateItems(ctx, actorID, items)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	case "DELETE":
		out, err := h.Items.DeleteItems(ctx, actorID, items)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	default:
		out, err := h.Items.CreateItems(ctx, actorID, items)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, out)
	}
}

// Get handles GET /item/:itemId.
func (h *ItemHandler) Get(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	it, err := h.Items.GetItem(ctx, actorID, c.Param("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	if it == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
	}
	return c.JSON(http.StatusOK, it)
}

// GetForList handles GET /list/:listId/items, returning the list's items
// in stored order.
func (h *ItemHandler) GetForList(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	items, err := h.Items.GetItemsForList(ctx, actorID, c.Param("listId"))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "list not found"})
	}
	return c.JSON(http.StatusOK, items)
}

// Update handles PUT /items.
func (h *ItemHandler) Update(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := bindItems(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Items.UpdateItems(ctx, actorID, items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /items.
func (h *ItemHandler) Delete(c echo.Context) error {
	actorID, err := actingUser(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := bindItems(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opContext(c)
	defer cancel()

	out, err := h.Items.DeleteItems(ctx, actorID, items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// bindItems accepts either a single item object or an array of items.
// The body can only be read once, so the shape is sniffed from the raw
// bytes rather than by binding twice.
func bindItems(c echo.Context) ([]*model.Item, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []*model.Item
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var it model.Item
	if err := json.Unmarshal(body, &it); err != nil {
		return nil, err
	}
	return []*model.Item{&it}, nil
}
