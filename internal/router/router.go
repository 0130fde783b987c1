package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/listhub/lists-api/internal/handler"
)

// RegisterRoutes maps the full HTTP surface onto the provided Echo
// instance. Every data route reads the acting identity from the userId
// query parameter; there is no session layer in front of it.
func RegisterRoutes(e *echo.Echo, u *handler.UserHandler, l *handler.ListHandler, i *handler.ItemHandler) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// User routes. POST /user multiplexes create, update and delete via
	// the action query parameter; the verb-specific routes are the
	// preferred surface.
	e.POST("/user", u.Create)
	e.GET("/user/:userIdOrUsername", u.Get)
	e.PUT("/user", u.Update)
	e.PUT("/user/:userIdOrUsername/credentials", u.UpdateCredentials)
	e.DELETE("/user", u.Delete)

	// List routes. The batch endpoint at /lists returns a per-record
	// result projection instead of a single status.
	e.POST("/list", l.Create)
	e.POST("/user/:userIdOrUsername/list", l.CreateForUser)
	e.POST("/lists", l.CreateBatch)
	e.GET("/list/:listId", l.Get)
	e.GET("/user/:userIdOrUsername/lists", l.GetForUser)
	e.PUT("/list/:listId", l.Update)
	e.DELETE("/list/:listId", l.Delete)

	// Membership routes.
	e.PUT("/list/:listId/share", l.Share)
	e.DELETE("/list/:listId/share", l.Unshare)

	// Item routes. Bodies may carry a single item or an array.
	e.POST("/items", i.Create)
	e.GET("/item/:itemId", i.Get)
	e.GET("/list/:listId/items", i.GetForList)
	e.PUT("/items", i.Update)
	e.DELETE("/items", i.Delete)
}
