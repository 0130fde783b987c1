package main // Entry point package

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/listhub/lists-api/internal/config"
	"github.com/listhub/lists-api/internal/events"
	"github.com/listhub/lists-api/internal/handler"
	"github.com/listhub/lists-api/internal/middleware"
	"github.com/listhub/lists-api/internal/repository"
	"github.com/listhub/lists-api/internal/router"
	"github.com/listhub/lists-api/internal/service"
	"github.com/listhub/lists-api/internal/store"
)

func main() {
	cfg := config.Load() // Load environment config

	// Connect to Cassandra; the session is shared by all repositories.
	db, err := store.Connect(store.Config{
		Hosts:       cfg.CassandraHosts,
		Keyspace:    cfg.CassandraKeyspace,
		Consistency: cfg.CassandraConsistency,
		Timeout:     cfg.CassandraTimeout,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	itemRepo := repository.NewItemRepo(db)
	listRepo := repository.NewListRepo(db, itemRepo)

	// Event publishing is optional; without a broker URL the services run
	// with events disabled. The interface variable stays nil unless a
	// publisher is configured, so the services' nil checks hold.
	var pub service.Publisher
	if cfg.RabbitURL != "" {
		pub = events.NewPublisher(cfg.RabbitURL)
	}

	users := service.NewUsers(userRepo, cfg.BcryptCost)
	lists := service.NewLists(userRepo, listRepo, pub)
	items := service.NewItems(userRepo, listRepo, itemRepo, pub)

	e := echo.New()

	// Redis-backed token bucket. NewRedisClient returns nil when the
	// server is unreachable, which disables the limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e,
		handler.NewUserHandler(users),
		handler.NewListHandler(lists),
		handler.NewItemHandler(items),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
