// Package server boots the moamall HTTP stack: config, logging, database,
// cache, queue workers, schedules, realtime hubs, and the route table.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sujinlee/moamall/app/chat"
	"github.com/sujinlee/moamall/app/controllers"
	"github.com/sujinlee/moamall/app/gql"
	"github.com/sujinlee/moamall/app/jobs"
	"github.com/sujinlee/moamall/app/listeners"
	"github.com/sujinlee/moamall/app/repositories"
	"github.com/sujinlee/moamall/app/routes"
	"github.com/sujinlee/moamall/app/services"
	"github.com/sujinlee/moamall/config"
	"github.com/sujinlee/moamall/pkg/cache"
	"github.com/sujinlee/moamall/pkg/database"
	gqlpkg "github.com/sujinlee/moamall/pkg/graphql"
	"github.com/sujinlee/moamall/pkg/grpcserver"
	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/metrics"
	"github.com/sujinlee/moamall/pkg/middleware"
	"github.com/sujinlee/moamall/pkg/queue"
	"github.com/sujinlee/moamall/pkg/reqid"
	"github.com/sujinlee/moamall/pkg/router"
	"github.com/sujinlee/moamall/pkg/schedule"
	"github.com/sujinlee/moamall/pkg/session"
	"github.com/sujinlee/moamall/pkg/storage"
	"github.com/sujinlee/moamall/pkg/workerpool"
	"github.com/sujinlee/moamall/pkg/ws"
)

const (
	queueWorkers = 4
	// lookupPoolSize bounds concurrent scrypt verifications; beyond it the
	// guest lookup endpoint answers 503 instead of queueing unbounded work.
	lookupPoolSize  = 8
	shutdownTimeout = 10 * time.Second
)

// Run boots everything and blocks until SIGINT/SIGTERM.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.MongoURI(); uri != "" {
		sink, err := logger.NewMongoHandler(uri, config.MongoDatabase())
		if err != nil {
			logger.Warn("audit sink unavailable, continuing without it", "error", err)
		} else {
			logger.AttachSink(sink)
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Redis is optional in dev: sessions and cache degrade, the queue
		// falls back to the in-memory driver.
		logger.Warn("redis unavailable, using in-memory fallbacks", "error", err)
	}
	storage.Connect()

	db := database.DB

	// ─── Background machinery ────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs.Boot(db)
	listeners.Boot()

	queue.UseDB(db)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)

	sessions := session.DefaultOptions()
	scheduleNightlyCartPurge(sessions)
	go schedule.Start(ctx)

	hub := ws.NewHub()
	go hub.Run()
	matcher := chat.NewMatcher(hub)

	if port := config.GRPCPort(); port != "" {
		srv, _, err := grpcserver.Start(port)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(srv)
	}

	// ─── Services and controllers ────────────────────────────────────────
	users := repositories.NewUserRepository(db)
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)

	catalog := services.NewCatalogService(products)
	carts := services.NewCartService(products)
	checkout := services.NewCheckoutService(db, products, orders)
	lookupPool := workerpool.New(lookupPoolSize)
	defer lookupPool.Shutdown()
	lookup := services.NewGuestLookupService(orders, lookupPool)
	orderQueries := services.NewOrderQueryService(orders)
	shipping := services.NewShippingService(orders)
	productAdmin := services.NewProductAdminService(products, catalog)
	authService := services.NewAuthService(users)

	var gqlHandler http.HandlerFunc
	if schema, err := gql.NewSchema(catalog); err != nil {
		logger.Warn("graphql schema unavailable", "error", err)
	} else {
		gqlHandler = gqlpkg.Handler(schema)
	}

	c := routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Catalog:       controllers.NewCatalogController(catalog),
		Cart:          controllers.NewCartController(carts),
		Checkout:      controllers.NewCheckoutController(checkout),
		GuestOrder:    controllers.NewGuestOrderController(lookup, orderQueries),
		Orders:        controllers.NewOrderController(orderQueries),
		AdminProducts: controllers.NewAdminProductController(productAdmin),
		AdminOrders:   controllers.NewAdminOrderController(orderQueries, shipping),
		Chat:          controllers.NewChatController(hub, matcher),
		GraphQL:       gqlHandler,
	}

	// ─── Router and middleware stack ─────────────────────────────────────
	r := NewRouter(sessions)
	routes.RegisterAPI(r, c)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the shared middleware stack in the order every request
// flows through it.
func NewRouter(sessions session.Options) *router.Router {
	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		session.Middleware(sessions),
	)
	return r
}

// scheduleNightlyCartPurge registers the stale-session sweep. Redis already
// expires sessions by TTL; the sweep only reclaims orphaned keys left by
// clients that never came back.
func scheduleNightlyCartPurge(opts session.Options) {
	schedule.Daily().At("03:30").Name("purge-stale-carts").WithoutOverlapping().Run(func() {
		n, err := session.PurgeStale(opts)
		if err != nil {
			logger.Error("cart purge failed", "error", err)
			return
		}
		logger.Info("cart purge complete", "removed", n)
	})
}
