package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/alimikegami/point-of-sales/storefront-service/config"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/catalog"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/controller"
	redisclient "github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/cache/redis"
	circuitbreaker "github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/database/postgres"
	grpcserver "github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/grpc"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/point-of-sales/storefront-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/repository"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/service"
	"github.com/alimikegami/point-of-sales/storefront-service/internal/session"
	"github.com/alimikegami/point-of-sales/storefront-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

const sweepInterval = time.Minute

type App struct {
	Config    *config.Config
	Server    *echo.Echo
	Scheduler gocron.Scheduler
	Registry  *session.Registry

	httpServer    *http.Server
	metricsServer *echo.Echo
	healthServer  *grpcserver.HealthServer
	traceProvider *trace.TracerProvider
	blobs         repository.BlobStore
	publisher     service.EventPublisher
	maintenance   []func(ctx context.Context)
	closers       []func() error
}

// NewServer wires every dependency and the HTTP routes without listening on any
// port.
func (app *App) NewServer() error {
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		log.Error().Err(err).Str("component", "NewServer").Msg("Failed to initialize tracing")
	} else {
		app.traceProvider = traceProvider
	}

	if err := app.initBlobStore(); err != nil {
		return err
	}
	app.initPublisher()

	app.Scheduler, err = gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	cb := circuitbreaker.CreateCircuitBreaker("order-store")
	gateway := paymentgateway.CreateSimulatedGateway()

	app.Registry = session.CreateRegistry(app.Config.SessionConfig.TTL, func(sessionID string) service.OrderService {
		table := repository.CreateOrderTable(app.blobs, sessionID, app.Config.SessionConfig.TTL, cb)
		return service.CreateOrderService(table, app.Scheduler, gateway, app.publisher, app.Config.OrderConfig, sessionID)
	})

	_, err = app.Scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(app.sweep),
		gocron.WithName("session-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling session sweep: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if app.Config.MetricsPort != "" {
		// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
		e.Use(echoprometheus.NewMiddleware(""))

		app.metricsServer = echo.New()
		app.metricsServer.HideBanner = true
		app.metricsServer.GET("/metrics", echoprometheus.NewHandler())
	}

	e.Use(localmiddleware.Logger)

	g := e.Group("/api/v1")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	sessions := localmiddleware.CreateSessionManager(app.Registry, app.Config.SessionConfig.JWTSecret, app.Config.SessionConfig.TTL)
	menu := catalog.Default()

	controller.CreateSessionController(g, sessions)
	controller.CreateMenuController(g, menu)
	controller.CreateCartController(g, menu, sessions.Middleware)
	controller.CreateOrderController(g, sessions.Middleware)
	controller.CreatePaymentController(g, gateway)

	app.Server = e
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%s", app.Config.ServicePort),
		Handler: app.Handler(),
	}

	if app.Config.GRPCPort != "" {
		app.healthServer = grpcserver.CreateHealthServer(tracing.ServiceName)
	}

	return nil
}

// Handler is the traced HTTP handler of the storefront API.
func (app *App) Handler() http.Handler {
	return otelhttp.NewHandler(app.Server, tracing.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("[%s] %s", r.Method, r.URL.Path)
		}),
	)
}

// Start runs the scheduler and every configured server, blocking until they all
// stop.
func (app *App) Start() error {
	app.Scheduler.Start()

	var g errgroup.Group

	g.Go(func() error {
		log.Info().Str("component", "Start").Str("port", app.Config.ServicePort).Msg("HTTP server started")
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	if app.metricsServer != nil {
		g.Go(func() error {
			if err := app.metricsServer.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	if app.healthServer != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%s", app.Config.GRPCPort))
		if err != nil {
			return fmt.Errorf("listening for gRPC: %w", err)
		}

		g.Go(func() error {
			return app.healthServer.Server.Serve(lis)
		})
	}

	return g.Wait()
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if app.httpServer != nil {
		errs = append(errs, app.httpServer.Shutdown(ctx))
	}
	if app.metricsServer != nil {
		errs = append(errs, app.metricsServer.Shutdown(ctx))
	}
	if app.healthServer != nil {
		app.healthServer.Shutdown()
	}
	if app.Registry != nil {
		app.Registry.Close()
	}
	if app.Scheduler != nil {
		errs = append(errs, app.Scheduler.Shutdown())
	}
	for _, closer := range app.closers {
		errs = append(errs, closer())
	}
	if app.traceProvider != nil {
		errs = append(errs, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

func (app *App) sweep() {
	if n := app.Registry.Sweep(); n > 0 {
		log.Info().Str("component", "sweep").Int("sessions", n).Msg("expired sessions removed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, task := range app.maintenance {
		task(ctx)
	}
}

func (app *App) initBlobStore() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch app.Config.StoreDriver {
	case config.StoreDriverMemory, "":
		blobs := repository.CreateMemoryBlobStore()
		app.maintenance = append(app.maintenance, func(context.Context) {
			blobs.Purge()
		})
		app.blobs = blobs

	case config.StoreDriverRedis:
		client, err := redisclient.CreateRedisClient(app.Config.RedisConfig.Address, app.Config.RedisConfig.Password)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, client.Close)
		app.blobs = repository.CreateRedisBlobStore(client)

	case config.StoreDriverPostgres:
		pg := app.Config.PostgreSQLConfig
		db, err := postgres.GetDBInstance(pg.DBUsername, pg.DBPassword, pg.DBHost, pg.DBPort, pg.DBName)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		app.closers = append(app.closers, db.Close)

		blobs, err := repository.CreatePostgresBlobStore(ctx, db)
		if err != nil {
			return err
		}
		app.maintenance = append(app.maintenance, func(ctx context.Context) {
			if _, err := blobs.DeleteExpired(ctx); err != nil {
				log.Error().Err(err).Str("component", "sweep").Msg("")
			}
		})
		app.blobs = blobs

	case config.StoreDriverMongoDB:
		db, err := mongodb.ConnectToMongoDB(app.Config.MongoDBConfig.URI, app.Config.MongoDBConfig.DBName)
		if err != nil {
			return fmt.Errorf("connecting to mongodb: %w", err)
		}
		app.closers = append(app.closers, func() error {
			return db.Client().Disconnect(context.Background())
		})

		blobs, err := repository.CreateMongoDBBlobStore(ctx, db)
		if err != nil {
			return err
		}
		app.blobs = blobs

	default:
		return fmt.Errorf("unknown store driver %q", app.Config.StoreDriver)
	}

	log.Info().Str("component", "initBlobStore").Str("driver", app.Config.StoreDriver).Msg("order storage ready")

	return nil
}

func (app *App) initPublisher() {
	if app.Config.KafkaConfig.BrokerAddress == "" {
		app.publisher = kafka.NopPublisher{}
		return
	}

	publisher := kafka.CreateOrderEventPublisher(kafka.CreateKafkaWriter(app.Config))
	app.closers = append(app.closers, publisher.Close)
	app.publisher = publisher
}
