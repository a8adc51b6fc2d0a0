package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/multierr"

	"github.com/Fritte91/247LocalFinest/internal/api"
	"github.com/Fritte91/247LocalFinest/internal/api/metrics"
	"github.com/Fritte91/247LocalFinest/internal/api/middleware"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
	"github.com/Fritte91/247LocalFinest/internal/core/service"
	"github.com/Fritte91/247LocalFinest/internal/core/session"
	mongodb "github.com/Fritte91/247LocalFinest/internal/infrastructure/db/mongo"
	redisdb "github.com/Fritte91/247LocalFinest/internal/infrastructure/db/redis"
	"github.com/Fritte91/247LocalFinest/internal/infrastructure/queue"
	"github.com/Fritte91/247LocalFinest/internal/infrastructure/storage/s3"
	"github.com/Fritte91/247LocalFinest/internal/pkg/config"
	"github.com/Fritte91/247LocalFinest/pkg/logger"
)

// envFiles are loaded before the configuration is read, most specific first.
var envFiles = []string{".env.local", ".env"}

// app holds every long-lived component of a running server.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	mongo       *mongo.Client
	redis       *goredis.Client
	writeBehind *queue.WriteBehind
	sessions    *session.Manager
	echo        *echo.Echo
}

func loadConfig(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	config.LoadDotEnv(envFiles...)
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "localfinest",
	})
	return cfg, log, nil
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	return mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
}

// newApp connects every backend and builds the router.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	client, db, err := connectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.mongo = client

	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)
	orders := mongodb.NewOrderRepository(db)
	reviews := mongodb.NewReviewRepository(db)
	indexers := []mongodb.Indexer{users, products, orders, reviews}

	bridge, err := a.sessionBridge(ctx, db, &indexers)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, indexers...); err != nil {
		log.Warn().Err(err).Msg("ensure indexes")
	}

	a.sessions = session.NewManager(bridge, logger.For("session"), session.WithObserver(metrics.SessionObserver{}))
	metrics.RegisterGaugeFunc("sessions_live", "Number of session stores held in memory.", func() float64 {
		return float64(a.sessions.Len())
	})

	var images ports.ImageStore
	if cfg.Storage.Bucket != "" {
		store, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Endpoint:  cfg.Storage.Endpoint,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			_ = a.close(ctx)
			return nil, err
		}
		images = store
	} else {
		log.Warn().Msg("S3_BUCKET not set, image uploads disabled")
	}

	taxRate, err := cfg.TaxRate()
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	deps := api.Deps{
		Auth:      service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL, logger.For("auth")),
		Products:  service.NewProductService(products, logger.For("catalog")),
		Orders:    service.NewOrderService(orders, taxRate, logger.For("orders")),
		Reviews:   service.NewReviewService(reviews, products, logger.For("reviews")),
		Uploads:   service.NewUploadService(images, cfg.Storage.Folder, logger.For("uploads")),
		Sessions:  a.sessions,
		JWTSecret: cfg.JWTSecret,
		SessionOptions: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			MaxAge:     cfg.Session.TTL,
		},
		Mongo: client,
		Log:   log,
	}
	// A nil *redis.Client must not end up in the interface.
	if a.redis != nil {
		deps.Redis = a.redis
	}
	a.echo = api.NewRouter(deps)
	return a, nil
}

// sessionBridge picks the persistence backend for session blobs and wraps it
// in the write-behind queue when enabled.
func (a *app) sessionBridge(ctx context.Context, db *mongo.Database, indexers *[]mongodb.Indexer) (session.Bridge, error) {
	cfg := a.cfg
	var bridge session.Bridge

	switch cfg.Session.Backend {
	case config.BackendRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		bridge = redisdb.NewSessionBridge(rdb, cfg.Session.TTL)
	case config.BackendMongo:
		mb := mongodb.NewSessionBridge(db, cfg.Session.TTL)
		*indexers = append(*indexers, mb)
		bridge = mb
	case config.BackendMemory:
		bridge = session.NewMemoryBridge()
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
	a.log.Info().Str("backend", cfg.Session.Backend).Bool("write_behind", cfg.Session.WriteBehind).Msg("session persistence")

	if !cfg.Session.WriteBehind {
		return bridge, nil
	}
	a.writeBehind = queue.NewWriteBehind(bridge, cfg.Session.Workers, logger.For("write-behind"),
		queue.WithFailureHook(metrics.WriteBehindFailed))
	metrics.RegisterGaugeFunc("session_write_behind_depth", "Session writes waiting to be flushed.", func() float64 {
		return float64(a.writeBehind.Depth())
	})
	return a.writeBehind, nil
}

// close drains pending session writes and disconnects every backend.
func (a *app) close(ctx context.Context) error {
	var err error
	if a.writeBehind != nil {
		err = multierr.Append(err, a.writeBehind.Close(ctx))
	}
	if a.redis != nil {
		err = multierr.Append(err, a.redis.Close())
	}
	if a.mongo != nil {
		err = multierr.Append(err, a.mongo.Disconnect(ctx))
	}
	return err
}

// shutdownTimeout bounds graceful shutdown, queue drain included.
const shutdownTimeout = 15 * time.Second
