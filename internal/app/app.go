package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/products-api/internal/cfg"
	v1Http "github.com/DRSN-tech/products-api/internal/delivery/v1/http"
	"github.com/DRSN-tech/products-api/internal/infrastructure/kafka"
	"github.com/DRSN-tech/products-api/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/products-api/internal/repository/pgdb/converter/generated"
	redisRepo "github.com/DRSN-tech/products-api/internal/repository/redis"
	"github.com/DRSN-tech/products-api/internal/usecase"
	"github.com/DRSN-tech/products-api/pkg/clients"
	"github.com/DRSN-tech/products-api/pkg/closer"
	"github.com/DRSN-tech/products-api/pkg/e"
	"github.com/DRSN-tech/products-api/pkg/logger"
	"github.com/DRSN-tech/products-api/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

// App держит собранный граф зависимостей сервиса каталога.
// Redis и Kafka подключаются только при наличии их адресов в конфигурации.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	httpSrv *v1Http.Server
	worker  *kafka.OutboxWorker
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	// Внешний контракт отдаёт unitPrice числом, без строковых кавычек.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cl := closer.NewCloser(0)
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())

	var cacheRepo usecase.CacheRepository
	if cfg.Redis.Enabled {
		redisClient := clients.NewRedisClient(cfg.Redis)

		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(redisCtx); err != nil {
			redisCancel()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		redisCancel()

		cacheRepo = redisRepo.NewCacheRepo(redisClient, cfg.Redis, log)
		cl.Add(func(ctx context.Context) error {
			return redisClient.Client.Close()
		})
	} else {
		log.Infof("REDIS_ADDR is empty, product cache disabled")
	}

	var (
		outboxRepo usecase.OutboxRepository
		worker     *kafka.OutboxWorker
	)
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(log, cfg.Kafka)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if err := producer.EnsureTopic(10 * time.Second); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		outboxRepo = pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())
		worker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

		cl.Add(func(ctx context.Context) error {
			return producer.Close()
		})
	} else {
		log.Infof("KAFKA_BROKERS is empty, catalog change events disabled")
	}

	productUC := usecase.NewProductUC(productRepo, outboxRepo, cacheRepo, db.Pool, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: v1Http.NewServer(r, cfg.Http),
		worker:  worker,
		closer:  cl,
	}, nil
}

// Run запускает outbox-воркера и HTTP-сервер, блокируется до сигнала
// завершения или фатальной ошибки сервера, затем закрывает ресурсы в LIFO-порядке.
func (a *App) Run() error {
	if a.worker != nil {
		workerCtx, workerCancel := context.WithCancel(context.Background())
		a.worker.Start(workerCtx)

		a.closer.Add(func(ctx context.Context) error {
			workerCancel()
			a.worker.Stop()
			return nil
		})
	}

	a.closer.Add(func(ctx context.Context) error {
		return a.httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
