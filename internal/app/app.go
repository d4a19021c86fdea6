package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/expressimports/backend/internal/cfg"
	v1Http "github.com/expressimports/backend/internal/delivery/v1/http"
	"github.com/expressimports/backend/internal/infrastructure/email"
	"github.com/expressimports/backend/internal/infrastructure/kafka"
	minioInfra "github.com/expressimports/backend/internal/infrastructure/minio"
	s3Repo "github.com/expressimports/backend/internal/repository/minio"
	"github.com/expressimports/backend/internal/repository/pgdb"
	pgdbConv "github.com/expressimports/backend/internal/repository/pgdb/converter"
	"github.com/expressimports/backend/internal/repository/redis"
	redisConv "github.com/expressimports/backend/internal/repository/redis/converter"
	"github.com/expressimports/backend/internal/usecase"
	"github.com/expressimports/backend/pkg/closer"
	"github.com/expressimports/backend/pkg/clients"
	"github.com/expressimports/backend/pkg/e"
	"github.com/expressimports/backend/pkg/logger"
	"github.com/expressimports/backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 15 * time.Second
	topicTimeout    = 10 * time.Second
)

// App собирает зависимости HTTP API и управляет их жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		// Уже открытые ресурсы закрываются в обратном порядке
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			logger.Errorf(cerr, "failed to release resources after init error")
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddFunc("postgres", db.Close)

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	sink, err := a.initNotificationSink()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	quoteRepo := pgdb.NewQuoteRepo(db.Pool, pgdbConv.NewOrderConverter())
	orderRepo := pgdb.NewStockOrderRepo(db.Pool, pgdbConv.NewOrderConverter())
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), a.cfg.Redis, a.logger)
	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, cleanupCtx)
	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		defer stopCleanup()
		return imagesInfra.WaitForCleanup(ctx)
	})

	productUC := usecase.NewProductUC(productRepo, cacheRepo, imagesInfra, a.logger)
	quoteUC := usecase.NewQuoteUC(productRepo, quoteRepo, db.Pool, sink, a.cfg.Notify.Timeout, a.logger)
	orderUC := usecase.NewStockOrderUC(productRepo, orderRepo, cacheRepo, db.Pool, sink, a.cfg.Notify.Timeout, a.logger)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(v1Http.UseCases{
		Products:     productUC,
		Quotes:       quoteUC,
		StockOrders:  orderUC,
		MaxImageSize: a.cfg.Minio.MaxImageSize,
	}, a.cfg.Http.SwaggerURL)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http", a.httpSrv.Stop)

	return nil
}

// initNotificationSink выбирает, куда уходят уведомления: сразу в SMTP или в Kafka для нотификатора.
func (a *App) initNotificationSink() (usecase.NotificationSink, error) {
	switch a.cfg.Notify.Sink {
	case config.NotifySinkKafka:
		publisher := kafka.NewEventPublisher(a.logger, a.cfg.Kafka)
		a.closer.Add("kafka", func(context.Context) error { return publisher.Close() })

		if err := publisher.EnsureTopic(topicTimeout); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		a.logger.Infof("notifications go to kafka topic %s", a.cfg.Kafka.Topic)
		return publisher, nil
	default:
		if a.cfg.Smtp.User == "" {
			a.logger.Warnf("EMAIL_USER is empty, SMTP delivery will likely be rejected")
		}

		a.logger.Infof("notifications go to smtp %s:%s", a.cfg.Smtp.Host, a.cfg.Smtp.Port)
		return email.NewNotifier(email.NewSMTPSender(a.cfg.Smtp), a.cfg.Notify.AdminEmail, a.logger), nil
	}
}

// Run запускает HTTP-сервер и блокируется до сигнала завершения или ошибки сервера.
func (a *App) Run() error {
	if err := a.httpSrv.Listen(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			a.logger.Errorf(cerr, "cleanup after failed listen")
		}
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on %s", a.httpSrv.Addr())
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
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
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
