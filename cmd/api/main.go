package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/seatonfc/contentbridge/config"
	"github.com/seatonfc/contentbridge/internal/repositories/matchgallery"
	"github.com/seatonfc/contentbridge/internal/repositories/newsarticle"
	"github.com/seatonfc/contentbridge/internal/repositories/person"
	"github.com/seatonfc/contentbridge/internal/repositories/sponsor"
	"github.com/seatonfc/contentbridge/internal/repositories/webhooklog"
	"github.com/seatonfc/contentbridge/pkg/database"
	"github.com/seatonfc/contentbridge/pkg/events"
	"github.com/seatonfc/contentbridge/pkg/importer"
	"github.com/seatonfc/contentbridge/pkg/kafka"
	"github.com/seatonfc/contentbridge/pkg/logging"
	"github.com/seatonfc/contentbridge/pkg/middleware"
	"github.com/seatonfc/contentbridge/pkg/resolve"
	"github.com/seatonfc/contentbridge/pkg/routes/admin"
	"github.com/seatonfc/contentbridge/pkg/routes/content"
	"github.com/seatonfc/contentbridge/pkg/routes/health"
	"github.com/seatonfc/contentbridge/pkg/routes/webhookroute"
	"github.com/seatonfc/contentbridge/pkg/sanity"
	"github.com/seatonfc/contentbridge/pkg/startup"
	"github.com/seatonfc/contentbridge/pkg/tracing"
	"github.com/seatonfc/contentbridge/pkg/tracing/exporters"
	"github.com/seatonfc/contentbridge/pkg/webhook"
)

const version = "1.0.0"

// referenceCacheTTL bounds how stale a cross-store identity answer can
// get before it is looked up again.
const referenceCacheTTL = 300 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, flush, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = flush() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := initTracing(ctx, cfg, logger)
	defer shutdownTracing()

	app := &application{cfg: cfg, logger: logger}

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&databaseDependency{app: app})
	boot.AddDependency(&kafkaDependency{app: app})
	boot.AddDependency(&httpDependency{app: app})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		stop()
		os.Exit(1)
	}

	logger.WithField("port", cfg.Port).Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := boot.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	}
}

// application holds the wired components shared between startup
// dependencies.
type application struct {
	cfg    config.Config
	logger ectologger.Logger

	db       database.DB
	producer *kafka.Producer
	server   *echo.Echo
	checker  *health.Checker
}

func initTracing(ctx context.Context, cfg config.Config, logger ectologger.Logger) func() {
	var exporter sdktrace.SpanExporter
	if cfg.TracingEnabled {
		otlp, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: cfg.TracingOTLPEndpoint,
			Protocol: cfg.TracingOTLPProtocol,
			Insecure: cfg.TracingInsecure,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			logger.WithError(err).Error("Failed to create OTLP exporter, tracing disabled")
			exporter = &exporters.ConsoleExporter{}
		} else {
			exporter = otlp
		}
	} else {
		exporter = &exporters.ConsoleExporter{}
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}
}

type databaseDependency struct {
	app *application
}

func (d *databaseDependency) GetName() string     { return "database" }
func (d *databaseDependency) DependsOn() []string { return nil }

func (d *databaseDependency) Start(ctx context.Context) error {
	cfg := d.app.cfg

	db, err := database.Connect(ctx, database.ConnectConfig{
		URL:             cfg.DatabaseURL(),
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, d.app.logger)
	if err != nil {
		return err
	}

	migrations := database.NewMigrationService(d.app.logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
	})
	if err := migrations.Migrate(cfg.DatabaseName, db.Unsafe()); err != nil {
		_ = db.Close()
		return err
	}

	d.app.db = db
	return nil
}

func (d *databaseDependency) Stop(context.Context) error {
	if d.app.db == nil {
		return nil
	}
	return d.app.db.Close()
}

type kafkaDependency struct {
	app *application
}

func (d *kafkaDependency) GetName() string     { return "kafka-producer" }
func (d *kafkaDependency) DependsOn() []string { return nil }

func (d *kafkaDependency) Start(context.Context) error {
	cfg := d.app.cfg
	if !cfg.KafkaEnabled() {
		d.app.logger.Info("Kafka brokers not configured, content events disabled")
		return nil
	}

	d.app.producer = kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, d.app.logger)
	return nil
}

func (d *kafkaDependency) Stop(context.Context) error {
	if d.app.producer == nil {
		return nil
	}
	return d.app.producer.Close()
}

type httpDependency struct {
	app *application
}

func (d *httpDependency) GetName() string     { return "http-server" }
func (d *httpDependency) DependsOn() []string { return []string{"database", "kafka-producer"} }

func (d *httpDependency) Start(context.Context) error {
	app := d.app
	cfg := app.cfg

	cms := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.CMSProjectID,
		Dataset:    cfg.CMSDataset,
		APIVersion: cfg.CMSAPIVersion,
		Token:      cfg.CMSAPIToken,
		BaseURL:    cfg.CMSBaseURL,
	})

	people := person.NewRepository(app.db, app.logger)
	sponsors := sponsor.NewRepository(app.db, app.logger)
	galleries := matchgallery.NewRepository(app.db, app.logger)
	news := newsarticle.NewRepository(app.db, app.logger)
	deliveries := webhooklog.NewRepository(app.db, app.logger)

	var emitter *events.Emitter
	if app.producer != nil {
		emitter = events.NewEmitter(app.producer, app.logger)
	}

	validate := validator.New()
	dispatcher := webhook.NewDispatcher(cms, deliveries, emitter, app.logger,
		webhook.NewPersonHandler(people, validate),
		webhook.NewSponsorHandler(sponsors, validate),
		webhook.NewGalleryHandler(galleries, validate),
		webhook.NewNewsHandler(news, validate),
	)

	imp := importer.NewImporter(cms, people, sponsors, app.logger, importer.Options{
		BatchSize:  cfg.ImportBatchSize,
		BatchPause: cfg.ImportBatchPause,
	})

	resolver := resolve.NewResolver(cms, people, sponsors, referenceCacheTTL, app.logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(app.logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(app.logger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(echomw.Recover())

	checker := health.NewChecker(app.db, version)
	checker.RegisterRoutes(e)

	webhookroute.NewHandler(dispatcher, cfg.WebhookSecret, app.logger).RegisterRoutes(e)
	admin.NewHandler(imp, deliveries, app.logger).RegisterRoutes(e.Group("/admin"))
	content.NewHandler(people, sponsors, galleries, news, resolver).RegisterRoutes(e.Group("/content"))

	app.server = e
	app.checker = checker

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			app.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()

	checker.SetReady(true)
	return nil
}

func (d *httpDependency) Stop(ctx context.Context) error {
	if d.app.server == nil {
		return nil
	}
	if d.app.checker != nil {
		d.app.checker.SetReady(false)
	}
	return d.app.server.Shutdown(ctx)
}
