package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gonbooster/AIArriendo-sub000/internal/adapters/browser"
	"github.com/gonbooster/AIArriendo-sub000/internal/adapters/exporter"
	logger_adapter "github.com/gonbooster/AIArriendo-sub000/internal/adapters/logger"
	postgres_adapter "github.com/gonbooster/AIArriendo-sub000/internal/adapters/postgres"
	rabbitmq_adapter "github.com/gonbooster/AIArriendo-sub000/internal/adapters/rabbitmq"
	"github.com/gonbooster/AIArriendo-sub000/internal/adapters/rest"
	"github.com/gonbooster/AIArriendo-sub000/internal/adapters/sitefetcher"
	"github.com/gonbooster/AIArriendo-sub000/internal/configs"
	"github.com/gonbooster/AIArriendo-sub000/internal/constants"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/port"
	usecases_port "github.com/gonbooster/AIArriendo-sub000/internal/core/port/usecases"
	"github.com/gonbooster/AIArriendo-sub000/internal/core/usecase"
	"github.com/gonbooster/AIArriendo-sub000/internal/locations"
	"github.com/gonbooster/AIArriendo-sub000/internal/sources"
	fluentlogger "github.com/gonbooster/AIArriendo-sub000/pkg/fluent_logger"
	"github.com/gonbooster/AIArriendo-sub000/pkg/postgres"
	"github.com/gonbooster/AIArriendo-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/gonbooster/AIArriendo-sub000/pkg/rabbitmq/rabbitmq_producer"
)

// App wires every adapter and use case of the search service.
type App struct {
	config    *configs.AppConfig
	logger    port.LoggerPort
	dbPool    *pgxpool.Pool
	apiServer *rest.Server
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	baseLogger, err := buildLogger(appConfig)
	if err != nil {
		return nil, err
	}
	baseLogger = baseLogger.WithFields(port.Fields{"app": appConfig.AppName})

	// Immutable config tables, embedded by default, file overrides for
	// deployments that tune selectors without rebuilding.
	registry, err := loadRegistry(appConfig)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(appConfig)
	if err != nil {
		return nil, err
	}

	resolver := usecase.NewLocationResolver(catalog)

	var renderer port.RendererPort
	if appConfig.Browser.Enabled {
		renderer = browser.NewRenderer(
			browser.WithTimeout(time.Duration(appConfig.Browser.RenderTimeoutMs)*time.Millisecond),
			browser.WithConcurrency(appConfig.Browser.MaxConcurrent),
		)
	}

	// One scraper adapter per source profile. Each owns its rate limiter;
	// the headless renderer is the only shared resource.
	var scrapers []port.SourceScraperPort
	sourceNames := make(map[string]string)
	for _, profile := range registry.Select(nil) {
		adapter, err := sitefetcher.NewAdapter(profile, resolver, renderer)
		if err != nil {
			return nil, fmt.Errorf("failed to build scraper for %s: %w", profile.ID, err)
		}
		scrapers = append(scrapers, adapter)
		sourceNames[profile.ID] = profile.DisplayName
	}
	baseLogger.Info("Source scrapers initialized", port.Fields{"sources": registry.IDs()})

	// Optional collaborators. The search pipeline works without any of them.
	var dbPool *pgxpool.Pool
	var store port.PropertyStorePort
	if appConfig.Postgres.DatabaseURL != "" {
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Postgres.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		store = postgres_adapter.NewPropertyStoreAdapter(dbPool, baseLogger)
		baseLogger.Info("Property store initialized", nil)
	}

	var exporters []port.ResultExporterPort
	if appConfig.Export.Dir != "" {
		exporters = append(exporters, exporter.NewFileExporter(appConfig.Export.Dir))
		baseLogger.Info("File exporter initialized", port.Fields{"dir": appConfig.Export.Dir})
	}
	if appConfig.RabbitMQ.URL != "" {
		queueExporter, err := buildQueueExporter(appConfig)
		if err != nil {
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, err
		}
		exporters = append(exporters, queueExporter)
		baseLogger.Info("Search event publisher initialized", port.Fields{"exchange": appConfig.RabbitMQ.Exchange})
	}

	searchUC := usecase.NewSearchPropertiesUseCase(
		resolver,
		scrapers,
		sourceNames,
		store,
		exporters,
		appConfig.Scraper.MaxPages,
		time.Duration(appConfig.Scraper.SourceTimeoutMs)*time.Millisecond,
	)
	suggestUC := usecase.NewSuggestLocationsUseCase(resolver)

	// A typed nil pointer would defeat the handler's nil check, hence the
	// interface variable.
	var similarUC usecases_port.FindSimilarPropertiesUseCase
	if store != nil {
		similarUC = usecase.NewFindSimilarPropertiesUseCase(store)
	}

	apiHandlers := rest.NewSearchHandlers(searchUC, suggestUC, similarUC)
	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigins, apiHandlers, baseLogger)

	return &App{
		config:    appConfig,
		logger:    baseLogger,
		dbPool:    dbPool,
		apiServer: apiServer,
	}, nil
}

// Run starts the HTTP server and blocks until a signal arrives, then shuts
// everything down gracefully.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("App: Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if a.apiServer != nil {
			if err := a.apiServer.Stop(shutdownCtx); err != nil {
				a.logger.Error("App: Error closing api server", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("App: PostgreSQL pool closed.", nil)
		}
		a.logger.Info("Application shut down gracefully.", nil)
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case receivedSignal := <-quit:
		a.logger.Info("App: Received signal. Shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("App: HTTP server failed", err, nil)
		return err
	}

	return nil
}

func buildLogger(cfg *configs.AppConfig) (port.LoggerPort, error) {
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLevel(cfg.StdoutLogger.Level),
		UseColor: true,
	})

	if !cfg.FluentBit.Enabled {
		return stdoutLogger, nil
	}

	fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
		Host:      cfg.FluentBit.Host,
		Port:      cfg.FluentBit.Port,
		TagPrefix: cfg.AppName,
	})
	if err != nil {
		log.Printf("Warning: Fluent Bit client could not be created: %v. Falling back to stdout only.\n", err)
		return stdoutLogger, nil
	}

	fluentLogger, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLevel(cfg.FluentBit.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent logger adapter: %w", err)
	}

	return logger_adapter.NewMultiloggerAdapter(stdoutLogger, fluentLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadRegistry(cfg *configs.AppConfig) (*sources.Registry, error) {
	if cfg.Scraper.SourcesFile != "" {
		return sources.LoadFromFile(cfg.Scraper.SourcesFile)
	}
	return sources.Load()
}

func loadCatalog(cfg *configs.AppConfig) (*locations.Catalog, error) {
	if cfg.Scraper.LocationsFile != "" {
		return locations.LoadFromFile(cfg.Scraper.LocationsFile)
	}
	return locations.Load()
}

func buildQueueExporter(cfg *configs.AppConfig) (port.ResultExporterPort, error) {
	connManager, err := rabbitmq_common.GetManager(cfg.RabbitMQ.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: cfg.RabbitMQ.URL},
		ExchangeName:             cfg.RabbitMQ.Exchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create search event publisher: %w", err)
	}

	return rabbitmq_adapter.NewSearchCompletedQueueAdapter(producer, constants.RoutingKeySearchCompleted)
}
