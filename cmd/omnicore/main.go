// Omni Core - Personal Assistant Automation Engine
//
// This is the main entry point for the Omni Core application.
// Omni Core runs user-defined automations (trigger -> conditions ->
// actions) for a personal assistant:
//   - Time-based, event-based, condition-based, and manual triggers
//   - Context-aware condition gates (work mode, meetings, deadlines)
//   - Action dispatch to downstream services over MQTT
//   - REST API and WebSocket for management and live run updates
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/omnihq/omni-core/migrations"

	"github.com/omnihq/omni-core/internal/api"
	"github.com/omnihq/omni-core/internal/automation"
	"github.com/omnihq/omni-core/internal/contextengine"
	"github.com/omnihq/omni-core/internal/gateway"
	"github.com/omnihq/omni-core/internal/infrastructure/config"
	"github.com/omnihq/omni-core/internal/infrastructure/database"
	"github.com/omnihq/omni-core/internal/infrastructure/influxdb"
	"github.com/omnihq/omni-core/internal/infrastructure/logging"
	"github.com/omnihq/omni-core/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Omni Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Context engine: derived snapshot fields plus the meeting schedule
	// backing the upcoming_meeting condition.
	contexts := contextengine.NewProvider(cfg.Location())
	meetings := contextengine.NewMeetingSchedule()
	log.Info("context engine initialised", "timezone", cfg.Assistant.Timezone)

	// Automation engine components.
	scheduler := automation.NewScheduler()
	scheduler.SetLogger(log)

	evaluator := automation.NewEvaluator(meetings)
	evaluator.SetLogger(log)

	serviceGateway := gateway.New(mqttClient, log)
	executor := automation.NewExecutor(serviceGateway, log)

	repo := automation.NewSQLiteRepository(db.DB)

	// WebSocket hub is shared between the catalog (run broadcasts) and
	// the API server (client connections).
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Metrics sink is optional; a nil interface disables it cleanly.
	var metrics automation.MetricsRecorder
	if influxClient != nil {
		metrics = influxClient
	}

	catalog := automation.NewCatalog(scheduler, executor, evaluator, repo, hub, metrics, log)
	log.Info("automation catalog initialised", "templates", len(catalog.ListTemplates()))

	// Event bridge: external events arriving on MQTT fire matching
	// event-based automations.
	eventBridge := gateway.NewEventBridge(catalog, contexts, log)
	if err := eventBridge.Start(ctx, mqttClient); err != nil {
		return fmt.Errorf("starting event bridge: %w", err)
	}

	// Worker: polls the scheduler and dispatches due automations.
	worker := automation.NewWorker(catalog, scheduler, contexts, automation.WorkerConfig{
		TickInterval: cfg.GetWorkerTick(),
		ErrorBackoff: cfg.GetWorkerBackoff(),
	})
	worker.SetLogger(log)
	worker.Start(ctx)
	defer func() {
		log.Info("stopping automation worker")
		worker.Stop()
	}()

	// API server.
	apiServer, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Catalog:  catalog,
		Runs:     repo,
		Contexts: contexts,
		Meetings: meetings,
		DB:       db,
		MQTT:     mqttClient,
		Hub:      hub,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Worker
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database

	log.Info("Omni Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses OMNI_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("OMNI_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
