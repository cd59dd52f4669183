package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, loaded from environment variables.
type Config struct {
	AppName                       string   `envconfig:"APP_NAME" default:"contentbridge-api"`
	Port                          int      `envconfig:"PORT" default:"3004"`
	LogLevel                      string   `envconfig:"LOG_LEVEL" default:"info"`
	PrettyLogs                    bool     `envconfig:"PRETTY_LOGS" default:"false"`
	HttpServerWriteTimeoutSeconds int      `envconfig:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" default:"10"`
	HttpServerReadTimeoutSeconds  int      `envconfig:"HTTP_SERVER_READ_TIMEOUT_SECONDS" default:"10"`
	HttpServerIdleTimeoutSeconds  int      `envconfig:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" default:"10"`
	MaxHeaderBytes                int      `envconfig:"HTTP_SERVER_MAX_HEADER_BYTES" default:"64000"` // 64KB
	AllowOrigins                  []string `envconfig:"HTTP_SERVER_ALLOW_ORIGINS" default:"*"`
	AllowMethods                  []string `envconfig:"HTTP_SERVER_ALLOW_METHODS" default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `envconfig:"STARTUP_MAX_ATTEMPTS" default:"5"`

	// PostgreSQL (operational database, the relational mirror)
	DatabaseHost                string        `envconfig:"DB_HOST" default:""`
	DatabasePort                string        `envconfig:"DB_PORT" default:"5432"`
	DatabaseUserName            string        `envconfig:"DB_USER_NAME" default:""`
	DatabasePassword            string        `envconfig:"DB_PASSWORD" default:""`
	DatabaseName                string        `envconfig:"DB_NAME" default:"contentbridge"`
	DatabaseSSLMode             string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DatabaseMaxOpenConns        int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	DatabaseMaxIdleConns        int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	DatabaseConnMaxLifetime     time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"10s"`
	DatabaseMigrationFolderPath string        `envconfig:"DB_MIGRATION_FOLDER_PATH" default:"db/pg"`

	// CMS (document store)
	CMSProjectID  string `envconfig:"CMS_PROJECT_ID" default:""`
	CMSDataset    string `envconfig:"CMS_DATASET" default:"production"`
	CMSAPIVersion string `envconfig:"CMS_API_VERSION" default:"2023-06-21"`
	// Write-capable token. Required for import/mutation paths only; read
	// paths against a public dataset work without it.
	CMSAPIToken string `envconfig:"CMS_API_TOKEN" default:""`
	// Optional override for tests and self-hosted gateways.
	CMSBaseURL string `envconfig:"CMS_BASE_URL" default:""`

	// Webhook receiver
	WebhookSecret string `envconfig:"CMS_WEBHOOK_SECRET" default:""`

	// Importer
	ImportBatchSize  int           `envconfig:"IMPORT_BATCH_SIZE" default:"5"`
	ImportBatchPause time.Duration `envconfig:"IMPORT_BATCH_PAUSE" default:"500ms"`

	// Kafka producer (sync lifecycle events, optional)
	KafkaBrokers      []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaOutputTopic  string   `envconfig:"KAFKA_OUTPUT_TOPIC" default:"content-events"`
	KafkaBatchSize    int      `envconfig:"KAFKA_BATCH_SIZE" default:"100"`
	KafkaBatchTimeout int      `envconfig:"KAFKA_BATCH_TIMEOUT_MS" default:"100"`
	KafkaRequiredAcks int      `envconfig:"KAFKA_REQUIRED_ACKS" default:"1"`
	KafkaCompression  string   `envconfig:"KAFKA_COMPRESSION" default:"snappy"`

	// Tracing
	TracingEnabled      bool   `envconfig:"TRACING_ENABLED" default:"false"`
	TracingOTLPEndpoint string `envconfig:"TRACING_OTLP_ENDPOINT" default:"localhost:4317"`
	TracingOTLPProtocol string `envconfig:"TRACING_OTLP_PROTOCOL" default:"grpc"`
	TracingInsecure     bool   `envconfig:"TRACING_INSECURE" default:"true"`
}

// Load reads configuration from the environment, loading a .env file first
// if one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}

// DatabaseURL builds the Postgres connection string.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DatabaseUserName, c.DatabasePassword, c.DatabaseHost, c.DatabasePort, c.DatabaseName, c.DatabaseSSLMode)
}

// KafkaEnabled reports whether sync lifecycle events should be published.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaBrokers[0] != ""
}
