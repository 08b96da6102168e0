package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort int
	Database   DatabaseConfig
	Auth       AuthConfig
	Logging    LoggingConfig
	MQ         MQConfig
	Storage    StorageConfig
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	UseSSL       bool
	Path         string
	AutoMigrate  bool
	MaxOpenConns int
}

// IsEmbedded reports whether the database runs in-process (SQLite).
func (c DatabaseConfig) IsEmbedded() bool {
	return c.Driver == DriverSQLite
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

type MQConfig struct {
	Backend  string
	Channel  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

type StorageConfig struct {
	Backend string
	Prefix  string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"server.port":                   "SERVER_PORT",
	"database.driver":               "DB_DRIVER",
	"database.host":                 "DB_HOST",
	"database.port":                 "DB_PORT",
	"database.user":                 "DB_USER",
	"database.password":             "DB_PASSWORD",
	"database.name":                 "DB_NAME",
	"database.use_ssl":              "DB_USE_SSL",
	"database.path":                 "DB_PATH",
	"database.auto_migrate":         "DB_AUTO_MIGRATE",
	"database.max_open_conns":       "DB_MAX_OPEN_CONNS",
	"auth.jwt_secret":               "JWT_SECRET",
	"auth.token_ttl":                "JWT_TTL",
	"logging.level":                 "LOG_LEVEL",
	"logging.format":                "LOG_FORMAT",
	"mq.backend":                    "MQ_BACKEND",
	"mq.channel":                    "MQ_CHANNEL",
	"mq.rabbitmq.url":               "RABBITMQ_URL",
	"mq.rabbitmq.durable":           "RABBITMQ_QUEUE_DURABLE",
	"mq.rabbitmq.auto_delete":       "RABBITMQ_QUEUE_AUTO_DELETE",
	"mq.rabbitmq.prefetch":          "RABBITMQ_PREFETCH",
	"mq.pubsub.project_id":          "PUBSUB_PROJECT_ID",
	"mq.pubsub.credentials_file":    "PUBSUB_CREDENTIALS_FILE",
	"mq.pubsub.subscription_suffix": "PUBSUB_SUBSCRIPTION_SUFFIX",
	"storage.backend":               "STORAGE_BACKEND",
	"storage.prefix":                "STORAGE_PREFIX",
	"storage.minio.endpoint":        "MINIO_ENDPOINT",
	"storage.minio.access_key":      "MINIO_ACCESS_KEY",
	"storage.minio.secret_key":      "MINIO_SECRET_KEY",
	"storage.minio.bucket":          "MINIO_BUCKET",
	"storage.minio.use_ssl":         "MINIO_USE_SSL",
	"storage.gcs.bucket":            "GCS_BUCKET",
	"storage.gcs.project_id":        "GCS_PROJECT_ID",
	"storage.gcs.credentials_file":  "GCS_CREDENTIALS_FILE",
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "inventory")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "inventory_db")
	v.SetDefault("database.use_ssl", false)
	v.SetDefault("database.path", "./data/inventory.db")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("database.max_open_conns", 25)

	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("mq.backend", "none")
	v.SetDefault("mq.channel", "inventory-events")
	v.SetDefault("mq.rabbitmq.durable", true)
	v.SetDefault("mq.rabbitmq.prefetch", 10)
	v.SetDefault("mq.pubsub.subscription_suffix", "-sub")

	v.SetDefault("storage.backend", "none")
	v.SetDefault("storage.prefix", "snapshots")
}

func fromViper(v *viper.Viper) Config {
	return Config{
		ServerPort: v.GetInt("server.port"),
		Database: DatabaseConfig{
			Driver:       strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			Host:         v.GetString("database.host"),
			Port:         v.GetInt("database.port"),
			User:         v.GetString("database.user"),
			Password:     v.GetString("database.password"),
			DBName:       v.GetString("database.name"),
			UseSSL:       v.GetBool("database.use_ssl"),
			Path:         v.GetString("database.path"),
			AutoMigrate:  v.GetBool("database.auto_migrate"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Auth: AuthConfig{
			JWTSecret: strings.TrimSpace(v.GetString("auth.jwt_secret")),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
		MQ: MQConfig{
			Backend: strings.ToLower(v.GetString("mq.backend")),
			Channel: v.GetString("mq.channel"),
			RabbitMQ: RabbitMQConfig{
				URL:             v.GetString("mq.rabbitmq.url"),
				QueueDurable:    v.GetBool("mq.rabbitmq.durable"),
				QueueAutoDelete: v.GetBool("mq.rabbitmq.auto_delete"),
				PrefetchCount:   v.GetInt("mq.rabbitmq.prefetch"),
			},
			PubSub: PubSubConfig{
				ProjectID:          v.GetString("mq.pubsub.project_id"),
				CredentialsFile:    v.GetString("mq.pubsub.credentials_file"),
				SubscriptionSuffix: v.GetString("mq.pubsub.subscription_suffix"),
			},
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("storage.backend")),
			Prefix:  v.GetString("storage.prefix"),
			Minio: MinioConfig{
				Endpoint:  v.GetString("storage.minio.endpoint"),
				AccessKey: v.GetString("storage.minio.access_key"),
				SecretKey: v.GetString("storage.minio.secret_key"),
				Bucket:    v.GetString("storage.minio.bucket"),
				UseSSL:    v.GetBool("storage.minio.use_ssl"),
			},
			GCS: GCSConfig{
				Bucket:          v.GetString("storage.gcs.bucket"),
				ProjectID:       v.GetString("storage.gcs.project_id"),
				CredentialsFile: v.GetString("storage.gcs.credentials_file"),
			},
		},
	}
}

// Validate checks the settings every command needs. The JWT secret is
// checked separately by the server since migrations do not need it.
func (c Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.ServerPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}

	switch c.MQ.Backend {
	case "", "none", "rabbitmq", "pubsub":
	default:
		return fmt.Errorf("unsupported mq backend %q", c.MQ.Backend)
	}

	switch c.Storage.Backend {
	case "", "none", "minio", "gcs":
	default:
		return fmt.Errorf("unsupported storage backend %q", c.Storage.Backend)
	}

	return nil
}
