package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the thumbnailer service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	AWS           AWSConfig           `yaml:"aws"`
	Storage       StorageConfig       `yaml:"storage"`
	Queue         QueueConfig         `yaml:"queue"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Thumbnails    ThumbnailsConfig    `yaml:"thumbnails"`
	Dispatch      DispatchConfig      `yaml:"dispatch"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `yaml:"port" env:"THUMB_PORT"`
	Debug           bool          `yaml:"debug" env:"THUMB_DEBUG"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AWSConfig holds shared AWS client configuration. Endpoint is only
// set for local stacks (localstack, minio) that mimic the AWS APIs.
type AWSConfig struct {
	Region          string `yaml:"region" env:"AWS_REGION"`
	Endpoint        string `yaml:"endpoint" env:"AWS_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"AWS_SECRET_ACCESS_KEY"`
}

// StorageConfig holds thumbnail object store configuration.
type StorageConfig struct {
	Bucket       string        `yaml:"bucket" env:"THUMB_BUCKET"`
	SignedURLTTL time.Duration `yaml:"signed_url_ttl"`
}

// QueueConfig holds the regeneration queue configuration.
type QueueConfig struct {
	URL string `yaml:"url" env:"THUMB_SQS_URL"`
}

// ElasticsearchConfig holds search index connection configuration.
type ElasticsearchConfig struct {
	URL            string        `yaml:"url" env:"ELASTICSEARCH_URL"`
	Username       string        `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password       string        `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	Index          string        `yaml:"index" env:"THUMB_INDEX"`
	MaxRetries     int           `yaml:"max_retries"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ThumbnailsConfig holds response freshness configuration. HitTTL
// applies to cache hits, which are durable and may be cached
// aggressively downstream; MissTTL applies to the provisional redirect
// served while a thumbnail is being regenerated.
type ThumbnailsConfig struct {
	HitTTL  time.Duration `yaml:"hit_ttl"`
	MissTTL time.Duration `yaml:"miss_ttl"`
}

// DispatchConfig holds regeneration dispatch configuration.
type DispatchConfig struct {
	// FailOnEnqueueError escalates a failed enqueue to a 5xx instead of
	// still serving the degraded 302 to the source image.
	FailOnEnqueueError bool `yaml:"fail_on_enqueue_error" env:"THUMB_FAIL_ON_ENQUEUE_ERROR"`
	// DedupeTTL collapses repeat dispatches for the same identifier
	// within the window. Zero disables deduplication.
	DedupeTTL time.Duration `yaml:"dedupe_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := loadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	// Service defaults. The read timeout is deliberately short: a thumb
	// request is a single small GET and slow clients should not pin a
	// connection.
	if cfg.Service.Name == "" {
		cfg.Service.Name = "thumbnailer"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 3000
	}
	if cfg.Service.ReadTimeout == 0 {
		cfg.Service.ReadTimeout = 3 * time.Second
	}
	if cfg.Service.WriteTimeout == 0 {
		cfg.Service.WriteTimeout = 10 * time.Second
	}
	if cfg.Service.IdleTimeout == 0 {
		cfg.Service.IdleTimeout = 120 * time.Second
	}
	if cfg.Service.ShutdownTimeout == 0 {
		cfg.Service.ShutdownTimeout = 15 * time.Second
	}

	// AWS defaults
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}

	// Storage defaults
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "thumbnails"
	}
	if cfg.Storage.SignedURLTTL == 0 {
		cfg.Storage.SignedURLTTL = time.Hour
	}

	// Elasticsearch defaults
	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = "http://localhost:9200"
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = "items"
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = 2
	}
	if cfg.Elasticsearch.RequestTimeout == 0 {
		cfg.Elasticsearch.RequestTimeout = 2 * time.Second
	}

	// Thumbnail freshness defaults
	if cfg.Thumbnails.HitTTL == 0 {
		cfg.Thumbnails.HitTTL = 30 * 24 * time.Hour
	}
	if cfg.Thumbnails.MissTTL == 0 {
		cfg.Thumbnails.MissTTL = time.Minute
	}

	// Dispatch defaults
	if cfg.Dispatch.DedupeTTL == 0 {
		cfg.Dispatch.DedupeTTL = 30 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if c.Storage.Bucket == "" {
		return &ValidationError{Field: "storage.bucket", Message: "is required"}
	}
	if c.Queue.URL == "" {
		return &ValidationError{Field: "queue.url", Message: "is required"}
	}
	if c.Elasticsearch.URL == "" {
		return &ValidationError{Field: "elasticsearch.url", Message: "is required"}
	}
	if c.Elasticsearch.Index == "" {
		return &ValidationError{Field: "elasticsearch.index", Message: "is required"}
	}
	if c.Thumbnails.HitTTL < 0 || c.Thumbnails.MissTTL < 0 {
		return &ValidationError{Field: "thumbnails", Message: "freshness durations must be non-negative"}
	}
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := validateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}
