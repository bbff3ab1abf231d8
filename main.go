package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/api"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/config"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/logger"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/metrics"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/queue"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/service"
	"github.com/jonesrussell/north-cloud/thumbnailer/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	log = log.With(logger.String("service", cfg.Service.Name))

	log.Info("Starting thumbnailer service",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.String("bucket", cfg.Storage.Bucket),
		logger.String("queue", cfg.Queue.URL),
		logger.Bool("debug", cfg.Service.Debug),
	)

	// Setup backend clients; all three are created once and shared by
	// every in-flight request.
	awsSession := newAWSSession(&cfg.AWS)
	store := storage.New(s3.New(awsSession), cfg.Storage.Bucket, cfg.Storage.SignedURLTTL)
	dispatcher := queue.NewDispatcher(sqs.New(awsSession), cfg.Queue.URL)

	log.Info("Connecting to Elasticsearch", logger.String("url", cfg.Elasticsearch.URL))
	esClient, err := elasticsearch.NewClient(&cfg.Elasticsearch)
	if err != nil {
		log.Error("Failed to create Elasticsearch client", logger.Error(err))
		return 1
	}
	log.Info("Successfully connected to Elasticsearch")

	// Setup resolver and run server
	m := metrics.New(prometheus.DefaultRegisterer)
	resolver := service.NewResolver(store, esClient, dispatcher, cfg, log, m)
	handler := api.NewHandler(resolver, esClient, log, cfg.Service.Name, cfg.Service.Version)
	server := api.NewServer(handler, cfg, log)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Thumbnailer service exited cleanly")
	return 0
}

// newAWSSession builds the shared AWS session. Static credentials and
// a custom endpoint are only used for local stacks; in deployment the
// default chain applies.
func newAWSSession(cfg *config.AWSConfig) *session.Session {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	return session.Must(session.NewSession(awsCfg))
}
