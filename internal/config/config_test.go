package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/config"
)

const minimalYAML = `
queue:
  url: https://sqs.us-east-1.amazonaws.com/123456789012/thumb-image
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Service.Port != 3000 {
		t.Errorf("Service.Port = %d, want 3000", cfg.Service.Port)
	}
	if cfg.Service.ReadTimeout != 3*time.Second {
		t.Errorf("Service.ReadTimeout = %v, want 3s", cfg.Service.ReadTimeout)
	}
	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("AWS.Region = %q, want us-east-1", cfg.AWS.Region)
	}
	if cfg.Storage.Bucket != "thumbnails" {
		t.Errorf("Storage.Bucket = %q, want thumbnails", cfg.Storage.Bucket)
	}
	if cfg.Elasticsearch.MaxRetries != 2 {
		t.Errorf("Elasticsearch.MaxRetries = %d, want 2", cfg.Elasticsearch.MaxRetries)
	}
	if cfg.Elasticsearch.RequestTimeout != 2*time.Second {
		t.Errorf("Elasticsearch.RequestTimeout = %v, want 2s", cfg.Elasticsearch.RequestTimeout)
	}
	if cfg.Thumbnails.HitTTL != 30*24*time.Hour {
		t.Errorf("Thumbnails.HitTTL = %v, want 720h", cfg.Thumbnails.HitTTL)
	}
	if cfg.Thumbnails.MissTTL != time.Minute {
		t.Errorf("Thumbnails.MissTTL = %v, want 1m", cfg.Thumbnails.MissTTL)
	}
	if cfg.Dispatch.FailOnEnqueueError {
		t.Error("Dispatch.FailOnEnqueueError should default to false")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %q/%q, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_FileValues(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
service:
  port: 8080
  read_timeout: 5s
storage:
  bucket: my-thumbs
  signed_url_ttl: 15m
queue:
  url: https://sqs.us-east-1.amazonaws.com/123456789012/thumb-image
elasticsearch:
  url: http://search:9200
  index: catalog
thumbnails:
  hit_ttl: 24h
  miss_ttl: 30s
dispatch:
  fail_on_enqueue_error: true
`))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Service.Port != 8080 {
		t.Errorf("Service.Port = %d, want 8080", cfg.Service.Port)
	}
	if cfg.Storage.Bucket != "my-thumbs" {
		t.Errorf("Storage.Bucket = %q, want my-thumbs", cfg.Storage.Bucket)
	}
	if cfg.Storage.SignedURLTTL != 15*time.Minute {
		t.Errorf("Storage.SignedURLTTL = %v, want 15m", cfg.Storage.SignedURLTTL)
	}
	if cfg.Elasticsearch.Index != "catalog" {
		t.Errorf("Elasticsearch.Index = %q, want catalog", cfg.Elasticsearch.Index)
	}
	if cfg.Thumbnails.HitTTL != 24*time.Hour {
		t.Errorf("Thumbnails.HitTTL = %v, want 24h", cfg.Thumbnails.HitTTL)
	}
	if !cfg.Dispatch.FailOnEnqueueError {
		t.Error("Dispatch.FailOnEnqueueError should be true")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("THUMB_PORT", "9090")
	t.Setenv("THUMB_BUCKET", "env-bucket")
	t.Setenv("THUMB_FAIL_ON_ENQUEUE_ERROR", "true")

	cfg, err := config.Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Service.Port != 9090 {
		t.Errorf("Service.Port = %d, want 9090 from env", cfg.Service.Port)
	}
	if cfg.Storage.Bucket != "env-bucket" {
		t.Errorf("Storage.Bucket = %q, want env-bucket from env", cfg.Storage.Bucket)
	}
	if !cfg.Dispatch.FailOnEnqueueError {
		t.Error("Dispatch.FailOnEnqueueError should be overridden to true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing queue url",
			yaml: `service: {port: 3000}`,
		},
		{
			name: "bad port",
			yaml: `
service:
  port: 99999
queue:
  url: https://sqs.us-east-1.amazonaws.com/123456789012/thumb-image
`,
		},
		{
			name: "bad log level",
			yaml: `
queue:
  url: https://sqs.us-east-1.amazonaws.com/123456789012/thumb-image
logging:
  level: loud
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("Load() expected an error")
			}
		})
	}
}
