package app

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("expected StorageDriver %s, got %s", StorageDriverMemory, cfg.StorageDriver)
	}
	if !cfg.PostgresAutoMigrate {
		t.Error("expected PostgresAutoMigrate to be true")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected RequestTimeout 5s, got %s", cfg.RequestTimeout)
	}
	if cfg.TransitionPolicy != "strict" {
		t.Errorf("expected strict policy, got %s", cfg.TransitionPolicy)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected TokenTTL 24h, got %s", cfg.TokenTTL)
	}
	if len(cfg.KafkaBrokers) != 0 || cfg.RabbitMQURL != "" {
		t.Error("no broker should be configured by default")
	}
	if cfg.OutboxPollInterval <= 0 || cfg.OutboxBatchSize <= 0 || cfg.OutboxMaxAttempts <= 0 {
		t.Errorf("outbox defaults must be positive: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}
}
