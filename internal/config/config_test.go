package config_test

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"proximity-analysis-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "ROUTING_TIMEOUT_SECONDS",
		"TOP_K", "RANK_WORKERS", "REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg := config.Load(nil)

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.RoutingTimeout != 30*time.Second {
		t.Errorf("RoutingTimeout = %v, want 30s", cfg.RoutingTimeout)
	}
	if cfg.TopK != 3 || cfg.RankWorkers != 4 {
		t.Errorf("TopK/RankWorkers = %d/%d, want 3/4", cfg.TopK, cfg.RankWorkers)
	}
}

func TestLoadWarnsOnInvalidIntegers(t *testing.T) {
	t.Setenv("TOP_K", "zero")
	t.Setenv("RANK_WORKERS", "-2")

	core, logs := observer.New(zap.WarnLevel)
	cfg := config.Load(zap.New(core))

	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want default 3", cfg.TopK)
	}
	if cfg.RankWorkers != 4 {
		t.Errorf("RankWorkers = %d, want default 4", cfg.RankWorkers)
	}
	if got := logs.FilterMessage("invalid integer value, using default").Len(); got != 2 {
		t.Errorf("expected 2 warnings for invalid integers, got %d", got)
	}
}
