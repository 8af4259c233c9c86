package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CARPRICE_MODEL_PATH", "/models/model.json")
	t.Setenv("CARPRICE_FEATURE_INFO_PATH", "/models/features.json")
	t.Setenv("CARPRICE_MODEL_VERSION", "v1.0")
	t.Setenv("CARPRICE_REDIS_HOST", "localhost")
	t.Setenv("CARPRICE_REDIS_PORT", "6379")
	t.Setenv("CARPRICE_REDIS_TTL", "300")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ModelPath != "/models/model.json" {
		t.Errorf("ModelPath = %q", cfg.ModelPath)
	}
	if cfg.ModelVersion != "v1.0" {
		t.Errorf("ModelVersion = %q", cfg.ModelVersion)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("Redis.Addr() = %q, want localhost:6379", cfg.Redis.Addr())
	}
	if cfg.Redis.TTL() != 300*time.Second {
		t.Errorf("Redis.TTL() = %v, want 300s", cfg.Redis.TTL())
	}

	// Defaults
	if cfg.Server.Addr() != "0.0.0.0:8000" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:8000", cfg.Server.Addr())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Redis.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v, want 5s", cfg.Redis.DialTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CARPRICE_MODEL_PATH", "")

	if _, err := Load(); err == nil {
		t.Error("Load succeeded without model path")
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CARPRICE_REDIS_TTL", "0")

	if _, err := Load(); err == nil {
		t.Error("Load succeeded with zero TTL")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CARPRICE_SERVER_PORT", "9000")
	t.Setenv("CARPRICE_LOG_LEVEL", "debug")
	t.Setenv("CARPRICE_REDIS_READ_TIMEOUT", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Server.Port = %q, want 9000", cfg.Server.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Redis.ReadTimeout != 500*time.Millisecond {
		t.Errorf("ReadTimeout = %v, want 500ms", cfg.Redis.ReadTimeout)
	}
}
