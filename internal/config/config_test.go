package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "mlb-pipeline-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "mlb-pipeline-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_IntakeDirsDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PIPELINE_INTAKE_DIR", "")
	t.Setenv("PIPELINE_ARCHIVE_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IntakeDir != "data/raw" {
		t.Fatalf("unexpected default intake dir: %q", cfg.IntakeDir)
	}
	if cfg.ArchiveDir != "data/historical" {
		t.Fatalf("unexpected default archive dir: %q", cfg.ArchiveDir)
	}
}

func TestLoad_StatsAPIConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STATS_API_TIMEOUT", "")
		t.Setenv("STATS_API_WORKERS", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StatsAPIBaseURL != "https://statsapi.mlb.com/api/v1" {
			t.Fatalf("unexpected default base url: %q", cfg.StatsAPIBaseURL)
		}
		if cfg.StatsAPITimeout != 20*time.Second {
			t.Fatalf("unexpected default timeout: %s", cfg.StatsAPITimeout)
		}
		if cfg.StatsAPIWorkers != 4 {
			t.Fatalf("unexpected default worker count: %d", cfg.StatsAPIWorkers)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("STATS_API_TIMEOUT", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid STATS_API_TIMEOUT")
		}
	})

	t.Run("workers must be positive", func(t *testing.T) {
		t.Setenv("STATS_API_TIMEOUT", "20s")
		t.Setenv("STATS_API_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for STATS_API_WORKERS=0")
		}
	})

	t.Run("implausible season", func(t *testing.T) {
		t.Setenv("STATS_API_WORKERS", "4")
		t.Setenv("STATS_API_SEASON", "1800")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for implausible STATS_API_SEASON")
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}
