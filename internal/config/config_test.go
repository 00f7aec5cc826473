package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/outstackhq/outstack/internal/config"
)

const testCfg = `{
  "server": {
    "port": 8000,
    "read_timeout": "1m",
    "write_timeout": "15m",
    "idle_timeout": "2m",
    "shutdown_timeout": "10s"
  },
  "lemlist": {
    "base_url": "https://api.lemlist.com/api",
    "page_size": 100,
    "max_retries": 3,
    "retry_delay": "1s",
    "list_timeout": "60s",
    "leads_timeout": "90s",
    "rate_requests": 20,
    "rate_window": "2s"
  },
  "dashboard": {
    "campaign_concurrency": 2,
    "build_timeout": "10m"
  }
}`

func writeCfgFile(t *testing.T, contents string) string {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(cfgFile, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return cfgFile
}

func TestLoad(t *testing.T) {
	cfgFile := writeCfgFile(t, testCfg)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("config.Load(%q) error = %v", cfgFile, err)
	}

	if got, want := cfg.Server.Port, 8000; got != want {
		t.Errorf("cfg.Server.Port = %d, want: %d", got, want)
	}

	if got, want := cfg.Server.WriteTimeout.Duration, 15*time.Minute; got != want {
		t.Errorf("cfg.Server.WriteTimeout = %v, want: %v", got, want)
	}

	if got, want := cfg.Lemlist.BaseURL, "https://api.lemlist.com/api"; got != want {
		t.Errorf("cfg.Lemlist.BaseURL = %q, want: %q", got, want)
	}

	if got, want := cfg.Lemlist.RateWindow.Duration, 2*time.Second; got != want {
		t.Errorf("cfg.Lemlist.RateWindow = %v, want: %v", got, want)
	}

	if got, want := cfg.Dashboard.CampaignConcurrency, 2; got != want {
		t.Errorf("cfg.Dashboard.CampaignConcurrency = %d, want: %d", got, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfgFile := writeCfgFile(t, testCfg)

	t.Setenv("PORT", "9999")
	t.Setenv("LEMLIST_BASE_URL", "http://localhost:4010")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("config.Load(%q) error = %v", cfgFile, err)
	}

	if got, want := cfg.Server.Port, 9999; got != want {
		t.Errorf("cfg.Server.Port = %d, want: %d", got, want)
	}

	if got, want := cfg.Lemlist.BaseURL, "http://localhost:4010"; got != want {
		t.Errorf("cfg.Lemlist.BaseURL = %q, want: %q", got, want)
	}
}

func TestLoad_InvalidPortOverride(t *testing.T) {
	cfgFile := writeCfgFile(t, testCfg)

	t.Setenv("PORT", "not-a-port")

	if _, err := config.Load(cfgFile); err == nil {
		t.Fatal("config.Load() error = nil, want: error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "missing.json")

	if _, err := config.Load(cfgFile); err == nil {
		t.Fatal("config.Load() error = nil, want: error")
	}
}

func TestLoad_MalformedDuration(t *testing.T) {
	cfgFile := writeCfgFile(t, `{"server":{"port":8000,"read_timeout":"soon"}}`)

	if _, err := config.Load(cfgFile); err == nil {
		t.Fatal("config.Load() error = nil, want: error")
	}
}
