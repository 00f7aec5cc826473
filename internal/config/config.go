package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/outstackhq/outstack/internal/pkg/timex"
)

type Server struct {
	Port            int            `json:"port,omitempty" validate:"required,gte=1,lte=65535"`
	ReadTimeout     timex.Duration `json:"read_timeout,omitempty"`
	WriteTimeout    timex.Duration `json:"write_timeout,omitempty"`
	IdleTimeout     timex.Duration `json:"idle_timeout,omitempty"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout,omitempty"`
}

// Lemlist holds the tunables for the upstream lemlist API client. Zero
// values fall back to the client defaults.
type Lemlist struct {
	BaseURL          string         `json:"base_url,omitempty" validate:"required,url"`
	PageSize         int            `json:"page_size,omitempty" validate:"omitempty,gte=1,lte=100"`
	MaxRetries       int            `json:"max_retries,omitempty" validate:"omitempty,gte=1"`
	ActivityRetries  int            `json:"activity_retries,omitempty" validate:"omitempty,gte=1"`
	MaxActivityPages int            `json:"max_activity_pages,omitempty" validate:"omitempty,gte=1"`
	RetryDelay       timex.Duration `json:"retry_delay,omitempty"`
	ListTimeout      timex.Duration `json:"list_timeout,omitempty"`
	LeadsTimeout     timex.Duration `json:"leads_timeout,omitempty"`
	ActionTimeout    timex.Duration `json:"action_timeout,omitempty"`
	RateRequests     int            `json:"rate_requests,omitempty" validate:"omitempty,gte=1"`
	RateWindow       timex.Duration `json:"rate_window,omitempty"`
}

type Dashboard struct {
	CampaignConcurrency int            `json:"campaign_concurrency,omitempty" validate:"omitempty,gte=1"`
	BuildTimeout        timex.Duration `json:"build_timeout,omitempty"`
}

type Config struct {
	Server    *Server    `json:"server,omitempty" validate:"required"`
	Lemlist   *Lemlist   `json:"lemlist,omitempty" validate:"required"`
	Dashboard *Dashboard `json:"dashboard,omitempty" validate:"required"`
}

func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("server", c.Server),
		slog.Any("lemlist", c.Lemlist),
		slog.Any("dashboard", c.Dashboard),
	)
}

func Load(cfgFile string) (*Config, error) {
	slog.Info("Loading config...")
	cfg, err := parseCfgFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	slog.Info("Config loaded.", "config_file", cfgFile, slog.Any("config", cfg))
	return cfg, nil
}

func parseCfgFile(cfgFile string) (*Config, error) {
	cfgFile = filepath.Clean(cfgFile)
	configFile, err := os.ReadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
	}

	var cfg Config
	if err := json.Unmarshal(configFile, &cfg); err != nil {
		return nil, fmt.Errorf("decode json config %s: %w", cfgFile, err)
	}

	return &cfg, nil
}

func overrideWithEnv(cfg *Config) error {
	if portStr, ok := os.LookupEnv("PORT"); ok && cfg.Server != nil {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return err
		}
		cfg.Server.Port = port
	}

	if baseURL, ok := os.LookupEnv("LEMLIST_BASE_URL"); ok && cfg.Lemlist != nil {
		cfg.Lemlist.BaseURL = baseURL
	}
	return nil
}
