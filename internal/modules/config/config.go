package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	appKeyENV         = "KIS_APP_KEY"
	appSecretENV      = "KIS_APP_SECRET"
	accountENV        = "KIS_ACCOUNT_NO"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	KIS struct {
		AppKey    string `yaml:"app_key"`
		AppSecret string `yaml:"app_secret"`
		AccountNo string `yaml:"account_no"`
		BaseURL   string `yaml:"base_url"` // paper: openapivts..., live: openapi...
	} `yaml:"kis"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	DB string `yaml:"db_dsn"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Decision-cycle defaults. The entry thresholds are per regime:
	// trending/sideways enter at 3, unknown at 4, crash never.
	BarsCount        int           `yaml:"bars_count"`  // daily bars per fetch
	MaxHoldings      int           `yaml:"max_holdings"`
	SectorCapPct     float64       `yaml:"sector_cap_pct"`     // e.g. 0.30
	SectorScoreFloor float64       `yaml:"sector_score_floor"` // skip sectors below; 0 disables
	CycleInterval    time.Duration `yaml:"cycle_interval"`
	HealthInterval   time.Duration `yaml:"health_interval"`

	// Session guard: skip entries for N minutes after the 09:00 open and
	// before the 15:30 close.
	OpenGuardMin  int `yaml:"open_guard_min"`
	CloseGuardMin int `yaml:"close_guard_min"`

	Watchlist models.Watchlist `yaml:"watchlist"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		BarsCount:        intFromEnv("BARS_COUNT", 60),
		MaxHoldings:      intFromEnv("MAX_HOLDINGS", 10),
		SectorCapPct:     floatFromEnv("SECTOR_CAP_PCT", 0.30),
		SectorScoreFloor: floatFromEnv("SECTOR_SCORE_FLOOR", 0),
		CycleInterval:    durationFromEnv("CYCLE_INTERVAL", "5m"),
		HealthInterval:   durationFromEnv("HEALTH_INTERVAL", "30m"),
		OpenGuardMin:     intFromEnv("OPEN_GUARD_MIN", 10),
		CloseGuardMin:    intFromEnv("CLOSE_GUARD_MIN", 10),
	}
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	if v := os.Getenv(appKeyENV); v != "" {
		config.KIS.AppKey = v
	}
	if v := os.Getenv(appSecretENV); v != "" {
		config.KIS.AppSecret = v
	}
	if v := os.Getenv(accountENV); v != "" {
		config.KIS.AccountNo = v
	}
	if v := os.Getenv(tokenTelegramENV); v != "" {
		config.Telegram.Token = v
	}
	if v := os.Getenv(databaseDSN); v != "" {
		config.DB = v
	}
	if config.KIS.BaseURL == "" {
		// Paper-trading endpoint unless configured otherwise.
		config.KIS.BaseURL = "https://openapivts.koreainvestment.com:29443"
	}

	return &config, nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := def
	if v := os.Getenv(key); v != "" {
		val = v
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
