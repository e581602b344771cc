package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SysConfig holds process-level settings.
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig holds the admin API listener settings.
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig holds zap logger settings.
type LogConfig struct {
	Mode       string `yaml:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// LedgerConfig holds the ledger behavior switches.
type LedgerConfig struct {
	NodeID int64 `yaml:"node_id"` // snowflake worker id

	// PriceMode is "current" (legacy: reports reprice history with the
	// product's current price) or "sale" (snapshot price/cost on the
	// sale row at record time).
	PriceMode string `yaml:"price_mode"`

	// StrictUpdate rejects product updates for unknown ids instead of
	// upserting.
	StrictUpdate bool `yaml:"strict_update"`

	LowStockThreshold int `yaml:"low_stock_threshold"`
	BackupKeep        int `yaml:"backup_keep"`
}

// AppConfig is the full application configuration.
type AppConfig struct {
	System SysConfig    `yaml:"system"`
	Web    WebConfig    `yaml:"web"`
	Logger LogConfig    `yaml:"logger"`
	Ledger LedgerConfig `yaml:"ledger"`
}

// DBPath returns the embedded store location under the workdir.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.System.Workdir, "data", "bannerstock.db")
}

// BackupDir returns the directory nightly store snapshots go to.
func (c *AppConfig) BackupDir() string {
	return filepath.Join(c.System.Workdir, "backup")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "bannerstock",
			Location: "Local",
			Workdir:  "/var/bannerstock",
			Debug:    true,
		},
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 1816,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/bannerstock/bannerstock.log",
		},
		Ledger: LedgerConfig{
			NodeID:            1,
			PriceMode:         "current",
			StrictUpdate:      false,
			LowStockThreshold: 3,
			BackupKeep:        7,
		},
	}
}

// LoadConfig reads the yaml config file when present and applies
// BANNERSTOCK_* environment overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	cfg := defaultConfig()
	if v := os.Getenv("BANNERSTOCK_CONFIG_FILE"); v != "" {
		cfile = v
	}
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "parse config %s: %v\n", cfile, err)
			}
		}
	}

	setEnvValue("BANNERSTOCK_WORKDIR", &cfg.System.Workdir)
	setEnvValue("BANNERSTOCK_LOCATION", &cfg.System.Location)
	setEnvBoolValue("BANNERSTOCK_DEBUG", &cfg.System.Debug)
	setEnvValue("BANNERSTOCK_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("BANNERSTOCK_WEB_PORT", &cfg.Web.Port)
	setEnvValue("BANNERSTOCK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvValue("BANNERSTOCK_LOGGER_FILE", &cfg.Logger.Filename)
	setEnvInt64Value("BANNERSTOCK_NODE_ID", &cfg.Ledger.NodeID)
	setEnvValue("BANNERSTOCK_PRICE_MODE", &cfg.Ledger.PriceMode)
	setEnvBoolValue("BANNERSTOCK_STRICT_UPDATE", &cfg.Ledger.StrictUpdate)
	setEnvIntValue("BANNERSTOCK_LOW_STOCK_THRESHOLD", &cfg.Ledger.LowStockThreshold)
	return cfg
}

func setEnvValue(name string, val *string) {
	if v, ok := os.LookupEnv(name); ok {
		*val = v
	}
}

func setEnvBoolValue(name string, val *bool) {
	if v, ok := os.LookupEnv(name); ok {
		*val = cast.ToBool(v)
	}
}

func setEnvIntValue(name string, val *int) {
	if v, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(v)
	}
}

func setEnvInt64Value(name string, val *int64) {
	if v, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt64(v)
	}
}
