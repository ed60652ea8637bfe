// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr        string `mapstructure:"addr"`
		MetricsAddr string `mapstructure:"metrics_addr"`
	} `mapstructure:"server"`

	Feeds struct {
		// PlasmaURLs are tried in order until one yields usable rows.
		PlasmaURLs []string      `mapstructure:"plasma_urls"`
		KpURL      string        `mapstructure:"kp_url"`
		USGSURL    string        `mapstructure:"usgs_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
		QuakeDays  int           `mapstructure:"quake_days"`
		MinMag     float64       `mapstructure:"min_magnitude"`
	} `mapstructure:"feeds"`

	Refresh struct {
		Interval time.Duration `mapstructure:"interval"`
		History  int           `mapstructure:"history"` // snapshot ring capacity
	} `mapstructure:"refresh"`

	Stress struct {
		// Threshold is the ZFCM alert threshold; fixed at deploy time.
		Threshold      float64 `mapstructure:"threshold"`
		DriftScale     float64 `mapstructure:"drift_scale"`
		ShallowDepthKM float64 `mapstructure:"shallow_depth_km"`
	} `mapstructure:"stress"`
}

// Load reads config.yaml from path (a directory), with environment variable
// overrides, and fills in defaults for anything missing. A missing file is
// not an error; the defaults describe a fully working deployment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", "")

	v.SetDefault("feeds.plasma_urls", []string{
		"https://services.swpc.noaa.gov/products/solar-wind/plasma-1-day.json",
		"https://services.swpc.noaa.gov/products/solar-wind/plasma-7-day.json",
		"https://services.swpc.noaa.gov/json/dscovr_plasma.json",
	})
	v.SetDefault("feeds.kp_url", "https://services.swpc.noaa.gov/products/noaa-planetary-k-index.json")
	v.SetDefault("feeds.usgs_url", "https://earthquake.usgs.gov/fdsnws/event/1/query")
	v.SetDefault("feeds.timeout", 10*time.Second)
	v.SetDefault("feeds.quake_days", 7)
	v.SetDefault("feeds.min_magnitude", 2.5)

	v.SetDefault("refresh.interval", 10*time.Minute)
	v.SetDefault("refresh.history", 144) // one day at the default interval

	v.SetDefault("stress.threshold", -1.0)
	v.SetDefault("stress.drift_scale", 800.0)
	v.SetDefault("stress.shallow_depth_km", 5.0)
}

func (c *Config) validate() error {
	if len(c.Feeds.PlasmaURLs) == 0 {
		return fmt.Errorf("feeds.plasma_urls must not be empty")
	}
	if c.Feeds.KpURL == "" {
		return fmt.Errorf("feeds.kp_url is required")
	}
	if c.Feeds.USGSURL == "" {
		return fmt.Errorf("feeds.usgs_url is required")
	}
	if c.Feeds.Timeout <= 0 {
		return fmt.Errorf("feeds.timeout must be positive")
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if c.Refresh.History <= 0 {
		return fmt.Errorf("refresh.history must be positive")
	}
	if c.Stress.DriftScale <= 0 {
		return fmt.Errorf("stress.drift_scale must be positive")
	}
	return nil
}
