// Package config loads and validates exporter configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all exporter configuration knobs loaded via Viper.
type Config struct {
	URL     string        `mapstructure:"url"`
	Output  string        `mapstructure:"output"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Export  ExportConfig  `mapstructure:"export"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs page discovery and asset download behavior.
type CrawlerConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	UserAgent   string `mapstructure:"user_agent"`
}

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ExportConfig controls mirror post-processing.
type ExportConfig struct {
	AssetOrigin     string `mapstructure:"asset_origin"`
	RemoveBadge     bool   `mapstructure:"remove_badge"`
	GenerateSitemap bool   `mapstructure:"generate_sitemap"`
}

// ServerConfig controls the mirror preview server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap verbosity.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
	Debug       bool `mapstructure:"debug"`
	Silent      bool `mapstructure:"silent"`
}

// Load builds a Config from disk/environment using the supplied Viper
// instance, which carries any CLI flag bindings.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetEnvPrefix("WEBEXP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", "out")
	v.SetDefault("crawler.concurrency", 4)
	v.SetDefault("crawler.user_agent", "webflow-exporter/1.0")
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("export.asset_origin", "website-files.com")
	v.SetDefault("export.remove_badge", false)
	v.SetDefault("export.generate_sitemap", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("url is not parseable: %w", err)
		}
		if u.Scheme != "https" {
			return fmt.Errorf("url must use https, got %q", c.URL)
		}
	}
	if c.Crawler.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Export.AssetOrigin == "" {
		return fmt.Errorf("export.asset_origin must be set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Logging.Debug && c.Logging.Silent {
		return fmt.Errorf("logging.debug and logging.silent cannot be used together")
	}
	return nil
}

// Timeout converts the HTTP timeout config into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
