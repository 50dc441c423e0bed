package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Mode selects the pipeline variant.
const (
	ModeImage = "image"
	ModeText  = "text"
)

type LeetCodeConfig struct {
	Endpoint string `yaml:"endpoint"`
	Referer  string `yaml:"referer"`
}

type RenderConfig struct {
	ScreenshotURL string `yaml:"screenshot_url"`
	MarkdownURL   string `yaml:"markdown_url"`
}

type Config struct {
	Command     string         `yaml:"command"`
	Mode        string         `yaml:"mode"`
	Listen      string         `yaml:"listen"`
	LogLevel    string         `yaml:"log_level"`
	HTTPTimeout string         `yaml:"http_timeout"`
	CachePath   string         `yaml:"cache_path"`
	LeetCode    LeetCodeConfig `yaml:"leetcode"`
	Render      RenderConfig   `yaml:"render"`
}

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResolvedCachePath returns the configured cache path, or the XDG default.
func (c *Config) ResolvedCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	return DefaultCachePath()
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "leetcode-daily", "config.yaml")
}

func DefaultCachePath() string {
	return filepath.Join(xdg.CacheHome, "leetcode-daily", "cache.json")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(&cfg, defaults)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func applyDefaults(cfg, defaults *Config) {
	if cfg.Command == "" {
		cfg.Command = defaults.Command
	}
	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}
	if cfg.Listen == "" {
		cfg.Listen = defaults.Listen
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.HTTPTimeout == "" {
		cfg.HTTPTimeout = defaults.HTTPTimeout
	}
	if cfg.LeetCode.Endpoint == "" {
		cfg.LeetCode.Endpoint = defaults.LeetCode.Endpoint
	}
	if cfg.LeetCode.Referer == "" {
		cfg.LeetCode.Referer = defaults.LeetCode.Referer
	}
	if cfg.Render.ScreenshotURL == "" {
		cfg.Render.ScreenshotURL = defaults.Render.ScreenshotURL
	}
	if cfg.Render.MarkdownURL == "" {
		cfg.Render.MarkdownURL = defaults.Render.MarkdownURL
	}
}

func validate(cfg *Config) error {
	if cfg.Mode != ModeImage && cfg.Mode != ModeText {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeImage, ModeText, cfg.Mode)
	}
	for name, raw := range map[string]string{
		"leetcode.endpoint":     cfg.LeetCode.Endpoint,
		"render.screenshot_url": cfg.Render.ScreenshotURL,
		"render.markdown_url":   cfg.Render.MarkdownURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	return nil
}
