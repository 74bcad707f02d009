package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"scrape-checker/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported engines and environments
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
	EngineStatic   = "static"

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the full application configuration
type Config struct {
	App    AppConfig    `yaml:"app"`
	Scrape ScrapeConfig `yaml:"scrape"`
}

// AppConfig contains process-wide settings
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// ScrapeConfig contains general scraping configuration
type ScrapeConfig struct {
	UserAgent      string `yaml:"user_agent"`
	TimeoutMs      int    `yaml:"timeout_ms"`
	SizeLimitBytes int    `yaml:"size_limit_bytes"`
	MaxRetries     int    `yaml:"max_retries"`
	ChromeMajor    int    `yaml:"chrome_major"`
	ChromePath     string `yaml:"chrome_path"`
	Engine         string `yaml:"engine"`
	Headless       bool   `yaml:"headless"`
	WindowWidth    int    `yaml:"window_width"`
	WindowHeight   int    `yaml:"window_height"`
}

const userAgentTemplate = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.0.0 Safari/537.36"

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		App: AppConfig{
			Name:     "scrape-checker",
			Env:      EnvDevelopment,
			LogLevel: "info",
		},
		Scrape: DefaultScrapeConfig(),
	}
}

// DefaultScrapeConfig returns the default scraping configuration
func DefaultScrapeConfig() ScrapeConfig {
	return ScrapeConfig{
		UserAgent:      fmt.Sprintf(userAgentTemplate, 120),
		TimeoutMs:      30000,
		SizeLimitBytes: 6_000_000,
		MaxRetries:     2,
		ChromeMajor:    120,
		Engine:         EngineChromedp,
		Headless:       true,
		WindowWidth:    1920,
		WindowHeight:   1080,
	}
}

// Load builds the configuration from defaults, a .env file, an optional YAML
// file and the environment, in that order of precedence (last wins).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &models.ConfigError{Field: ".env", Err: err}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &models.ConfigError{Field: "config", Err: fmt.Errorf("failed to open config file: %w", err)}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &models.ConfigError{Field: "config", Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
	if v := os.Getenv("APP_NAME"); v != "" {
		c.App.Name = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.App.LogFile = v
	}
	if v := os.Getenv("CHROME_MAJOR"); v != "" {
		major, err := strconv.Atoi(v)
		if err != nil {
			return &models.ConfigError{Field: "CHROME_MAJOR", Err: err}
		}
		c.Scrape.ChromeMajor = major
		c.Scrape.UserAgent = fmt.Sprintf(userAgentTemplate, major)
	}
	if v := os.Getenv("SCRAPE_USER_AGENT"); v != "" {
		c.Scrape.UserAgent = v
	}
	if v := os.Getenv("CHROME_PATH"); v != "" {
		c.Scrape.ChromePath = v
	}
	if v := os.Getenv("SCRAPE_ENGINE"); v != "" {
		c.Scrape.Engine = v
	}
	return nil
}

// Validate checks the configuration for values the scraper cannot run with
func (c *Config) Validate() error {
	switch c.App.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return &models.ConfigError{Field: "app.env", Err: fmt.Errorf("must be development, production or test, got %q", c.App.Env)}
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return &models.ConfigError{Field: "app.log_level", Err: fmt.Errorf("unknown level %q", c.App.LogLevel)}
	}
	if c.App.Name == "" {
		return &models.ConfigError{Field: "app.name", Err: errors.New("is required")}
	}
	if c.Scrape.UserAgent == "" {
		return &models.ConfigError{Field: "scrape.user_agent", Err: errors.New("is required")}
	}
	if c.Scrape.TimeoutMs <= 0 {
		return &models.ConfigError{Field: "scrape.timeout_ms", Err: errors.New("must be > 0")}
	}
	if c.Scrape.SizeLimitBytes <= 0 {
		return &models.ConfigError{Field: "scrape.size_limit_bytes", Err: errors.New("must be > 0")}
	}
	if c.Scrape.MaxRetries < 0 {
		return &models.ConfigError{Field: "scrape.max_retries", Err: errors.New("must be >= 0")}
	}
	if c.Scrape.WindowWidth <= 0 || c.Scrape.WindowHeight <= 0 {
		return &models.ConfigError{Field: "scrape.window", Err: errors.New("width and height must be > 0")}
	}
	if err := ValidateEngine(c.Scrape.Engine); err != nil {
		return &models.ConfigError{Field: "scrape.engine", Err: err}
	}
	return nil
}

// ValidateEngine reports whether name is a known document provider
func ValidateEngine(name string) error {
	switch name {
	case EngineChromedp, EngineRod, EngineStatic:
		return nil
	}
	return fmt.Errorf("unknown engine %q (want chromedp, rod or static)", name)
}

// IsProduction reports whether logs should be machine-readable JSON
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// Getters
func (s ScrapeConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// CompileRegexes pre-compiles regex patterns for better performance
func CompileRegexes() map[string]*regexp.Regexp {
	return map[string]*regexp.Regexp{
		"cfBlock": regexp.MustCompile(`(attention required|cloudflare ray id|what can i do to resolve this\?|why have i been blocked\?|performance & security by cloudflare)`),
	}
}
