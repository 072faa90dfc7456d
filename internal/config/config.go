package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the recipesearch service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Recipes RecipesConfig `yaml:"recipes"`
	Search  SearchConfig  `yaml:"search"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// RecipesConfig holds the PDF source directory settings.
type RecipesConfig struct {
	Dir           string `yaml:"dir"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"` // 0 = unlimited
}

// SearchConfig holds query-time settings.
type SearchConfig struct {
	MaxResults    int     `yaml:"max_results"`
	DefaultLimit  int     `yaml:"default_limit"`
	TitleMinScore float64 `yaml:"title_min_score"`
	// ServeBeforeReady starts the HTTP server while the first scan runs.
	ServeBeforeReady bool `yaml:"serve_before_ready"`
	// EmptyIndexOK answers queries with an empty result set instead of 503
	// while the index is not built yet.
	EmptyIndexOK bool `yaml:"empty_index_ok"`
}

// CacheConfig holds the extraction cache settings. Empty addrs disables it.
type CacheConfig struct {
	Addrs               []string `yaml:"addrs"`
	Password            string   `yaml:"password"`
	TTLHours            int      `yaml:"ttl_hours"`
	ReadinessTimeoutSec int      `yaml:"readiness_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 100
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.DefaultLimit > c.Search.MaxResults {
		c.Search.DefaultLimit = c.Search.MaxResults
	}
	if c.Search.TitleMinScore <= 0 {
		c.Search.TitleMinScore = 0.6
	}
	if c.Cache.TTLHours <= 0 {
		c.Cache.TTLHours = 7 * 24
	}
	if c.Cache.ReadinessTimeoutSec <= 0 {
		c.Cache.ReadinessTimeoutSec = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Recipes.Dir == "" {
		return fmt.Errorf("recipes.dir is required")
	}
	if c.Recipes.MaxFileSizeMB < 0 {
		return fmt.Errorf("recipes.max_file_size_mb must not be negative")
	}
	if c.Search.TitleMinScore < 0 || c.Search.TitleMinScore > 1 {
		return fmt.Errorf("search.title_min_score must be between 0 and 1, got %f", c.Search.TitleMinScore)
	}
	return nil
}

// CacheEnabled reports whether the extraction cache is configured.
func (c *Config) CacheEnabled() bool {
	return len(c.Cache.Addrs) > 0
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
