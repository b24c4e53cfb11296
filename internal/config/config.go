// Package config loads the docrank service configuration from YAML.
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

// Config holds the docrank API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Expansion ExpansionConfig `yaml:"expansion"`
	Auth      AuthConfig      `yaml:"auth"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds chunk store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// ExpansionConfig holds the query expansion provider settings.
// Expansion is optional; an empty model disables it.
type ExpansionConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	MaxTerms   int    `yaml:"max_terms"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RankingConfig holds the fusion, selection and scoring knobs. Zero
// values fall back to the engine defaults.
type RankingConfig struct {
	KeywordWeight       float64  `yaml:"keyword_weight"`
	VectorWeight        float64  `yaml:"vector_weight"`
	Threshold           float64  `yaml:"threshold"`
	MinResults          int      `yaml:"min_results"`
	MaxResults          int      `yaml:"max_results"`
	MassFraction        float64  `yaml:"mass_fraction"`
	QualityFloor        float64  `yaml:"quality_floor"`
	LexicalCeiling      float64  `yaml:"lexical_ceiling"`
	ExactBoost          float64  `yaml:"exact_boost"`
	FuzzyPenalty        float64  `yaml:"fuzzy_penalty"`
	FuzzyThreshold      float64  `yaml:"fuzzy_threshold"`
	FuzzyShortThreshold float64  `yaml:"fuzzy_short_threshold"`
	FuzzyThaiThreshold  float64  `yaml:"fuzzy_thai_threshold"`
	StopWords           []string `yaml:"stop_words"`
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Expansion.MaxTerms <= 0 {
		c.Expansion.MaxTerms = 5
	}
	if c.Expansion.TimeoutSec <= 0 {
		c.Expansion.TimeoutSec = 3
	}
	if c.Ranking.KeywordWeight == 0 && c.Ranking.VectorWeight == 0 {
		c.Ranking.KeywordWeight = 0.5
		c.Ranking.VectorWeight = 0.5
	}
	if c.Ranking.Threshold == 0 {
		c.Ranking.Threshold = 0.25
	}
	if c.Ranking.MinResults <= 0 {
		c.Ranking.MinResults = 5
	}
	if c.Ranking.MaxResults <= 0 {
		c.Ranking.MaxResults = 8
	}
	if c.Ranking.MassFraction == 0 {
		c.Ranking.MassFraction = 0.90
	}
	if c.Ranking.QualityFloor == 0 {
		c.Ranking.QualityFloor = 0.05
	}
	if c.Ranking.LexicalCeiling == 0 {
		c.Ranking.LexicalCeiling = 2.0
	}
	if c.Ranking.ExactBoost == 0 {
		c.Ranking.ExactBoost = 1.2
	}
	if c.Ranking.FuzzyPenalty == 0 {
		c.Ranking.FuzzyPenalty = 0.7
	}
	if c.Ranking.FuzzyThreshold == 0 {
		c.Ranking.FuzzyThreshold = 0.75
	}
	if c.Ranking.FuzzyShortThreshold == 0 {
		c.Ranking.FuzzyShortThreshold = 0.80
	}
	if c.Ranking.FuzzyThaiThreshold == 0 {
		c.Ranking.FuzzyThaiThreshold = 0.75
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Ranking.KeywordWeight < 0 || c.Ranking.VectorWeight < 0 {
		return fmt.Errorf("ranking weights must be non-negative")
	}
	if c.Ranking.Threshold < 0 || c.Ranking.Threshold > 1 {
		return fmt.Errorf("ranking.threshold must be between 0 and 1, got %g", c.Ranking.Threshold)
	}
	if c.Ranking.MassFraction <= 0 || c.Ranking.MassFraction > 1 {
		return fmt.Errorf("ranking.mass_fraction must be in (0,1], got %g", c.Ranking.MassFraction)
	}
	if c.Ranking.MinResults > c.Ranking.MaxResults {
		return fmt.Errorf("ranking.min_results (%d) must not exceed ranking.max_results (%d)",
			c.Ranking.MinResults, c.Ranking.MaxResults)
	}
	if c.Ranking.LexicalCeiling <= 0 {
		return fmt.Errorf("ranking.lexical_ceiling must be positive, got %g", c.Ranking.LexicalCeiling)
	}
	if c.Ranking.ExactBoost < 1 {
		return fmt.Errorf("ranking.exact_boost must be at least 1, got %g", c.Ranking.ExactBoost)
	}
	if c.Ranking.FuzzyPenalty <= 0 || c.Ranking.FuzzyPenalty > 1 {
		return fmt.Errorf("ranking.fuzzy_penalty must be in (0,1], got %g", c.Ranking.FuzzyPenalty)
	}
	if c.Ranking.FuzzyThreshold <= 0 || c.Ranking.FuzzyThreshold > 1 {
		return fmt.Errorf("ranking.fuzzy_threshold must be in (0,1], got %g", c.Ranking.FuzzyThreshold)
	}
	if c.Ranking.FuzzyShortThreshold <= 0 || c.Ranking.FuzzyShortThreshold > 1 {
		return fmt.Errorf("ranking.fuzzy_short_threshold must be in (0,1], got %g", c.Ranking.FuzzyShortThreshold)
	}
	if c.Ranking.FuzzyThaiThreshold <= 0 || c.Ranking.FuzzyThaiThreshold > 1 {
		return fmt.Errorf("ranking.fuzzy_thai_threshold must be in (0,1], got %g", c.Ranking.FuzzyThaiThreshold)
	}
	return nil
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
