// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like DATABASE_POSTGRES_PASSWORD
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if not present.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// the service behaves the same when launched from cmd/ or from tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "aidmatch-matcher"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 20
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.Index == "" {
		cfg.Database.Elasticsearch.Index = "scholarships"
	}
	if cfg.Matching.CandidateLimit == 0 {
		cfg.Matching.CandidateLimit = 100
	}
	if cfg.Matching.ProviderLimit == 0 {
		cfg.Matching.ProviderLimit = 3
	}
	if cfg.Matching.CategoryLimit == 0 {
		cfg.Matching.CategoryLimit = 10
	}
	if cfg.Matching.CacheTTL == 0 {
		cfg.Matching.CacheTTL = 5 * time.Minute
	}
	if cfg.Matching.CacheCapacity == 0 {
		cfg.Matching.CacheCapacity = 1024
	}
	if len(cfg.Matching.MajorCategories) == 0 {
		cfg.Matching.MajorCategories = DefaultMajorCategories()
	}
	if cfg.Verification.BatchSize == 0 {
		cfg.Verification.BatchSize = 5
	}
	if cfg.Verification.Timeout == 0 {
		cfg.Verification.Timeout = 5000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Matching.ProviderLimit < 1 {
		return fmt.Errorf("matching.provider_limit must be >= 1")
	}
	if cfg.Matching.CategoryLimit < 1 {
		return fmt.Errorf("matching.category_limit must be >= 1")
	}
	if cfg.Matching.CacheTTL < 0 {
		return fmt.Errorf("matching.cache_ttl must not be negative")
	}
	if cfg.Verification.Enabled && cfg.Verification.BatchSize < 1 {
		return fmt.Errorf("verification.batch_size must be >= 1")
	}
	return nil
}

// DefaultMajorCategories is the keyword table used when the config does not
// override it. A scholarship major of "STEM" or "Business" matches any
// profile major containing (or contained by) one of the listed keywords.
func DefaultMajorCategories() map[string][]string {
	return map[string][]string{
		"STEM": {
			"Computer Science",
			"Engineering",
			"Mathematics",
			"Biology",
			"Chemistry",
			"Physics",
			"Technology",
			"Data Science",
			"Science",
		},
		"Business": {
			"Business",
			"Finance",
			"Accounting",
			"Marketing",
			"Economics",
			"Management",
			"Entrepreneurship",
		},
	}
}
