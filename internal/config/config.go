package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/taxwise/internal/advisory"
	"github.com/Veraticus/taxwise/internal/api"
	"github.com/Veraticus/taxwise/internal/common"
	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	DatabasePath  string
	RulesPath     string
	FinancialYear string
	Advisory      advisory.Config
	Server        ServerConfig
}

// ServerConfig controls `taxwise serve`.
type ServerConfig struct {
	Addr string
	API  api.Config
}

// providerKeyEnv lists the conventional API key variables per provider.
var providerKeyEnv = map[string]string{
	advisory.ProviderGemini:    "GEMINI_API_KEY",
	advisory.ProviderAnthropic: "ANTHROPIC_API_KEY",
	advisory.ProviderOpenAI:    "OPENAI_API_KEY",
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	apiDefaults := api.DefaultConfig()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", "~/.local/share/taxwise/taxwise.db")
	v.SetDefault("rules.path", "")
	v.SetDefault("tax.financial_year", "")
	v.SetDefault("advisory.provider", advisory.ProviderNone)
	v.SetDefault("advisory.timeout", 15*time.Second)
	v.SetDefault("advisory.max_attempts", 2)
	v.SetDefault("advisory.cache", advisory.CacheMemory)
	v.SetDefault("advisory.cache_ttl", 24*time.Hour)
	v.SetDefault("advisory.redis_addr", "localhost:6379")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", apiDefaults.AllowedOrigins)
	v.SetDefault("server.rate_limit", apiDefaults.RateLimit)
	v.SetDefault("server.rate_window", apiDefaults.RateWindow)
}

// Load resolves configuration from v. Values come from the config file or
// TAXWISE_ env vars first; provider API keys fall back to their conventional
// environment variables.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:  ExpandPath(v.GetString("database.path")),
		RulesPath:     ExpandPath(v.GetString("rules.path")),
		FinancialYear: v.GetString("tax.financial_year"),
		Advisory: advisory.Config{
			Provider:    strings.ToLower(strings.TrimSpace(v.GetString("advisory.provider"))),
			Endpoint:    v.GetString("advisory.endpoint"),
			APIKey:      v.GetString("advisory.api_key"),
			Model:       v.GetString("advisory.model"),
			Cache:       v.GetString("advisory.cache"),
			RedisAddr:   v.GetString("advisory.redis_addr"),
			Timeout:     v.GetDuration("advisory.timeout"),
			CacheTTL:    v.GetDuration("advisory.cache_ttl"),
			MaxAttempts: v.GetInt("advisory.max_attempts"),
			MaxTokens:   v.GetInt("advisory.max_tokens"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
			API: api.Config{
				AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
				RateLimit:      v.GetInt("server.rate_limit"),
				RateWindow:     v.GetDuration("server.rate_window"),
			},
		},
	}

	if cfg.Advisory.APIKey == "" {
		if name, ok := providerKeyEnv[cfg.Advisory.Provider]; ok {
			cfg.Advisory.APIKey = os.Getenv(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component could use.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.Advisory.Timeout < 0 {
		return fmt.Errorf("%w: advisory.timeout must be non-negative", common.ErrInvalidConfig)
	}
	if c.Advisory.MaxAttempts < 0 {
		return fmt.Errorf("%w: advisory.max_attempts must be non-negative", common.ErrInvalidConfig)
	}
	if c.Server.API.RateLimit > 0 && c.Server.API.RateWindow <= 0 {
		return fmt.Errorf("%w: server.rate_window must be positive when rate limiting", common.ErrInvalidConfig)
	}
	return nil
}
