// Package config provides Viper-based configuration loading for the mines server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mines-backend/internal/mines"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// Env is "development" or "production"; production puts gin in release mode.
	Env string `mapstructure:"env"`
	// StaticDir holds the built frontend served at "/".
	StaticDir    string        `mapstructure:"static_dir"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the ":port" listen address.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// RedisConfig holds the optional ledger/rate-limit backend. An empty URL
// keeps everything in memory.
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds the round rules.
type GameConfig struct {
	GridSize        int     `mapstructure:"grid_size"`
	DefaultMines    int     `mapstructure:"default_mines"`
	DefaultBet      float64 `mapstructure:"default_bet"`
	HouseEdge       float64 `mapstructure:"house_edge"`
	StartingBalance float64 `mapstructure:"starting_balance"`
	GridStrategy    string  `mapstructure:"grid_strategy"`
	// Seed fixes the mine placement source; 0 seeds from the runtime.
	Seed uint64 `mapstructure:"seed"`
}

// Rules converts the config section into game rules.
func (g GameConfig) Rules() mines.Rules {
	return mines.Rules{
		GridSize:        g.GridSize,
		DefaultMines:    g.DefaultMines,
		DefaultBet:      g.DefaultBet,
		HouseEdge:       g.HouseEdge,
		StartingBalance: g.StartingBalance,
		Strategy:        mines.GridStrategy(g.GridStrategy),
	}
}

// RateLimitConfig holds per-client request budgets per minute. Zero disables
// the limit for that action.
type RateLimitConfig struct {
	Start  int `mapstructure:"start"`
	Reveal int `mapstructure:"reveal"`
	End    int `mapstructure:"end"`
}

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Game      GameConfig      `mapstructure:"game"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// Validate checks all configuration invariants and reports every violation.
func (c Config) Validate() error {
	var errs []string

	if c.Server.Port == "" {
		errs = append(errs, "server.port must not be empty")
	}
	validEnvs := map[string]bool{"development": true, "production": true, "test": true}
	if !validEnvs[c.Server.Env] {
		errs = append(errs, fmt.Sprintf("server.env must be one of [development, production, test], got %q", c.Server.Env))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errs = append(errs, "server timeouts must not be negative")
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", c.Redis.DB))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Game.Rules().Validate(); err != nil {
		errs = append(errs, "game: "+err.Error())
	}
	if c.RateLimit.Start < 0 || c.RateLimit.Reveal < 0 || c.RateLimit.End < 0 {
		errs = append(errs, "ratelimit values must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from path, applies MINES_ environment overrides
// and validates the result. An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix("MINES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is honoured for platforms that inject it.
	_ = v.BindEnv("server.port", "MINES_SERVER_PORT", "PORT")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.static_dir", "dist")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	rules := mines.DefaultRules()
	v.SetDefault("game.grid_size", rules.GridSize)
	v.SetDefault("game.default_mines", rules.DefaultMines)
	v.SetDefault("game.default_bet", rules.DefaultBet)
	v.SetDefault("game.house_edge", rules.HouseEdge)
	v.SetDefault("game.starting_balance", rules.StartingBalance)
	v.SetDefault("game.grid_strategy", string(rules.Strategy))
	v.SetDefault("game.seed", 0)

	v.SetDefault("ratelimit.start", 30)
	v.SetDefault("ratelimit.reveal", 120)
	v.SetDefault("ratelimit.end", 60)
}
