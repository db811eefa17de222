// Package config loads server settings from flags, falling back to
// CHESS_* environment variables and then to defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Addr                string
	AllowedOrigins      string
	ClockLimit          time.Duration
	MatchmakingInterval time.Duration
	LogLevel            log.Level
	ShutdownTimeout     time.Duration
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      "http://localhost:5173",
		ClockLimit:          10 * time.Minute,
		MatchmakingInterval: time.Second,
		LogLevel:            log.LevelInfo,
		ShutdownTimeout:     5 * time.Second,
	}
}

// Origins splits AllowedOrigins on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Load parses args (without the program name). A flag given on the command
// line wins over its environment variable.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	def := Default()

	addr := envString(getenv, "CHESS_ADDR", def.Addr)
	origins := envString(getenv, "CHESS_ALLOWED_ORIGINS", def.AllowedOrigins)
	levelName := envString(getenv, "CHESS_LOG_LEVEL", "info")
	clock, err := envDuration(getenv, "CHESS_CLOCK", def.ClockLimit)
	if err != nil {
		return cfg, err
	}
	interval, err := envDuration(getenv, "CHESS_MATCHMAKING_INTERVAL", def.MatchmakingInterval)
	if err != nil {
		return cfg, err
	}
	shutdown, err := envDuration(getenv, "CHESS_SHUTDOWN_TIMEOUT", def.ShutdownTimeout)
	if err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("chess-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", addr, "listen address")
	fs.StringVar(&cfg.AllowedOrigins, "origins", origins, "comma separated CORS and websocket origins")
	fs.DurationVar(&cfg.ClockLimit, "clock", clock, "time on each player's clock")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", interval, "how often queued players are paired")
	fs.StringVar(&levelName, "log-level", levelName, "trace, debug, info, warn or error")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", shutdown, "grace period for open connections on shutdown")
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.LogLevel, err = ParseLevel(levelName); err != nil {
		return cfg, err
	}
	if cfg.Addr == "" {
		return cfg, fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if cfg.ClockLimit <= 0 {
		return cfg, fmt.Errorf("%w: clock must be positive, got %s", ErrInvalidConfig, cfg.ClockLimit)
	}
	if cfg.MatchmakingInterval <= 0 {
		return cfg, fmt.Errorf("%w: matchmaking interval must be positive, got %s", ErrInvalidConfig, cfg.MatchmakingInterval)
	}
	if cfg.ShutdownTimeout < 0 {
		return cfg, fmt.Errorf("%w: negative shutdown timeout", ErrInvalidConfig)
	}
	return cfg, nil
}

func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, name)
}

func envString(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return d, nil
}
