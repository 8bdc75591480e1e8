// internal/config/config.go
//
// Process configuration read from the environment (after godotenv has loaded
// any .env file). Every value has a development default.
//
// Environment variables:
//   PORT             HTTP port (5175)
//   LOG_LEVEL        zerolog level (info)
//   DB_DRIVER        sqlite3 | postgres | memory (sqlite3)
//   DB_DSN           sqlite path or postgres URL (./data/pairs.db)
//   SESSION_SECRET   HS256 key for the session cookie
//   SESSION_DAYS     session cookie lifetime (30)
//   COOKIE_NAME      session cookie name (pairs_session)
//   HASH_KEY         key for the board digest (SESSION_SECRET)
//   CLIENT_ORIGIN    CORS origin (http://localhost:5173)
//   NODE_ENV         "production" turns on Secure cookies
//   MAX_SCORE        time limit in seconds (180)
//   DISTINCT_KINDS   tile faces per board (18)
//   COPIES_PER_KIND  tiles per face (2)

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pairs/internal/game"
)

const devSecret = "dev_secret_change_me"

// Config holds everything main needs to wire the server.
type Config struct {
	Port          string
	LogLevel      string
	DBDriver      string
	DBDSN         string
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	HashKey       string
	ClientOrigin  string
	Production    bool
	Rules         game.Rules
}

// Load reads the environment. Malformed numbers and invalid rules are errors.
func Load() (*Config, error) {
	c := &Config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite3"),
		DBDSN:         getEnv("DB_DSN", "./data/pairs.db"),
		SessionSecret: getEnv("SESSION_SECRET", devSecret),
		CookieName:    getEnv("COOKIE_NAME", "pairs_session"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:    os.Getenv("NODE_ENV") == "production",
	}
	c.HashKey = getEnv("HASH_KEY", c.SessionSecret)

	days, err := envInt("SESSION_DAYS", 30)
	if err != nil {
		return nil, err
	}
	c.SessionTTL = time.Duration(days) * 24 * time.Hour

	rules := game.DefaultRules()
	maxScore, err := envInt("MAX_SCORE", int(rules.TimeLimit/time.Second))
	if err != nil {
		return nil, err
	}
	rules.TimeLimit = time.Duration(maxScore) * time.Second
	if rules.DistinctKinds, err = envInt("DISTINCT_KINDS", rules.DistinctKinds); err != nil {
		return nil, err
	}
	if rules.CopiesPerKind, err = envInt("COPIES_PER_KIND", rules.CopiesPerKind); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	c.Rules = rules

	if c.Production && c.SessionSecret == devSecret {
		return nil, fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", k, n)
	}
	log.Debug().Str("key", k).Int("value", n).Msg("config override")
	return n, nil
}
