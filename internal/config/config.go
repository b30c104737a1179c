// Package config holds the runtime settings shared by the CLI commands.
//
// Values come from flags, then environment variables (a .env file is loaded
// into the environment first by main), then the defaults below.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Logging configures the global zerolog logger.
type Logging struct {
	LogLevel  string `name:"log-level" env:"LOG_LEVEL" default:"info" enum:"trace,debug,info,warn,error" help:"Log level (${enum})."`
	LogFormat string `name:"log-format" env:"LOG_FORMAT" default:"console" enum:"console,json" help:"Log output format (${enum})."`
}

// Server configures the HTTP API.
type Server struct {
	Port           int           `env:"PORT" default:"5175" help:"Port to listen on."`
	ClientOrigin   string        `name:"client-origin" env:"CLIENT_ORIGIN" default:"http://localhost:5173" help:"Origin allowed by CORS."`
	Environment    string        `name:"env" env:"APP_ENV" default:"development" enum:"development,production" help:"Deployment environment (${enum})."`
	RequestTimeout time.Duration `name:"request-timeout" env:"REQUEST_TIMEOUT" default:"10s" help:"Per-request handler timeout."`

	JWTSecret      string `name:"jwt-secret" env:"JWT_SECRET" default:"dev_secret_change_me" help:"HMAC secret for session tokens."`
	JWTExpiresDays int    `name:"jwt-expires-days" env:"JWT_EXPIRES_DAYS" default:"14" help:"Session token lifetime in days."`
	CookieName     string `name:"cookie-name" env:"COOKIE_NAME" default:"codebreaker_token" help:"Auth cookie name."`

	DailySalt string `name:"daily-salt" env:"DAILY_SALT" default:"local_dev_salt" help:"Salt for the daily code."`
	DailyPool string `name:"daily-pool" env:"DAILY_POOL" default:"classic" help:"Pool preset used by the daily challenge."`
}

// Pools selects the preset file.
type Pools struct {
	PoolsFile string `name:"pools-file" env:"POOLS_FILE" help:"Pool preset file (defaults to the embedded list)."`
}

// Validate is called by kong after parsing.
func (s *Server) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	if s.JWTExpiresDays <= 0 {
		return errors.New("jwt-expires-days must be positive")
	}
	if s.Production() && s.JWTSecret == "dev_secret_change_me" {
		return errors.New("jwt-secret must be set in production")
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// Production reports whether secure cookies should be used.
func (s *Server) Production() bool { return s.Environment == "production" }

// TokenTTL returns the session token lifetime.
func (s *Server) TokenTTL() time.Duration {
	return time.Duration(s.JWTExpiresDays) * 24 * time.Hour
}
