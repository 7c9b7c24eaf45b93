package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDevelopment() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// LookupFunc resolves a configuration key. os.LookupEnv is the production source.
type LookupFunc func(key string) (string, bool)

type mainConfig struct {
	EnvVars
	Cors
	Session
}

// New loads an optional .env file into the process environment and snapshots
// the configuration. The returned value is read-only for the process lifetime.
func New() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a configuration from an arbitrary key source.
func FromLookup(lookup LookupFunc) Config {
	env := newEnvVars(lookup)
	return mainConfig{
		EnvVars: env,
		Cors:    newCors(lookup),
		Session: newSession(lookup, !env.IsDevelopment()),
	}
}
