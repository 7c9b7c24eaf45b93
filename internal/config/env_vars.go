package config

import (
	"fmt"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	developmentEnv = "DEV"
)

type EnvVars struct {
	port    string
	appName string
	env     string
}

var _ EnvConfig = EnvVars{}

func newEnvVars(lookup LookupFunc) EnvVars {
	port := GetEnv(lookup, portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return EnvVars{
		port:    port,
		appName: GetEnv(lookup, appNameVar, "School Admin"),
		env:     strings.ToUpper(GetEnv(lookup, envVar, developmentEnv)),
	}
}

func (e EnvVars) GetPort() string {
	return e.port
}

func (e EnvVars) GetAppName() string {
	return e.appName
}

func (e EnvVars) GetEnv() string {
	return e.env
}

// IsDevelopment reports whether the service runs in local development mode.
func (e EnvVars) IsDevelopment() bool {
	return e.env == developmentEnv
}

func GetEnv(lookup LookupFunc, key, defaultValue string) string {
	value, ok := lookup(key)
	if !ok || value == "" {
		return defaultValue
	}
	return value
}
