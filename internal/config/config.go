package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"

	"log/slog"
)

var VERSION = "1.0.0"
var Enviroment = GetEnv("MCP_ENV", "PROD")
var LogLevel = slog.Level(GetEnv("MCP_LOG_LEVEL", 0))
var ListenAddress = GetEnv("MCP_LISTEN_ADDRESS", ":3000")

var APIURL = GetEnv("MCP_API_URL", "https://buildclub.io/api")
var APITimeoutSeconds = GetEnv("MCP_API_TIMEOUT", 10)

// Demo login accepted by the consent screen. Swap the credential validator
// wired in cmd/server for a real identity check in production.
var DemoEmail = GetEnv("MCP_DEMO_EMAIL", "user@example.com")
var DemoPassword = GetEnv("MCP_DEMO_PASSWORD", "password")

// AssumeLoggedIn controls which consent variant /authorize renders. There is
// no session system; the logged-in variant embeds the demo credentials as
// hidden fields.
var AssumeLoggedIn = GetEnv("MCP_ASSUME_LOGGED_IN", true)

var RedirectDelayMs = GetEnv("MCP_REDIRECT_DELAY_MS", 2000)
var ProviderTimeoutSeconds = GetEnv("MCP_PROVIDER_TIMEOUT", 5)

type EnvType interface {
	string | int | bool
}

func GetEnv[T EnvType](envName string, defaultValue T) T {
	value := os.Getenv(envName)
	if value == "" {
		return defaultValue
	}

	var ret any = defaultValue
	switch any(defaultValue).(type) {
	case string:
		ret = value
	case bool:
		i, err := strconv.ParseBool(value)
		if err == nil {
			ret = i
		}
	case int:
		i, err := strconv.Atoi(value)
		if err == nil {
			ret = i
		}
	}

	return ret.(T)
}
