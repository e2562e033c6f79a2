package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort         string
	GatewayBaseURL  string
	GatewayMode     string
	GatewayUser     string
	GatewayPassword string
	GatewayAPIKey   string
}

// Load reads environment variables and returns a populated Config.
// Gateway credentials may legitimately be empty at startup; their absence
// surfaces as a ConfigurationError when a payment is first initialized,
// never as a startup failure.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:         getEnv("PORT", "3000"),
		GatewayBaseURL:  strings.TrimRight(getEnv("GATEWAY_BASE_URL", "https://gateway.payunit.net"), "/"),
		GatewayMode:     getEnv("GATEWAY_MODE", "sandbox"),
		GatewayUser:     getEnv("GATEWAY_API_USER", ""),
		GatewayPassword: getEnv("GATEWAY_API_PASSWORD", ""),
		GatewayAPIKey:   getEnv("GATEWAY_API_KEY", ""),
	}
}

// HasGatewayCredentials reports whether all three gateway secrets are set.
func (c *Config) HasGatewayCredentials() bool {
	return c.GatewayUser != "" && c.GatewayPassword != "" && c.GatewayAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
