package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string // Key set of the identity provider issuing API tokens
	JWTIssuer   string
	JWTAudience string
	CORSOrigins string
	// External endpoints - overridable for local stubs
	NotionBaseURL    string
	AHBaseURL        string
	JumboBaseURL     string
	YahooBaseURL     string
	OpenFIGIBaseURL  string
	JustETFBaseURL   string
	OpenMeteoBaseURL string
	// SeedOwnerID is the owner UUID used by cmd/seed for demo data
	SeedOwnerID string
	// LogDir enables file logging when set; files rotate by count
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", ""),
		JWTAudience: getEnv("JWT_AUDIENCE", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		// External endpoints
		NotionBaseURL:    getEnv("NOTION_BASE_URL", "https://api.notion.com"),
		AHBaseURL:        getEnv("AH_BASE_URL", "https://api.ah.nl"),
		JumboBaseURL:     getEnv("JUMBO_BASE_URL", "https://mobileapi.jumbo.com"),
		YahooBaseURL:     getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		OpenFIGIBaseURL:  getEnv("OPENFIGI_BASE_URL", "https://api.openfigi.com"),
		JustETFBaseURL:   getEnv("JUSTETF_BASE_URL", "https://www.justetf.com"),
		OpenMeteoBaseURL: getEnv("OPENMETEO_BASE_URL", "https://api.open-meteo.com"),
		// Seed identity
		SeedOwnerID: getEnv("SEED_OWNER_ID", "00000000-0000-4000-8000-000000000001"),
		// File logging - disabled unless LOG_DIR is set
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
