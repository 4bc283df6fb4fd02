package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL           string
	SessionFile       string
	CheckoutScriptURL string
	AppEnv            string
}

// Load reads .env (if present) and environment variables. A missing base URL
// is not fatal here: the gateway reports it as a configuration error on the
// first call instead.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BaseURL:           os.Getenv("API_BASE_URL"),
		SessionFile:       os.Getenv("SESSION_FILE"),
		CheckoutScriptURL: os.Getenv("CHECKOUT_SCRIPT_URL"),
		AppEnv:            os.Getenv("APP_ENV"),
	}
}
