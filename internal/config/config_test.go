package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "https://api.example.com")
		t.Setenv("SESSION_FILE", "/tmp/arenax-session")
		t.Setenv("CHECKOUT_SCRIPT_URL", "https://checkout.example.com/v1/checkout.js")
		t.Setenv("APP_ENV", "test")

		cfg := Load()

		assert.NotNil(t, cfg)
		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, "/tmp/arenax-session", cfg.SessionFile)
		assert.Equal(t, "https://checkout.example.com/v1/checkout.js", cfg.CheckoutScriptURL)
		assert.Equal(t, "test", cfg.AppEnv)
	})

	t.Run("Missing base URL is not fatal", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")

		cfg := Load()

		assert.NotNil(t, cfg)
		assert.Equal(t, "", cfg.BaseURL)
	})
}
