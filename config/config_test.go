package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	env := map[string]string{
		"PORT":                   "",
		"DB_URL":                 "postgres://designhub@localhost/designhub",
		"JWT_SECRET":             "0123456789abcdef0123",
		"ALLOWED_ORIGINS":        "",
		"QUOTE_EXPIRY_SCHEDULE":  "",
		"DEFAULT_TAX_RATE":       "",
		"TWILIO_ACCOUNT_SID":     "",
		"TWILIO_AUTH_TOKEN":      "",
		"TWILIO_PHONE_NUMBER":    "",
		"TWILIO_WHATSAPP_NUMBER": "",
		"LOG_LEVEL":              "",
	}
	for k, v := range overrides {
		env[k] = v
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "0 1 * * *", cfg.QuoteExpirySchedule)
	assert.Equal(t, "18", cfg.DefaultTaxRate.String())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.TwilioEnabled())
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"PORT":                   "9000",
		"ALLOWED_ORIGINS":        "https://app.designhub.in, https://admin.designhub.in",
		"DEFAULT_TAX_RATE":       "12.5",
		"LOG_LEVEL":              "debug",
		"TWILIO_ACCOUNT_SID":     "AC123",
		"TWILIO_AUTH_TOKEN":      "token",
		"TWILIO_WHATSAPP_NUMBER": "+14155238886",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://app.designhub.in", "https://admin.designhub.in"}, cfg.AllowedOrigins)
	assert.Equal(t, "12.5", cfg.DefaultTaxRate.String())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.TwilioEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{"DB_URL": ""}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"negative tax", map[string]string{"DEFAULT_TAX_RATE": "-1"}},
		{"bad tax", map[string]string{"DEFAULT_TAX_RATE": "gst"}},
		{"bad origin", map[string]string{"ALLOWED_ORIGINS": "not a url"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
		{"sid without token", map[string]string{"TWILIO_ACCOUNT_SID": "AC123"}},
		{"local sender number", map[string]string{"TWILIO_PHONE_NUMBER": "9876543210"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
