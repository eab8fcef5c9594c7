package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port                 string   `validate:"required,numeric"`
	DatabaseURL          string   `validate:"required"`
	JWTSecret            string   `validate:"required,min=16"`
	AllowedOrigins       []string `validate:"dive,url"`
	QuoteExpirySchedule  string   `validate:"required"`
	DefaultTaxRate       decimal.Decimal
	TwilioAccountSID     string
	TwilioAuthToken      string `validate:"required_with=TwilioAccountSID"`
	TwilioPhoneNumber    string `validate:"omitempty,e164"`
	TwilioWhatsAppNumber string `validate:"omitempty,e164"`
	LogLevel             slog.Level
}

// TwilioEnabled reports whether outbound messages can be sent.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		(c.TwilioPhoneNumber != "" || c.TwilioWhatsAppNumber != "")
}

// Load reads the environment, after applying a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseURL:          os.Getenv("DB_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AllowedOrigins:       splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		QuoteExpirySchedule:  getenv("QUOTE_EXPIRY_SCHEDULE", "0 1 * * *"),
		DefaultTaxRate:       decimal.NewFromInt(18),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}

	if v := os.Getenv("DEFAULT_TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("DEFAULT_TAX_RATE: %q is not a valid rate", v)
		}
		cfg.DefaultTaxRate = rate
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
