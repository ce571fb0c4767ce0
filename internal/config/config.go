package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Conversion API
	ConvertAPIKey       string
	ConvertAPIBaseURL   string
	ConvertWebhookToken string

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceBasic    string
	StripePricePro      string
	StripePricePremium  string

	// Resend (contact relay)
	ResendAPIKey     string
	ContactToEmail   string
	ContactFromEmail string

	// Webhook
	WebhookCallbackURL string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		ConvertAPIKey:       getEnv("CONVERT_API_KEY", ""),
		ConvertAPIBaseURL:   getEnv("CONVERT_API_BASE_URL", "https://convert.audiobookforge.com/v1/"),
		ConvertWebhookToken: getEnv("CONVERT_WEBHOOK_TOKEN", ""),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "manuscripts"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceBasic:    getEnv("STRIPE_PRICE_BASIC", ""),
		StripePricePro:      getEnv("STRIPE_PRICE_PRO", ""),
		StripePricePremium:  getEnv("STRIPE_PRICE_PREMIUM", ""),

		ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
		ContactToEmail:   getEnv("CONTACT_TO_EMAIL", "support@audiobookforge.com"),
		ContactFromEmail: getEnv("CONTACT_FROM_EMAIL", "contact@audiobookforge.com"),

		WebhookCallbackURL: getEnv("WEBHOOK_CALLBACK_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the keys the service cannot start without. The Stripe and
// Resend keys are deliberately not required here: the handlers that need them
// fail closed per request so the rest of the API stays usable.
func (c *Config) Validate() error {
	if c.ConvertAPIKey == "" {
		return fmt.Errorf("CONVERT_API_KEY is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}

// PlanForPrice maps a configured Stripe price ID back to a plan ID.
func (c *Config) PlanForPrice(priceID string) string {
	if priceID == "" {
		return ""
	}
	switch priceID {
	case c.StripePriceBasic:
		return "basic"
	case c.StripePricePro:
		return "pro"
	case c.StripePricePremium:
		return "premium"
	}
	return ""
}

// PriceForPlan is the inverse of PlanForPrice. Returns "" for the free tier
// and for unknown plans.
func (c *Config) PriceForPlan(planID string) string {
	switch planID {
	case "basic":
		return c.StripePriceBasic
	case "pro":
		return c.StripePricePro
	case "premium":
		return c.StripePricePremium
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
