package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env            string   `envconfig:"ENV" default:"development"`
		Port           string   `envconfig:"PORT" default:"8080"`
		LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
		AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	} `envconfig:"SERVER"`

	DB struct {
		URL          string `envconfig:"URL" required:"true"`
		MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
	} `envconfig:"DATABASE"`

	JWT struct {
		Secret    string `envconfig:"SECRET"`
		ExpireMin int    `envconfig:"EXPIRE_MIN" default:"60"`
	} `envconfig:"JWT"`

	Stripe struct {
		SecretKey     string `envconfig:"SECRET_KEY"`
		WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
		Currency      string `envconfig:"CURRENCY" default:"inr"`
		SuccessURL    string `envconfig:"SUCCESS_URL" default:"http://localhost:3000/bookings/confirmation?session_id={CHECKOUT_SESSION_ID}"`
		CancelURL     string `envconfig:"CANCEL_URL" default:"http://localhost:3000/bookings/failed?session_id={CHECKOUT_SESSION_ID}"`
	} `envconfig:"STRIPE"`

	SendGrid struct {
		APIKey    string `envconfig:"API_KEY"`
		FromEmail string `envconfig:"FROM_EMAIL"`
		FromName  string `envconfig:"FROM_NAME" default:"Smart Parking"`
	} `envconfig:"SENDGRID"`

	Twilio struct {
		AccountSID string `envconfig:"ACCOUNT_SID"`
		AuthToken  string `envconfig:"AUTH_TOKEN"`
		FromNumber string `envconfig:"FROM_NUMBER"`
	} `envconfig:"TWILIO"`

	Booking struct {
		Timezone           string  `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
		MinDurationMinutes int     `envconfig:"MIN_DURATION_MINUTES" default:"60"`
		PendingTTLMinutes  int     `envconfig:"PENDING_TTL_MINUTES" default:"30"`
		CheckoutTTLMinutes int     `envconfig:"CHECKOUT_TTL_MINUTES" default:"30"`
		CronSpec           string  `envconfig:"CRON_SPEC" default:"@every 1m"`
		TwoWheelerDiscount float64 `envconfig:"TWO_WHEELER_DISCOUNT" default:"0.5"`
	} `envconfig:"BOOKING"`
}

// Load reads .env (if present) into the environment and decodes the configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &cfg, nil
}

// Location returns the booking timezone, falling back to IST when the tz database
// does not know the configured name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Booking.Timezone).Msg("Unknown timezone, using IST")
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

func (c *Config) MinDuration() time.Duration {
	return time.Duration(c.Booking.MinDurationMinutes) * time.Minute
}

func (c *Config) PendingTTL() time.Duration {
	return time.Duration(c.Booking.PendingTTLMinutes) * time.Minute
}

// minCheckoutTTL is the shortest expiry Stripe accepts for a checkout session.
const minCheckoutTTL = 30 * time.Minute

// CheckoutTTL is how long a Stripe checkout session stays payable.
func (c *Config) CheckoutTTL() time.Duration {
	ttl := time.Duration(c.Booking.CheckoutTTLMinutes) * time.Minute
	if ttl < minCheckoutTTL {
		return minCheckoutTTL
	}
	return ttl
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
