package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

// Config is the application configuration, read from the environment
// with an optional .env file.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	APIKey      string `env:"API_KEY"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Daily send time for the due-reminder sweep.
	Timezone       string `env:"TIMEZONE" envDefault:"Europe/Paris"`
	ReminderHour   int    `env:"REMINDER_HOUR" envDefault:"9"`
	ReminderMinute int    `env:"REMINDER_MINUTE" envDefault:"0"`

	// Outbound email channel.
	MailerDriver string        `env:"MAILER_DRIVER" envDefault:"brevo"`
	SendTimeout  time.Duration `env:"SEND_TIMEOUT" envDefault:"30s"`
	BrevoAPIKey  string        `env:"BREVO_API_KEY"`
	SenderEmail  string        `env:"SENDER_EMAIL" envDefault:"noreply@example.com"`
	SenderName   string        `env:"SENDER_NAME" envDefault:"Billing Service"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPLogin    string `env:"SMTP_LOGIN"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
}

// New loads the configuration, reading envPath first when it exists.
func New(envPath string) (Config, error) {
	var c Config

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
