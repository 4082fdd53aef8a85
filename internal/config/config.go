package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type EmailTransport string

const (
	EmailTransportSES      EmailTransport = "ses"
	EmailTransportSMTP     EmailTransport = "smtp"
	EmailTransportSendGrid EmailTransport = "sendgrid"
)

const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

type Config struct {
	Port       uint16 `env:"PORT" envDefault:"9090"`
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Secret peppers password hashes, PasswordResetTokenSecret signs reset tokens.
	Secret                   string `env:"SECRET,required"`
	PasswordResetTokenSecret string `env:"PASSWORD_RESET_TOKEN_SECRET,required"`
	PostgresqlURL            string `env:"POSTGRESQL_URL,required"`
	MigrationsPath           string `env:"MIGRATIONS_PATH"`

	BcryptHasherCost           int           `env:"BCRYPT_HASHER_COST" envDefault:"12"`
	PasswordResetValidDuration time.Duration `env:"PASSWORD_RESET_VALID_DURATION" envDefault:"24h"`

	ClientURL             url.URL `env:"CLIENT_URL,required"`
	PasswordResetPath     string  `env:"PASSWORD_RESET_PATH" envDefault:"/password-reset"`
	PasswordResetTemplate string  `env:"PASSWORD_RESET_TEMPLATE" envDefault:"pw-reset"`
	EmailTemplatesPath    string  `env:"EMAIL_TEMPLATES_PATH"`

	EmailTransport  EmailTransport `env:"EMAIL_TRANSPORT" envDefault:"ses"`
	EmailSender     string         `env:"EMAIL_SENDER,required"`
	EmailSenderName string         `env:"EMAIL_SENDER_NAME" envDefault:"pwreset"`

	AwsRegion    string `env:"AWS_REGION"`
	AwsAccessKey string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey string `env:"AWS_SECRET_KEY"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config, opts); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// PasswordResetURL is the client page that receives the reset token.
func (c *Config) PasswordResetURL() url.URL {
	return *c.ClientURL.JoinPath(c.PasswordResetPath)
}

func (c *Config) validate() error {
	if c.ClientURL.Scheme == "" || c.ClientURL.Host == "" {
		return fmt.Errorf("invalid CLIENT_URL value: %q must be absolute", c.ClientURL.String())
	}
	if c.PasswordResetTokenSecret == c.Secret {
		return errors.New("PASSWORD_RESET_TOKEN_SECRET must differ from SECRET")
	}
	if c.BcryptHasherCost < minBcryptCost || c.BcryptHasherCost > maxBcryptCost {
		return fmt.Errorf("invalid BCRYPT_HASHER_COST value: %d", c.BcryptHasherCost)
	}
	if c.PasswordResetValidDuration <= 0 {
		return errors.New("PASSWORD_RESET_VALID_DURATION must be positive")
	}

	switch c.EmailTransport {
	case EmailTransportSES:
		if c.AwsRegion == "" || c.AwsAccessKey == "" || c.AwsSecretKey == "" {
			return errors.New("AWS_REGION, AWS_ACCESS_KEY and AWS_SECRET_KEY must be set for ses transport")
		}
	case EmailTransportSMTP:
		if c.SMTPHost == "" {
			return errors.New("SMTP_HOST must be set for smtp transport")
		}
	case EmailTransportSendGrid:
		if c.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY must be set for sendgrid transport")
		}
	default:
		return fmt.Errorf("invalid EMAIL_TRANSPORT value: %q", c.EmailTransport)
	}
	return nil
}
