package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Firebase is the service account; it is marshalled as-is into the
// credentials JSON, hence the json tags.
type Firebase struct {
	Type                    string        `env:"FIREBASE_TYPE" envDefault:"service_account" json:"type"`
	ProjectId               string        `env:"FIREBASE_PROJECT_ID" json:"project_id"`
	PrivateKeyId            string        `env:"FIREBASE_PRIVATE_KEY_ID" json:"private_key_id"`
	PrivateKey              string        `env:"FIREBASE_PRIVATE_KEY" json:"private_key"`
	ClientEmail             string        `env:"FIREBASE_CLIENT_EMAIL" json:"client_email"`
	ClientId                string        `env:"FIREBASE_CLIENT_ID" json:"client_id"`
	AuthUri                 string        `env:"FIREBASE_AUTH_URI" envDefault:"https://accounts.google.com/o/oauth2/auth" json:"auth_uri"`
	TokenUri                string        `env:"FIREBASE_TOKEN_URI" envDefault:"https://oauth2.googleapis.com/token" json:"token_uri"`
	AuthProviderX509CertUrl string        `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL" envDefault:"https://www.googleapis.com/oauth2/v1/certs" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string        `env:"FIREBASE_CLIENT_X509_CERT_URL" json:"client_x509_cert_url"`
	WriteTimeoutSecond      time.Duration `env:"FIREBASE_WRITE_TIMEOUT_SECOND" json:"-"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"firestore"`
}

type Server struct {
	Address         string        `env:"SERVER_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

type Catalog struct {
	PageLimit int `env:"CATALOG_PAGE_LIMIT" envDefault:"50"`
	// RefreshInterval reloads the catalog periodically; 0 only loads at startup.
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"0s"`
}

type Ratings struct {
	// Concurrency caps the per-product review queries in flight; 0 is unbounded.
	Concurrency int `env:"RATINGS_CONCURRENCY" envDefault:"8"`
}

type Stripe struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY"`
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	ApiVersion     string `env:"STRIPE_API_VERSION" envDefault:"2023-10-16"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

type Config struct {
	Firebase
	Database
	Server
	Catalog
	Ratings
	Stripe
	Log
}

func LoadConfigOrPanic() Config {
	config, err := Load()
	if err != nil {
		panic(err)
	}
	return config
}

// Load reads a .env file when one exists, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config *Config = new(Config)
	if err := env.Parse(config); err != nil {
		return Config{}, err
	}

	if err := config.normalize(); err != nil {
		return Config{}, err
	}
	return *config, nil
}

func (c *Config) normalize() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	switch c.Database.Driver {
	case DriverFirestore:
		if c.Firebase.ProjectId == "" || c.Firebase.PrivateKey == "" {
			return fmt.Errorf("config: FIREBASE_PROJECT_ID and FIREBASE_PRIVATE_KEY are required with the %s driver", DriverFirestore)
		}
		decodedBytes, err := base64.StdEncoding.DecodeString(c.Firebase.PrivateKey)
		if err != nil {
			return fmt.Errorf("config: FIREBASE_PRIVATE_KEY is not base64: %w", err)
		}
		c.Firebase.PrivateKey = strings.ReplaceAll(string(decodedBytes), "\\n", "\n")
	case DriverMemory:
	default:
		return fmt.Errorf("config: unknown DATABASE_DRIVER %q", c.Database.Driver)
	}

	if c.WriteTimeoutSecond == 0 {
		c.WriteTimeoutSecond = time.Second * 30
	}
	if c.Catalog.PageLimit <= 0 {
		c.Catalog.PageLimit = 50
	}
	if c.Ratings.Concurrency < 0 {
		c.Ratings.Concurrency = 0
	}
	return nil
}

// PaymentsEnabled reports whether a Stripe secret key is configured.
func (c Config) PaymentsEnabled() bool {
	return c.Stripe.SecretKey != ""
}
