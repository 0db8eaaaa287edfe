package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/seekstruth-backend/internal/platform/envutil"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
)

const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
	StoreRedis  = "redis"
)

type DBConfig struct {
	Driver           string `yaml:"driver"`
	SQLitePath       string `yaml:"sqlitePath"`
	PostgresHost     string `yaml:"postgresHost"`
	PostgresPort     string `yaml:"postgresPort"`
	PostgresUser     string `yaml:"postgresUser"`
	PostgresPassword string `yaml:"postgresPassword"`
	PostgresName     string `yaml:"postgresName"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

type CheckoutConfig struct {
	Provider           string `yaml:"provider"`
	PayPalClientID     string `yaml:"paypalClientId"`
	PayPalClientSecret string `yaml:"paypalClientSecret"`
	PayPalBaseURL      string `yaml:"paypalBaseUrl"`
	StripeSecretKey    string `yaml:"stripeSecretKey"`
	StripeBaseURL      string `yaml:"stripeBaseUrl"`
	MaxRetries         int    `yaml:"maxRetries"`
}

type OtelSettings struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"serviceName"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	StoreBackend string      `yaml:"storeBackend"`
	DB           DBConfig    `yaml:"db"`
	Redis        RedisConfig `yaml:"redis"`

	CatalogDir   string `yaml:"catalogDir"`
	CatalogWatch bool   `yaml:"catalogWatch"`

	JWTSecretKey string        `yaml:"jwtSecretKey"`
	AuthRequired bool          `yaml:"authRequired"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
	CORSOrigins  []string      `yaml:"corsOrigins"`

	BackPolicy     string        `yaml:"backPolicy"`
	SessionIdleTTL time.Duration `yaml:"sessionIdleTtl"`

	Checkout           CheckoutConfig `yaml:"checkout"`
	BundlePriceCents   int            `yaml:"bundlePriceCents"`
	ItemListPriceCents int            `yaml:"itemListPriceCents"`
	Currency           string         `yaml:"currency"`
	PublicBaseURL      string         `yaml:"publicBaseUrl"`

	QuoteCardFont   string `yaml:"quoteCardFont"`
	QuoteCardFooter string `yaml:"quoteCardFooter"`

	Otel OtelSettings `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:               "8080",
		Environment:        "development",
		StoreBackend:       StoreSQL,
		DB:                 DBConfig{Driver: "sqlite", SQLitePath: "seekstruth.db", PostgresPort: "5432"},
		Redis:              RedisConfig{KeyPrefix: "seekstruth:"},
		TokenTTL:           24 * time.Hour,
		BackPolicy:         "keep",
		SessionIdleTTL:     2 * time.Hour,
		Checkout:           CheckoutConfig{Provider: "manual", MaxRetries: 2},
		BundlePriceCents:   8500,
		ItemListPriceCents: 2500,
		Currency:           "USD",
		PublicBaseURL:      "http://localhost:5173",
		QuoteCardFooter:    "seekstruth",
		Otel:               OtelSettings{ServiceName: "seekstruth", SampleRatio: 0.1},
	}
}

// LoadConfig starts from defaults, applies CONFIG_FILE (YAML) when set, then
// lets environment variables override individual values.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Port = envutil.String("PORT", c.Port)
	c.Environment = envutil.String("APP_ENV", c.Environment)
	c.Version = envutil.String("APP_VERSION", c.Version)

	c.StoreBackend = strings.ToLower(envutil.String("STORE_BACKEND", c.StoreBackend))
	c.DB.Driver = strings.ToLower(envutil.String("DB_DRIVER", c.DB.Driver))
	c.DB.SQLitePath = envutil.String("SQLITE_PATH", c.DB.SQLitePath)
	c.DB.PostgresHost = envutil.String("POSTGRES_HOST", c.DB.PostgresHost)
	c.DB.PostgresPort = envutil.String("POSTGRES_PORT", c.DB.PostgresPort)
	c.DB.PostgresUser = envutil.String("POSTGRES_USER", c.DB.PostgresUser)
	c.DB.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.DB.PostgresPassword)
	c.DB.PostgresName = envutil.String("POSTGRES_NAME", c.DB.PostgresName)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)
	c.Redis.KeyPrefix = envutil.String("REDIS_KEY_PREFIX", c.Redis.KeyPrefix)

	c.CatalogDir = envutil.String("CATALOG_DIR", c.CatalogDir)
	c.CatalogWatch = envutil.Bool("CATALOG_WATCH", c.CatalogWatch)

	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.AuthRequired = envutil.Bool("AUTH_REQUIRED", c.AuthRequired)
	c.TokenTTL = envutil.Duration("TOKEN_TTL", c.TokenTTL)
	c.CORSOrigins = envutil.List("CORS_ORIGINS", c.CORSOrigins)

	c.BackPolicy = strings.ToLower(envutil.String("BACK_POLICY", c.BackPolicy))
	c.SessionIdleTTL = envutil.Duration("SESSION_IDLE_TTL", c.SessionIdleTTL)

	c.Checkout.Provider = strings.ToLower(envutil.String("CHECKOUT_PROVIDER", c.Checkout.Provider))
	c.Checkout.PayPalClientID = envutil.String("PAYPAL_CLIENT_ID", c.Checkout.PayPalClientID)
	c.Checkout.PayPalClientSecret = envutil.String("PAYPAL_CLIENT_SECRET", c.Checkout.PayPalClientSecret)
	c.Checkout.PayPalBaseURL = envutil.String("PAYPAL_BASE_URL", c.Checkout.PayPalBaseURL)
	c.Checkout.StripeSecretKey = envutil.String("STRIPE_SECRET_KEY", c.Checkout.StripeSecretKey)
	c.Checkout.StripeBaseURL = envutil.String("STRIPE_BASE_URL", c.Checkout.StripeBaseURL)
	c.Checkout.MaxRetries = envutil.Int("CHECKOUT_MAX_RETRIES", c.Checkout.MaxRetries)
	c.BundlePriceCents = envutil.Int("BUNDLE_PRICE_CENTS", c.BundlePriceCents)
	c.ItemListPriceCents = envutil.Int("ITEM_LIST_PRICE_CENTS", c.ItemListPriceCents)
	c.Currency = strings.ToUpper(envutil.String("CURRENCY", c.Currency))
	c.PublicBaseURL = envutil.String("PUBLIC_BASE_URL", c.PublicBaseURL)

	c.QuoteCardFont = envutil.String("QUOTECARD_FONT", c.QuoteCardFont)
	c.QuoteCardFooter = envutil.String("QUOTECARD_FOOTER", c.QuoteCardFooter)

	c.Otel.Enabled = envutil.Bool("OTEL_ENABLED", c.Otel.Enabled)
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName)
	c.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.Otel.Headers)
	c.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.Otel.Insecure)
	c.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", c.Otel.SampleRatio)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs error
	switch c.StoreBackend {
	case StoreMemory, StoreSQL, StoreRedis:
	default:
		errs = multierr.Append(errs, fmt.Errorf("STORE_BACKEND: unsupported %q", c.StoreBackend))
	}
	if c.StoreBackend == StoreRedis && strings.TrimSpace(c.Redis.Addr) == "" {
		errs = multierr.Append(errs, errors.New("REDIS_ADDR: required for the redis store"))
	}
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		errs = multierr.Append(errs, fmt.Errorf("DB_DRIVER: unsupported %q", c.DB.Driver))
	}
	if _, err := quiz.ParseBackPolicy(c.BackPolicy); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("BACK_POLICY: %w", err))
	}
	if c.AuthRequired && strings.TrimSpace(c.JWTSecretKey) == "" {
		errs = multierr.Append(errs, errors.New("JWT_SECRET_KEY: required when AUTH_REQUIRED is on"))
	}
	switch c.Checkout.Provider {
	case "manual", "":
	case "paypal":
		if c.Checkout.PayPalClientID == "" || c.Checkout.PayPalClientSecret == "" {
			errs = multierr.Append(errs, errors.New("PAYPAL_CLIENT_ID/PAYPAL_CLIENT_SECRET: required for paypal checkout"))
		}
	case "stripe":
		if c.Checkout.StripeSecretKey == "" {
			errs = multierr.Append(errs, errors.New("STRIPE_SECRET_KEY: required for stripe checkout"))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("CHECKOUT_PROVIDER: unsupported %q", c.Checkout.Provider))
	}
	if c.BundlePriceCents <= 0 {
		errs = multierr.Append(errs, errors.New("BUNDLE_PRICE_CENTS: must be positive"))
	}
	if c.ItemListPriceCents < 0 {
		errs = multierr.Append(errs, errors.New("ITEM_LIST_PRICE_CENTS: must not be negative"))
	}
	if c.CatalogWatch && strings.TrimSpace(c.CatalogDir) == "" {
		errs = multierr.Append(errs, errors.New("CATALOG_WATCH: needs CATALOG_DIR"))
	}
	return errs
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
