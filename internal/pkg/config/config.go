package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	dotenv "github.com/mandi2mandi/marketguard/internal/pkg/env"
)

var (
	// ErrMissingSecret is returned when no gateway digest secret is configured.
	ErrMissingSecret = errors.New("PAYU_SALT is not configured")
	// ErrPlaceholderSecret is returned when the digest secret is a well-known placeholder.
	ErrPlaceholderSecret = errors.New("PAYU_SALT is set to a placeholder value")
)

// Values copied from gateway integration samples. A deployment running with
// one of these accepts forged callbacks.
var placeholderSecrets = map[string]struct{}{
	"your_salt":   {},
	"salt":        {},
	"changeme":    {},
	"change_me":   {},
	"test":        {},
	"placeholder": {},
}

type Config struct {
	App
	Database
	Cache
	Payment
	Account
	Kafka
	ContactGuard
}

type App struct {
	Host            string `env:"APP_HOST" envDefault:"localhost"`
	Port            string `env:"APP_PORT" envDefault:"4000"`
	Env             string `env:"APP_ENV" envDefault:"prod"`
	PublicDomain    string `env:"PUBLIC_DOMAIN" envDefault:""`
	MetricsUser     string `env:"METRICS_USER" envDefault:"admin"`
	MetricsPassword string `env:"METRICS_PASSWORD" envDefault:""`
}

type Database struct {
	User     string `env:"DB_USER" envDefault:""`
	Password string `env:"DB_PASSWORD" envDefault:""`
	Host     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	Name     string `env:"DB_NAME" envDefault:""`
}

type Cache struct {
	Host     string `env:"CACHE_HOST" envDefault:"localhost"`
	Port     string `env:"CACHE_PORT" envDefault:"6379"`
	Password string `env:"CACHE_PASSWORD" envDefault:""`
}

// Payment holds gateway credentials and the redirect destinations used by
// the callback handlers.
type Payment struct {
	Salt               string        `env:"PAYU_SALT"`
	MerchantKey        string        `env:"PAYU_KEY"`
	GatewayURL         string        `env:"PAYU_URL" envDefault:"https://secure.payu.in/_payment"`
	SuccessRedirect    string        `env:"PAYMENT_SUCCESS_REDIRECT" envDefault:"/payment/success"`
	FailureRedirect    string        `env:"PAYMENT_FAILURE_REDIRECT" envDefault:"/payment/failed"`
	SubscriptionPeriod time.Duration `env:"SUBSCRIPTION_PERIOD" envDefault:"720h"`
}

// Account configures the outbound activation call.
type Account struct {
	URL              string        `env:"ACCOUNT_SERVICE_URL" envDefault:"http://localhost:4000/api/v1/account/subscription"`
	Token            string        `env:"ACCOUNT_SERVICE_TOKEN" envDefault:""`
	Timeout          time.Duration `env:"ACCOUNT_SERVICE_TIMEOUT" envDefault:"10s"`
	RetryMaxAttempts int           `env:"ACCOUNT_RETRY_MAX_ATTEMPTS" envDefault:"1"`
	RetryBaseDelay   time.Duration `env:"ACCOUNT_RETRY_BASE_DELAY" envDefault:"200ms"`
	RetryMaxDelay    time.Duration `env:"ACCOUNT_RETRY_MAX_DELAY" envDefault:"5s"`
	RetryJitter      bool          `env:"ACCOUNT_RETRY_JITTER" envDefault:"false"`
}

type Kafka struct {
	Brokers          string        `env:"KAFKA_BROKERS" envDefault:""`
	ReconcileTopic   string        `env:"KAFKA_RECONCILE_TOPIC" envDefault:"payments.reconcile"`
	RetryMaxAttempts int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay   time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay    time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"10s"`
	RetryJitter      bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

type ContactGuard struct {
	VerdictCacheTTL time.Duration `env:"CONTACT_VERDICT_CACHE_TTL" envDefault:"10m"`
}

// New loads configuration from the process environment merged with .env.
func New() (*Config, error) {
	dotenv.SetupEnvFile()
	return Load(dotenv.Environ())
}

// Load parses configuration from an explicit environment map and validates
// the payment secret. A missing or placeholder secret is a startup failure in
// every environment.
func Load(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Payment.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that would make callback digests guessable.
func (p Payment) Validate() error {
	salt := strings.TrimSpace(p.Salt)
	if salt == "" {
		return ErrMissingSecret
	}
	if _, ok := placeholderSecrets[strings.ToLower(salt)]; ok {
		return ErrPlaceholderSecret
	}
	if strings.TrimSpace(p.MerchantKey) == "" {
		return errors.New("PAYU_KEY is not configured")
	}
	if p.SubscriptionPeriod <= 0 {
		return errors.New("SUBSCRIPTION_PERIOD must be positive")
	}
	return nil
}

func (a Account) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: a.RetryMaxAttempts,
		BaseDelay:   a.RetryBaseDelay,
		MaxDelay:    a.RetryMaxDelay,
		Jitter:      a.RetryJitter,
	}
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}

// BrokerList splits KAFKA_BROKERS; an empty value disables publishing.
func (k Kafka) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (a App) IsDev() bool {
	return a.Env == "dev"
}

func (a App) ListenAddr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}
