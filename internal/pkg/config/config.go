package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Session  SessionConfig
	Storage  StorageConfig
	Checkout CheckoutConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGODB_DB,  default=localfinest"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// SessionConfig controls where session state is mirrored and how long live
// stores are kept in memory.
type SessionConfig struct {
	Backend       string        `env:"SESSION_BACKEND,        default=redis"`
	TTL           time.Duration `env:"SESSION_TTL,            default=720h"`
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT,   default=30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=1m"`
	WriteBehind   bool          `env:"SESSION_WRITE_BEHIND,   default=false"`
	Workers       int           `env:"SESSION_WORKERS,        default=4"`
	CookieName    string        `env:"SESSION_COOKIE,         default=lf_session"`
	CookieSecure  bool          `env:"SESSION_COOKIE_SECURE,  default=false"`
}

// StorageConfig points at the S3-compatible bucket product images are
// uploaded to. Uploads are disabled when Bucket is empty.
type StorageConfig struct {
	Bucket    string `env:"S3_BUCKET"`
	Region    string `env:"S3_REGION,  default=us-east-1"`
	AccessKey string `env:"S3_KEY"`
	SecretKey string `env:"S3_SECRET"`
	Endpoint  string `env:"S3_ENDPOINT"`
	PublicURL string `env:"S3_URL"`
	Folder    string `env:"S3_FOLDER,  default=247localfinest"`
}

type CheckoutConfig struct {
	TaxRate string `env:"TAX_RATE, default=0.08"`
}

const (
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// TaxRate parses Checkout.TaxRate.
func (c *Config) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Checkout.TaxRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: TAX_RATE: %w", err)
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: TAX_RATE must not be negative")
	}
	return rate, nil
}

// LoadDotEnv loads the given env files, ignoring the ones that do not exist.
// Variables already set in the environment win.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: SESSION_BACKEND must be one of redis, mongo, memory; got %q", c.Session.Backend)
	}
	if c.JWTSecret == "" && c.IsProduction() {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	if _, err := c.TaxRate(); err != nil {
		return err
	}
	return nil
}
