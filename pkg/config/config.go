package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	OAuth      OAuthConfig `ignored:"true"`
	JWT        JWTConfig
	Storage    StorageConfig
	OpenAI     OpenAIConfig
	AssemblyAI AssemblyAIConfig
	Webhooks   WebhookConfig
	Stripe     StripeConfig
	Paystack   PaystackConfig
	RateLimit  RateLimitConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	AppURL          string   `envconfig:"APP_URL" default:"http://localhost:3000"` // dashboard origin for redirects
	APIURL          string   `envconfig:"API_URL" default:"http://localhost:8080"` // public origin of this service
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_actions"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	SlowQuery       time.Duration `envconfig:"DB_SLOW_QUERY" default:"500ms"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// OAuthConfig holds OAuth client credentials for login and integrations
type OAuthConfig struct {
	Google OAuthClientConfig
	Zoom   OAuthClientConfig
	Slack  OAuthClientConfig
	Linear OAuthClientConfig
	Teams  OAuthClientConfig
}

// OAuthClientConfig holds one provider's client credentials.
// Keys resolve as <PROVIDER>_CLIENT_ID, <PROVIDER>_CLIENT_SECRET, <PROVIDER>_REDIRECT_URL.
type OAuthClientConfig struct {
	ClientID     string `split_words:"true"`
	ClientSecret string `split_words:"true"`
	RedirectURL  string `split_words:"true"`
}

// Configured reports whether client credentials are present
func (o OAuthClientConfig) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"your-refresh-secret-change-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-actions"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// OpenAIConfig configures the chat completion client. BaseURL may point at any
// OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL"`
	Model   string `envconfig:"OPENAI_MODEL" default:"gpt-4-turbo-preview"`
}

// AssemblyAIConfig holds speech-to-text configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// WebhookConfig holds inbound meeting webhook secrets
type WebhookConfig struct {
	ZoomSecretToken  string `envconfig:"ZOOM_WEBHOOK_SECRET_TOKEN"`
	TeamsClientState string `envconfig:"TEAMS_CLIENT_STATE"`
}

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	WebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	PriceIDPro    string `envconfig:"STRIPE_PRICE_ID_PRO"`
	PriceIDTeam   string `envconfig:"STRIPE_PRICE_ID_TEAM"`
}

// PaystackConfig holds Paystack configuration
type PaystackConfig struct {
	SecretKey string `envconfig:"PAYSTACK_SECRET_KEY"`
	BaseURL   string `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	Backend     string        `envconfig:"RATE_LIMIT_BACKEND" default:"memory"`
	MaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"60"`
	Window      time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// PipelineConfig holds transcript processing worker configuration
type PipelineConfig struct {
	Workers     int           `envconfig:"PIPELINE_WORKERS" default:"4"`
	QueueSize   int           `envconfig:"PIPELINE_QUEUE_SIZE" default:"100"`
	JobTimeout  time.Duration `envconfig:"PIPELINE_JOB_TIMEOUT" default:"5m"`
	StaleAfter  time.Duration `envconfig:"PIPELINE_STALE_AFTER" default:"15m"`
	MaxAttempts int           `envconfig:"PIPELINE_MAX_ATTEMPTS" default:"3"`
	SweepEvery  time.Duration `envconfig:"PIPELINE_SWEEP_INTERVAL" default:"1m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	for prefix, client := range cfg.oauthClients() {
		if err := envconfig.Process(prefix, client); err != nil {
			return nil, fmt.Errorf("failed to read %s oauth settings: %w", prefix, err)
		}
	}
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) oauthClients() map[string]*OAuthClientConfig {
	return map[string]*OAuthClientConfig{
		"google": &c.OAuth.Google,
		"zoom":   &c.OAuth.Zoom,
		"slack":  &c.OAuth.Slack,
		"linear": &c.OAuth.Linear,
		"teams":  &c.OAuth.Teams,
	}
}

// applyDerivedDefaults fills values that depend on other settings
func (c *Config) applyDerivedDefaults() {
	api := strings.TrimRight(c.Server.APIURL, "/")
	for name, client := range c.oauthClients() {
		if client.RedirectURL != "" {
			continue
		}
		if name == "google" {
			client.RedirectURL = api + "/v1/auth/google/callback"
			continue
		}
		client.RedirectURL = api + "/v1/integrations/" + name + "/callback"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.IsProduction() {
		if strings.Contains(c.JWT.AccessSecret, "change-in-production") ||
			strings.Contains(c.JWT.RefreshSecret, "change-in-production") {
			return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set in production")
		}
		if c.Webhooks.ZoomSecretToken == "" || c.Webhooks.TeamsClientState == "" {
			return fmt.Errorf("ZOOM_WEBHOOK_SECRET_TOKEN and TEAMS_CLIENT_STATE must be set in production")
		}
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("RATE_LIMIT_BACKEND must be memory or redis, got %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("RATE_LIMIT_BACKEND=redis requires REDIS_ENABLED=true")
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("PIPELINE_WORKERS must be at least 1")
	}
	if c.Pipeline.QueueSize < 1 {
		return fmt.Errorf("PIPELINE_QUEUE_SIZE must be at least 1")
	}
	// a job still running when it goes stale could be claimed twice
	if c.Pipeline.JobTimeout <= 0 || c.Pipeline.JobTimeout >= c.Pipeline.StaleAfter {
		return fmt.Errorf("PIPELINE_JOB_TIMEOUT must be positive and below PIPELINE_STALE_AFTER")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
