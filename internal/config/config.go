package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Booking      BookingConfig      `mapstructure:"booking"`
	Telemedicine TelemedicineConfig `mapstructure:"telemedicine"`
	SMTP         SMTPConfig         `mapstructure:"smtp"`
	Health       HealthConfig       `mapstructure:"health"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Outbox       OutboxConfig       `mapstructure:"outbox"`
	Retention    RetentionConfig    `mapstructure:"retention"`
	Security     SecurityConfig     `mapstructure:"security"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type BookingConfig struct {
	// CancellationLeadTime is the minimum notice for a cancellation;
	// waived for emergency priority.
	CancellationLeadTime time.Duration `mapstructure:"cancellation_lead_time"`
	// RequireInsurance turns the informational insurance check into a
	// blocking one.
	RequireInsurance bool          `mapstructure:"require_insurance"`
	MinReasonLength  int           `mapstructure:"min_reason_length"`
	DefaultListLimit int           `mapstructure:"default_list_limit"`
	MaxListLimit     int           `mapstructure:"max_list_limit"`
}

type TelemedicineConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type HealthConfig struct {
	AIProviderURL string        `mapstructure:"ai_provider_url"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type RetentionConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type SecurityConfig struct {
	PseudonymSecret string   `mapstructure:"pseudonym_secret"`
	PseudonymSalt   string   `mapstructure:"pseudonym_salt"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// envOverrides are the deployment-level secrets that must win over the
// config file.
type envOverrides struct {
	DBHost          string `envconfig:"DB_HOST"`
	DBPassword      string `envconfig:"DB_PASSWORD"`
	RedisURL        string `envconfig:"REDIS_URL"`
	JWTSecret       string `envconfig:"JWT_SECRET"`
	SMTPPassword    string `envconfig:"SMTP_PASSWORD"`
	PseudonymSecret string `envconfig:"PSEUDONYM_SECRET"`
}

// LoadConfig reads config.yml and applies environment overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if env.DBHost != "" {
		cfg.Database.Host = env.DBHost
	}
	if env.DBPassword != "" {
		cfg.Database.Password = env.DBPassword
	}
	if env.RedisURL != "" {
		cfg.Redis.URL = env.RedisURL
	}
	if env.JWTSecret != "" {
		cfg.JWT.Secret = env.JWTSecret
	}
	if env.SMTPPassword != "" {
		cfg.SMTP.Password = env.SMTPPassword
	}
	if env.PseudonymSecret != "" {
		cfg.Security.PseudonymSecret = env.PseudonymSecret
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("redis.lock_ttl", "5s")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 1)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", "100ms")
	viper.SetDefault("booking.cancellation_lead_time", "24h")
	viper.SetDefault("booking.min_reason_length", 10)
	viper.SetDefault("booking.default_list_limit", 50)
	viper.SetDefault("booking.max_list_limit", 100)
	viper.SetDefault("telemedicine.base_url", "https://telemedicine.doktor-na-dohled.cz")
	viper.SetDefault("health.probe_timeout", "5s")
	viper.SetDefault("health.ai_provider_url", "https://api.openai.com/v1/models")
	viper.SetDefault("rate_limit.requests_per_second", 50)
	viper.SetDefault("rate_limit.burst", 100)
	viper.SetDefault("outbox.batch_size", 100)
	viper.SetDefault("outbox.poll_interval", "5s")
	viper.SetDefault("outbox.retry_attempts", 3)
	viper.SetDefault("outbox.retry_delay", "5s")
	viper.SetDefault("retention.cleanup_interval", "24h")
}
