package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	JWTSecret  string
	Port       string
	Env        string

	Ledger LedgerConfig

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string

	AdminPassword string

	RazorpayKey         string
	RazorpaySecret      string
	TopupTokensPerRupee string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	SessionSecret      string

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// LedgerConfig holds the knobs of the wallet ledger.
type LedgerConfig struct {
	LargeTransactionThreshold int64
	ApprovalTTL               time.Duration
	ApprovalSweepInterval     time.Duration
	TasksPerToken             int64
	TaskCooldown              time.Duration
	MinTaskSeconds            map[string]int
}

// DefaultLedgerConfig returns the production ledger defaults.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		LargeTransactionThreshold: 100000,
		ApprovalTTL:               15 * time.Minute,
		ApprovalSweepInterval:     time.Minute,
		TasksPerToken:             1000,
		TaskCooldown:              time.Hour,
		MinTaskSeconds: map[string]int{
			"signup":      5,
			"freebitcoin": 15,
			"youtube":     30,
		},
	}
}

// Validate rejects ledger settings the services cannot run with.
func (l LedgerConfig) Validate() error {
	if l.LargeTransactionThreshold <= 0 {
		return fmt.Errorf("LARGE_TRANSACTION_THRESHOLD must be positive, got %d", l.LargeTransactionThreshold)
	}
	if l.ApprovalTTL <= 0 {
		return fmt.Errorf("APPROVAL_TTL must be positive, got %s", l.ApprovalTTL)
	}
	if l.ApprovalSweepInterval <= 0 {
		return fmt.Errorf("APPROVAL_SWEEP_INTERVAL must be positive, got %s", l.ApprovalSweepInterval)
	}
	if l.TasksPerToken <= 0 {
		return fmt.Errorf("TASKS_PER_TOKEN must be positive, got %d", l.TasksPerToken)
	}
	if l.TaskCooldown <= 0 {
		return fmt.Errorf("TASK_COOLDOWN must be positive, got %s", l.TaskCooldown)
	}
	for task, seconds := range l.MinTaskSeconds {
		if seconds < 0 {
			return fmt.Errorf("minimum seconds for %s task must not be negative, got %d", task, seconds)
		}
	}
	return nil
}

// LoadConfig loads configuration from the .env file (if any) and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded, using process environment: %v", err)
	}

	defaults := DefaultLedgerConfig()
	ledger := LedgerConfig{
		LargeTransactionThreshold: getEnvInt64("LARGE_TRANSACTION_THRESHOLD", defaults.LargeTransactionThreshold),
		ApprovalTTL:               getEnvDuration("APPROVAL_TTL", defaults.ApprovalTTL),
		ApprovalSweepInterval:     getEnvDuration("APPROVAL_SWEEP_INTERVAL", defaults.ApprovalSweepInterval),
		TasksPerToken:             getEnvInt64("TASKS_PER_TOKEN", defaults.TasksPerToken),
		TaskCooldown:              getEnvDuration("TASK_COOLDOWN", defaults.TaskCooldown),
		MinTaskSeconds: map[string]int{
			"signup":      getEnvInt("MIN_TASK_SECONDS_SIGNUP", defaults.MinTaskSeconds["signup"]),
			"freebitcoin": getEnvInt("MIN_TASK_SECONDS_FREEBITCOIN", defaults.MinTaskSeconds["freebitcoin"]),
			"youtube":     getEnvInt("MIN_TASK_SECONDS_YOUTUBE", defaults.MinTaskSeconds["youtube"]),
		},
	}
	if err := ledger.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger config: %w", err)
	}

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "coinsphere"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),

		Ledger: ledger,

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		RazorpayKey:         os.Getenv("RAZORPAY_KEY"),
		RazorpaySecret:      os.Getenv("RAZORPAY_SECRET"),
		TopupTokensPerRupee: getEnv("TOPUP_TOKENS_PER_RUPEE", "1"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-session-secret"),

		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Ignoring invalid integer for %s: %q", key, value)
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Ignoring invalid integer for %s: %q", key, value)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Ignoring invalid number for %s: %q", key, value)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Ignoring invalid duration for %s: %q", key, value)
	}
	return fallback
}
