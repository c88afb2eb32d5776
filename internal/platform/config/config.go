package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	defaultPort               = "8080"
	defaultJWTSecret          = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer          = "backoffice-ledger"
	defaultRateLimit          = "100-M"
	defaultMigrationsPath     = "file://migrations"
	defaultTolerancePercent   = "1"
	defaultPayrollSystemActor = "system:payroll"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret string
	JWTIssuer string

	LogLevel  string // debug, info, warn, error
	LogFormat string // json or text

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
	MigrationsPath     string

	// AllocationTolerancePercent bounds how far converted salary allocations may drift from the salary.
	AllocationTolerancePercent decimal.Decimal

	// PayrollGenerateCron schedules monthly salary generation. Empty disables it.
	PayrollGenerateCron string
	PayrollSystemActor  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	v.SetDefault("ALLOCATION_TOLERANCE_PERCENT", defaultTolerancePercent)
	v.SetDefault("PAYROLL_GENERATE_CRON", "")
	v.SetDefault("PAYROLL_SYSTEM_ACTOR", defaultPayrollSystemActor)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		LogLevel:            strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:           strings.ToLower(v.GetString("LOG_FORMAT")),
		RateLimit:           v.GetString("RATE_LIMIT"),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		PayrollGenerateCron: strings.TrimSpace(v.GetString("PAYROLL_GENERATE_CRON")),
		PayrollSystemActor:  v.GetString("PAYROLL_SYSTEM_ACTOR"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = defaultMigrationsPath
	}
	if cfg.PayrollSystemActor == "" {
		cfg.PayrollSystemActor = defaultPayrollSystemActor
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	tolerance, err := decimal.NewFromString(v.GetString("ALLOCATION_TOLERANCE_PERCENT"))
	if err != nil || !tolerance.IsPositive() {
		log.Printf("Warning: Invalid value for ALLOCATION_TOLERANCE_PERCENT ('%s'). Defaulting to %s.\n",
			v.GetString("ALLOCATION_TOLERANCE_PERCENT"), defaultTolerancePercent)
		tolerance = decimal.RequireFromString(defaultTolerancePercent)
	}
	cfg.AllocationTolerancePercent = tolerance

	return cfg
}
