package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	PaymentSystemAddress string
	JWTSecret            string
	TaxRate              string
	RedisAddress         string
	StatsCacheTTL        time.Duration
	PaymentPollInterval  time.Duration
	WorkerPoolSize       int
	ShutdownTimeout      time.Duration
	MaxOrdersBatch       int
}

const (
	defaultRunAddress          = ":8080"
	defaultJWTSecret           = "change-me-in-production"
	defaultTaxRate             = "0.10"
	defaultStatsCacheTTL       = time.Minute
	defaultPaymentPollInterval = 5 * time.Second
	defaultWorkerPoolSize      = 4
	defaultShutdownTimeout     = 10 * time.Second
	defaultMaxOrdersBatch      = 32
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		PaymentSystemAddress: getString(lookup, "PAYMENT_SYSTEM_ADDRESS", ""),
		JWTSecret:            getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TaxRate:              getString(lookup, "TAX_RATE", defaultTaxRate),
		RedisAddress:         getString(lookup, "REDIS_ADDRESS", ""),
		StatsCacheTTL:        getDuration(lookup, "STATS_CACHE_TTL", defaultStatsCacheTTL),
		PaymentPollInterval:  getDuration(lookup, "PAYMENT_POLL_INTERVAL", defaultPaymentPollInterval),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxOrdersBatch:       getInt(lookup, "POLL_BATCH_SIZE", defaultMaxOrdersBatch),
	}

	fs := flag.NewFlagSet("kasuwa", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr    = cfg.PaymentPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		statsTTLStr        = cfg.StatsCacheTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.PaymentSystemAddress, "p", cfg.PaymentSystemAddress, "Payment system base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TaxRate, "tax-rate", cfg.TaxRate, "Tax rate applied to order subtotals")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the stats cache (empty disables)")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent payment workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between payment polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&statsTTLStr, "stats-ttl", statsTTLStr, "Stats cache entry lifetime")
	fs.IntVar(&cfg.MaxOrdersBatch, "poll-batch", cfg.MaxOrdersBatch, "Maximum orders per polling batch")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.StatsCacheTTL, err = time.ParseDuration(statsTTLStr); err != nil {
		return nil, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.PaymentPollInterval <= 0 {
		cfg.PaymentPollInterval = defaultPaymentPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = defaultStatsCacheTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.PaymentSystemAddress == "" {
		return nil, fmt.Errorf("payment system address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
