// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
    "fmt"
    "os"
    "strconv"
    "time"
)

// Config holds all application configuration
type Config struct {
    // Server
    Port        string
    Environment string
    CORSOrigins []string

    // Database
    DatabaseURL string
    RedisURL    string

    // Matching algorithm
    // The weights and limits used to be hardcoded in the matching code;
    // they live here so deployments (and tests) can vary them.
    DailyBatchSize int           // candidates offered per user per day
    MinMatchScore  float64       // candidates below this score are never offered
    CityBonus      float64       // score bonus for living in the same city
    AgeBonus       float64       // score bonus for ages within AgeWindowYears
    AgeWindowYears int           // max age difference that still earns AgeBonus
    AllowRematch   bool          // if false, a pair is never suggested again on later days
    StoreTimeout   time.Duration // per-call deadline for profile/match store access

    // Background jobs
    PregenSchedule string // cron spec for batch pre-generation, empty disables it
}

// Load reads configuration from environment variables
func Load() *Config {
    return &Config{
        Port:        getEnv("PORT", "8080"),
        Environment: getEnv("ENVIRONMENT", "development"),
        CORSOrigins: []string{getEnv("CORS_ORIGIN", "*")},

        DatabaseURL: getEnv("DATABASE_URL", ""),
        RedisURL:    getEnv("REDIS_URL", ""),

        DailyBatchSize: getEnvInt("MATCHING_DAILY_BATCH_SIZE", 3),
        MinMatchScore:  getEnvFloat("MATCHING_MIN_SCORE", 0),
        CityBonus:      getEnvFloat("MATCHING_CITY_BONUS", 0.1),
        AgeBonus:       getEnvFloat("MATCHING_AGE_BONUS", 0.1),
        AgeWindowYears: getEnvInt("MATCHING_AGE_WINDOW_YEARS", 5),
        AllowRematch:   getEnvBool("MATCHING_ALLOW_REMATCH", false),
        StoreTimeout:   getEnvDuration("MATCHING_STORE_TIMEOUT", 5*time.Second),

        PregenSchedule: getEnv("MATCHING_PREGEN_SCHEDULE", ""),
    }
}

// Validate checks that required configuration is present and coherent
func (c *Config) Validate() error {
    if c.DatabaseURL == "" {
        return fmt.Errorf("DATABASE_URL is required")
    }
    if c.DailyBatchSize < 1 {
        return fmt.Errorf("MATCHING_DAILY_BATCH_SIZE must be at least 1, got %d", c.DailyBatchSize)
    }
    if c.MinMatchScore < 0 || c.MinMatchScore > 1 {
        return fmt.Errorf("MATCHING_MIN_SCORE must be in [0,1], got %f", c.MinMatchScore)
    }
    if c.AgeWindowYears < 0 {
        return fmt.Errorf("MATCHING_AGE_WINDOW_YEARS must not be negative")
    }
    if c.StoreTimeout <= 0 {
        return fmt.Errorf("MATCHING_STORE_TIMEOUT must be positive")
    }
    return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
    if value := os.Getenv(key); value != "" {
        return value
    }
    return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
    if value := os.Getenv(key); value != "" {
        if i, err := strconv.Atoi(value); err == nil {
            return i
        }
    }
    return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
    if value := os.Getenv(key); value != "" {
        if f, err := strconv.ParseFloat(value, 64); err == nil {
            return f
        }
    }
    return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
    if value := os.Getenv(key); value != "" {
        if b, err := strconv.ParseBool(value); err == nil {
            return b
        }
    }
    return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
    if value := os.Getenv(key); value != "" {
        if d, err := time.ParseDuration(value); err == nil {
            return d
        }
    }
    return defaultValue
}
