// cmd/api/main.go
// Main entry point for the application
// Bootstraps the stores, the matching engine and the HTTP server

package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/go-redis/redis/v8"
    "github.com/gorilla/mux"
    "github.com/jmoiron/sqlx"
    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/rs/cors"

    "github.com/nurapp/nur-backend/internal/chat"
    "github.com/nurapp/nur-backend/internal/common/database"
    "github.com/nurapp/nur-backend/internal/config"
    "github.com/nurapp/nur-backend/internal/matching"
    "github.com/nurapp/nur-backend/internal/profile"
)

var startTime = time.Now()

func main() {
    log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

    log.Println("========================================")
    log.Println("🚀 Starting NÜR Matching API")
    log.Println("========================================")

    // 1. Load environment variables
    log.Println("📁 Step 1: Loading .env file...")
    if err := godotenv.Load(); err != nil {
        log.Printf("⚠️  No .env file found (%v), using environment variables", err)
    } else {
        log.Println("✅ .env file loaded")
    }

    // 2. Load and validate configuration
    log.Println("\n📋 Step 2: Loading configuration...")
    cfg := config.Load()
    if err := cfg.Validate(); err != nil {
        log.Fatal("❌ Configuration validation failed:", err)
    }
    log.Printf("✅ Configuration loaded (batch size %d, rematch allowed: %v)",
        cfg.DailyBatchSize, cfg.AllowRematch)

    // 3. Connect to PostgreSQL
    log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
    db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
    if err != nil {
        log.Fatal("❌ Failed to connect to PostgreSQL:", err)
    }
    defer db.Close()
    log.Println("✅ Connected to PostgreSQL")

    // 4. Connect to Redis (optional, used for generation locks)
    log.Println("\n📮 Step 4: Connecting to Redis...")
    var redisClient *redis.Client
    if cfg.RedisURL != "" {
        redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
        if err != nil {
            log.Printf("⚠️  Redis unavailable (%v), continuing without generation locks", err)
            redisClient = nil
        } else {
            defer redisClient.Close()
            log.Println("✅ Connected to Redis")
        }
    } else {
        log.Println("⚠️  REDIS_URL not configured, skipping Redis connection")
    }

    // 5. Run database migrations
    log.Println("\n🔨 Step 5: Running database migrations...")
    if err := runMigrations(db); err != nil {
        log.Fatal("❌ Failed to run migrations: ", err)
    }
    log.Println("✅ Database migrations completed")

    // 6. Initialize the matching engine
    log.Println("\n💞 Step 6: Initializing matching engine...")

    profileStore := profile.NewPostgresStore(db)
    matchRepo := matching.NewPostgresRepository(db)
    provisioner := chat.NewPostgresProvisioner(db)

    var locker matching.GenerationLocker
    if redisClient != nil {
        locker = matching.NewRedisLocker(redisClient)
    }

    matchingConfig := matching.Config{
        Scoring: matching.ScoringConfig{
            CityBonus:      cfg.CityBonus,
            AgeBonus:       cfg.AgeBonus,
            AgeWindowYears: cfg.AgeWindowYears,
        },
        Selection: matching.SelectorConfig{
            BatchSize: cfg.DailyBatchSize,
            MinScore:  cfg.MinMatchScore,
        },
        AllowRematch: cfg.AllowRematch,
        StoreTimeout: cfg.StoreTimeout,
    }

    matchingService := matching.NewService(
        matchRepo,
        profileStore,
        provisioner,
        locker,
        matching.NewSystemClock(),
        matchingConfig,
    )
    matchingHandler := matching.NewHandler(matchingService)
    log.Println("✅ Matching engine initialized")

    // 7. Optional daily pre-generation job
    var scheduler *matching.Scheduler
    if cfg.PregenSchedule != "" {
        log.Println("\n⏰ Step 7: Starting batch pre-generation scheduler...")
        scheduler = matching.NewScheduler(matchingService, cfg.PregenSchedule)
        if err := scheduler.Start(); err != nil {
            log.Fatal("❌ Invalid MATCHING_PREGEN_SCHEDULE: ", err)
        }
        defer scheduler.Stop()
        log.Printf("✅ Pre-generation scheduled (%s)", cfg.PregenSchedule)
    }

    // 8. Setup routes
    log.Println("\n🛣️  Step 8: Setting up routes...")
    router := mux.NewRouter()

    router.HandleFunc("/health", healthCheck).Methods("GET")
    router.Handle("/metrics", promhttp.Handler()).Methods("GET")
    matching.RegisterRoutes(router, matchingHandler)

    router.Use(loggingMiddleware)

    corsHandler := cors.New(cors.Options{
        AllowedOrigins: cfg.CORSOrigins,
        AllowedMethods: []string{"GET", "POST", "OPTIONS"},
        AllowedHeaders: []string{"Content-Type"},
    }).Handler(router)
    log.Println("✅ Routes registered")

    // 9. Create and start HTTP server
    srv := &http.Server{
        Addr:         fmt.Sprintf(":%s", cfg.Port),
        Handler:      corsHandler,
        ReadTimeout:  15 * time.Second,
        WriteTimeout: 15 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Println("\n========================================")
        log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
        log.Printf("🌍 Environment: %s", cfg.Environment)
        log.Println("========================================")

        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal("❌ Failed to start server:", err)
        }
    }()

    // Wait for interrupt signal
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    log.Println("\n⚠️  Shutdown signal received...")

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        log.Fatal("❌ Server forced to shutdown:", err)
    }

    log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
    response := map[string]interface{}{
        "status":    "healthy",
        "timestamp": time.Now().Format(time.RFC3339),
        "uptime":    time.Since(startTime).String(),
    }

    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(http.StatusOK)
    json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
        next.ServeHTTP(wrapped, r)

        log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
    })
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
    http.ResponseWriter
    statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.statusCode = code
    rw.ResponseWriter.WriteHeader(code)
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
    migrations := []string{
        // Profiles are owned by the application/review flows; the matching
        // engine reads them and needs the table to exist in development.
        `CREATE TABLE IF NOT EXISTS profiles (
            id UUID PRIMARY KEY,
            display_name VARCHAR(100) NOT NULL,
            "values" TEXT[] NOT NULL DEFAULT '{}',
            interests TEXT[] NOT NULL DEFAULT '{}',
            city VARCHAR(100) NOT NULL DEFAULT '',
            age INTEGER NOT NULL,
            active BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,

        // One record per canonical pair per calendar day. The check
        // constraint pins the canonical order the code relies on.
        `CREATE TABLE IF NOT EXISTS match_records (
            id UUID PRIMARY KEY,
            user_a UUID NOT NULL REFERENCES profiles(id),
            user_b UUID NOT NULL REFERENCES profiles(id),
            match_date DATE NOT NULL,
            score DOUBLE PRECISION NOT NULL,
            interest_a BOOLEAN,
            interest_b BOOLEAN,
            mutual BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT match_records_pair_order CHECK (user_a < user_b),
            CONSTRAINT match_records_pair_day UNIQUE (user_a, user_b, match_date)
        )`,

        `CREATE TABLE IF NOT EXISTS chat_channels (
            id UUID PRIMARY KEY,
            user_a UUID NOT NULL REFERENCES profiles(id),
            user_b UUID NOT NULL REFERENCES profiles(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT chat_channels_pair UNIQUE (user_a, user_b)
        )`,

        `CREATE INDEX IF NOT EXISTS idx_profiles_active ON profiles(active)`,
        `CREATE INDEX IF NOT EXISTS idx_match_records_user_a_date ON match_records(user_a, match_date)`,
        `CREATE INDEX IF NOT EXISTS idx_match_records_user_b_date ON match_records(user_b, match_date)`,
        `CREATE INDEX IF NOT EXISTS idx_match_records_mutual ON match_records(mutual) WHERE mutual = TRUE`,
    }

    for i, migration := range migrations {
        log.Printf("   - Running migration %d/%d...", i+1, len(migrations))
        if _, err := db.Exec(migration); err != nil {
            if !strings.Contains(err.Error(), "already exists") {
                return fmt.Errorf("migration %d failed: %w", i+1, err)
            }
            log.Printf("   - Migration %d skipped (already exists)", i+1)
        }
    }

    return nil
}
