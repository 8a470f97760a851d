package main

import (
	"encoding/json"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/gainscan/backend/src/config"
	"github.com/username/gainscan/backend/src/database"
	"github.com/username/gainscan/backend/src/handlers"
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/pipeline"
	"github.com/username/gainscan/backend/src/security"
	"github.com/username/gainscan/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-API-Key, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	hashKey := flag.String("hash-key", "", "print the bcrypt hash of the given API key and exit")
	flag.Parse()

	// Hashing must work before any configuration exists, since its output is
	// what goes into API_KEY_HASH.
	if *hashKey != "" {
		hash, err := security.NewAuthService("").HashAPIKey(*hashKey)
		if err != nil {
			stdlog.Fatalf("failed to hash API key: %v", err)
		}
		fmt.Println(hash)
		return
	}

	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("GainScan backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath, config.Cfg.MigrationsPath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	logger.L.Info("Initializing services and handlers...")
	authService := security.NewAuthService(config.Cfg.JWTSecret)
	emailService := services.NewEmailService()
	pageTextService := services.NewPageTextService()
	extractionPipeline := pipeline.New(logger.L)
	extractionService := services.NewExtractionService(extractionPipeline, pageTextService, emailService, reportCache)

	authHandler := handlers.NewAuthHandler(authService)
	extractionHandler := handlers.NewExtractionHandler(extractionService)

	logger.L.Info("Configuring routes...")
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "GainScan Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", authHandler.HandleIssueToken)

		r.Group(func(r chi.Router) {
			r.Use(authHandler.AuthMiddleware)
			r.Post("/extract", extractionHandler.HandleExtract)
			r.Get("/extractions", extractionHandler.HandleListExtractions)
			r.Get("/extractions/{id}", extractionHandler.HandleGetExtraction)
			r.Delete("/extractions/{id}", extractionHandler.HandleDeleteExtraction)
		})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
