package main

import (
	"log"
	"net/http"

	"audiobook-backend/internal/billing"
	"audiobook-backend/internal/config"
	"audiobook-backend/internal/convert"
	"audiobook-backend/internal/database"
	"audiobook-backend/internal/handlers"
	"audiobook-backend/internal/mailer"
	"audiobook-backend/internal/middleware"
	"audiobook-backend/internal/services"
	"audiobook-backend/internal/stripe"
	"audiobook-backend/internal/supabase"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database connection string
	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your Supabase PostgreSQL connection string")
	}

	// Initialize conversion API client
	convertClient := convert.NewClient(cfg.ConvertAPIBaseURL, cfg.ConvertAPIKey)

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Create database client for direct queries
	var dbClient *supabase.DatabaseClient
	if dbURL != "" {
		var err error
		dbClient, err = supabase.NewDatabaseClient(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Database operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}

	// Payment provider client and billing service
	stripeClient := stripe.NewClient(cfg.StripeSecretKey)
	billingService := billing.NewService(cfg, dbClient, stripeClient)

	// Contact relay mailer
	mailerClient := mailer.NewClient(cfg.ResendAPIKey)

	// Job completion service (only if dbClient is available)
	var jobService *services.JobService
	if dbClient != nil {
		jobService = services.NewJobService(convertClient, dbClient, storageClient, realtimeClient)
	}

	// Initialize handlers (dbClient might be nil, handlers should handle this)
	authHandler := handlers.NewAuthHandler(supabaseClient)
	contactHandler := handlers.NewContactHandler(cfg, mailerClient)
	jobsHandler := handlers.NewJobsHandler(cfg, convertClient, dbClient, storageClient, realtimeClient, billingService)
	billingHandler := handlers.NewBillingHandler(cfg, billingService)
	voicesHandler := handlers.NewVoicesHandler()

	if jobService == nil {
		log.Println("Warning: Job service not available. Converter webhook will not work properly.")
	}
	webhookHandler := handlers.NewWebhookHandler(cfg, billingService, jobService)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public routes
	router.POST("/api/v1/auth/signup", authHandler.Signup)
	router.POST("/api/v1/contact", contactHandler.Relay)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Job routes
	api.POST("/jobs", jobsHandler.CreateJob)
	api.GET("/jobs", jobsHandler.ListJobs)
	api.GET("/jobs/:job_id", jobsHandler.GetJob)
	api.DELETE("/jobs/:job_id", jobsHandler.DeleteJob)
	api.GET("/jobs/:job_id/files", jobsHandler.GetJobFiles)

	// Narrator and format catalog
	api.GET("/voices", voicesHandler.GetVoices)

	// Billing
	api.GET("/billing/info", billingHandler.GetInfo)
	api.POST("/billing/portal", billingHandler.CreatePortalSession)
	api.POST("/billing/checkout", billingHandler.CreateCheckoutSession)
	api.GET("/billing/confirm", billingHandler.ConfirmCheckout)

	// Webhooks (no auth, each route verifies its caller itself)
	router.POST("/api/v1/webhooks/stripe", webhookHandler.StripeWebhook)
	router.POST("/api/v1/webhooks/converter", webhookHandler.ConverterWebhook)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
