package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"symptomdx/internal/config"
	"symptomdx/internal/db"
	"symptomdx/internal/engine"
	"symptomdx/internal/knowledge"
	"symptomdx/internal/logging"
	"symptomdx/internal/metrics"
	"symptomdx/internal/middleware"
	"symptomdx/internal/server"
	"symptomdx/internal/session"
)

func main() {
	importKnowledge := flag.Bool("import-knowledge", false, "import the knowledge CSV files into Postgres and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logging.Init(!cfg.IsDev(), logging.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	csvSource := knowledge.CSVSource{
		DescriptionPath: cfg.DescriptionCSV,
		SeverityPath:    cfg.SeverityCSV,
		PrecautionPath:  cfg.PrecautionCSV,
		Header:          cfg.KnowledgeCSVHeader,
	}

	// Initialize database
	var database *db.DB
	if cfg.UsesDatabase() {
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		// Run migrations
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")
	}

	if *importKnowledge {
		if database == nil {
			log.Fatal("-import-knowledge requires DATABASE_URL")
		}
		tables, err := csvSource.Load(ctx)
		if err != nil {
			log.Fatalf("Failed to read knowledge files: %v", err)
		}
		n, err := database.ImportKnowledge(ctx, tables.Entries())
		if err != nil {
			log.Fatalf("Failed to import knowledge: %v", err)
		}
		log.Printf("Imported %d diseases", n)
		return
	}

	var source knowledge.Source = csvSource
	if cfg.KnowledgeSource == config.KnowledgePostgres {
		source = db.KnowledgeSource{DB: database}
	}

	// Train the classifier once; everything after this is read-only
	eng, err := engine.Load(ctx, engine.Options{
		TrainingCSV: cfg.TrainingCSV,
		LabelColumn: cfg.LabelColumn,
		MaxDepth:    cfg.MaxDepth,
		Knowledge:   source,
		Dialogue:    yamlCfg.DialogueOptions(),
		Texts:       yamlCfg.ReportTexts(),
	})
	if err != nil {
		log.Fatalf("Failed to build diagnosis engine: %v", err)
	}

	// Metrics
	var outcomes metrics.OutcomeStore
	if database != nil {
		outcomes = database
	}
	metrics.Init(outcomes)
	metrics.SetHoldoutAccuracy(eng.Evaluation().Accuracy)

	// Session storage
	var storage session.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := session.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisStorage.Close()
		storage = redisStorage
		log.Println("Dialogue sessions stored in redis")
	} else {
		memoryStorage := session.NewMemory()
		defer memoryStorage.Close()
		storage = memoryStorage
	}
	store := session.New(storage, cfg.SessionTTL)

	// Auth
	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled() {
		oidcVerifier, err := middleware.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			log.Fatalf("Failed to initialize OIDC auth: %v", err)
		}
		verifier = oidcVerifier
	} else {
		log.Println("API authentication is disabled. Set OIDC_ISSUER to enable.")
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(eng, store, verifier)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
