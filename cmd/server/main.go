package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"atelier/internal/auth"
	"atelier/internal/config"
	"atelier/internal/handler"
	"atelier/internal/market/justetf"
	"atelier/internal/market/openfigi"
	"atelier/internal/market/yahoo"
	"atelier/internal/meteo"
	"atelier/internal/middleware"
	"atelier/internal/notion"
	"atelier/internal/repository/postgres"
	"atelier/internal/service/drawings"
	serviceFinance "atelier/internal/service/finance"
	"atelier/internal/service/groceries"
	servicePortfolio "atelier/internal/service/portfolio"
	serviceSettings "atelier/internal/service/settings"
	serviceWeather "atelier/internal/service/weather"
	"atelier/internal/simplicate"
	"atelier/internal/stores"
	"atelier/internal/stores/ah"
	"atelier/internal/stores/jumbo"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	// JWT verifier against the identity provider's key set
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, cfg.JWTIssuer, cfg.JWTAudience, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	drawingRepo := postgres.NewDrawingRepository(repoConfig)
	revenueRepo := postgres.NewRevenueRepository(repoConfig)
	costRepo := postgres.NewCostRepository(repoConfig)
	targetRepo := postgres.NewTargetRepository(repoConfig)
	groceryRepo := postgres.NewGroceryRepository(repoConfig)
	positionRepo := postgres.NewPositionRepository(repoConfig)
	settingsRepo := postgres.NewSettingsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// External clients
	notionClient := notion.NewClient(cfg.NotionBaseURL, logger)
	simplicateClient := simplicate.NewClient(logger)
	yahooClient := yahoo.NewClient(cfg.YahooBaseURL, logger)
	figiClient := openfigi.NewClient(cfg.OpenFIGIBaseURL, logger)
	etfClient := justetf.NewClient(cfg.JustETFBaseURL, logger)
	meteoClient := meteo.NewClient(cfg.OpenMeteoBaseURL, logger)

	// Store registry and per-store search clients
	storeRegistry, err := stores.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load store registry: %v", err)
	}
	ahProvider, err := storeRegistry.Get("ah")
	if err != nil {
		log.Fatalf("Failed to resolve store config: %v", err)
	}
	ahProvider.BaseURL = cfg.AHBaseURL
	jumboProvider, err := storeRegistry.Get("jumbo")
	if err != nil {
		log.Fatalf("Failed to resolve store config: %v", err)
	}
	jumboProvider.BaseURL = cfg.JumboBaseURL
	searchers := []stores.Searcher{
		ah.NewClient(ahProvider, logger),
		jumbo.NewClient(jumboProvider, logger),
	}

	// Create services
	ownership := drawings.NewOwnership(folderRepo, drawingRepo)
	folderService := drawings.NewFolderService(folderRepo, drawingRepo, ownership, txManager, logger)
	drawingService := drawings.NewDrawingService(drawingRepo, ownership, logger)
	treeService := drawings.NewTreeService(folderRepo, drawingRepo, logger)

	financeService := serviceFinance.NewFinanceService(revenueRepo, costRepo, targetRepo, logger)
	syncService := serviceFinance.NewSyncService(notionClient, revenueRepo, costRepo, settingsRepo, logger)
	pushService := serviceFinance.NewPushService(simplicateClient, revenueRepo, settingsRepo, logger)

	groceryService, err := groceries.NewGroceryService(storeRegistry, searchers, groceryRepo, logger)
	if err != nil {
		log.Fatalf("Failed to create grocery service: %v", err)
	}

	portfolioService := servicePortfolio.NewPortfolioService(
		positionRepo,
		yahooClient,
		figiClient,
		etfClient,
		servicePortfolio.NewMatcher(),
		logger,
	)

	weatherService := serviceWeather.NewWeatherService(meteoClient, settingsRepo, logger)
	settingsService := serviceSettings.NewSettingsService(settingsRepo, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	drawingHandler := handler.NewDrawingHandler(drawingService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	financeHandler := handler.NewFinanceHandler(financeService, syncService, pushService, logger)
	groceryHandler := handler.NewGroceryHandler(groceryService, logger)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService, logger)
	weatherHandler := handler.NewWeatherHandler(weatherService, logger)
	settingsHandler := handler.NewSettingsHandler(settingsService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.Health)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/folders/{id}/contents", folderHandler.FolderContents)
	mux.HandleFunc("GET /api/contents", folderHandler.RootContents)
	mux.HandleFunc("GET /api/tree", treeHandler.GetTree)

	// Drawing routes
	mux.HandleFunc("POST /api/drawings", drawingHandler.CreateDrawing)
	mux.HandleFunc("GET /api/drawings/{id}", drawingHandler.GetDrawing)
	mux.HandleFunc("PATCH /api/drawings/{id}", drawingHandler.UpdateDrawing)
	mux.HandleFunc("DELETE /api/drawings/{id}", drawingHandler.DeleteDrawing)

	// Finance routes
	mux.HandleFunc("GET /api/finance/revenue", financeHandler.Revenue)
	mux.HandleFunc("GET /api/finance/costs", financeHandler.Costs)
	mux.HandleFunc("GET /api/finance/pacing", financeHandler.Pacing)
	mux.HandleFunc("GET /api/finance/targets", financeHandler.ListTargets)
	mux.HandleFunc("PUT /api/finance/targets/{year}", financeHandler.UpsertTarget)
	mux.HandleFunc("POST /api/finance/sync", financeHandler.Sync)
	mux.HandleFunc("POST /api/finance/push", financeHandler.Push)

	// Grocery routes
	mux.HandleFunc("GET /api/groceries/search", groceryHandler.Search)
	mux.HandleFunc("GET /api/groceries/products", groceryHandler.ListProducts)
	mux.HandleFunc("POST /api/groceries/products", groceryHandler.TrackProduct)
	mux.HandleFunc("POST /api/groceries/products/{id}/refresh", groceryHandler.RefreshProduct)
	mux.HandleFunc("GET /api/groceries/products/{id}/prices", groceryHandler.PriceHistory)
	mux.HandleFunc("DELETE /api/groceries/products/{id}", groceryHandler.UntrackProduct)

	// Portfolio routes
	mux.HandleFunc("GET /api/portfolio", portfolioHandler.Overview)
	mux.HandleFunc("PUT /api/portfolio/positions/{symbol}", portfolioHandler.UpsertPosition)
	mux.HandleFunc("DELETE /api/portfolio/positions/{symbol}", portfolioHandler.DeletePosition)
	mux.HandleFunc("GET /api/portfolio/etf/{isin}/holdings", portfolioHandler.ETFHoldings)

	// Weather and settings routes
	mux.HandleFunc("GET /api/weather", weatherHandler.Home)
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("PATCH /api/settings", settingsHandler.Update)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Push runs pace at one entry per second
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
