package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"atelier/internal/config"
	"atelier/internal/domain/models"
	"atelier/internal/repository/postgres"
	"atelier/internal/service/drawings"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	clearData := flag.Bool("clear-data", false, "Clear all rows (keep schema), then exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run --drop-tables or --clear-data in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	if *dropTables {
		log.Printf("Dropping schema (environment: %s)", cfg.Environment)
		if err := postgres.MigrateDown(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to drop schema: %v", err)
		}
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if *clearData {
		log.Printf("Clearing data (environment: %s)", cfg.Environment)
		// Children cascade from their parents, so only top-level tables
		// need truncating.
		tables := []string{
			"drawings", "folders",
			"revenue_entries", "cost_entries", "targets",
			"grocery_products", "positions", "settings",
		}
		for _, table := range tables {
			if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
				log.Fatalf("Failed to clear %s: %v", table, err)
			}
		}
		log.Println("Data cleared")
		return
	}

	ownerID := cfg.SeedOwnerID
	log.Printf("Seeding demo data for owner %s (environment: %s)", ownerID, cfg.Environment)

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	drawingRepo := postgres.NewDrawingRepository(repoConfig)
	revenueRepo := postgres.NewRevenueRepository(repoConfig)
	costRepo := postgres.NewCostRepository(repoConfig)
	targetRepo := postgres.NewTargetRepository(repoConfig)
	groceryRepo := postgres.NewGroceryRepository(repoConfig)
	positionRepo := postgres.NewPositionRepository(repoConfig)
	settingsRepo := postgres.NewSettingsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Go through the services so seeded data obeys the same rules as
	// API-created data.
	ownership := drawings.NewOwnership(folderRepo, drawingRepo)
	folderService := drawings.NewFolderService(folderRepo, drawingRepo, ownership, txManager, logger)
	drawingService := drawings.NewDrawingService(drawingRepo, ownership, logger)

	sketches, err := folderService.CreateFolder(ctx, ownerID, &models.CreateFolderRequest{Name: "Sketches"})
	if err != nil {
		log.Fatalf("Failed to seed folder: %v", err)
	}
	ideas, err := folderService.CreateFolder(ctx, ownerID, &models.CreateFolderRequest{
		ParentID: &sketches.ID,
		Name:     "Ideas",
	})
	if err != nil {
		log.Fatalf("Failed to seed folder: %v", err)
	}

	seedDrawings := []models.CreateDrawingRequest{
		{Name: "Welcome", Content: []byte(`{"elements":[]}`)},
		{FolderID: &sketches.ID, Name: "Floor plan", Content: []byte(`{"elements":[]}`)},
		{FolderID: &ideas.ID, Name: "Logo concepts", Content: []byte(`{"elements":[]}`)},
	}
	for i := range seedDrawings {
		if _, err := drawingService.CreateDrawing(ctx, ownerID, &seedDrawings[i]); err != nil {
			log.Fatalf("Failed to seed drawing: %v", err)
		}
	}

	// Finance: a few booked months plus this year's target
	year := time.Now().UTC().Year()
	clients := []string{"Acme BV", "Initech", "Globex"}
	for month := 1; month <= 3; month++ {
		entryDate := time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
		revenue := decimal.NewFromInt(int64(4000 + 500*month))
		entry := &models.RevenueEntry{
			OwnerID:      ownerID,
			SourcePageID: "seed-revenue-" + entryDate.Format("2006-01"),
			Date:         &entryDate,
			Client:       clients[month-1],
			Type:         "hours",
			VATSection:   "NL high",
			Status:       "invoiced",
			Hours:        decimal.NewFromInt(int64(40 + 8*month)),
			Revenue:      revenue,
			NetIncome:    revenue.Mul(decimal.NewFromFloat(0.7)),
			VAT:          revenue.Mul(decimal.NewFromFloat(0.21)),
			PushStatus:   models.PushStatusPending,
		}
		if err := revenueRepo.Upsert(ctx, entry); err != nil {
			log.Fatalf("Failed to seed revenue entry: %v", err)
		}
	}

	costDate := time.Date(year, time.February, 3, 0, 0, 0, 0, time.UTC)
	cost := &models.CostEntry{
		OwnerID:      ownerID,
		SourcePageID: "seed-cost-" + costDate.Format("2006-01"),
		Date:         &costDate,
		Supplier:     "Hetzner",
		Type:         "hosting",
		VATSection:   "EU reverse",
		Amount:       decimal.NewFromFloat(38.50),
		VAT:          decimal.Zero,
	}
	if err := costRepo.Upsert(ctx, cost); err != nil {
		log.Fatalf("Failed to seed cost entry: %v", err)
	}

	target := &models.Target{
		OwnerID:     ownerID,
		Year:        year,
		TargetValue: decimal.NewFromInt(90000),
		Notes:       "Demo target",
	}
	if err := targetRepo.Upsert(ctx, target); err != nil {
		log.Fatalf("Failed to seed target: %v", err)
	}

	// Groceries: one tracked product with a short price history
	product := &models.TrackedProduct{
		OwnerID:        ownerID,
		Store:          "ah",
		StoreProductID: "wi193679",
		Name:           "Pindakaas 600g",
		UnitSize:       "600 g",
	}
	if err := groceryRepo.CreateProduct(ctx, product); err != nil {
		log.Fatalf("Failed to seed tracked product: %v", err)
	}
	prices := []struct {
		price decimal.Decimal
		bonus bool
		ago   time.Duration
	}{
		{decimal.NewFromFloat(4.29), false, 14 * 24 * time.Hour},
		{decimal.NewFromFloat(3.49), true, 7 * 24 * time.Hour},
		{decimal.NewFromFloat(4.29), false, 0},
	}
	for _, p := range prices {
		point := &models.PricePoint{
			ProductID:  product.ID,
			Price:      p.price,
			Bonus:      p.bonus,
			ObservedAt: time.Now().UTC().Add(-p.ago),
		}
		if err := groceryRepo.AddPricePoint(ctx, point); err != nil {
			log.Fatalf("Failed to seed price point: %v", err)
		}
	}

	// Portfolio: two stock positions and an ETF
	positions := []models.Position{
		{OwnerID: ownerID, Symbol: "ASML", ISIN: "NL0010273215", Quantity: decimal.NewFromInt(10), AvgCost: decimal.NewFromFloat(612.40)},
		{OwnerID: ownerID, Symbol: "AAPL", ISIN: "US0378331005", Quantity: decimal.NewFromInt(25), AvgCost: decimal.NewFromFloat(178.10)},
		{OwnerID: ownerID, Symbol: "VWRL.AS", ISIN: "IE00B3RBWM25", Quantity: decimal.NewFromInt(120), AvgCost: decimal.NewFromFloat(103.55)},
	}
	for i := range positions {
		if err := positionRepo.Upsert(ctx, &positions[i]); err != nil {
			log.Fatalf("Failed to seed position: %v", err)
		}
	}

	// Settings: home location only; external connections stay empty so
	// sync/push report unconfigured until real credentials arrive
	settings := &models.Settings{
		OwnerID:       ownerID,
		HomeLatitude:  52.3676,
		HomeLongitude: 4.9041,
	}
	if err := settingsRepo.Upsert(ctx, settings); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}

	log.Println("Seed complete")
}
