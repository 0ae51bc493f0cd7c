package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tradebridge/tradebridge-backend/internal/data/db"
	"github.com/tradebridge/tradebridge-backend/internal/data/repos"
	"github.com/tradebridge/tradebridge-backend/internal/http/handlers"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/platform/envutil"
	"github.com/tradebridge/tradebridge-backend/internal/platform/sendgrid"
	"github.com/tradebridge/tradebridge-backend/internal/server"
	"github.com/tradebridge/tradebridge-backend/internal/services"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	jwtSecret := envutil.String("JWT_SECRET_KEY", "")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	corsOrigins := envutil.String("CORS_ORIGINS", "")
	planCatalogPath := envutil.String("PLAN_CATALOG_PATH", "configs/plans.yaml")
	port := envutil.String("PORT", "8080")

	dbService, err := db.New(log)
	if err != nil {
		log.Fatal("database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("auto migration failed", "error", err)
	}
	gdb := dbService.DB()

	// Repos
	ownerRepo := repos.NewBusinessOwnerRepo(gdb, log)
	buyerRepo := repos.NewBuyerRepo(gdb, log)
	offerRepo := repos.NewOfferRepo(gdb, log)
	draftRepo := repos.NewOfferDraftRepo(gdb, log)
	threadRepo := repos.NewOfferBuyerRepo(gdb, log)
	versionRepo := repos.NewOfferVersionRepo(gdb, log)
	resultRepo := repos.NewOfferResultRepo(gdb, log)
	planRepo := repos.NewPlanRepo(gdb, log)
	subRepo := repos.NewSubscriptionRepo(gdb, log)

	// Mail
	var notifier services.Notifier
	if mailClient, err := sendgrid.NewFromEnv(log); err != nil {
		log.Warn("sendgrid not configured, offer emails disabled", "error", err)
		notifier = services.NewNoopNotifier()
	} else {
		notifier = services.NewNotifier(mailClient, log)
	}

	// Services
	billingService := services.NewBillingService(gdb, planRepo, subRepo, offerRepo, buyerRepo, log)
	offerService := services.NewOfferService(gdb, offerRepo, draftRepo, ownerRepo, buyerRepo, threadRepo, versionRepo, billingService, notifier, log)
	negotiationService := services.NewNegotiationService(gdb, offerRepo, ownerRepo, buyerRepo, threadRepo, versionRepo, resultRepo, notifier, log)
	draftService := services.NewDraftService(gdb, draftRepo, ownerRepo, log)
	directoryService := services.NewDirectoryService(gdb, ownerRepo, buyerRepo, billingService, log)

	if err := billingService.SyncCatalog(context.Background(), planCatalogPath); err != nil {
		log.Warn("plan catalog sync failed", "error", err)
	}

	router := server.NewRouter(server.RouterConfig{
		JWTSecret:   jwtSecret,
		CORSOrigins: corsOrigins,
		Log:         log,

		HealthHandler:      handlers.NewHealthHandler(),
		OfferHandler:       handlers.NewOfferHandler(offerService),
		NegotiationHandler: handlers.NewNegotiationHandler(negotiationService),
		DraftHandler:       handlers.NewDraftHandler(draftService),
		BuyerHandler:       handlers.NewBuyerHandler(directoryService),
		BillingHandler:     handlers.NewBillingHandler(billingService),
	})

	log.Info("server starting", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
