package server

import (
	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/handlers"
	"github.com/tradebridge/tradebridge-backend/internal/http/middleware"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

type RouterConfig struct {
	JWTSecret   string
	CORSOrigins string
	Log         *logger.Logger

	HealthHandler      *handlers.HealthHandler
	OfferHandler       *handlers.OfferHandler
	NegotiationHandler *handlers.NegotiationHandler
	DraftHandler       *handlers.DraftHandler
	BuyerHandler       *handlers.BuyerHandler
	BillingHandler     *handlers.BillingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLog(cfg.Log))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(middleware.Auth(cfg.JWTSecret, cfg.Log))

	ownerOnly := middleware.RequireRole(principal.RoleBusinessOwner)

	// Offers
	api.POST("/offers", cfg.OfferHandler.Create)
	api.GET("/offers", cfg.OfferHandler.List)
	api.GET("/offers/:offerId", cfg.OfferHandler.Get)
	api.PATCH("/offers/:offerId", ownerOnly, cfg.OfferHandler.Update)
	api.POST("/offers/:offerId/close", ownerOnly, cfg.OfferHandler.Close)
	api.POST("/offers/:offerId/reopen", ownerOnly, cfg.OfferHandler.Reopen)
	api.DELETE("/offers/:offerId", ownerOnly, cfg.OfferHandler.Delete)

	// Negotiation
	api.POST("/offers/:offerId/send", cfg.NegotiationHandler.Send)
	api.GET("/offers/:offerId/threads/:buyerId/latest", cfg.NegotiationHandler.Latest)
	api.GET("/offers/:offerId/threads/:buyerId/versions", cfg.NegotiationHandler.History)
	api.GET("/offers/:offerId/threads/:buyerId/results", cfg.NegotiationHandler.ThreadResults)
	api.POST("/offers/:offerId/respond", cfg.NegotiationHandler.Respond)
	api.GET("/offers/:offerId/results", cfg.NegotiationHandler.Results)

	// Drafts
	api.POST("/drafts", ownerOnly, cfg.DraftHandler.Create)
	api.GET("/drafts", ownerOnly, cfg.DraftHandler.List)
	api.GET("/drafts/:draftId", ownerOnly, cfg.DraftHandler.Get)

	// Directory
	api.POST("/buyers", ownerOnly, cfg.BuyerHandler.Register)
	api.GET("/buyers", ownerOnly, cfg.BuyerHandler.List)
	api.GET("/buyers/:buyerId", cfg.BuyerHandler.Get)
	api.GET("/me", cfg.BuyerHandler.Me)

	// Billing
	api.GET("/plans", cfg.BillingHandler.ListPlans)
	api.POST("/subscriptions", ownerOnly, cfg.BillingHandler.Subscribe)
	api.GET("/subscriptions/current", cfg.BillingHandler.Current)

	return router
}
