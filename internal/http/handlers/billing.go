package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
	"github.com/tradebridge/tradebridge-backend/internal/services"
)

type BillingHandler struct {
	billingService services.BillingService
}

func NewBillingHandler(billingService services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.billingService.ListPlans(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "plans listed", plans)
}

func (h *BillingHandler) Subscribe(c *gin.Context) {
	var req struct {
		PlanCode string `json:"planCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	sub, err := h.billingService.Subscribe(c.Request.Context(), req.PlanCode)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "subscribed", sub)
}

func (h *BillingHandler) Current(c *gin.Context) {
	sub, plan, err := h.billingService.CurrentSubscription(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "subscription fetched", gin.H{
		"subscription": sub,
		"plan":         plan,
	})
}
