package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
	"github.com/tradebridge/tradebridge-backend/internal/services"
)

type BuyerHandler struct {
	directoryService services.DirectoryService
}

func NewBuyerHandler(directoryService services.DirectoryService) *BuyerHandler {
	return &BuyerHandler{directoryService: directoryService}
}

func (h *BuyerHandler) Register(c *gin.Context) {
	var req services.RegisterBuyerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	buyer, err := h.directoryService.RegisterBuyer(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "buyer registered", buyer)
}

func (h *BuyerHandler) Get(c *gin.Context) {
	buyerID, ok := uintParam(c, "buyerId")
	if !ok {
		return
	}
	buyer, err := h.directoryService.GetBuyer(c.Request.Context(), buyerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "buyer fetched", buyer)
}

func (h *BuyerHandler) List(c *gin.Context) {
	buyers, err := h.directoryService.ListBuyers(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "buyers listed", buyers)
}

func (h *BuyerHandler) Me(c *gin.Context) {
	owner, err := h.directoryService.CurrentOwner(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "owner fetched", owner)
}
