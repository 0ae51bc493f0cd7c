package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
	"github.com/tradebridge/tradebridge-backend/internal/services"
)

type OfferHandler struct {
	offerService services.OfferService
}

func NewOfferHandler(offerService services.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

func (h *OfferHandler) Create(c *gin.Context) {
	var req services.CreateOfferInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	result, err := h.offerService.CreateOffer(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "offer created", result)
}

func (h *OfferHandler) Get(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	offer, err := h.offerService.GetOffer(c.Request.Context(), offerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "offer fetched", offer)
}

func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.offerService.ListOffers(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "offers listed", offers)
}

func (h *OfferHandler) Update(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	var req services.UpdateOfferInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	offer, err := h.offerService.UpdateOffer(c.Request.Context(), offerID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "offer updated", offer)
}

func (h *OfferHandler) Close(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	if err := h.offerService.CloseOffer(c.Request.Context(), offerID); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "offer closed", gin.H{"offerId": offerID})
}

func (h *OfferHandler) Reopen(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	if err := h.offerService.ReopenOffer(c.Request.Context(), offerID); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "offer reopened", gin.H{"offerId": offerID})
}

func (h *OfferHandler) Delete(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	if err := h.offerService.DeleteOffer(c.Request.Context(), offerID); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "offer deleted", gin.H{"offerId": offerID})
}
