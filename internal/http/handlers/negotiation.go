package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
	"github.com/tradebridge/tradebridge-backend/internal/services"
)

type NegotiationHandler struct {
	negotiationService services.NegotiationService
}

func NewNegotiationHandler(negotiationService services.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{negotiationService: negotiationService}
}

func (h *NegotiationHandler) Send(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	var req struct {
		BuyerIDs []uint              `json:"buyerIds"`
		Terms    services.TermsDelta `json:"terms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	result, err := h.negotiationService.SendOffer(c.Request.Context(), services.SendOfferInput{
		OfferID:  offerID,
		BuyerIDs: req.BuyerIDs,
		Terms:    req.Terms,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "offer sent", result)
}

func (h *NegotiationHandler) Latest(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	buyerID, ok := uintParam(c, "buyerId")
	if !ok {
		return
	}
	version, err := h.negotiationService.LatestVersion(c.Request.Context(), offerID, buyerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	// A thread without versions answers with null data, not 404.
	response.OK(c, "latest version fetched", version)
}

func (h *NegotiationHandler) History(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	buyerID, ok := uintParam(c, "buyerId")
	if !ok {
		return
	}
	upTo := 0
	if raw := c.Query("upTo"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			response.FailValidation(c, "invalid_up_to", "upTo must be a positive integer")
			return
		}
		upTo = v
	}
	versions, err := h.negotiationService.VersionHistory(c.Request.Context(), offerID, buyerID, upTo)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "version history fetched", versions)
}

func (h *NegotiationHandler) Respond(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	var req struct {
		BuyerID uint   `json:"buyerId"`
		Action  string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	result, err := h.negotiationService.Respond(c.Request.Context(), services.RespondInput{
		OfferID: offerID,
		BuyerID: req.BuyerID,
		Action:  req.Action,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "response recorded", result)
}

func (h *NegotiationHandler) ThreadResults(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	buyerID, ok := uintParam(c, "buyerId")
	if !ok {
		return
	}
	results, err := h.negotiationService.ListThreadResults(c.Request.Context(), offerID, buyerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "thread results listed", results)
}

func (h *NegotiationHandler) Results(c *gin.Context) {
	offerID, ok := uintParam(c, "offerId")
	if !ok {
		return
	}
	results, err := h.negotiationService.ListResults(c.Request.Context(), offerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "results listed", results)
}
