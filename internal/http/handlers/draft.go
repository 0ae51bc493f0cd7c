package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
	"github.com/tradebridge/tradebridge-backend/internal/services"
)

type DraftHandler struct {
	draftService services.DraftService
}

func NewDraftHandler(draftService services.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

func (h *DraftHandler) Create(c *gin.Context) {
	var req services.CreateDraftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid_request", err.Error())
		return
	}
	draft, err := h.draftService.CreateDraft(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "draft created", draft)
}

func (h *DraftHandler) Get(c *gin.Context) {
	draftID, ok := uintParam(c, "draftId")
	if !ok {
		return
	}
	draft, err := h.draftService.GetDraft(c.Request.Context(), draftID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "draft fetched", draft)
}

func (h *DraftHandler) List(c *gin.Context) {
	drafts, err := h.draftService.ListDrafts(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "drafts listed", drafts)
}
