// internal/handlers/ratecard.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/services"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/utils"
)

// RateCardHandler is the authenticated admin surface over the rate-card
// repository and the approval state machine.
type RateCardHandler struct {
	rateCardService *services.RateCardService
	approvalService *services.ApprovalService
	tokenService    *services.TokenService
}

func NewRateCardHandler(rateCardService *services.RateCardService, approvalService *services.ApprovalService, tokenService *services.TokenService) *RateCardHandler {
	return &RateCardHandler{
		rateCardService: rateCardService,
		approvalService: approvalService,
		tokenService:    tokenService,
	}
}

// GET /rate-cards
func (h *RateCardHandler) GetRateCards(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.RateCardSearchParams{
		PaginationParams: params,
	}

	if params.Status != "" {
		status := models.RateCardStatus(params.Status)
		switch status {
		case models.RateCardStatusPending, models.RateCardStatusApproved, models.RateCardStatusRejected:
			searchParams.Status = &status
		default:
			utils.BadRequestResponse(c, "Invalid status filter", nil)
			return
		}
	}

	rateCards, total, err := h.rateCardService.List(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(rateCards, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /rate-cards/pending/count
func (h *RateCardHandler) GetPendingCount(c *gin.Context) {
	count, err := h.rateCardService.PendingCount()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"count": count,
	})
}

// POST /rate-cards
func (h *RateCardHandler) CreateRateCard(c *gin.Context) {
	adminName, _ := utils.GetAdminNameFromContext(c)

	var req struct {
		services.CreateRateCardRequest
		SendApprovalLink bool `json:"sendApprovalLink,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req.CreateRateCardRequest)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rateCard, err := h.rateCardService.Create(adminName, &req.CreateRateCardRequest)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{"rate_card": rateCard}
	if req.SendApprovalLink {
		token, err := h.tokenService.Issue(rateCard.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response["approval_token"] = token.Token
	}

	utils.CreatedResponse(c, response)
}

// GET /rate-cards/:id
func (h *RateCardHandler) GetRateCard(c *gin.Context) {
	id, ok := parseRateCardID(c)
	if !ok {
		return
	}

	rateCard, err := h.rateCardService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rate_card": rateCard,
	})
}

// PUT /rate-cards/:id
func (h *RateCardHandler) UpdateRateCard(c *gin.Context) {
	id, ok := parseRateCardID(c)
	if !ok {
		return
	}

	var req services.UpdateRateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rateCard, err := h.rateCardService.Update(id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rate_card": rateCard,
	})
}

// DELETE /rate-cards/:id
func (h *RateCardHandler) DeleteRateCard(c *gin.Context) {
	id, ok := parseRateCardID(c)
	if !ok {
		return
	}

	if err := h.rateCardService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Rate card deleted",
	})
}

// PATCH /rate-cards/:id/approve
func (h *RateCardHandler) ApproveRateCard(c *gin.Context) {
	id, ok := parseRateCardID(c)
	if !ok {
		return
	}

	var req struct {
		ApprovedBy string `json:"approvedBy,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional; the authenticated admin is the approver.
		req.ApprovedBy = ""
	}
	if req.ApprovedBy == "" {
		req.ApprovedBy, _ = utils.GetAdminNameFromContext(c)
	}

	rateCard, err := h.approvalService.Approve(id, req.ApprovedBy, models.ApprovalChannelInternal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   "Rate card approved",
		"rate_card": rateCard,
	})
}

// PATCH /rate-cards/:id/reject
func (h *RateCardHandler) RejectRateCard(c *gin.Context) {
	id, ok := parseRateCardID(c)
	if !ok {
		return
	}

	var req struct {
		RejectedBy      string `json:"rejectedBy,omitempty"`
		RejectionReason string `json:"rejectionReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}
	if req.RejectedBy == "" {
		req.RejectedBy, _ = utils.GetAdminNameFromContext(c)
	}

	rateCard, err := h.approvalService.Reject(id, req.RejectedBy, req.RejectionReason, models.ApprovalChannelInternal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   "Rate card rejected",
		"rate_card": rateCard,
	})
}

// POST /rate-cards/:id/send-approval-link
func (h *RateCardHandler) SendApprovalLink(c *gin.Context) {
	id, ok := parseRateCardID(c)
	if !ok {
		return
	}

	token, err := h.tokenService.Issue(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":        "Approval link sent",
		"approval_token": token.Token,
	})
}

func parseRateCardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rate card ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrTokenInvalid):
		utils.ErrorResponse(c, http.StatusNotFound, "TOKEN_INVALID", err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrAlreadyProcessed), errors.Is(err, services.ErrNotPending):
		utils.ConflictResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}
