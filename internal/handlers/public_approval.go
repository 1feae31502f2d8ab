// internal/handlers/public_approval.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/services"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/utils"
)

// PublicApprovalHandler is the token-authenticated surface for the
// external client named on a proposal. It is deliberately narrower than
// the admin surface: fetch, approve and reject only, so the link can
// never be used to change pricing content.
type PublicApprovalHandler struct {
	tokenService    *services.TokenService
	approvalService *services.ApprovalService
}

func NewPublicApprovalHandler(tokenService *services.TokenService, approvalService *services.ApprovalService) *PublicApprovalHandler {
	return &PublicApprovalHandler{
		tokenService:    tokenService,
		approvalService: approvalService,
	}
}

// GET /public/rate-cards/:token
func (h *PublicApprovalHandler) GetRateCard(c *gin.Context) {
	rateCard, err := h.tokenService.Resolve(c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rate_card": rateCard,
	})
}

// POST /public/rate-cards/:token/approve
func (h *PublicApprovalHandler) ApproveRateCard(c *gin.Context) {
	rateCard, err := h.tokenService.Resolve(c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req struct {
		ApprovedBy string `json:"approvedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	approved, err := h.approvalService.Approve(rateCard.ID, req.ApprovedBy, models.ApprovalChannelPublic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   "Rate card approved",
		"rate_card": approved,
	})
}

// POST /public/rate-cards/:token/reject
func (h *PublicApprovalHandler) RejectRateCard(c *gin.Context) {
	rateCard, err := h.tokenService.Resolve(c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var req struct {
		RejectedBy      string `json:"rejectedBy"`
		RejectionReason string `json:"rejectionReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	rejected, err := h.approvalService.Reject(rateCard.ID, req.RejectedBy, req.RejectionReason, models.ApprovalChannelPublic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   "Rate card rejected",
		"rate_card": rejected,
	})
}
