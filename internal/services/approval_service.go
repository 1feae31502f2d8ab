// internal/services/approval_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
)

// ApprovalService is the single place a rate card leaves pending. Both
// the internal admin surface and the public token surface delegate here,
// so the at-most-one terminal transition rule is enforced by exactly one
// implementation regardless of entry channel.
//
// The transition is a conditional update keyed on the current status:
// of two concurrent approve/reject calls, the first writer wins and the
// second observes ErrAlreadyProcessed. That holds across server
// instances because the check and the write are one statement at the
// persistence layer.
type ApprovalService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewApprovalService(db *gorm.DB, notifications *NotificationService) *ApprovalService {
	return &ApprovalService{
		db:            db,
		notifications: notifications,
	}
}

func (s *ApprovalService) Approve(rateCardID uuid.UUID, approverName string, channel models.ApprovalChannel) (*models.RateCard, error) {
	approverName = strings.TrimSpace(approverName)
	if approverName == "" {
		return nil, fmt.Errorf("%w: approver name is required", ErrValidation)
	}

	now := time.Now()
	return s.transition(rateCardID, map[string]interface{}{
		"status":           models.RateCardStatusApproved,
		"approved_by":      approverName,
		"approval_channel": channel,
		"approved_at":      now,
		"updated_at":       now,
	}, now)
}

func (s *ApprovalService) Reject(rateCardID uuid.UUID, rejectorName, reason string, channel models.ApprovalChannel) (*models.RateCard, error) {
	rejectorName = strings.TrimSpace(rejectorName)
	reason = strings.TrimSpace(reason)
	if rejectorName == "" {
		return nil, fmt.Errorf("%w: rejector name is required", ErrValidation)
	}
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	now := time.Now()
	return s.transition(rateCardID, map[string]interface{}{
		"status":           models.RateCardStatusRejected,
		"rejected_by":      rejectorName,
		"approval_channel": channel,
		"rejection_reason": reason,
		"rejected_at":      now,
		"updated_at":       now,
	}, now)
}

func (s *ApprovalService) transition(rateCardID uuid.UUID, updates map[string]interface{}, now time.Time) (*models.RateCard, error) {
	var rateCard models.RateCard

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RateCard{}).
			Where("id = ? AND status = ?", rateCardID, models.RateCardStatusPending).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to apply transition: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			if err := tx.First(&models.RateCard{}, "id = ?", rateCardID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}
			return ErrAlreadyProcessed
		}

		// Any token bound to this card is spent now, whichever channel
		// performed the transition.
		if err := tx.Model(&models.ApprovalToken{}).
			Where("rate_card_id = ? AND consumed_at IS NULL", rateCardID).
			Update("consumed_at", now).Error; err != nil {
			return fmt.Errorf("failed to consume approval token: %w", err)
		}

		return tx.First(&rateCard, "id = ?", rateCardID).Error
	})
	if err != nil {
		return nil, err
	}

	// Decision notification is best effort; the transition already
	// committed.
	if s.notifications != nil && rateCard.ClientContact.Email != "" {
		go func(card models.RateCard) {
			if err := s.notifications.SendDecisionNotification(&card); err != nil {
				logrus.WithError(err).WithField("rate_card_id", card.ID).
					Warn("Failed to send decision notification")
			}
		}(rateCard)
	}

	return &rateCard, nil
}
