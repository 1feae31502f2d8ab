// internal/services/token_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/utils"
)

// TokenService issues and resolves the single-use approval links sent to
// the client named on a rate card.
type TokenService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewTokenService(db *gorm.DB, notifications *NotificationService) *TokenService {
	return &TokenService{
		db:            db,
		notifications: notifications,
	}
}

// Issue creates a fresh approval token for a pending rate card that has a
// client contact email, replacing any earlier unconsumed token, and mails
// the approval link. A send failure does not fail the issue; the token is
// returned either way so the link can be re-sent.
func (s *TokenService) Issue(rateCardID uuid.UUID) (*models.ApprovalToken, error) {
	var rateCard models.RateCard
	if err := s.db.First(&rateCard, "id = ?", rateCardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !rateCard.IsPending() {
		return nil, ErrAlreadyProcessed
	}
	if rateCard.ClientContact.Email == "" {
		return nil, fmt.Errorf("%w: client contact email is required to issue an approval link", ErrValidation)
	}

	value, err := utils.GenerateApprovalToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &models.ApprovalToken{
		Token:      value,
		RateCardID: rateCardID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ApprovalToken{},
			"rate_card_id = ? AND consumed_at IS NULL", rateCardID).Error; err != nil {
			return fmt.Errorf("failed to revoke previous token: %w", err)
		}
		if err := tx.Create(token).Error; err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.SendApprovalLink(&rateCard, token.Token); err != nil {
			logrus.WithError(err).WithField("rate_card_id", rateCardID).
				Warn("Failed to send approval link email")
		}
	}

	return token, nil
}

// Resolve returns the rate card a token authorizes, for display. It does
// not consume the token: a client can revisit the link any number of
// times until a decision lands. Unknown, consumed, and stale tokens all
// resolve to the same ErrTokenInvalid so the public surface leaks nothing
// about why a link stopped working.
func (s *TokenService) Resolve(value string) (*models.RateCard, error) {
	if value == "" {
		return nil, ErrTokenInvalid
	}

	var token models.ApprovalToken
	if err := s.db.First(&token, "token = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if token.Consumed() {
		return nil, ErrTokenInvalid
	}

	var rateCard models.RateCard
	if err := s.db.First(&rateCard, "id = ?", token.RateCardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !rateCard.IsPending() {
		return nil, ErrTokenInvalid
	}

	return &rateCard, nil
}
