// internal/models/token.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalToken authorizes the external client named on a rate card to
// approve or reject it through the public channel. A token is single-use:
// once its rate card leaves pending, by any channel, it never authorizes
// another mutation.
type ApprovalToken struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Token      string     `json:"token" gorm:"size:64;uniqueIndex;not null"`
	RateCardID uuid.UUID  `json:"rateCardId" gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time  `json:"createdAt"`
	ConsumedAt *time.Time `json:"consumedAt,omitempty"`
}

func (ApprovalToken) TableName() string {
	return "approval_tokens"
}

func (t *ApprovalToken) Consumed() bool {
	return t.ConsumedAt != nil
}
