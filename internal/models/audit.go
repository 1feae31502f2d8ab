// internal/models/audit.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records every mutating request against the approval workflow,
// from both channels.
type AuditLog struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Actor      string     `json:"actor" gorm:"size:255"`
	Channel    string     `json:"channel" gorm:"size:20"`
	Action     string     `json:"action" gorm:"size:255;not null"`
	RateCardID *uuid.UUID `json:"rateCardId,omitempty" gorm:"type:uuid;index"`
	StatusCode int        `json:"statusCode"`
	IPAddress  string     `json:"ipAddress" gorm:"size:45"`
	UserAgent  string     `json:"userAgent" gorm:"size:512"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
