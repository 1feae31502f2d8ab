// internal/models/ratecard.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultFuelChargePercentage Rate = 15

// RateCard is a corporate pricing proposal. It is authored in pending
// status, edited in place while pending, and resolved exactly once to
// approved or rejected through either the internal or the public channel.
type RateCard struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name                 string          `json:"name" gorm:"size:255;not null"`
	Status               RateCardStatus  `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	FuelChargePercentage Rate            `json:"fuelChargePercentage" gorm:"type:decimal(6,2)"`
	DoxPricing           BracketPricing  `json:"doxPricing" gorm:"type:jsonb"`
	PriorityPricing      BracketPricing  `json:"priorityPricing" gorm:"type:jsonb"`
	NonDoxSurfacePricing RegionRates     `json:"nonDoxSurfacePricing" gorm:"type:jsonb"`
	NonDoxAirPricing     RegionRates     `json:"nonDoxAirPricing" gorm:"type:jsonb"`
	ReversePricing       ReversePricing  `json:"reversePricing" gorm:"type:jsonb"`
	ClientContact        ClientContact   `json:"clientContact" gorm:"type:jsonb"`
	Notes                string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy            string          `json:"createdBy,omitempty" gorm:"size:255"`
	ApprovedBy           string          `json:"approvedBy,omitempty" gorm:"size:255"`
	RejectedBy           string          `json:"rejectedBy,omitempty" gorm:"size:255"`
	ApprovalChannel      ApprovalChannel `json:"approvalChannel" gorm:"type:varchar(20);default:'none'"`
	RejectionReason      string          `json:"rejectionReason,omitempty" gorm:"type:text"`
	CreatedAt            time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	ApprovedAt           *time.Time      `json:"approvedAt,omitempty"`
	RejectedAt           *time.Time      `json:"rejectedAt,omitempty"`
}

func (RateCard) TableName() string {
	return "rate_cards"
}

func (rc *RateCard) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}

func (rc *RateCard) IsPending() bool {
	return rc.Status == RateCardStatusPending
}

// SurchargeMultiplier is the factor the external billing calculator applies
// on top of a base rate looked up from this card.
func (rc *RateCard) SurchargeMultiplier() float64 {
	return 1 + float64(rc.FuelChargePercentage)/100
}

// RateFor resolves a base rate for a shipment class, weight bracket and
// region. The bracket is ignored for the non-dox classes, which carry a
// single row each.
func (rc *RateCard) RateFor(class ShipmentClass, bracket WeightBracket, region Region) Rate {
	switch class {
	case ClassDox:
		return rc.DoxPricing[bracket].For(region)
	case ClassPriority:
		return rc.PriorityPricing[bracket].For(region)
	case ClassNonDoxSurface:
		return rc.NonDoxSurfacePricing.For(region)
	case ClassNonDoxAir:
		return rc.NonDoxAirPricing.For(region)
	default:
		return 0
	}
}
