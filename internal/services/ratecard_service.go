// internal/services/ratecard_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/utils"
)

// RateCardService owns rate-card documents: creation, lookup, filtered
// listing, pending-only edits and hard deletion. Terminal transitions
// live in ApprovalService.
type RateCardService struct {
	db *gorm.DB
}

type CreateRateCardRequest struct {
	Name                 string                `json:"name" validate:"required,notblank,max=255"`
	FuelChargePercentage *models.Rate          `json:"fuelChargePercentage,omitempty"`
	DoxPricing           models.BracketPricing `json:"doxPricing,omitempty"`
	PriorityPricing      models.BracketPricing `json:"priorityPricing,omitempty"`
	NonDoxSurfacePricing models.RegionRates    `json:"nonDoxSurfacePricing,omitempty"`
	NonDoxAirPricing     models.RegionRates    `json:"nonDoxAirPricing,omitempty"`
	ReversePricing       models.ReversePricing `json:"reversePricing,omitempty"`
	ClientContact        models.ClientContact  `json:"clientContact,omitempty"`
	Notes                string                `json:"notes,omitempty"`
}

// UpdateRateCardRequest is a typed patch: only non-nil fields are written,
// and the whole patch is validated against the rate-card shape before
// anything touches the store. There is no path-style partial update.
type UpdateRateCardRequest struct {
	Name                 *string                `json:"name,omitempty" validate:"omitempty,notblank,max=255"`
	FuelChargePercentage *models.Rate           `json:"fuelChargePercentage,omitempty"`
	DoxPricing           *models.BracketPricing `json:"doxPricing,omitempty"`
	PriorityPricing      *models.BracketPricing `json:"priorityPricing,omitempty"`
	NonDoxSurfacePricing *models.RegionRates    `json:"nonDoxSurfacePricing,omitempty"`
	NonDoxAirPricing     *models.RegionRates    `json:"nonDoxAirPricing,omitempty"`
	ReversePricing       *models.ReversePricing `json:"reversePricing,omitempty"`
	ClientContact        *models.ClientContact  `json:"clientContact,omitempty"`
	Notes                *string                `json:"notes,omitempty"`
}

type RateCardSearchParams struct {
	utils.PaginationParams
	Status *models.RateCardStatus
}

func NewRateCardService(db *gorm.DB) *RateCardService {
	return &RateCardService{db: db}
}

func (s *RateCardService) Create(createdBy string, req *CreateRateCardRequest) (*models.RateCard, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	dox, err := sanitizeBracketPricing(req.DoxPricing, models.DoxBrackets)
	if err != nil {
		return nil, err
	}
	priority, err := sanitizeBracketPricing(req.PriorityPricing, models.PriorityBrackets)
	if err != nil {
		return nil, err
	}

	fuel := models.DefaultFuelChargePercentage
	if req.FuelChargePercentage != nil {
		fuel = req.FuelChargePercentage.Clamp()
	}

	rateCard := &models.RateCard{
		Name:                 strings.TrimSpace(req.Name),
		Status:               models.RateCardStatusPending,
		FuelChargePercentage: fuel,
		DoxPricing:           dox,
		PriorityPricing:      priority,
		NonDoxSurfacePricing: req.NonDoxSurfacePricing.Clamped(),
		NonDoxAirPricing:     req.NonDoxAirPricing.Clamped(),
		ReversePricing:       req.ReversePricing.Clamped(),
		ClientContact:        req.ClientContact,
		Notes:                req.Notes,
		CreatedBy:            createdBy,
		ApprovalChannel:      models.ApprovalChannelNone,
	}

	if err := s.db.Create(rateCard).Error; err != nil {
		return nil, fmt.Errorf("failed to create rate card: %w", err)
	}

	return rateCard, nil
}

func (s *RateCardService) Get(id uuid.UUID) (*models.RateCard, error) {
	var rateCard models.RateCard
	if err := s.db.First(&rateCard, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &rateCard, nil
}

// List filters by exact status and a case-insensitive substring over the
// card name and the client contact (company, email), newest first.
func (s *RateCardService) List(params RateCardSearchParams) ([]models.RateCard, int64, error) {
	query := s.db.Model(&models.RateCard{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		company, email := s.contactValueColumns()
		query = query.Where(
			fmt.Sprintf("LOWER(name) LIKE ? OR LOWER(%s) LIKE ? OR LOWER(%s) LIKE ?", company, email),
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rate cards: %w", err)
	}

	query = query.Order("created_at DESC, id")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var rateCards []models.RateCard
	if err := query.Find(&rateCards).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rate cards: %w", err)
	}

	return rateCards, total, nil
}

// contactValueColumns returns per-dialect expressions extracting the
// company and email values from the client_contact document, so search
// matches stored values rather than JSON syntax.
func (s *RateCardService) contactValueColumns() (company, email string) {
	if s.db.Dialector.Name() == "postgres" {
		return "client_contact->>'company'", "client_contact->>'email'"
	}
	return "json_extract(client_contact, '$.company')", "json_extract(client_contact, '$.email')"
}

func (s *RateCardService) PendingCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.RateCard{}).
		Where("status = ?", models.RateCardStatusPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending rate cards: %w", err)
	}
	return count, nil
}

// Update edits a pending card in place. The write is conditional on the
// card still being pending so a concurrent approval cannot be overwritten;
// a resolved card comes back ErrNotPending with the stored document
// untouched.
func (s *RateCardService) Update(id uuid.UUID, req *UpdateRateCardRequest) (*models.RateCard, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.FuelChargePercentage != nil {
		updates["fuel_charge_percentage"] = req.FuelChargePercentage.Clamp()
	}
	if req.DoxPricing != nil {
		dox, err := sanitizeBracketPricing(*req.DoxPricing, models.DoxBrackets)
		if err != nil {
			return nil, err
		}
		updates["dox_pricing"] = dox
	}
	if req.PriorityPricing != nil {
		priority, err := sanitizeBracketPricing(*req.PriorityPricing, models.PriorityBrackets)
		if err != nil {
			return nil, err
		}
		updates["priority_pricing"] = priority
	}
	if req.NonDoxSurfacePricing != nil {
		updates["non_dox_surface_pricing"] = req.NonDoxSurfacePricing.Clamped()
	}
	if req.NonDoxAirPricing != nil {
		updates["non_dox_air_pricing"] = req.NonDoxAirPricing.Clamped()
	}
	if req.ReversePricing != nil {
		updates["reverse_pricing"] = req.ReversePricing.Clamped()
	}
	if req.ClientContact != nil {
		updates["client_contact"] = *req.ClientContact
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	var rateCard models.RateCard
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.RateCard{}).
			Where("id = ? AND status = ?", id, models.RateCardStatusPending).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update rate card: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			if err := tx.First(&models.RateCard{}, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}
			return ErrNotPending
		}
		return tx.First(&rateCard, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return &rateCard, nil
}

// Delete hard-deletes the document in any status, along with any approval
// tokens bound to it.
func (s *RateCardService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.RateCard{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete rate card: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Delete(&models.ApprovalToken{}, "rate_card_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete approval tokens: %w", err)
		}
		return nil
	})
}

// sanitizeBracketPricing clamps every rate in the table and rejects
// bracket keys outside the enumerated set for the shipment class.
func sanitizeBracketPricing(pricing models.BracketPricing, allowed []models.WeightBracket) (models.BracketPricing, error) {
	sanitized := models.BracketPricing{}
	for bracket, row := range pricing {
		known := false
		for _, b := range allowed {
			if bracket == b {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: unknown weight bracket %q", ErrValidation, bracket)
		}
		sanitized[bracket] = row.Clamped()
	}
	return sanitized, nil
}

func validationDetail(err error) string {
	fieldErrors := utils.GetValidationErrors(err)
	if len(fieldErrors) == 0 {
		return err.Error()
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, "; ")
}
