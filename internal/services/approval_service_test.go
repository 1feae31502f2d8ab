// internal/services/approval_service_test.go
package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	rateCards *RateCardService
	tokens    *TokenService
	approvals *ApprovalService
}

func (s *ApprovalServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.rateCards = NewRateCardService(s.db)
	s.tokens = NewTokenService(s.db, nil)
	s.approvals = NewApprovalService(s.db, nil)
}

func (s *ApprovalServiceTestSuite) newPendingCard(name string) *models.RateCard {
	rateCard, err := s.rateCards.Create("operator", &CreateRateCardRequest{
		Name:          name,
		ClientContact: models.ClientContact{Email: "client@corp.com", Company: "Corp"},
	})
	s.Require().NoError(err)
	return rateCard
}

func (s *ApprovalServiceTestSuite) TestApprove() {
	rateCard := s.newPendingCard("To approve")

	approved, err := s.approvals.Approve(rateCard.ID, "Admin A", models.ApprovalChannelInternal)
	s.Require().NoError(err)

	s.Equal(models.RateCardStatusApproved, approved.Status)
	s.Equal("Admin A", approved.ApprovedBy)
	s.Equal(models.ApprovalChannelInternal, approved.ApprovalChannel)
	s.Require().NotNil(approved.ApprovedAt)
	s.Empty(approved.RejectionReason)
}

func (s *ApprovalServiceTestSuite) TestReject() {
	rateCard := s.newPendingCard("To reject")

	rejected, err := s.approvals.Reject(rateCard.ID, "Admin B", "rates outdated", models.ApprovalChannelInternal)
	s.Require().NoError(err)

	s.Equal(models.RateCardStatusRejected, rejected.Status)
	s.Equal("Admin B", rejected.RejectedBy)
	s.Equal("rates outdated", rejected.RejectionReason)
	s.Require().NotNil(rejected.RejectedAt)
	s.Empty(rejected.ApprovedBy)
}

func (s *ApprovalServiceTestSuite) TestApproveRequiresName() {
	rateCard := s.newPendingCard("Nameless")

	_, err := s.approvals.Approve(rateCard.ID, "   ", models.ApprovalChannelPublic)
	s.ErrorIs(err, ErrValidation)

	current, err := s.rateCards.Get(rateCard.ID)
	s.Require().NoError(err)
	s.Equal(models.RateCardStatusPending, current.Status)
}

func (s *ApprovalServiceTestSuite) TestRejectRequiresReason() {
	rateCard := s.newPendingCard("Reasonless")

	_, err := s.approvals.Reject(rateCard.ID, "Admin", "   ", models.ApprovalChannelInternal)
	s.ErrorIs(err, ErrValidation)

	current, err := s.rateCards.Get(rateCard.ID)
	s.Require().NoError(err)
	s.Equal(models.RateCardStatusPending, current.Status)
	s.Empty(current.RejectionReason)
}

func (s *ApprovalServiceTestSuite) TestNotFound() {
	_, err := s.approvals.Approve(uuid.New(), "Admin", models.ApprovalChannelInternal)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ApprovalServiceTestSuite) TestTerminalStateIsMonotonic() {
	rateCard := s.newPendingCard("Once only")

	approved, err := s.approvals.Approve(rateCard.ID, "First Admin", models.ApprovalChannelInternal)
	s.Require().NoError(err)

	_, err = s.approvals.Approve(rateCard.ID, "Second Admin", models.ApprovalChannelPublic)
	s.ErrorIs(err, ErrAlreadyProcessed)
	_, err = s.approvals.Reject(rateCard.ID, "Second Admin", "changed my mind", models.ApprovalChannelPublic)
	s.ErrorIs(err, ErrAlreadyProcessed)

	current, err := s.rateCards.Get(rateCard.ID)
	s.Require().NoError(err)
	s.Equal(models.RateCardStatusApproved, current.Status)
	s.Equal("First Admin", current.ApprovedBy)
	s.Equal(models.ApprovalChannelInternal, current.ApprovalChannel)
	s.Equal(approved.UpdatedAt, current.UpdatedAt)
	s.Empty(current.RejectionReason)
}

func (s *ApprovalServiceTestSuite) TestChannelRaceSingleWinner() {
	// Admin approval and public rejection contend for the same pending
	// card from separate goroutines; exactly one lands and the token is
	// spent either way.
	rateCard := s.newPendingCard("Contended")
	token, err := s.tokens.Issue(rateCard.ID)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	var adminErr, publicErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, adminErr = s.approvals.Approve(rateCard.ID, "Admin", models.ApprovalChannelInternal)
	}()
	go func() {
		defer wg.Done()
		_, publicErr = s.approvals.Reject(rateCard.ID, "Jane Doe", "too expensive", models.ApprovalChannelPublic)
	}()
	wg.Wait()

	if adminErr == nil {
		s.ErrorIs(publicErr, ErrAlreadyProcessed)
	} else {
		s.ErrorIs(adminErr, ErrAlreadyProcessed)
		s.NoError(publicErr)
	}

	current, err := s.rateCards.Get(rateCard.ID)
	s.Require().NoError(err)
	if adminErr == nil {
		s.Equal(models.RateCardStatusApproved, current.Status)
		s.Equal("Admin", current.ApprovedBy)
		s.Equal(models.ApprovalChannelInternal, current.ApprovalChannel)
	} else {
		s.Equal(models.RateCardStatusRejected, current.Status)
		s.Equal("Jane Doe", current.RejectedBy)
		s.Equal(models.ApprovalChannelPublic, current.ApprovalChannel)
	}

	var stored models.ApprovalToken
	s.Require().NoError(s.db.First(&stored, "token = ?", token.Token).Error)
	s.True(stored.Consumed())

	_, err = s.tokens.Resolve(token.Token)
	s.ErrorIs(err, ErrTokenInvalid)
}

func (s *ApprovalServiceTestSuite) TestPublicApprovalRecordsFreeformName() {
	rateCard := s.newPendingCard("Public approval")

	approved, err := s.approvals.Approve(rateCard.ID, "Jane Doe", models.ApprovalChannelPublic)
	s.Require().NoError(err)

	s.Equal("Jane Doe", approved.ApprovedBy)
	s.Equal(models.ApprovalChannelPublic, approved.ApprovalChannel)
}

func TestApprovalServiceSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
