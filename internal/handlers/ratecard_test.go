// internal/handlers/ratecard_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/middleware"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/services"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/utils"
)

type RateCardHandlerTestSuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	adminToken string
}

func (s *RateCardHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.RateCard{}, &models.ApprovalToken{}, &models.AuditLog{}))
	s.db = db

	rateCardService := services.NewRateCardService(db)
	approvalService := services.NewApprovalService(db, nil)
	tokenService := services.NewTokenService(db, nil)

	rateCardHandler := NewRateCardHandler(rateCardService, approvalService, tokenService)
	publicHandler := NewPublicApprovalHandler(tokenService, approvalService)

	utils.SetJWTSecret("test-secret")
	s.adminToken, err = utils.GenerateJWT("admin-1", "Admin User", "admin", 1)
	s.Require().NoError(err)

	r := gin.New()
	rateCards := r.Group("/rate-cards")
	rateCards.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		rateCards.GET("", rateCardHandler.GetRateCards)
		rateCards.POST("", rateCardHandler.CreateRateCard)
		rateCards.GET("/pending/count", rateCardHandler.GetPendingCount)
		rateCards.GET("/:id", rateCardHandler.GetRateCard)
		rateCards.PUT("/:id", rateCardHandler.UpdateRateCard)
		rateCards.DELETE("/:id", rateCardHandler.DeleteRateCard)
		rateCards.PATCH("/:id/approve", rateCardHandler.ApproveRateCard)
		rateCards.PATCH("/:id/reject", rateCardHandler.RejectRateCard)
		rateCards.POST("/:id/send-approval-link", rateCardHandler.SendApprovalLink)
	}
	public := r.Group("/public/rate-cards")
	{
		public.GET("/:token", publicHandler.GetRateCard)
		public.POST("/:token/approve", publicHandler.ApproveRateCard)
		public.POST("/:token/reject", publicHandler.RejectRateCard)
	}
	s.router = r
}

func (s *RateCardHandlerTestSuite) request(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.adminToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RateCardHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *RateCardHandlerTestSuite) createRateCard(body map[string]interface{}) (string, map[string]interface{}) {
	w := s.request("POST", "/rate-cards", body, true)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	resp := s.decode(w)
	s.Require().True(resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	card := data["rate_card"].(map[string]interface{})
	return card["id"].(string), data
}

func (s *RateCardHandlerTestSuite) TestAuthGuards() {
	w := s.request("GET", "/rate-cards", nil, false)
	s.Equal(http.StatusUnauthorized, w.Code)

	officeToken, err := utils.GenerateJWT("office-1", "Office User", "office", 1)
	s.Require().NoError(err)
	req, _ := http.NewRequest("GET", "/rate-cards", nil)
	req.Header.Set("Authorization", "Bearer "+officeToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RateCardHandlerTestSuite) TestCreateAndFetch() {
	id, _ := s.createRateCard(map[string]interface{}{
		"name": "Acme Q1",
		"doxPricing": map[string]interface{}{
			"0.1g-250g": map[string]interface{}{"assam": 40},
		},
		"clientContact": map[string]interface{}{"email": "a@acme.com"},
	})

	w := s.request("GET", "/rate-cards/"+id, nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	card := resp["data"].(map[string]interface{})["rate_card"].(map[string]interface{})

	s.Equal("pending", card["status"])
	s.Equal(float64(15), card["fuelChargePercentage"])
	row := card["doxPricing"].(map[string]interface{})["0.1g-250g"].(map[string]interface{})
	s.Equal(float64(40), row["assam"])
	s.Equal(float64(0), row["restOfIndia"])
}

func (s *RateCardHandlerTestSuite) TestCreateValidationError() {
	w := s.request("POST", "/rate-cards", map[string]interface{}{"name": "  "}, true)
	s.Equal(http.StatusBadRequest, w.Code)
	resp := s.decode(w)
	s.False(resp["success"].(bool))
}

func (s *RateCardHandlerTestSuite) TestListPaginationEnvelope() {
	for i := 0; i < 3; i++ {
		s.createRateCard(map[string]interface{}{"name": fmt.Sprintf("Card %d", i)})
	}

	w := s.request("GET", "/rate-cards?page=1&pageSize=2", nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	resp := s.decode(w)
	s.True(resp["success"].(bool))
	s.Len(resp["data"].([]interface{}), 2)

	pagination := resp["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	s.Equal(float64(3), pagination["totalCount"])
	s.Equal(float64(2), pagination["totalPages"])
}

func (s *RateCardHandlerTestSuite) TestListRejectsUnknownStatus() {
	w := s.request("GET", "/rate-cards?status=archived", nil, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateCardHandlerTestSuite) TestGetUnknownID() {
	w := s.request("GET", "/rate-cards/8b8f93f4-74c5-4c1e-9c5c-111111111111", nil, true)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.request("GET", "/rate-cards/not-a-uuid", nil, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateCardHandlerTestSuite) TestAdminApproveRejectConflict() {
	id, _ := s.createRateCard(map[string]interface{}{"name": "Decide me"})

	w := s.request("PATCH", "/rate-cards/"+id+"/approve", map[string]interface{}{"approvedBy": "Head Office"}, true)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	card := s.decode(w)["data"].(map[string]interface{})["rate_card"].(map[string]interface{})
	s.Equal("approved", card["status"])
	s.Equal("Head Office", card["approvedBy"])
	s.Equal("internal", card["approvalChannel"])

	w = s.request("PATCH", "/rate-cards/"+id+"/reject",
		map[string]interface{}{"rejectionReason": "late"}, true)
	s.Equal(http.StatusConflict, w.Code)

	w = s.request("PUT", "/rate-cards/"+id, map[string]interface{}{"name": "Renamed"}, true)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *RateCardHandlerTestSuite) TestRejectRequiresReason() {
	id, _ := s.createRateCard(map[string]interface{}{"name": "Keep pending"})

	w := s.request("PATCH", "/rate-cards/"+id+"/reject",
		map[string]interface{}{"rejectionReason": "   "}, true)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request("GET", "/rate-cards/"+id, nil, true)
	card := s.decode(w)["data"].(map[string]interface{})["rate_card"].(map[string]interface{})
	s.Equal("pending", card["status"])
}

func (s *RateCardHandlerTestSuite) TestApproveFallsBackToAdminIdentity() {
	id, _ := s.createRateCard(map[string]interface{}{"name": "Implicit approver"})

	w := s.request("PATCH", "/rate-cards/"+id+"/approve", nil, true)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	card := s.decode(w)["data"].(map[string]interface{})["rate_card"].(map[string]interface{})
	s.Equal("Admin User", card["approvedBy"])
}

func (s *RateCardHandlerTestSuite) TestPublicFlow() {
	id, data := s.createRateCard(map[string]interface{}{
		"name":             "Acme Q1",
		"clientContact":    map[string]interface{}{"email": "a@acme.com", "name": "Jane Doe"},
		"sendApprovalLink": true,
	})
	token := data["approval_token"].(string)

	// Client opens the link; refresh keeps working.
	for i := 0; i < 2; i++ {
		w := s.request("GET", "/public/rate-cards/"+token, nil, false)
		s.Require().Equal(http.StatusOK, w.Code)
	}

	w := s.request("POST", "/public/rate-cards/"+token+"/approve",
		map[string]interface{}{"approvedBy": "Jane Doe"}, false)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	card := s.decode(w)["data"].(map[string]interface{})["rate_card"].(map[string]interface{})
	s.Equal("approved", card["status"])
	s.Equal("public", card["approvalChannel"])
	s.Equal("Jane Doe", card["approvedBy"])

	// The link is dead once a decision landed.
	w = s.request("GET", "/public/rate-cards/"+token, nil, false)
	s.Equal(http.StatusNotFound, w.Code)

	// And the admin channel sees the conflict.
	w = s.request("PATCH", "/rate-cards/"+id+"/approve",
		map[string]interface{}{"approvedBy": "Admin"}, true)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *RateCardHandlerTestSuite) TestPublicRejectRequiresReason() {
	_, data := s.createRateCard(map[string]interface{}{
		"name":             "Public reject",
		"clientContact":    map[string]interface{}{"email": "a@acme.com"},
		"sendApprovalLink": true,
	})
	token := data["approval_token"].(string)

	w := s.request("POST", "/public/rate-cards/"+token+"/reject",
		map[string]interface{}{"rejectedBy": "Jane Doe"}, false)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request("POST", "/public/rate-cards/"+token+"/reject",
		map[string]interface{}{"rejectedBy": "Jane Doe", "rejectionReason": "too costly"}, false)
	s.Require().Equal(http.StatusOK, w.Code)
	card := s.decode(w)["data"].(map[string]interface{})["rate_card"].(map[string]interface{})
	s.Equal("rejected", card["status"])
	s.Equal("too costly", card["rejectionReason"])
}

func (s *RateCardHandlerTestSuite) TestPublicUnknownToken() {
	w := s.request("GET", "/public/rate-cards/bogus", nil, false)
	s.Equal(http.StatusNotFound, w.Code)
	resp := s.decode(w)
	s.Equal("TOKEN_INVALID", resp["error"].(map[string]interface{})["code"])
}

func (s *RateCardHandlerTestSuite) TestSendApprovalLinkRequiresContact() {
	id, _ := s.createRateCard(map[string]interface{}{"name": "No contact"})

	w := s.request("POST", "/rate-cards/"+id+"/send-approval-link", nil, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RateCardHandlerTestSuite) TestDelete() {
	id, _ := s.createRateCard(map[string]interface{}{"name": "Doomed"})

	w := s.request("DELETE", "/rate-cards/"+id, nil, true)
	s.Equal(http.StatusOK, w.Code)

	w = s.request("GET", "/rate-cards/"+id, nil, true)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RateCardHandlerTestSuite) TestPendingCount() {
	s.createRateCard(map[string]interface{}{"name": "P1"})
	s.createRateCard(map[string]interface{}{"name": "P2"})

	w := s.request("GET", "/rate-cards/pending/count", nil, true)
	s.Require().Equal(http.StatusOK, w.Code)
	data := s.decode(w)["data"].(map[string]interface{})
	s.Equal(float64(2), data["count"])
}

func TestRateCardHandlerSuite(t *testing.T) {
	suite.Run(t, new(RateCardHandlerTestSuite))
}
