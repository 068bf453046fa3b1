package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	healthservice "carelink/internal/health/service"
	healthstore "carelink/internal/health/store"
	"carelink/internal/permission"
	"carelink/internal/platform/middleware"
	profilemodels "carelink/internal/profile/models"
	profilestore "carelink/internal/profile/store"
	relationmodels "carelink/internal/relation/models"
	relationstore "carelink/internal/relation/store"
	id "carelink/pkg/domain"
)

const (
	testSeniorID = id.SeniorID("SNR-TEST00000001")
	signingKey   = "test-signing-key"
)

type HandlerSuite struct {
	suite.Suite

	relations *relationstore.InMemory
	records   *healthstore.InMemory
	router    chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	logger := slog.New(slog.DiscardHandler)

	profiles := profilestore.NewInMemory(profilestore.WithIDGenerator(func() id.SeniorID { return testSeniorID }))
	s.relations = relationstore.NewInMemory()
	s.records = healthstore.NewInMemory()

	profile, err := profilemodels.NewCaregiverCreated("Grandpa", 82, "male", "", "caregiver-admin", now)
	s.Require().NoError(err)
	s.Require().NoError(profiles.Create(ctx, profile))

	evaluator := permission.NewEvaluator(s.relations, profiles)
	gateway := healthservice.NewGateway(s.records, evaluator, healthservice.WithLogger(logger))

	s.router = chi.NewRouter()
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(middleware.NewHS256Validator(signingKey), logger))
		New(gateway, logger).Register(r)
	})
}

func (s *HandlerSuite) grant(caregiverID id.CaregiverID, perms relationmodels.Permissions) {
	relation := relationmodels.NewActive(caregiverID, testSeniorID, "family", "", "", time.Now().UTC())
	relation.Permissions = perms
	s.Require().NoError(s.relations.Create(context.Background(), relation))
}

func (s *HandlerSuite) token(caregiverID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": caregiverID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(signingKey))
	s.Require().NoError(err)
	return signed
}

func (s *HandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestMissingTokenIsUnauthorized() {
	rec := s.do(http.MethodGet, "/seniors/"+testSeniorID.String()+"/health/summary", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestGarbageTokenIsUnauthorized() {
	rec := s.do(http.MethodGet, "/seniors/"+testSeniorID.String()+"/health/summary", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestUnrelatedCaregiverIsForbidden() {
	rec := s.do(http.MethodGet, "/seniors/"+testSeniorID.String()+"/health/summary", s.token("stranger"), nil)
	s.Equal(http.StatusForbidden, rec.Code)

	var body map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("forbidden", body["code"])
}

func (s *HandlerSuite) TestViewerMayReadButNotWrite() {
	s.grant("caregiver-viewer", relationmodels.Permissions{ViewHealth: true})
	token := s.token("caregiver-viewer")

	rec := s.do(http.MethodGet, "/seniors/"+testSeniorID.String()+"/health/records", token, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/seniors/"+testSeniorID.String()+"/health/records", token, map[string]any{
		"type": "weight", "weight": 71.5,
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestEditorSavesRecord() {
	s.grant("caregiver-editor", relationmodels.Permissions{ViewHealth: true, EditHealth: true})
	token := s.token("caregiver-editor")

	rec := s.do(http.MethodPost, "/seniors/"+testSeniorID.String()+"/health/records", token, map[string]any{
		"type": "blood_pressure", "systolic": 120, "diastolic": 80,
	})
	s.Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/seniors/"+testSeniorID.String()+"/health/summary", token, nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "blood_pressure")
}

func (s *HandlerSuite) TestInvalidMeasurementIsBadRequest() {
	s.grant("caregiver-editor", relationmodels.Permissions{EditHealth: true})

	rec := s.do(http.MethodPost, "/seniors/"+testSeniorID.String()+"/health/records", s.token("caregiver-editor"), map[string]any{
		"type": "blood_pressure", "systolic": 110, "diastolic": 130,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}
