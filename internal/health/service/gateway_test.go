package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"carelink/internal/health/models"
	healthstore "carelink/internal/health/store"
	"carelink/internal/permission"
	profilemodels "carelink/internal/profile/models"
	profilestore "carelink/internal/profile/store"
	relationmodels "carelink/internal/relation/models"
	relationstore "carelink/internal/relation/store"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/platform/audit"
	"carelink/pkg/requestcontext"
)

const (
	testSeniorID  = id.SeniorID("SNR-TEST00000001")
	testAccountID = id.AccountID("acct-senior-1")
)

type GatewaySuite struct {
	suite.Suite

	records   *healthstore.InMemory
	relations *relationstore.InMemory
	profiles  *profilestore.InMemory
	auditLog  *audit.InMemoryStore
	gateway   *Gateway

	now time.Time
	ctx context.Context
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.records = healthstore.NewInMemory()
	s.relations = relationstore.NewInMemory()
	s.profiles = profilestore.NewInMemory(profilestore.WithIDGenerator(func() id.SeniorID { return testSeniorID }))
	s.auditLog = audit.NewInMemoryStore()

	evaluator := permission.NewEvaluator(s.relations, s.profiles)
	s.gateway = NewGateway(s.records, evaluator, WithAuditPublisher(s.auditLog))

	s.now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	profile, err := profilemodels.NewCaregiverCreated("Grandpa", 82, "male", "", "caregiver-admin", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.profiles.Create(s.ctx, profile))
	profile.BindAccount(testAccountID, s.now)
	s.Require().NoError(s.profiles.Update(s.ctx, profile))
}

// grant installs an active relation carrying the given flags.
func (s *GatewaySuite) grant(caregiverID id.CaregiverID, perms relationmodels.Permissions) {
	relation := relationmodels.NewActive(caregiverID, testSeniorID, "family", "", "", s.now)
	relation.Permissions = perms
	s.Require().NoError(s.relations.Create(s.ctx, relation))
}

func (s *GatewaySuite) seedRecord(recordType models.RecordType, recordedAt time.Time, mutate func(*models.HealthRecord)) *models.HealthRecord {
	record := &models.HealthRecord{
		SeniorID:   testSeniorID,
		Type:       recordType,
		RecordedBy: "caregiver-admin",
		RecordedAt: recordedAt,
		CreatedAt:  recordedAt,
	}
	if mutate != nil {
		mutate(record)
	}
	s.Require().NoError(s.records.Create(s.ctx, record))
	return record
}

func (s *GatewaySuite) TestSaveRecord_ViewOnlyCaregiverDenied() {
	// View permission alone does not allow writes.
	s.grant("caregiver-viewer", relationmodels.Permissions{ViewHealth: true})

	record := &models.HealthRecord{
		SeniorID: testSeniorID,
		Type:     models.TypeBloodPressure,
		Systolic: 120, Diastolic: 80,
	}
	_, err := s.gateway.SaveRecord(s.ctx, "caregiver-viewer", record)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	records, err := s.records.ListBySenior(s.ctx, testSeniorID)
	s.Require().NoError(err)
	s.Empty(records)

	events := s.auditLog.ListBySenior(testSeniorID)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionHealthAccessDenied, events[0].Action)
}

func (s *GatewaySuite) TestSaveRecord_EditorMayWrite() {
	s.grant("caregiver-editor", relationmodels.Permissions{ViewHealth: true, EditHealth: true})

	record := &models.HealthRecord{
		SeniorID: testSeniorID,
		Type:     models.TypeBloodPressure,
		Systolic: 120, Diastolic: 80, HeartRate: 72,
	}
	saved, err := s.gateway.SaveRecord(s.ctx, "caregiver-editor", record)
	s.Require().NoError(err)
	s.False(saved.ID.IsEmpty())
	s.Equal(id.CaregiverID("caregiver-editor"), saved.RecordedBy)
	s.Equal(s.now, saved.RecordedAt)

	events := s.auditLog.ListBySenior(testSeniorID)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionHealthRecordCreated, events[0].Action)
}

func (s *GatewaySuite) TestSaveRecord_SeniorOwnAccountMayWrite() {
	record := &models.HealthRecord{
		SeniorID: testSeniorID,
		Type:     models.TypeWeight,
		Weight:   71.5,
	}
	saved, err := s.gateway.SaveRecord(s.ctx, id.CaregiverID(testAccountID), record)
	s.Require().NoError(err)
	s.False(saved.ID.IsEmpty())
}

func (s *GatewaySuite) TestSaveRecord_InvertedBloodPressureRejected() {
	s.grant("caregiver-editor", relationmodels.Permissions{EditHealth: true})

	record := &models.HealthRecord{
		SeniorID: testSeniorID,
		Type:     models.TypeBloodPressure,
		Systolic: 110, Diastolic: 130,
	}
	_, err := s.gateway.SaveRecord(s.ctx, "caregiver-editor", record)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	records, err := s.records.ListBySenior(s.ctx, testSeniorID)
	s.Require().NoError(err)
	s.Empty(records)
}

func (s *GatewaySuite) TestListRecords_RequiresViewPermission() {
	_, err := s.gateway.ListRecords(s.ctx, "stranger", testSeniorID, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *GatewaySuite) TestListRecords_FiltersByType() {
	s.grant("caregiver-viewer", relationmodels.Permissions{ViewHealth: true})
	s.seedRecord(models.TypeWeight, s.now, func(r *models.HealthRecord) { r.Weight = 70 })
	s.seedRecord(models.TypeHeartRate, s.now.Add(time.Minute), func(r *models.HealthRecord) { r.HeartRate = 68 })

	all, err := s.gateway.ListRecords(s.ctx, "caregiver-viewer", testSeniorID, "")
	s.Require().NoError(err)
	s.Len(all, 2)
	// Newest first.
	s.Equal(models.TypeHeartRate, all[0].Type)

	weights, err := s.gateway.ListRecords(s.ctx, "caregiver-viewer", testSeniorID, models.TypeWeight)
	s.Require().NoError(err)
	s.Require().Len(weights, 1)
	s.Equal(70.0, weights[0].Weight)

	_, err = s.gateway.ListRecords(s.ctx, "caregiver-viewer", testSeniorID, "steps")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *GatewaySuite) TestSummary_LatestPerType() {
	s.grant("caregiver-viewer", relationmodels.Permissions{ViewHealth: true})
	s.seedRecord(models.TypeWeight, s.now.Add(-time.Hour), func(r *models.HealthRecord) { r.Weight = 70 })
	latestWeight := s.seedRecord(models.TypeWeight, s.now, func(r *models.HealthRecord) { r.Weight = 71 })
	s.seedRecord(models.TypeBloodSugar, s.now, func(r *models.HealthRecord) { r.BloodSugar = 5.4 })

	summary, err := s.gateway.Summary(s.ctx, "caregiver-viewer", testSeniorID)
	s.Require().NoError(err)
	s.Equal(testSeniorID, summary.SeniorID)
	s.Require().Len(summary.Latest, 2)
	s.Equal(latestWeight.ID, summary.Latest[models.TypeWeight].ID)
	s.Equal(5.4, summary.Latest[models.TypeBloodSugar].BloodSugar)
	s.NotContains(summary.Latest, models.TypeBloodPressure)
}

func (s *GatewaySuite) TestSummary_DeniedWithoutRelation() {
	_, err := s.gateway.Summary(s.ctx, "stranger", testSeniorID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}
