package service

//go:generate mockgen -source=coordinator.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"carelink/internal/issuer"
	"carelink/internal/profile/models"
	provisionmodels "carelink/internal/provision/models"
	"carelink/internal/provision/service/mocks"
	relationmodels "carelink/internal/relation/models"
	id "carelink/pkg/domain"
	dErrors "carelink/pkg/domain-errors"
	"carelink/pkg/identity"
	"carelink/pkg/platform/audit"
	"carelink/pkg/platform/sentinel"
	"carelink/pkg/requestcontext"
)

const testSeniorID = id.SeniorID("SNR-K7M2P9X4QW1A")

type CoordinatorSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	profiles  *mocks.MockProfileStore
	relations *mocks.MockRelationStore
	records   *mocks.MockHealthRecordStore
	authz     *mocks.MockAuthorizer
	issuer    *issuer.Fake
	auditLog  *audit.InMemoryStore

	now time.Time
	ctx context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.profiles = mocks.NewMockProfileStore(s.ctrl)
	s.relations = mocks.NewMockRelationStore(s.ctrl)
	s.records = mocks.NewMockHealthRecordStore(s.ctrl)
	s.authz = mocks.NewMockAuthorizer(s.ctrl)
	s.issuer = issuer.NewFake()
	s.auditLog = audit.NewInMemoryStore()

	s.now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *CoordinatorSuite) newCoordinator(opts ...Option) *Coordinator {
	opts = append(opts, WithAuditPublisher(s.auditLog))
	return NewCoordinator(s.profiles, s.relations, s.records, s.issuer, s.authz, opts...)
}

// expectProfileCreate stubs the store's id assignment the way the real
// stores do it.
func (s *CoordinatorSuite) expectProfileCreate() {
	s.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *models.SeniorProfile) error {
			p.ID = testSeniorID
			return nil
		},
	)
}

func (s *CoordinatorSuite) TestCreateSeniorIdentity_HappyPath() {
	caregiverID := id.CaregiverID("caregiver-1")

	s.expectProfileCreate()
	s.profiles.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	var created *relationmodels.CaregiverRelation
	s.relations.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *relationmodels.CaregiverRelation) error {
			created = r
			return nil
		},
	)

	result, err := s.newCoordinator().CreateSeniorIdentity(s.ctx, provisionmodels.CreateSeniorRequest{
		Name:      "Grandpa",
		Age:       82,
		Gender:    "male",
		CreatorID: caregiverID,
		Label:     "family",
		Nickname:  "Dad",
	})
	s.Require().NoError(err)
	s.Require().NotNil(result)

	s.Equal(testSeniorID, result.Profile.ID)
	s.False(result.Profile.AccountID.IsEmpty())
	s.Equal(identity.DeriveAddress(testSeniorID), result.Account.Email)
	s.NotEmpty(result.Account.Password)
	s.True(s.issuer.HasAccount(testSeniorID))
	s.NoError(s.issuer.Verify(testSeniorID, result.Account.Password))

	s.Require().NotNil(created)
	s.Equal(caregiverID, created.CaregiverID)
	s.Equal(testSeniorID, created.SeniorID)
	s.Equal(relationmodels.StatusActive, created.Status)
	s.Equal(relationmodels.FullPermissions(), created.Permissions)
	s.Equal(caregiverID, created.ApproverID)
	s.Equal(result.Account.Password, created.PasswordCopy)
	s.Equal("Dad", created.Nickname)

	payload, err := provisionmodels.DecodeLoginPayload(result.LoginPayload.Encode())
	s.Require().NoError(err)
	s.Equal(testSeniorID, payload.SeniorID)
	s.Equal(result.Account.Password, payload.Password)

	events := s.auditLog.ListBySenior(testSeniorID)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionSeniorProvisioned, events[0].Action)
	s.Equal(s.now, events[0].Timestamp)
}

func (s *CoordinatorSuite) TestCreateSeniorIdentity_ValidationFailsBeforeAnyWrite() {
	// No EXPECT calls registered: the controller fails the test if any
	// store or issuer call happens.
	cases := []struct {
		name string
		req  provisionmodels.CreateSeniorRequest
	}{
		{"blank name", provisionmodels.CreateSeniorRequest{Name: "   ", Age: 80, CreatorID: "caregiver-1"}},
		{"age too low", provisionmodels.CreateSeniorRequest{Name: "Grandpa", Age: 0, CreatorID: "caregiver-1"}},
		{"age too high", provisionmodels.CreateSeniorRequest{Name: "Grandpa", Age: 151, CreatorID: "caregiver-1"}},
		{"missing creator", provisionmodels.CreateSeniorRequest{Name: "Grandpa", Age: 80}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			result, err := s.newCoordinator().CreateSeniorIdentity(s.ctx, tc.req)
			s.Require().Error(err)
			s.Nil(result)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func (s *CoordinatorSuite) TestCreateSeniorIdentity_IssuerFailureLeavesOrphanedProfile() {
	s.issuer = issuer.NewFake(issuer.FailCreateWith(errors.New("issuer unreachable")))

	s.expectProfileCreate()
	// No Update, no relation Create: the saga stops at the issuer.

	result, err := s.newCoordinator().CreateSeniorIdentity(s.ctx, provisionmodels.CreateSeniorRequest{
		Name:      "Grandpa",
		Age:       82,
		CreatorID: "caregiver-1",
	})
	s.Require().Error(err)
	s.Nil(result)
	s.True(dErrors.HasCode(err, dErrors.CodeExternalService))

	events := s.auditLog.ListBySenior(testSeniorID)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionProfileOrphaned, events[0].Action)
}

func (s *CoordinatorSuite) TestCreateSeniorIdentity_TicketFailureIsNonFatal() {
	tickets := mocks.NewMockTicketStore(s.ctrl)
	tickets.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), 10*time.Minute).
		Return(errors.New("redis down"))

	s.expectProfileCreate()
	s.profiles.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	s.relations.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	coord := s.newCoordinator(WithTicketStore(tickets, 10*time.Minute))
	result, err := coord.CreateSeniorIdentity(s.ctx, provisionmodels.CreateSeniorRequest{
		Name:      "Grandpa",
		Age:       82,
		CreatorID: "caregiver-1",
	})
	s.Require().NoError(err)
	s.Empty(result.TicketID)
	s.NotEmpty(result.LoginPayload.Password)
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_NotFound() {
	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(nil, sentinel.ErrNotFound)

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "caregiver-1")
	s.Require().Error(err)
	s.Nil(report)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_ForbiddenForUnrelatedCaregiver() {
	profile := s.storedProfile("caregiver-1")
	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(profile, nil)
	s.authz.EXPECT().CanApproveRequests(gomock.Any(), id.CaregiverID("stranger"), testSeniorID).
		Return(false, nil)

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "stranger")
	s.Require().Error(err)
	s.Nil(report)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_CreatorHappyPath() {
	s.seedIssuedAccount()
	profile := s.storedProfile("caregiver-1")

	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(profile, nil)
	s.records.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(3, nil)
	s.relations.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(2, nil)
	s.profiles.EXPECT().Delete(gomock.Any(), testSeniorID).Return(nil)

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "caregiver-1")
	s.Require().NoError(err)
	s.Equal(3, report.RecordsDeleted)
	s.Equal(2, report.RelationsDeleted)
	s.True(report.ProfileDeleted)
	s.True(report.AccountRevoked)
	s.Empty(report.CleanupErrors)
	s.False(s.issuer.HasAccount(testSeniorID))
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_ApproverMayDelete() {
	s.seedIssuedAccount()
	profile := s.storedProfile("caregiver-1")

	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(profile, nil)
	s.authz.EXPECT().CanApproveRequests(gomock.Any(), id.CaregiverID("caregiver-2"), testSeniorID).
		Return(true, nil)
	s.records.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(0, nil)
	s.relations.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(1, nil)
	s.profiles.EXPECT().Delete(gomock.Any(), testSeniorID).Return(nil)

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "caregiver-2")
	s.Require().NoError(err)
	s.True(report.ProfileDeleted)
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_CleanupFailuresAreReportedNotRaised() {
	s.seedIssuedAccount()
	profile := s.storedProfile("caregiver-1")

	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(profile, nil)
	s.records.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(0, errors.New("records table locked"))
	s.relations.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(2, nil)
	s.profiles.EXPECT().Delete(gomock.Any(), testSeniorID).Return(nil)

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "caregiver-1")
	s.Require().NoError(err)
	s.Equal(0, report.RecordsDeleted)
	s.Equal(2, report.RelationsDeleted)
	s.True(report.ProfileDeleted)
	s.True(report.AccountRevoked)
	s.Require().Len(report.CleanupErrors, 1)
	s.Contains(report.CleanupErrors[0], "health records")
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_ProfileDeleteFailureAborts() {
	s.seedIssuedAccount()
	profile := s.storedProfile("caregiver-1")

	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(profile, nil)
	s.records.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(3, nil)
	s.relations.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(2, nil)
	s.profiles.EXPECT().Delete(gomock.Any(), testSeniorID).Return(errors.New("fk violation"))

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "caregiver-1")
	s.Require().NoError(err)
	s.False(report.ProfileDeleted)
	s.False(report.AccountRevoked)
	s.Zero(report.RecordsDeleted)
	s.Zero(report.RelationsDeleted)
	s.NotEmpty(report.CleanupErrors)
	// Revocation was skipped, the account must still exist.
	s.True(s.issuer.HasAccount(testSeniorID))
}

func (s *CoordinatorSuite) TestDeleteSeniorIdentity_RevokeFailureIsReported() {
	s.issuer = issuer.NewFake(issuer.FailDeleteWith(errors.New("issuer unreachable")))
	profile := s.storedProfile("caregiver-1")

	s.profiles.EXPECT().FindByID(gomock.Any(), testSeniorID).Return(profile, nil)
	s.records.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(0, nil)
	s.relations.EXPECT().DeleteBySenior(gomock.Any(), testSeniorID).Return(1, nil)
	s.profiles.EXPECT().Delete(gomock.Any(), testSeniorID).Return(nil)

	report, err := s.newCoordinator().DeleteSeniorIdentity(s.ctx, testSeniorID, "caregiver-1")
	s.Require().NoError(err)
	s.True(report.ProfileDeleted)
	s.False(report.AccountRevoked)
	s.Require().Len(report.CleanupErrors, 1)
	s.Contains(report.CleanupErrors[0], "account")
}

func (s *CoordinatorSuite) storedProfile(creator id.CaregiverID) *models.SeniorProfile {
	profile, err := models.NewCaregiverCreated("Grandpa", 82, "male", "", creator, s.now)
	s.Require().NoError(err)
	profile.ID = testSeniorID
	profile.BindAccount("acct-1", s.now)
	return profile
}

func (s *CoordinatorSuite) seedIssuedAccount() {
	_, err := s.issuer.CreateAccount(s.ctx, issuer.CreateRequest{SeniorID: testSeniorID, Name: "Grandpa"})
	s.Require().NoError(err)
}
