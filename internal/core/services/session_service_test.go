package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portsrepo "github.com/cargoseal/cargoseal_backend/internal/core/ports/repositories"
	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/core/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

// --- Test Suite Setup ---

type SessionServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockSessionRepo  *MockSessionRepository
	mockActivityRepo *MockActivityRepository
	service          portssvc.SessionSvcFacade

	companyID    string
	operatorID   string
	companyAccID string
	systemAccID  string
	operator     *domain.Account
	companyAcc   *domain.Account
	systemAcc    *domain.Account
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockActivityRepo = new(MockActivityRepository)
	suite.service = services.NewSessionService(suite.mockAccountRepo, suite.mockSessionRepo, suite.mockActivityRepo)

	suite.companyID = uuid.NewString()
	suite.operatorID = uuid.NewString()
	suite.companyAccID = uuid.NewString()
	suite.systemAccID = uuid.NewString()

	suite.operator = &domain.Account{
		AccountID: suite.operatorID,
		Role:      domain.RoleEmployee,
		Subrole:   subrolePtr(domain.SubroleOperator),
		CompanyID: &suite.companyID,
	}
	suite.companyAcc = &domain.Account{
		AccountID:   suite.companyAccID,
		Role:        domain.RoleCompany,
		CompanyID:   &suite.companyID,
		CoinBalance: 10,
	}
	suite.systemAcc = &domain.Account{
		AccountID: suite.systemAccID,
		Role:      domain.RoleSuperAdmin,
		IsSystem:  true,
	}
}

// --- CreateSession Test Cases ---

func (suite *SessionServiceTestSuite) TestCreateSession_WithBarcode_Success() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.operatorID).Return(suite.operator, nil).Once()
	suite.mockAccountRepo.On("FindCompanyAccount", ctx, suite.companyID).Return(suite.companyAcc, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx).Return(suite.systemAcc, nil).Once()
	suite.mockSessionRepo.On("SaveSession", ctx,
		mock.MatchedBy(func(session domain.Session) bool {
			return session.CompanyID == suite.companyID &&
				session.CreatedByID == suite.operatorID &&
				session.Status == domain.SessionInProgress
		}),
		mock.MatchedBy(func(seal *domain.Seal) bool {
			return seal != nil && seal.Barcode == "SEAL-001"
		}),
		mock.MatchedBy(func(debit domain.CoinTransaction) bool {
			return debit.FromAccountID == suite.companyAccID &&
				debit.ToAccountID == suite.systemAccID &&
				debit.Amount == 1 &&
				debit.Reason == domain.ReasonSessionStart
		}),
		mock.MatchedBy(func(entry domain.ActivityLogEntry) bool {
			return entry.ActorID == suite.operatorID && entry.Action == domain.ActionCreate
		}),
	).Return(nil).Once()

	session, err := suite.service.CreateSession(ctx, suite.operatorID, dto.CreateSessionRequest{
		Source:      "Mumbai",
		Destination: "Pune",
		Barcode:     stringPtr("SEAL-001"),
		TripDetails: map[string]any{"vehicle": "MH12AB1234"},
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(session)
	suite.Equal(domain.SessionInProgress, session.Status)
	suite.Require().NotNil(session.Seal)
	suite.Equal("SEAL-001", session.Seal.Barcode)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestCreateSession_WithoutBarcode_StaysPending() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.operatorID).Return(suite.operator, nil).Once()
	suite.mockAccountRepo.On("FindCompanyAccount", ctx, suite.companyID).Return(suite.companyAcc, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx).Return(suite.systemAcc, nil).Once()
	suite.mockSessionRepo.On("SaveSession", ctx,
		mock.MatchedBy(func(session domain.Session) bool {
			return session.Status == domain.SessionPending
		}),
		mock.MatchedBy(func(seal *domain.Seal) bool {
			return seal == nil
		}),
		mock.AnythingOfType("domain.CoinTransaction"),
		mock.AnythingOfType("domain.ActivityLogEntry"),
	).Return(nil).Once()

	session, err := suite.service.CreateSession(ctx, suite.operatorID, dto.CreateSessionRequest{
		Source:      "Delhi",
		Destination: "Jaipur",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(session)
	suite.Equal(domain.SessionPending, session.Status)
	suite.Nil(session.Seal)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestCreateSession_NonOperator_Forbidden() {
	ctx := context.Background()
	driverID := uuid.NewString()
	driver := &domain.Account{
		AccountID: driverID,
		Role:      domain.RoleEmployee,
		Subrole:   subrolePtr(domain.SubroleDriver),
		CompanyID: &suite.companyID,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, driverID).Return(driver, nil).Once()

	session, err := suite.service.CreateSession(ctx, driverID, dto.CreateSessionRequest{
		Source:      "Mumbai",
		Destination: "Pune",
	})

	suite.Require().Error(err)
	suite.Nil(session)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "SaveSession")
}

func (suite *SessionServiceTestSuite) TestCreateSession_EmptyPool_InsufficientBalance() {
	ctx := context.Background()
	suite.companyAcc.CoinBalance = 0

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.operatorID).Return(suite.operator, nil).Once()
	suite.mockAccountRepo.On("FindCompanyAccount", ctx, suite.companyID).Return(suite.companyAcc, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx).Return(suite.systemAcc, nil).Once()

	session, err := suite.service.CreateSession(ctx, suite.operatorID, dto.CreateSessionRequest{
		Source:      "Mumbai",
		Destination: "Pune",
	})

	suite.Require().Error(err)
	suite.Nil(session)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "SaveSession")
}

// --- AttachSeal Test Cases ---

func (suite *SessionServiceTestSuite) TestAttachSeal_Success() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionPending,
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()
	suite.mockSessionRepo.On("AttachSeal", ctx,
		mock.MatchedBy(func(seal domain.Seal) bool {
			return seal.SessionID == sessionID && seal.Barcode == "SEAL-XYZ"
		}),
		mock.AnythingOfType("domain.ActivityLogEntry"),
	).Return(nil).Once()

	seal, err := suite.service.AttachSeal(ctx, suite.operatorID, sessionID, dto.AttachSealRequest{Barcode: "SEAL-XYZ"})

	suite.Require().NoError(err)
	suite.Require().NotNil(seal)
	suite.Equal("SEAL-XYZ", seal.Barcode)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestAttachSeal_NotCreator_Forbidden() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: uuid.NewString(),
		Status:      domain.SessionPending,
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()

	seal, err := suite.service.AttachSeal(ctx, suite.operatorID, sessionID, dto.AttachSealRequest{Barcode: "SEAL-XYZ"})

	suite.Require().Error(err)
	suite.Nil(seal)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "AttachSeal")
}

func (suite *SessionServiceTestSuite) TestAttachSeal_AlreadySealed() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionInProgress,
		Seal:        &domain.Seal{SealID: uuid.NewString(), SessionID: sessionID, Barcode: "SEAL-OLD"},
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()

	seal, err := suite.service.AttachSeal(ctx, suite.operatorID, sessionID, dto.AttachSealRequest{Barcode: "SEAL-NEW"})

	suite.Require().Error(err)
	suite.Nil(seal)
	suite.ErrorIs(err, apperrors.ErrAlreadySealed)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "AttachSeal")
}

// --- VerifySeal Test Cases ---

func (suite *SessionServiceTestSuite) guardAccount(companyID string) (*domain.Account, string) {
	guardID := uuid.NewString()
	return &domain.Account{
		AccountID: guardID,
		Role:      domain.RoleEmployee,
		Subrole:   subrolePtr(domain.SubroleGuard),
		CompanyID: &companyID,
	}, guardID
}

func (suite *SessionServiceTestSuite) TestVerifySeal_Success() {
	ctx := context.Background()
	guard, guardID := suite.guardAccount(suite.companyID)
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionInProgress,
		Seal:        &domain.Seal{SealID: uuid.NewString(), SessionID: sessionID, Barcode: "SEAL-001"},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, guardID).Return(guard, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()
	suite.mockSessionRepo.On("VerifySeal", ctx, sessionID, guardID, mock.AnythingOfType("time.Time"),
		mock.MatchedBy(func(entry domain.ActivityLogEntry) bool {
			return entry.ActorID == guardID && entry.Action == domain.ActionUpdate
		}),
	).Return(nil).Once()

	verified, err := suite.service.VerifySeal(ctx, guardID, sessionID, dto.VerifySealRequest{
		Checks: []dto.SealVerificationCheck{
			{Field: "barcode", OperatorValue: "SEAL-001", GuardValue: "SEAL-001"},
		},
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(verified)
	suite.Equal(domain.SessionCompleted, verified.Status)
	suite.Require().NotNil(verified.Seal)
	suite.True(verified.Seal.Verified)
	suite.Require().NotNil(verified.Seal.VerifiedByID)
	suite.Equal(guardID, *verified.Seal.VerifiedByID)
	suite.NotNil(verified.Seal.ScannedAt)
	suite.WithinDuration(time.Now(), *verified.Seal.ScannedAt, time.Second)

	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestVerifySeal_NonGuard_Forbidden() {
	ctx := context.Background()
	sessionID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.operatorID).Return(suite.operator, nil).Once()

	verified, err := suite.service.VerifySeal(ctx, suite.operatorID, sessionID, dto.VerifySealRequest{})

	suite.Require().Error(err)
	suite.Nil(verified)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "VerifySeal")
}

func (suite *SessionServiceTestSuite) TestVerifySeal_DifferentCompany_Forbidden() {
	ctx := context.Background()
	guard, guardID := suite.guardAccount(uuid.NewString())
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionInProgress,
		Seal:        &domain.Seal{SealID: uuid.NewString(), SessionID: sessionID, Barcode: "SEAL-001"},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, guardID).Return(guard, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()

	verified, err := suite.service.VerifySeal(ctx, guardID, sessionID, dto.VerifySealRequest{})

	suite.Require().Error(err)
	suite.Nil(verified)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "VerifySeal")
}

func (suite *SessionServiceTestSuite) TestVerifySeal_AlreadyVerified() {
	ctx := context.Background()
	guard, guardID := suite.guardAccount(suite.companyID)
	otherGuardID := uuid.NewString()
	scannedAt := time.Now().Add(-time.Hour)
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionCompleted,
		Seal: &domain.Seal{
			SealID:       uuid.NewString(),
			SessionID:    sessionID,
			Barcode:      "SEAL-001",
			Verified:     true,
			VerifiedByID: &otherGuardID,
			ScannedAt:    &scannedAt,
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, guardID).Return(guard, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()

	verified, err := suite.service.VerifySeal(ctx, guardID, sessionID, dto.VerifySealRequest{})

	suite.Require().Error(err)
	suite.Nil(verified)
	suite.ErrorIs(err, apperrors.ErrAlreadyVerified)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "VerifySeal")
}

func (suite *SessionServiceTestSuite) TestVerifySeal_NoSeal_Conflict() {
	ctx := context.Background()
	guard, guardID := suite.guardAccount(suite.companyID)
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionPending,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, guardID).Return(guard, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()

	verified, err := suite.service.VerifySeal(ctx, guardID, sessionID, dto.VerifySealRequest{})

	suite.Require().Error(err)
	suite.Nil(verified)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "VerifySeal")
}

// --- Read Test Cases ---

func (suite *SessionServiceTestSuite) TestGetSession_Creator_RecordsView() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionPending,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.operatorID).Return(suite.operator, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()
	suite.mockActivityRepo.On("Record", ctx,
		mock.MatchedBy(func(entry domain.ActivityLogEntry) bool {
			return entry.ActorID == suite.operatorID &&
				entry.Action == domain.ActionView &&
				entry.TargetID != nil && *entry.TargetID == sessionID
		}),
	).Return(nil).Once()

	got, err := suite.service.GetSession(ctx, suite.operatorID, sessionID)

	suite.Require().NoError(err)
	suite.Equal(session, got)
	suite.mockActivityRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestGetSession_UnrelatedEmployee_Forbidden() {
	ctx := context.Background()
	driverID := uuid.NewString()
	driver := &domain.Account{
		AccountID: driverID,
		Role:      domain.RoleEmployee,
		Subrole:   subrolePtr(domain.SubroleDriver),
		CompanyID: &suite.companyID,
	}
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionPending,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, driverID).Return(driver, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()

	got, err := suite.service.GetSession(ctx, driverID, sessionID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockActivityRepo.AssertNotCalled(suite.T(), "Record")
}

func (suite *SessionServiceTestSuite) TestListSessions_GuardScoping() {
	ctx := context.Background()
	guard, guardID := suite.guardAccount(suite.companyID)

	suite.mockAccountRepo.On("FindAccountByID", ctx, guardID).Return(guard, nil).Once()
	suite.mockSessionRepo.On("ListSessions", ctx,
		mock.MatchedBy(func(filter portsrepo.SessionListFilter) bool {
			return filter.CompanyID != nil && *filter.CompanyID == suite.companyID &&
				filter.NeedsVerification &&
				filter.VerifiedByID != nil && *filter.VerifiedByID == guardID
		}),
		20, 0,
	).Return([]domain.Session{}, int64(0), nil).Once()

	resp, err := suite.service.ListSessions(ctx, guardID, dto.ListSessionsParams{Page: 1, Limit: 20})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestAddComment_Creator_Success() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	session := &domain.Session{
		SessionID:   sessionID,
		CompanyID:   suite.companyID,
		CreatedByID: suite.operatorID,
		Status:      domain.SessionInProgress,
		Seal:        &domain.Seal{SealID: uuid.NewString(), SessionID: sessionID, Barcode: "SEAL-001"},
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.operatorID).Return(suite.operator, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, sessionID).Return(session, nil).Once()
	suite.mockSessionRepo.On("SaveComment", ctx,
		mock.MatchedBy(func(comment domain.Comment) bool {
			return comment.SessionID == sessionID &&
				comment.AuthorID == suite.operatorID &&
				comment.Message == "truck departed on time"
		}),
	).Return(nil).Once()

	comment, err := suite.service.AddComment(ctx, suite.operatorID, sessionID, dto.CreateCommentRequest{
		Message: "truck departed on time",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(comment)
	suite.Equal("truck departed on time", comment.Message)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
