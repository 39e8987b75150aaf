package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cargoseal/cargoseal_backend/internal/apperrors"
	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
	"github.com/cargoseal/cargoseal_backend/internal/handlers"
	"github.com/cargoseal/cargoseal_backend/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, actorID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccount(ctx context.Context, actorID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, actorID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, actorID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, actorID string, accountID string) error {
	args := m.Called(ctx, actorID, accountID)
	return args.Error(0)
}
func (m *MockAccountService) GetCompany(ctx context.Context, actorID string, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, actorID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockAccountService) ListCompanies(ctx context.Context, actorID string, params dto.ListCompaniesParams) (*dto.ListCompaniesResponse, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCompaniesResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Stub services for the rest of the container ---

type stubLedgerService struct{}

func (stubLedgerService) TransferCoins(context.Context, string, dto.TransferRequest) (*domain.CoinTransaction, error) {
	return nil, apperrors.ErrInternal
}
func (stubLedgerService) AllocateCoins(context.Context, string, dto.AllocateRequest) (*domain.CoinTransaction, error) {
	return nil, apperrors.ErrInternal
}
func (stubLedgerService) GetTransaction(context.Context, string, string) (*domain.CoinTransaction, error) {
	return nil, apperrors.ErrInternal
}
func (stubLedgerService) ListTransactions(context.Context, string, dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	return nil, apperrors.ErrInternal
}

type stubSessionService struct{}

func (stubSessionService) CreateSession(context.Context, string, dto.CreateSessionRequest) (*domain.Session, error) {
	return nil, apperrors.ErrInternal
}
func (stubSessionService) AttachSeal(context.Context, string, string, dto.AttachSealRequest) (*domain.Seal, error) {
	return nil, apperrors.ErrInternal
}
func (stubSessionService) VerifySeal(context.Context, string, string, dto.VerifySealRequest) (*domain.Session, error) {
	return nil, apperrors.ErrInternal
}
func (stubSessionService) AddComment(context.Context, string, string, dto.CreateCommentRequest) (*domain.Comment, error) {
	return nil, apperrors.ErrInternal
}
func (stubSessionService) GetSession(context.Context, string, string) (*domain.Session, error) {
	return nil, apperrors.ErrInternal
}
func (stubSessionService) ListSessions(context.Context, string, dto.ListSessionsParams) (*dto.ListSessionsResponse, error) {
	return nil, apperrors.ErrInternal
}

type stubActivityService struct{}

func (stubActivityService) ListActivity(context.Context, string, dto.ListActivityParams) (*dto.ListActivityResponse, error) {
	return nil, apperrors.ErrInternal
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, dto.LoginRequest, string, string) (*dto.LoginResponse, error) {
	return nil, apperrors.ErrUnauthorized
}
func (stubAuthService) Logout(context.Context, string, string, string) error {
	return nil
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

// generateTestToken creates a signed JWT for the given account.
func (suite *AccountHandlerTestSuite) generateTestToken(accountID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "cargoseal-test",
		Subject:   accountID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.mockAccountService = new(MockAccountService)

	cfg := &config.Config{
		JWTSecret:      suite.jwtSecret,
		LoginRateLimit: "5-M",
		IsProduction:   true, // no swagger routes under test
	}

	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Account:  suite.mockAccountService,
		Ledger:   stubLedgerService{},
		Session:  stubSessionService{},
		Activity: stubActivityService{},
		Auth:     stubAuthService{},
	})
}

func (suite *AccountHandlerTestSuite) doRequest(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	actorID := uuid.NewString()
	token := suite.generateTestToken(actorID)

	created := &domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Regional Admin",
		Email:     "admin@example.com",
		Role:      domain.RoleAdmin,
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, actorID,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.Email == "admin@example.com" && req.Role == domain.RoleAdmin
		}),
	).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", token, dto.CreateAccountRequest{
		Name:     "Regional Admin",
		Email:    "admin@example.com",
		Password: "supersecret1",
		Role:     domain.RoleAdmin,
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal(domain.RoleAdmin, resp.Role)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Forbidden() {
	actorID := uuid.NewString()
	token := suite.generateTestToken(actorID)

	suite.mockAccountService.On("CreateAccount", mock.Anything, actorID, mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(nil, fmt.Errorf("%w: role COMPANY may not create ADMIN accounts", apperrors.ErrForbidden)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", token, dto.CreateAccountRequest{
		Name:     "Nope",
		Email:    "nope@example.com",
		Password: "supersecret1",
		Role:     domain.RoleAdmin,
	})

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidBody() {
	actorID := uuid.NewString()
	token := suite.generateTestToken(actorID)

	// Missing required fields never reaches the service.
	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", token, map[string]string{"name": "x"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	actorID := uuid.NewString()
	targetID := uuid.NewString()
	token := suite.generateTestToken(actorID)

	suite.mockAccountService.On("GetAccount", mock.Anything, actorID, targetID).
		Return(nil, fmt.Errorf("failed to find account %s: %w", targetID, apperrors.ErrNotFound)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+targetID, token, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_HasDependents() {
	actorID := uuid.NewString()
	targetID := uuid.NewString()
	token := suite.generateTestToken(actorID)

	suite.mockAccountService.On("DeleteAccount", mock.Anything, actorID, targetID).
		Return(fmt.Errorf("%w: account %s created 2 accounts", apperrors.ErrHasDependents, targetID)).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/accounts/"+targetID, token, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_MissingToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), "", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccount")
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
