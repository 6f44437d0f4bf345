package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bankledger/internal/dto"
	"bankledger/internal/models"
	"bankledger/internal/services"
	"bankledger/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// AuthHandlerSuite defines the test suite for AuthHandler
type AuthHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockAuthServiceInterface
	handler     *AuthHandler
	echo        *echo.Echo
}

// SetupTest runs before each test in the suite
func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockAuthServiceInterface(s.ctrl)
	s.handler = NewAuthHandler(s.mockService)

	s.echo = echo.New()
	s.echo.Validator = NewValidator()
}

// TearDownTest runs after each test in the suite
func (s *AuthHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

// TestAuthHandlerSuite runs the test suite
func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) createContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "test-agent")

	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *AuthHandlerSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	errObj, ok := resp["error"].(map[string]interface{})
	s.Require().True(ok, "expected error envelope, got %s", rec.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// Test Register functionality
func (s *AuthHandlerSuite) TestRegister_Success() {
	reqBody := dto.RegisterRequest{
		Email:     "jane.doe@example.com",
		Password:  "SecurePass123!",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	expectedUser := &models.User{
		ID:        uuid.New(),
		Email:     reqBody.Email,
		FirstName: reqBody.FirstName,
		LastName:  reqBody.LastName,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
	}

	s.mockService.EXPECT().
		Register(gomock.Any(), gomock.Any(), "test-agent").
		DoAndReturn(func(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
			s.Equal(reqBody.Email, req.Email)
			return expectedUser, nil
		})

	c, rec := s.createContext("POST", "/auth/register", reqBody)

	err := s.handler.Register(c)
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)

	var resp SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("User registered successfully", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	s.Require().True(ok)
	s.Equal(reqBody.Email, data["email"])
	s.NotContains(data, "password")
}

func (s *AuthHandlerSuite) TestRegister_EmailAlreadyExists() {
	reqBody := dto.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "SecurePass123!",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	s.mockService.EXPECT().
		Register(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrUserAlreadyExists)

	c, rec := s.createContext("POST", "/auth/register", reqBody)

	err := s.handler.Register(c)
	s.NoError(err)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("AUTH_007", s.errorCode(rec))
}

func (s *AuthHandlerSuite) TestRegister_InvalidEmail() {
	reqBody := dto.RegisterRequest{
		Email:     "not-an-email",
		Password:  "SecurePass123!",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	c, _ := s.createContext("POST", "/auth/register", reqBody)

	err := s.handler.Register(c)
	s.Error(err)
}

func (s *AuthHandlerSuite) TestRegister_ShortPassword() {
	reqBody := dto.RegisterRequest{
		Email:     "jane.doe@example.com",
		Password:  "short",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	c, _ := s.createContext("POST", "/auth/register", reqBody)

	err := s.handler.Register(c)
	s.Error(err)
}

// Test Login functionality
func (s *AuthHandlerSuite) TestLogin_Success() {
	reqBody := dto.LoginRequest{
		Email:    "jane.doe@example.com",
		Password: "SecurePass123!",
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	tokens := &dto.TokenResponse{
		AccessToken: "header.payload.signature",
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}

	s.mockService.EXPECT().
		Login(gomock.Any(), gomock.Any(), "test-agent").
		Return(tokens, nil)

	c, rec := s.createContext("POST", "/auth/login", reqBody)

	err := s.handler.Login(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.TokenResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("header.payload.signature", resp.AccessToken)
	s.Equal("Bearer", resp.TokenType)
}

func (s *AuthHandlerSuite) TestLogin_InvalidCredentials() {
	reqBody := dto.LoginRequest{
		Email:    "jane.doe@example.com",
		Password: "WrongPass123!",
	}

	s.mockService.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrInvalidCredentials)

	c, rec := s.createContext("POST", "/auth/login", reqBody)

	err := s.handler.Login(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_001", s.errorCode(rec))
}

func (s *AuthHandlerSuite) TestLogin_AccountLocked() {
	reqBody := dto.LoginRequest{
		Email:    "locked@example.com",
		Password: "SecurePass123!",
	}

	s.mockService.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrAccountLocked)

	c, rec := s.createContext("POST", "/auth/login", reqBody)

	err := s.handler.Login(c)
	s.NoError(err)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("AUTH_006", s.errorCode(rec))
}

func (s *AuthHandlerSuite) TestLogin_ForwardsClientIP() {
	reqBody := dto.LoginRequest{
		Email:    "jane.doe@example.com",
		Password: "SecurePass123!",
	}

	jsonBody, _ := json.Marshal(reqBody)
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.mockService.EXPECT().
		Login(gomock.Any(), "203.0.113.7", gomock.Any()).
		Return(&dto.TokenResponse{AccessToken: "t", TokenType: "Bearer"}, nil)

	err := s.handler.Login(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}
