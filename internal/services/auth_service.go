package services

import (
	"errors"
	"fmt"
	"log/slog"

	"bankledger/internal/dto"
	"bankledger/internal/models"
	"bankledger/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
)

// AuthService owns registration and login. Every outcome, successful or
// not, leaves an audit record.
type AuthService struct {
	userRepo        repositories.UserRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface
	passwordService PasswordServiceInterface
	tokenService    TokenServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		metrics:         metrics,
		logger:          logger,
	}
}

// Register creates a customer from a registration request. The email must
// not already be taken and the password must satisfy the policy before it
// is hashed.
func (s *AuthService) Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	existingUser, err := s.userRepo.GetByEmail(req.Email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if existingUser != nil {
		s.recordAudit(nil, models.AuditActionRegister, "", ipAddress, userAgent,
			map[string]interface{}{"email": req.Email, "reason": "email_already_exists"})
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleCustomer,
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique index can still reject the email when a second
		// registration for it lands between the lookup above and this insert.
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			s.recordAudit(nil, models.AuditActionRegister, "", ipAddress, userAgent,
				map[string]interface{}{"email": req.Email, "reason": "email_already_exists"})
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.recordAudit(&user.ID, models.AuditActionRegister, user.ID.String(), ipAddress, userAgent, nil)
	s.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": "register"})

	return user, nil
}

// Login verifies credentials and returns a bearer token. Lookup misses and
// password mismatches both collapse into ErrInvalidCredentials so callers
// cannot probe which emails exist. Three bad passwords lock the account.
func (s *AuthService) Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.recordAudit(nil, models.AuditActionFailedLogin, "", ipAddress, userAgent,
				map[string]interface{}{"email": req.Email, "reason": "user_not_found"})
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked() {
		s.recordAudit(nil, models.AuditActionFailedLogin, "", ipAddress, userAgent,
			map[string]interface{}{"email": req.Email, "reason": "account_locked"})
		return nil, ErrAccountLocked
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		return nil, s.handleBadPassword(user, req.Email, ipAddress, userAgent)
	}

	user.ResetFailedAttempts()
	if err := s.userRepo.UpdateFailedLoginAttempts(user); err != nil {
		// A stale counter must not block a correct password
		s.logger.Warn("failed to reset login attempts",
			"error", err,
			"user_id", user.ID,
			"email", user.Email)
	}

	accessToken, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.recordAudit(&user.ID, models.AuditActionLogin, user.ID.String(), ipAddress, userAgent, nil)
	s.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": "login"})

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *AuthService) handleBadPassword(user *models.User, email, ipAddress, userAgent string) error {
	user.IncrementFailedAttempts()
	if err := s.userRepo.UpdateFailedLoginAttempts(user); err != nil {
		s.logger.Error("failed to update login attempts",
			"error", err,
			"user_id", user.ID,
			"email", user.Email)
	}

	if user.IsLocked() {
		s.recordAudit(&user.ID, models.AuditActionAccountLocked, user.ID.String(), ipAddress, userAgent, nil)
	}

	s.recordAudit(nil, models.AuditActionFailedLogin, "", ipAddress, userAgent,
		map[string]interface{}{"email": email, "reason": "invalid_password"})
	s.metrics.IncrementCounter("authentication_event", map[string]string{"event_type": "failed_login"})

	return ErrInvalidCredentials
}

func (s *AuthService) recordAudit(userID *uuid.UUID, action, resourceID, ipAddress, userAgent string, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   "user",
		ResourceID: resourceID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata:   metadata,
	}

	if err := s.auditRepo.Create(entry); err != nil {
		// The audit trail is best effort; a write failure never fails the
		// authentication itself
		s.logger.Error("failed to create audit log",
			"error", err,
			"action", action,
			"resource_id", resourceID)
	}
}
