package repositories

import (
	"errors"
	"fmt"

	"bankledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository is the gorm-backed store for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

// Create inserts a user. The unique index on email arbitrates concurrent
// registrations; losing inserts come back as ErrUserAlreadyExists.
func (r *UserRepository) Create(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	err := r.db.Create(user).Error
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUserAlreadyExists
	case err != nil:
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{ID: id}
	err := r.db.First(user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Update(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateFailedLoginAttempts persists only the lockout columns. A map update
// keeps the model hooks from re-validating fields the caller never touched.
func (r *UserRepository) UpdateFailedLoginAttempts(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}

	err := r.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_at":             user.LockedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update login attempts: %w", err)
	}
	return nil
}

// ResetFailedLoginAttempts clears the counter and unlocks the user.
func (r *UserRepository) ResetFailedLoginAttempts(userID uuid.UUID) error {
	err := r.db.Model(&models.User{ID: userID}).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_at":             nil,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}
