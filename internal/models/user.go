package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	// MaxFailedLoginAttempts is the threshold at which an account locks.
	MaxFailedLoginAttempts = 3
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User owns ledger accounts and authenticates against PasswordHash. A
// non-nil LockedAt means the account is locked; the failed-attempt counter
// only drives the transition, LockedAt is the source of truth.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName           string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName            string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Role                string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LockedAt            *time.Time     `gorm:"index" json:"locked_at,omitempty"`
	LastLoginAt         *time.Time     `gorm:"index" json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Accounts  []Account  `gorm:"foreignKey:UserID" json:"-"`
	AuditLogs []AuditLog `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

// BeforeUpdate re-validates model-based updates. Map-based updates skip
// validation; they touch individual columns on an otherwise empty struct,
// which would fail every required-field check.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		return nil
	}
	return u.Validate()
}

func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return errors.New("email is required")
	case !emailRegex.MatchString(u.Email):
		return errors.New("invalid email format")
	case u.FirstName == "":
		return errors.New("first name is required")
	case u.LastName == "":
		return errors.New("last name is required")
	case u.Role != RoleCustomer && u.Role != RoleAdmin:
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

// Lock marks the account locked and pins the counter at the threshold.
func (u *User) Lock() {
	now := time.Now()
	u.LockedAt = &now
	u.FailedLoginAttempts = MaxFailedLoginAttempts
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

// IncrementFailedAttempts bumps the counter and locks the account once it
// reaches MaxFailedLoginAttempts.
func (u *User) IncrementFailedAttempts() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		u.Lock()
	}
}

// ResetFailedAttempts clears the counter after a successful login. It never
// unlocks; only Unlock does.
func (u *User) ResetFailedAttempts() {
	u.FailedLoginAttempts = 0
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
