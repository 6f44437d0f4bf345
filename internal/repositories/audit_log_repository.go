package repositories

import (
	"errors"
	"fmt"
	"time"

	"bankledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository is the gorm-backed store for the audit trail. Entries
// are append-only; there is no update or delete path.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepositoryInterface {
	return &AuditLogRepository{
		db: db,
	}
}

func (r *AuditLogRepository) Create(entry *models.AuditLog) error {
	if entry == nil {
		return errors.New("audit log cannot be nil")
	}

	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetByUserID pages through a user's audit trail, newest first.
func (r *AuditLogRepository) GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	return r.page(r.db.Model(&models.AuditLog{}).Where("user_id = ?", userID), offset, limit)
}

// GetByAction pages through all entries with the given action, newest first.
func (r *AuditLogRepository) GetByAction(action string, offset, limit int) ([]*models.AuditLog, int64, error) {
	return r.page(r.db.Model(&models.AuditLog{}).Where("action = ?", action), offset, limit)
}

func (r *AuditLogRepository) page(query *gorm.DB, offset, limit int) ([]*models.AuditLog, int64, error) {
	var entries []*models.AuditLog
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return entries, total, nil
}

// GetFailedLoginAttempts counts failed logins recorded for an email since
// the given time. The email lives in the entry metadata, not a column.
func (r *AuditLogRepository) GetFailedLoginAttempts(email string, since time.Time) (int64, error) {
	var count int64

	err := r.db.Model(&models.AuditLog{}).
		Where("action = ? AND metadata->>'email' = ? AND created_at > ?",
			models.AuditActionFailedLogin, email, since).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count failed login attempts: %w", err)
	}

	return count, nil
}
