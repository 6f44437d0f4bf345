package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded by the authentication and ledger services.
const (
	AuditActionLogin          = "login"
	AuditActionRegister       = "register"
	AuditActionFailedLogin    = "failed_login"
	AuditActionAccountLocked  = "account_locked"
	AuditActionAccountCreated = "account_created"
	AuditActionAccountFunded  = "account_funded"
)

// AuditLog is one append-only entry in the audit trail. UserID is nil for
// anonymous events such as failed logins against unknown emails; deleting a
// user keeps their trail, with the reference nulled out.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   string     `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string     `gorm:"type:varchar(255)" json:"resource_id,omitempty"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string     `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata   JSONBMap   `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

func (al *AuditLog) TableName() string {
	return "audit_logs"
}

// SetMetadata adds or replaces a metadata key.
func (al *AuditLog) SetMetadata(key string, value interface{}) {
	if al.Metadata == nil {
		al.Metadata = make(JSONBMap)
	}
	al.Metadata[key] = value
}

// GetMetadata looks up a metadata key, returning defaultValue when the map
// is nil or the key is absent.
func (al *AuditLog) GetMetadata(key string, defaultValue interface{}) interface{} {
	if value, ok := al.Metadata[key]; ok {
		return value
	}
	return defaultValue
}

// String renders the entry for log output.
func (al *AuditLog) String() string {
	actor := "anonymous"
	if al.UserID != nil {
		actor = al.UserID.String()
	}
	return fmt.Sprintf("AuditLog[User: %s, Action: %s, Resource: %s/%s, IP: %s, Time: %s]",
		actor, al.Action, al.Resource, al.ResourceID, al.IPAddress, al.CreatedAt.Format(time.RFC3339))
}

func (al *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now()
	}
	return nil
}
