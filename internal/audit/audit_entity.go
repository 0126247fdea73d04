package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// AuditLog is the append-only GDPR trail. Rows are never updated or deleted.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Action     string            `gorm:"type:varchar(60);not null;index:idx_audit_action"`
	EntityType string            `gorm:"type:varchar(40);not null;index:idx_audit_entity"`
	EntityID   *uuid.UUID        `gorm:"type:uuid;index:idx_audit_entity"`
	UserID     *uuid.UUID        `gorm:"type:uuid;index:idx_audit_user"`
	Changes    datatypes.JSONMap `gorm:"type:jsonb"`
	IPAddress  string            `gorm:"type:varchar(45)"`
	UserAgent  string            `gorm:"type:varchar(255)"`
	Status     string            `gorm:"type:varchar(10);not null;default:'SUCCESS'"`
	CreatedAt  time.Time         `gorm:"index:idx_audit_created"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
