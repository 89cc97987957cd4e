package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditRateLimitExceeded    AuditAction = "rate_limit_exceeded"
	AuditFileValidationFailed AuditAction = "file_validation_failed"
	AuditFileUploadFailed     AuditAction = "file_upload_failed"
	AuditFileUploadSuccess    AuditAction = "file_upload_success"
	AuditServerError          AuditAction = "server_error"
)

const (
	ResourceTypeEdgeFunction = "edge_function"
	ResourceTypeStorage      = "storage"
)

// AuditLog is an append-only row in audit_logs.
type AuditLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       string         `json:"user_id" gorm:"type:varchar(255);not null;index"`
	Action       AuditAction    `json:"action" gorm:"type:varchar(64);not null;index"`
	Details      datatypes.JSON `json:"details"`
	IPAddress    string         `json:"ip_address" gorm:"type:varchar(255)"`
	UserAgent    string         `json:"user_agent" gorm:"type:text"`
	ResourceType string         `json:"resource_type" gorm:"type:varchar(64)"`
	ResourceID   string         `json:"resource_id" gorm:"type:varchar(1024)"`
	Timestamp    time.Time      `json:"timestamp" gorm:"not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
