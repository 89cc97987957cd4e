package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CSPReport struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Report    datatypes.JSON `json:"report" gorm:"not null"`
	UserAgent string         `json:"user_agent" gorm:"type:text"`
	SourceIP  string         `json:"source_ip" gorm:"type:varchar(255)"`
	Timestamp time.Time      `json:"timestamp" gorm:"not null;index"`
}

func (CSPReport) TableName() string {
	return "csp_violation_reports"
}
