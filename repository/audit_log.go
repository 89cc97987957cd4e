package repository

import (
	"context"
	"errors"

	"github.com/notaproblemtosolve/upload-gateway/entity"
	"gorm.io/gorm"
)

// AuditLogRepository is the append-only audit sink.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
	}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	if log == nil {
		return errors.New("audit log cannot be nil")
	}
	return r.db.WithContext(ctx).Create(log).Error
}
