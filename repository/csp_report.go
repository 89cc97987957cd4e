package repository

import (
	"context"
	"errors"

	"github.com/notaproblemtosolve/upload-gateway/entity"
	"gorm.io/gorm"
)

type CSPReportRepository struct {
	db *gorm.DB
}

func NewCSPReportRepository(db *gorm.DB) *CSPReportRepository {
	return &CSPReportRepository{
		db: db,
	}
}

func (r *CSPReportRepository) Create(ctx context.Context, report *entity.CSPReport) error {
	if report == nil {
		return errors.New("csp report cannot be nil")
	}
	return r.db.WithContext(ctx).Create(report).Error
}
