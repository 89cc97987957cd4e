package repository

import (
	"github.com/notaproblemtosolve/upload-gateway/infra"
	"gorm.io/gorm"
)

type Repository struct {
	Db         *gorm.DB
	AuditLogs  *AuditLogRepository
	CSPReports *CSPReportRepository
}

func InitRepository(infra *infra.Infra) *Repository {
	db := infra.Postgres.DB
	if db == nil {
		panic("database connection is nil")
	}
	return &Repository{
		Db:         db,
		AuditLogs:  NewAuditLogRepository(db),
		CSPReports: NewCSPReportRepository(db),
	}
}
