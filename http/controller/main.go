package controller

import (
	"context"
	"log/slog"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/infra"
	"github.com/notaproblemtosolve/upload-gateway/repository"
	"github.com/notaproblemtosolve/upload-gateway/service"
)

type CSPReportStore interface {
	Create(ctx context.Context, report *entity.CSPReport) error
}

type HealthCheck func(ctx context.Context) error

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository

	Logger       service.Logger
	SlogLogger   *slog.Logger
	Verifier     service.IdentityVerifier
	Upload       *service.UploadHandler
	Gallery      *service.GalleryService
	CSPReports   CSPReportStore
	HealthChecks map[string]HealthCheck
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}

	var publisher service.EventPublisher
	if infra.Produce != nil {
		publisher = infra.Produce.ImageService
	}

	upload := service.NewUploadHandler(service.UploadHandlerDeps{
		Security:  config.Security,
		Verifier:  infra.AuthorizationService,
		Limiter:   service.NewRateLimiter(infra.Redis, config.Security),
		Store:     infra.Storage,
		Prober:    infra.Storage,
		Auditor:   service.NewAuditor(repo.AuditLogs, infra.Logger),
		Publisher: publisher,
		Logger:    infra.Logger,
	})

	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		Logger:     infra.Logger,
		SlogLogger: infra.Logger.Logger,
		Verifier:   infra.AuthorizationService,
		Upload:     upload,
		Gallery:    service.NewGalleryService(infra.Storage, infra.Storage),
		CSPReports: repo.CSPReports,
		HealthChecks: map[string]HealthCheck{
			"redis":    infra.Redis.Ping,
			"postgres": infra.Postgres.Ping,
			"storage":  infra.Storage.Ping,
		},
	}
}
