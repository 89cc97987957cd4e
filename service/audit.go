package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"gorm.io/datatypes"
)

type AuditEvent struct {
	PrincipalID  string
	Action       entity.AuditAction
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	ResourceType string
	ResourceID   string
}

// Auditor writes sanitized audit rows. A failing sink is logged and otherwise
// ignored.
type Auditor struct {
	sink   AuditSink
	logger Logger
	now    func() time.Time
}

func NewAuditor(sink AuditSink, logger Logger) *Auditor {
	return &Auditor{sink: sink, logger: logger, now: time.Now}
}

func (a *Auditor) Record(ctx context.Context, event AuditEvent) {
	details, err := json.Marshal(SanitizeDetails(event.Details))
	if err != nil {
		a.logger.ErrorWithContextf(ctx, err, "[Audit] Failed to encode details for %s", event.Action)
		details = []byte("{}")
	}

	row := &entity.AuditLog{
		ID:           uuid.New(),
		UserID:       event.PrincipalID,
		Action:       event.Action,
		Details:      datatypes.JSON(details),
		IPAddress:    event.IPAddress,
		UserAgent:    event.UserAgent,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Timestamp:    a.now().UTC(),
	}

	if err := a.sink.Create(ctx, row); err != nil {
		a.logger.ErrorWithContextf(ctx, err, "[Audit] Failed to write %s audit log for user %s", event.Action, event.PrincipalID)
	}
}
