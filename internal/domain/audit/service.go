package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
	"github.com/hhm/maternity/internal/platform/middleware"
)

type Service struct {
	entries Repository
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

// Append records an entry. The timestamp is always assigned here; a
// client-supplied value is overwritten so the log stays in server time.
func (s *Service) Append(ctx context.Context, e *Entry) error {
	if !validActions[e.Action] {
		return errs.Validationf("action", "invalid value: %s", e.Action)
	}
	if e.UserID == "" {
		return errs.Validation("user_id", "is required")
	}
	e.Timestamp = time.Now().UTC()
	return s.entries.Create(ctx, e)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	if f.Action != "" && !validActions[f.Action] {
		return nil, 0, errs.Validationf("action", "invalid value: %s", f.Action)
	}
	return s.entries.Search(ctx, f, limit, offset)
}

// Recorder adapts the service to the audit middleware, translating each
// recorded access into an appended entry. Unauthenticated requests reach
// the middleware on 401s; they carry no user and are skipped here since
// Append requires one.
func Recorder(svc *Service) middleware.AuditRecorderFunc {
	return func(access middleware.AccessEntry) error {
		if access.UserID == "" {
			return nil
		}
		return svc.Append(context.Background(), &Entry{
			UserID:      access.UserID,
			UserName:    access.UserName,
			Action:      access.Action,
			Entity:      access.Entity,
			EntityID:    access.EntityID,
			Description: access.Method + " " + access.Path,
			IPAddress:   access.IPAddress,
			UserAgent:   access.UserAgent,
			RequestID:   access.RequestID,
		})
	}
}
