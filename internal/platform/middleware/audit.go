package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hhm/maternity/internal/platform/auth"
)

// AccessEntry represents an access record produced by the middleware.
// It captures who accessed what, when, from where, and the action type.
type AccessEntry struct {
	UserID     string
	UserName   string
	UserRoles  []string
	Entity     string
	EntityID   string
	Action     string // view, create, update, delete
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder is the interface that the audit middleware uses to persist
// access entries. This decouples the middleware from the audit service so
// that tests can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AccessEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AccessEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AccessEntry) error {
	return f(entry)
}

// Audit returns Echo middleware that intercepts requests to /api/v1/*,
// extracts the authenticated user from JWT claims, determines the entity
// from the URL path, and records the access.
//
// A structured zerolog line is always emitted, whether or not a recorder
// is configured.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AccessEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}

			ctx := req.Context()
			entry.UserID = auth.UserIDFromContext(ctx)
			entry.UserName = auth.UserNameFromContext(ctx)
			entry.UserRoles = auth.RolesFromContext(ctx)

			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			entry.Action = httpMethodToAction(req.Method)
			entry.Entity, entry.EntityID = splitEntityPath(path)

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "clinical_audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("entity", entry.Entity).
				Str("entity_id", entry.EntityID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("record_access")

			return err
		}
	}
}

// httpMethodToAction maps HTTP methods to audit action codes.
func httpMethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "view"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "view"
	}
}

// splitEntityPath parses the entity name and, when present, the record id
// from an API path.
//
//	/api/v1/patients          -> ("patients", "")
//	/api/v1/patients/<uuid>   -> ("patients", "<uuid>")
//	/api/v1/alerts/<uuid>/resolve -> ("alerts", "<uuid>")
func splitEntityPath(path string) (string, string) {
	segments := strings.Split(strings.TrimPrefix(path, "/api/v1/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "unknown", ""
	}
	entity := segments[0]
	if len(segments) > 1 {
		if _, err := uuid.Parse(segments[1]); err == nil {
			return entity, segments[1]
		}
	}
	return entity, ""
}
