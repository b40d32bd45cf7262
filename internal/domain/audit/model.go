package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audited actions.
const (
	ActionLogin       = "login"
	ActionLogout      = "logout"
	ActionFailedLogin = "failed_login"
	ActionCreate      = "create"
	ActionUpdate      = "update"
	ActionView        = "view"
	ActionDelete      = "delete"
	ActionExport      = "export"
	ActionPrint       = "print"
)

var validActions = map[string]bool{
	ActionLogin: true, ActionLogout: true, ActionFailedLogin: true,
	ActionCreate: true, ActionUpdate: true, ActionView: true,
	ActionDelete: true, ActionExport: true, ActionPrint: true,
}

// Entry maps to the audit_entry table. Rows are append-only: no layer of
// the application exposes an update or delete path, and the table itself
// carries a trigger rejecting both.
type Entry struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      string          `db:"user_id" json:"user_id"`
	UserName    string          `db:"user_name" json:"user_name"`
	Action      string          `db:"action" json:"action"`
	Entity      string          `db:"entity" json:"entity"`
	EntityID    string          `db:"entity_id" json:"entity_id"`
	Description string          `db:"description" json:"description"`
	BeforeState json.RawMessage `db:"before_state" json:"before_state,omitempty"`
	AfterState  json.RawMessage `db:"after_state" json:"after_state,omitempty"`
	IPAddress   string          `db:"ip_address" json:"ip_address"`
	UserAgent   string          `db:"user_agent" json:"user_agent"`
	RequestID   string          `db:"request_id" json:"request_id"`
	Timestamp   time.Time       `db:"timestamp" json:"timestamp"`
}
