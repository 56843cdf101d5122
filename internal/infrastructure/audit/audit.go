// Package audit records who changed which row, and how, in the audit_logs table.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action represents the type of audit action.
type Action string

// Action constants for audit logging.
const (
	ActionCreate     Action = "CREATE"
	ActionUpdate     Action = "UPDATE"
	ActionDeactivate Action = "DEACTIVATE"
	ActionReactivate Action = "REACTIVATE"
)

// StatusAction returns the action recorded when an active flag changes.
func StatusAction(active bool) Action {
	if active {
		return ActionReactivate
	}
	return ActionDeactivate
}

// LogEntry represents an audit log entry.
type LogEntry struct {
	ID          uuid.UUID      `json:"id"`
	TableName   string         `json:"table_name"`
	RecordID    int64          `json:"record_id"`
	Action      Action         `json:"action"`
	OldData     map[string]any `json:"old_data,omitempty"`
	NewData     map[string]any `json:"new_data,omitempty"`
	Changes     map[string]any `json:"changes,omitempty"`
	PerformedBy string         `json:"performed_by"`
	PerformedAt time.Time      `json:"performed_at"`
	RequestID   string         `json:"request_id,omitempty"`
	IPAddress   string         `json:"ip_address,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
}

// Logger defines the interface for audit logging.
type Logger interface {
	// Log records an audit entry.
	Log(ctx context.Context, entry *LogEntry) error

	// LogCreate records a create action.
	LogCreate(ctx context.Context, tableName string, recordID int64, newData any, performedBy string) error

	// LogUpdate records an update action with old and new data.
	LogUpdate(ctx context.Context, tableName string, recordID int64, oldData, newData any, performedBy string) error

	// LogStatusChange records a deactivation or reactivation.
	LogStatusChange(ctx context.Context, tableName string, recordID int64, active bool, performedBy string) error

	// GetByRecordID retrieves audit logs for a specific record.
	GetByRecordID(ctx context.Context, tableName string, recordID int64) ([]*LogEntry, error)

	// GetByPerformer retrieves audit logs by performer.
	GetByPerformer(ctx context.Context, performedBy string, limit int) ([]*LogEntry, error)
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	ipAddressKey contextKey = "ip_address"
	userAgentKey contextKey = "user_agent"
	performerKey contextKey = "performer"
)

// WithRequestContext adds request context to the context.
func WithRequestContext(ctx context.Context, requestID, ipAddress, userAgent string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	ctx = context.WithValue(ctx, ipAddressKey, ipAddress)
	ctx = context.WithValue(ctx, userAgentKey, userAgent)
	return ctx
}

// WithPerformer adds the performer (user) to the context.
func WithPerformer(ctx context.Context, performer string) context.Context {
	return context.WithValue(ctx, performerKey, performer)
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// GetIPAddress retrieves the IP address from context.
func GetIPAddress(ctx context.Context) string {
	return stringValue(ctx, ipAddressKey)
}

// GetUserAgent retrieves the user agent from context.
func GetUserAgent(ctx context.Context) string {
	return stringValue(ctx, userAgentKey)
}

// GetPerformer retrieves the performer from context, "system" when unset.
func GetPerformer(ctx context.Context) string {
	if s := stringValue(ctx, performerKey); s != "" {
		return s
	}
	return "system"
}

func stringValue(ctx context.Context, key contextKey) string {
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}

// ToJSON converts a value to a JSON object map. Non-objects yield nil.
func ToJSON(data any) map[string]any {
	if data == nil {
		return nil
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal(bytes, &result); err != nil {
		return nil
	}
	return result
}

// ComputeChanges computes the differences between old and new data.
func ComputeChanges(oldData, newData map[string]any) map[string]any {
	if oldData == nil || newData == nil {
		return nil
	}

	changes := make(map[string]any)
	for key, newVal := range newData {
		oldVal, exists := oldData[key]
		if !exists || !jsonEqual(oldVal, newVal) {
			changes[key] = map[string]any{
				"old": oldVal,
				"new": newVal,
			}
		}
	}
	return changes
}

// jsonEqual compares two values for JSON equality.
func jsonEqual(a, b any) bool {
	aBytes, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bBytes, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aBytes) == string(bBytes)
}
