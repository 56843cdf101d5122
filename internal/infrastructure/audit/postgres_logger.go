package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/postgres"
)

// PostgresLogger implements Logger on the audit_logs table.
type PostgresLogger struct {
	db  *postgres.DB
	now func() time.Time
}

// NewPostgresLogger creates a new PostgreSQL audit logger.
func NewPostgresLogger(db *postgres.DB) *PostgresLogger {
	return &PostgresLogger{db: db, now: time.Now}
}

// Verify interface implementation at compile time.
var _ Logger = (*PostgresLogger)(nil)

const selectColumns = `id, table_name, record_id, action, old_data, new_data, changes,
	performed_by, performed_at, request_id, ip_address, user_agent`

// Log records an audit entry, filling request metadata from ctx.
func (l *PostgresLogger) Log(ctx context.Context, entry *LogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = l.now()
	}
	if entry.PerformedBy == "" {
		entry.PerformedBy = GetPerformer(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = GetRequestID(ctx)
	}
	if entry.IPAddress == "" {
		entry.IPAddress = GetIPAddress(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = GetUserAgent(ctx)
	}

	query := `
		INSERT INTO audit_logs (
			id, table_name, record_id, action,
			old_data, new_data, changes,
			performed_by, performed_at,
			request_id, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := l.db.ExecContext(ctx, query,
		entry.ID,
		entry.TableName,
		entry.RecordID,
		string(entry.Action),
		nullableJSON(entry.OldData),
		nullableJSON(entry.NewData),
		nullableJSON(entry.Changes),
		entry.PerformedBy,
		entry.PerformedAt,
		nullableString(entry.RequestID),
		nullableString(entry.IPAddress),
		nullableString(entry.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// LogCreate records a create action.
func (l *PostgresLogger) LogCreate(ctx context.Context, tableName string, recordID int64, newData any, performedBy string) error {
	return l.Log(ctx, &LogEntry{
		TableName:   tableName,
		RecordID:    recordID,
		Action:      ActionCreate,
		NewData:     ToJSON(newData),
		PerformedBy: performedBy,
	})
}

// LogUpdate records an update action with old and new data.
func (l *PostgresLogger) LogUpdate(ctx context.Context, tableName string, recordID int64, oldData, newData any, performedBy string) error {
	oldJSON := ToJSON(oldData)
	newJSON := ToJSON(newData)

	return l.Log(ctx, &LogEntry{
		TableName:   tableName,
		RecordID:    recordID,
		Action:      ActionUpdate,
		OldData:     oldJSON,
		NewData:     newJSON,
		Changes:     ComputeChanges(oldJSON, newJSON),
		PerformedBy: performedBy,
	})
}

// LogStatusChange records a deactivation or reactivation.
func (l *PostgresLogger) LogStatusChange(ctx context.Context, tableName string, recordID int64, active bool, performedBy string) error {
	return l.Log(ctx, &LogEntry{
		TableName:   tableName,
		RecordID:    recordID,
		Action:      StatusAction(active),
		PerformedBy: performedBy,
	})
}

// GetByRecordID retrieves audit logs for a specific record, newest first.
func (l *PostgresLogger) GetByRecordID(ctx context.Context, tableName string, recordID int64) ([]*LogEntry, error) {
	query := `SELECT ` + selectColumns + `
		FROM audit_logs
		WHERE table_name = $1 AND record_id = $2
		ORDER BY performed_at DESC`

	rows, err := l.db.QueryContext(ctx, query, tableName, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanLogEntries(rows)
}

// GetByPerformer retrieves audit logs by performer, newest first.
func (l *PostgresLogger) GetByPerformer(ctx context.Context, performedBy string, limit int) ([]*LogEntry, error) {
	query := `SELECT ` + selectColumns + `
		FROM audit_logs
		WHERE performed_by = $1
		ORDER BY performed_at DESC
		LIMIT $2`

	rows, err := l.db.QueryContext(ctx, query, performedBy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanLogEntries(rows)
}

func scanLogEntries(rows *sql.Rows) ([]*LogEntry, error) {
	entries := []*LogEntry{}

	for rows.Next() {
		var entry LogEntry
		var oldDataJSON, newDataJSON, changesJSON sql.NullString
		var requestID, ipAddress, userAgent sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.TableName,
			&entry.RecordID,
			&entry.Action,
			&oldDataJSON,
			&newDataJSON,
			&changesJSON,
			&entry.PerformedBy,
			&entry.PerformedAt,
			&requestID,
			&ipAddress,
			&userAgent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		// Malformed JSON leaves the field empty.
		entry.OldData = decodeJSON(oldDataJSON)
		entry.NewData = decodeJSON(newDataJSON)
		entry.Changes = decodeJSON(changesJSON)
		entry.RequestID = requestID.String
		entry.IPAddress = ipAddress.String
		entry.UserAgent = userAgent.String

		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}

	return entries, nil
}

func decodeJSON(raw sql.NullString) map[string]any {
	if !raw.Valid {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
		return nil
	}
	return out
}

func nullableJSON(data map[string]any) any {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return string(b)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
