// Package common holds the pieces every application service shares: the
// caller identity, the audit and event ports, and Result helpers for storage
// faults and active-flag transitions.
package common

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Roles recognised on write routes.
const (
	RoleAdmin   = "ADMIN"
	RoleCoach   = "ENTRENADOR"
	RoleStudent = "ESTUDIANTE_VINCULACION"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Email  string
	Name   string
	Roles  []string
	// Token is the raw bearer token, forwarded to the user module.
	Token string
}

// Label identifies the actor in audit rows and measurement records.
func (a Actor) Label() string {
	switch {
	case a.Email != "":
		return a.Email
	case a.UserID != "":
		return a.UserID
	default:
		return "system"
	}
}

// Role returns the first recognised role, or the first role when none is.
func (a Actor) Role() string {
	for _, r := range []string{RoleAdmin, RoleCoach, RoleStudent} {
		if slices.Contains(a.Roles, r) {
			return r
		}
	}
	if len(a.Roles) > 0 {
		return a.Roles[0]
	}
	return ""
}

// HasAnyRole reports whether the actor holds one of roles.
func (a Actor) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(a.Roles, r) {
			return true
		}
	}
	return false
}

type actorKey struct{}

// WithActor stores the caller in ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the caller stored in ctx.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// Auditor records mutations in the audit trail.
type Auditor interface {
	LogCreate(ctx context.Context, tableName string, recordID int64, newData any, performedBy string) error
	LogUpdate(ctx context.Context, tableName string, recordID int64, oldData, newData any, performedBy string) error
	LogStatusChange(ctx context.Context, tableName string, recordID int64, active bool, performedBy string) error
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// Now returns the time, defaulting to time.Now when c is nil.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// StorageError logs a storage fault and returns the error Result for it.
func StorageError(err error, message, entity string, id int64) *shared.Result {
	event := log.Error().Err(err).Str("entity", entity)
	if id != 0 {
		event = event.Int64("id", id)
	}
	event.Msg(message)
	return shared.Error(message, "Error interno de almacenamiento")
}

// Audited runs an audit write. Failures are logged and never fail the operation.
func Audited(err error, table string, id int64) {
	if err != nil {
		log.Warn().Err(err).Str("table", table).Int64("id", id).Msg("Failed to write audit log")
	}
}

// Notify publishes an event. Failures are logged and never fail the operation.
func Notify(ctx context.Context, p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		log.Warn().Err(err).Str("routing_key", routingKey).Msg("Failed to publish event")
	}
}
