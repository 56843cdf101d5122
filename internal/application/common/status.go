package common

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// StatusChange drives the active ⇄ inactive transition of an entity.
type StatusChange[T any] struct {
	DAO   shared.DAO[T]
	Table string
	// Flag is the boolean column toggled.
	Flag string
	// IsActive reads the flag from a loaded entity.
	IsActive func(*T) bool

	NotFound        error
	AlreadyInactive error
	AlreadyActive   error
	Deactivated     string
	Reactivated     string
}

// Apply sets the flag to active. Repeating a transition is a conflict.
func (c StatusChange[T]) Apply(ctx context.Context, auditor Auditor, id int64, active bool) *shared.Result {
	entity, found, err := c.DAO.GetByID(ctx, id)
	if err != nil {
		return StorageError(err, "Error al consultar el registro", c.Table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(c.NotFound))
	}
	if c.IsActive(entity) == active {
		return shared.Conflict(shared.Message(c.already(active)))
	}

	var changed bool
	if active {
		changed, err = c.DAO.Restore(ctx, id, c.Flag)
	} else {
		changed, err = c.DAO.SoftDelete(ctx, id, c.Flag)
	}
	if err != nil {
		return StorageError(err, "Error al actualizar el estado del registro", c.Table, id)
	}
	if !changed {
		// Another request flipped the flag between the read and the write.
		return shared.Conflict(shared.Message(c.already(active)))
	}

	if auditor != nil {
		Audited(auditor.LogStatusChange(ctx, c.Table, id, active, PerformedBy(ctx)), c.Table, id)
	}

	updated, found, err := c.DAO.GetByID(ctx, id)
	if err != nil {
		return StorageError(err, "Error al consultar el registro", c.Table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(c.NotFound))
	}
	if active {
		return shared.Success(updated, c.Reactivated)
	}
	return shared.Success(updated, c.Deactivated)
}

func (c StatusChange[T]) already(active bool) error {
	if active {
		return c.AlreadyActive
	}
	return c.AlreadyInactive
}

// PerformedBy returns the label of the caller stored in ctx.
func PerformedBy(ctx context.Context) string {
	a, _ := ActorFrom(ctx)
	return a.Label()
}
