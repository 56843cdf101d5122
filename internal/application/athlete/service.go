// Package athlete provides the application service for athletes.
package athlete

import (
	"context"
	"strings"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const table = "athletes"

// Service implements the athlete use cases.
type Service struct {
	repo    athlete.Repository
	auditor common.Auditor
	clock   common.Clock
	status  common.StatusChange[athlete.Athlete]
}

// NewService creates a new athlete Service.
func NewService(repo athlete.Repository, auditor common.Auditor, clock common.Clock) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
		clock:   clock,
		status: common.StatusChange[athlete.Athlete]{
			DAO:             repo,
			Table:           table,
			Flag:            athlete.FieldIsActive,
			IsActive:        func(a *athlete.Athlete) bool { return a.IsActive },
			NotFound:        athlete.ErrNotFound,
			AlreadyInactive: athlete.ErrAlreadyInactive,
			AlreadyActive:   athlete.ErrAlreadyActive,
			Deactivated:     "Atleta dado de baja exitosamente",
			Reactivated:     "Atleta reactivado exitosamente",
		},
	}
}

// Create registers a new athlete.
func (s *Service) Create(ctx context.Context, data map[string]any) *shared.Result {
	fields, errs := athlete.ValidateNew(data, s.clock.Now())
	if len(errs) > 0 {
		return shared.Invalid("Datos de atleta inválidos", errs)
	}

	dni := fields[athlete.FieldDNI].(string)
	if _, exists, err := s.repo.FindByDNI(ctx, dni); err != nil {
		return common.StorageError(err, "Error al verificar el DNI del atleta", table, 0)
	} else if exists {
		return shared.Conflict(shared.Message(athlete.ErrDuplicateDNI))
	}

	created, err := s.repo.Create(ctx, fields)
	if err != nil {
		if _, dup := shared.DuplicateConstraint(err); dup {
			return shared.Conflict(shared.Message(athlete.ErrDuplicateDNI))
		}
		return common.StorageError(err, "Error al crear el atleta", table, 0)
	}

	common.Audited(s.auditor.LogCreate(ctx, table, created.ID, created, common.PerformedBy(ctx)), table, created.ID)
	return shared.Success(created, "Atleta creado exitosamente")
}

// Get returns one athlete.
func (s *Service) Get(ctx context.Context, id int64) *shared.Result {
	a, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el atleta", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(athlete.ErrNotFound))
	}
	return shared.Success(a, "")
}

// List returns the athletes, only active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) *shared.Result {
	var (
		items []*athlete.Athlete
		err   error
	)
	if activeOnly {
		items, err = s.repo.GetByFilter(ctx, shared.Fields{athlete.FieldIsActive: true})
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return common.StorageError(err, "Error al listar los atletas", table, 0)
	}
	return shared.Success(items, "")
}

// Search matches term against names and DNI.
func (s *Service) Search(ctx context.Context, term string) *shared.Result {
	term = strings.TrimSpace(term)
	if term == "" {
		return shared.ValidationError("Término de búsqueda inválido", "El término de búsqueda es requerido")
	}
	items, err := s.repo.Search(ctx, athlete.SearchFields, term)
	if err != nil {
		return common.StorageError(err, "Error al buscar atletas", table, 0)
	}
	return shared.Success(items, "")
}

// Update applies the allow-listed changes.
func (s *Service) Update(ctx context.Context, id int64, changes map[string]any) *shared.Result {
	fields, errs := athlete.ValidateChanges(changes, s.clock.Now())
	if len(errs) > 0 {
		return shared.Invalid("Datos de atleta inválidos", errs)
	}
	if len(fields) == 0 {
		return shared.ValidationError("No hay campos para actualizar", "Ninguno de los campos enviados puede modificarse")
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el atleta", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(athlete.ErrNotFound))
	}

	updated, found, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return common.StorageError(err, "Error al actualizar el atleta", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(athlete.ErrNotFound))
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	return shared.Success(updated, "Atleta actualizado exitosamente")
}

// Deactivate soft-deletes an athlete.
func (s *Service) Deactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, false)
}

// Reactivate restores a deactivated athlete.
func (s *Service) Reactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, true)
}
