// Package physicaltest provides the application service for physical tests.
package physicaltest

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/physicaltest"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const table = "physical_tests"

const invalidMessage = "Datos de prueba física inválidos"

// EventRecorded is the routing key published after a test is stored.
const EventRecorded = "physical_test.recorded"

// AthleteReader is the part of the athlete store the service reads.
type AthleteReader interface {
	GetByID(ctx context.Context, id int64) (*athlete.Athlete, bool, error)
}

// Service implements the physical test use cases.
type Service struct {
	repo      physicaltest.Repository
	athletes  AthleteReader
	auditor   common.Auditor
	publisher common.Publisher
	clock     common.Clock
	status    common.StatusChange[physicaltest.PhysicalTest]
}

// NewService creates a new physical test Service. publisher may be nil.
func NewService(repo physicaltest.Repository, athletes AthleteReader, auditor common.Auditor, publisher common.Publisher, clock common.Clock) *Service {
	return &Service{
		repo:      repo,
		athletes:  athletes,
		auditor:   auditor,
		publisher: publisher,
		clock:     clock,
		status: common.StatusChange[physicaltest.PhysicalTest]{
			DAO:             repo,
			Table:           table,
			Flag:            physicaltest.FieldIsActive,
			IsActive:        func(p *physicaltest.PhysicalTest) bool { return p.IsActive },
			NotFound:        physicaltest.ErrNotFound,
			AlreadyInactive: physicaltest.ErrAlreadyInactive,
			AlreadyActive:   physicaltest.ErrAlreadyActive,
			Deactivated:     "Prueba física desactivada exitosamente",
			Reactivated:     "Prueba física reactivada exitosamente",
		},
	}
}

// Create records a physical test.
func (s *Service) Create(ctx context.Context, data map[string]any) *shared.Result {
	errs := shared.RequiredFields(data, physicaltest.RequiredFields)
	if len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	fields := shared.AllowedFields(data, append([]string{physicaltest.FieldAthleteID}, physicaltest.UpdatableFields...))
	athleteID, err := shared.CoerceID(fields[physicaltest.FieldAthleteID])
	if err != nil {
		errs = append(errs, shared.FieldError{Field: physicaltest.FieldAthleteID, Message: "El campo 'athlete_id' debe ser un entero positivo"})
	}
	fields[physicaltest.FieldAthleteID] = athleteID
	if errs = append(errs, physicaltest.Normalize(fields, s.clock.Now(), true)...); len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	if _, found, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return common.StorageError(err, "Error al obtener el atleta", "athletes", athleteID)
	} else if !found {
		return shared.NotFound(shared.Message(physicaltest.ErrAthleteNotFound))
	}

	created, err := s.repo.Create(ctx, fields)
	if err != nil {
		return common.StorageError(err, "Error al registrar la prueba física", table, 0)
	}

	common.Audited(s.auditor.LogCreate(ctx, table, created.ID, created, common.PerformedBy(ctx)), table, created.ID)
	common.Notify(ctx, s.publisher, EventRecorded, created)
	return shared.Success(created, "Prueba física registrada exitosamente")
}

// Get returns one physical test.
func (s *Service) Get(ctx context.Context, id int64) *shared.Result {
	p, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener la prueba física", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(physicaltest.ErrNotFound))
	}
	return shared.Success(p, "")
}

// List returns the physical tests, only active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) *shared.Result {
	var (
		items []*physicaltest.PhysicalTest
		err   error
	)
	if activeOnly {
		items, err = s.repo.GetByFilter(ctx, shared.Fields{physicaltest.FieldIsActive: true})
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return common.StorageError(err, "Error al listar las pruebas físicas", table, 0)
	}
	return shared.Success(items, "")
}

// ByAthlete returns the active tests of an athlete, most recent first.
func (s *Service) ByAthlete(ctx context.Context, athleteID int64) *shared.Result {
	if _, found, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return common.StorageError(err, "Error al obtener el atleta", "athletes", athleteID)
	} else if !found {
		return shared.NotFound(shared.Message(physicaltest.ErrAthleteNotFound))
	}

	items, err := s.repo.ListByAthlete(ctx, athleteID, true)
	if err != nil {
		return common.StorageError(err, "Error al listar las pruebas físicas del atleta", table, athleteID)
	}
	if items == nil {
		items = []*physicaltest.PhysicalTest{}
	}
	return shared.Success(items, "")
}

// Update applies the allow-listed changes.
func (s *Service) Update(ctx context.Context, id int64, changes map[string]any) *shared.Result {
	fields := shared.AllowedFields(changes, physicaltest.UpdatableFields)
	if len(fields) == 0 {
		return shared.ValidationError("No hay campos para actualizar", "Ninguno de los campos enviados puede modificarse")
	}
	if errs := physicaltest.Normalize(fields, s.clock.Now(), false); len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener la prueba física", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(physicaltest.ErrNotFound))
	}

	updated, found, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return common.StorageError(err, "Error al actualizar la prueba física", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(physicaltest.ErrNotFound))
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	return shared.Success(updated, "Prueba física actualizada exitosamente")
}

// Deactivate hides a physical test.
func (s *Service) Deactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, false)
}

// Reactivate restores a deactivated physical test.
func (s *Service) Reactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, true)
}
