// Package enrollment provides the application service for athlete enrollments.
package enrollment

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/enrollment"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const table = "enrollments"

const invalidMessage = "Datos de inscripción inválidos"

// AthleteReader is the part of the athlete store the service reads.
type AthleteReader interface {
	GetByID(ctx context.Context, id int64) (*athlete.Athlete, bool, error)
}

// Service implements the enrollment use cases.
type Service struct {
	repo     enrollment.Repository
	athletes AthleteReader
	auditor  common.Auditor
	clock    common.Clock
	status   common.StatusChange[enrollment.Enrollment]
}

// NewService creates a new enrollment Service.
func NewService(repo enrollment.Repository, athletes AthleteReader, auditor common.Auditor, clock common.Clock) *Service {
	return &Service{
		repo:     repo,
		athletes: athletes,
		auditor:  auditor,
		clock:    clock,
		status: common.StatusChange[enrollment.Enrollment]{
			DAO:             repo,
			Table:           table,
			Flag:            enrollment.FieldEnabled,
			IsActive:        func(e *enrollment.Enrollment) bool { return e.Enabled },
			NotFound:        enrollment.ErrNotFound,
			AlreadyInactive: enrollment.ErrAlreadyDisabled,
			AlreadyActive:   enrollment.ErrAlreadyEnabled,
			Deactivated:     "Inscripción deshabilitada exitosamente",
			Reactivated:     "Inscripción habilitada exitosamente",
		},
	}
}

// Create enrolls an athlete. Each athlete holds at most one enrollment.
func (s *Service) Create(ctx context.Context, data map[string]any) *shared.Result {
	errs := shared.RequiredFields(data, enrollment.RequiredFields)
	if len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	fields := shared.AllowedFields(data, append([]string{enrollment.FieldAthleteID}, enrollment.UpdatableFields...))
	athleteID, err := shared.CoerceID(fields[enrollment.FieldAthleteID])
	if err != nil {
		errs = append(errs, shared.FieldError{Field: enrollment.FieldAthleteID, Message: "El campo 'athlete_id' debe ser un entero positivo"})
	}
	fields[enrollment.FieldAthleteID] = athleteID
	if errs = append(errs, enrollment.Normalize(fields, s.clock.Now(), true)...); len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	if _, found, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return common.StorageError(err, "Error al obtener el atleta", "athletes", athleteID)
	} else if !found {
		return shared.NotFound(shared.Message(enrollment.ErrAthleteNotFound))
	}

	if _, exists, err := s.repo.GetByAthlete(ctx, athleteID); err != nil {
		return common.StorageError(err, "Error al verificar la inscripción del atleta", table, 0)
	} else if exists {
		return shared.Conflict(shared.Message(enrollment.ErrAlreadyEnrolled))
	}

	created, err := s.repo.Create(ctx, fields)
	if err != nil {
		if _, dup := shared.DuplicateConstraint(err); dup {
			return shared.Conflict(shared.Message(enrollment.ErrAlreadyEnrolled))
		}
		return common.StorageError(err, "Error al crear la inscripción", table, 0)
	}

	common.Audited(s.auditor.LogCreate(ctx, table, created.ID, created, common.PerformedBy(ctx)), table, created.ID)
	return shared.Success(created, "Inscripción creada exitosamente")
}

// Get returns one enrollment.
func (s *Service) Get(ctx context.Context, id int64) *shared.Result {
	e, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener la inscripción", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(enrollment.ErrNotFound))
	}
	return shared.Success(e, "")
}

// GetByAthlete returns the enrollment of an athlete.
func (s *Service) GetByAthlete(ctx context.Context, athleteID int64) *shared.Result {
	e, found, err := s.repo.GetByAthlete(ctx, athleteID)
	if err != nil {
		return common.StorageError(err, "Error al obtener la inscripción del atleta", table, athleteID)
	}
	if !found {
		return shared.NotFound(shared.Message(enrollment.ErrNotFound))
	}
	return shared.Success(e, "")
}

// List returns the enrollments, only enabled ones when enabledOnly is set.
func (s *Service) List(ctx context.Context, enabledOnly bool) *shared.Result {
	var (
		items []*enrollment.Enrollment
		err   error
	)
	if enabledOnly {
		items, err = s.repo.GetByFilter(ctx, shared.Fields{enrollment.FieldEnabled: true})
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return common.StorageError(err, "Error al listar las inscripciones", table, 0)
	}
	return shared.Success(items, "")
}

// Update changes the enrollment date or type.
func (s *Service) Update(ctx context.Context, id int64, changes map[string]any) *shared.Result {
	fields := shared.AllowedFields(changes, enrollment.UpdatableFields)
	if len(fields) == 0 {
		return shared.ValidationError("No hay campos para actualizar", "Ninguno de los campos enviados puede modificarse")
	}
	if errs := enrollment.Normalize(fields, s.clock.Now(), false); len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener la inscripción", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(enrollment.ErrNotFound))
	}

	updated, found, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return common.StorageError(err, "Error al actualizar la inscripción", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(enrollment.ErrNotFound))
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	return shared.Success(updated, "Inscripción actualizada exitosamente")
}

// Disable turns the enabled flag off.
func (s *Service) Disable(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, false)
}

// Enable turns the enabled flag back on.
func (s *Service) Enable(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, true)
}
