// Package measurement provides the application service for anthropometric
// measurements, including the spreadsheet import and export.
package measurement

import (
	"context"
	"strings"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/enrollment"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const table = "anthropometric_tests"

const invalidMessage = "Datos de medición inválidos"

// Routing keys of the events emitted by the service.
const (
	EventRecorded = "measurement.recorded"
	EventUpdated  = "measurement.updated"
)

// AthleteReader is the part of the athlete store the service reads.
type AthleteReader interface {
	GetByID(ctx context.Context, id int64) (*athlete.Athlete, bool, error)
}

// EnrollmentReader is the part of the enrollment store the service reads.
type EnrollmentReader interface {
	GetByAthlete(ctx context.Context, athleteID int64) (*enrollment.Enrollment, bool, error)
}

// Service implements the measurement use cases.
type Service struct {
	repo        measurement.Repository
	athletes    AthleteReader
	enrollments EnrollmentReader
	auditor     common.Auditor
	publisher   common.Publisher
	clock       common.Clock
	status      common.StatusChange[measurement.Measurement]
}

// NewService creates a new measurement Service. publisher may be nil.
func NewService(
	repo measurement.Repository,
	athletes AthleteReader,
	enrollments EnrollmentReader,
	auditor common.Auditor,
	publisher common.Publisher,
	clock common.Clock,
) *Service {
	return &Service{
		repo:        repo,
		athletes:    athletes,
		enrollments: enrollments,
		auditor:     auditor,
		publisher:   publisher,
		clock:       clock,
		status: common.StatusChange[measurement.Measurement]{
			DAO:             repo,
			Table:           table,
			Flag:            measurement.ColumnIsActive,
			IsActive:        func(m *measurement.Measurement) bool { return m.IsActive },
			NotFound:        measurement.ErrNotFound,
			AlreadyInactive: measurement.ErrAlreadyInactive,
			AlreadyActive:   measurement.ErrAlreadyActive,
			Deactivated:     "Medición desactivada exitosamente",
			Reactivated:     "Medición reactivada exitosamente",
		},
	}
}

// Create records a measurement for an active, enrolled athlete. The recorder
// and its role come from the caller identity.
func (s *Service) Create(ctx context.Context, data map[string]any) *shared.Result {
	errs := shared.RequiredFields(data, []string{measurement.ColumnAthleteID})
	if len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}
	athleteID, err := shared.CoerceID(data[measurement.ColumnAthleteID])
	if err != nil {
		return shared.Invalid(invalidMessage, []shared.FieldError{{
			Field: measurement.ColumnAthleteID, Message: "El campo 'athlete_id' debe ser un entero positivo",
		}})
	}

	if res := s.checkAthlete(ctx, athleteID); res != nil {
		return res
	}

	values, errs := measurement.Validate(data, s.clock.Now())
	if len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	actor, _ := common.ActorFrom(ctx)
	fields := values.Columns()
	fields[measurement.ColumnAthleteID] = athleteID
	fields[measurement.ColumnRecordedBy] = actor.Label()
	fields[measurement.ColumnRecordedByRole] = actor.Role()
	if notes, ok := data[measurement.ColumnNotes].(string); ok {
		fields[measurement.ColumnNotes] = strings.TrimSpace(notes)
	}

	created, err := s.repo.Create(ctx, fields)
	if err != nil {
		return common.StorageError(err, "Error al registrar la medición", table, 0)
	}

	common.Audited(s.auditor.LogCreate(ctx, table, created.ID, created, common.PerformedBy(ctx)), table, created.ID)
	common.Notify(ctx, s.publisher, EventRecorded, created)
	return shared.Success(created, "Medición registrada exitosamente")
}

// checkAthlete requires the athlete to exist, be active and hold an enabled
// enrollment.
func (s *Service) checkAthlete(ctx context.Context, athleteID int64) *shared.Result {
	a, found, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return common.StorageError(err, "Error al obtener el atleta", "athletes", athleteID)
	}
	if !found {
		return shared.NotFound(shared.Message(measurement.ErrAthleteNotFound))
	}
	if !a.IsActive {
		return shared.ValidationError(invalidMessage, shared.Message(measurement.ErrAthleteInactive))
	}

	e, found, err := s.enrollments.GetByAthlete(ctx, athleteID)
	if err != nil {
		return common.StorageError(err, "Error al verificar la inscripción del atleta", "enrollments", athleteID)
	}
	if !found || !e.Enabled {
		return shared.ValidationError(invalidMessage, shared.Message(measurement.ErrNotEnrolled))
	}
	return nil
}

// Get returns one measurement.
func (s *Service) Get(ctx context.Context, id int64) *shared.Result {
	m, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener la medición", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(measurement.ErrNotFound))
	}
	return shared.Success(m, "")
}

// List returns the measurements, only active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) *shared.Result {
	var (
		items []*measurement.Measurement
		err   error
	)
	if activeOnly {
		items, err = s.repo.GetByFilter(ctx, shared.Fields{measurement.ColumnIsActive: true})
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return common.StorageError(err, "Error al listar las mediciones", table, 0)
	}
	return shared.Success(items, "")
}

// ByAthlete returns the active measurements of an athlete ordered by date.
func (s *Service) ByAthlete(ctx context.Context, athleteID int64) *shared.Result {
	items, res := s.history(ctx, athleteID)
	if res != nil {
		return res
	}
	return shared.Success(items, "")
}

// ChartData returns the progress series of an athlete.
func (s *Service) ChartData(ctx context.Context, athleteID int64) *shared.Result {
	items, res := s.history(ctx, athleteID)
	if res != nil {
		return res
	}
	return shared.Success(measurement.ChartSeries(items), "")
}

func (s *Service) history(ctx context.Context, athleteID int64) ([]*measurement.Measurement, *shared.Result) {
	if _, found, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return nil, common.StorageError(err, "Error al obtener el atleta", "athletes", athleteID)
	} else if !found {
		return nil, shared.NotFound(shared.Message(measurement.ErrAthleteNotFound))
	}

	items, err := s.repo.ListByAthlete(ctx, athleteID, true)
	if err != nil {
		return nil, common.StorageError(err, "Error al listar las mediciones del atleta", table, athleteID)
	}
	if items == nil {
		items = []*measurement.Measurement{}
	}
	return items, nil
}

// Update merges the changes over the stored values and re-validates the
// measured quantities, recomputing the derived indices. The registration
// date is only re-checked when it is among the changes.
func (s *Service) Update(ctx context.Context, id int64, changes map[string]any) *shared.Result {
	allowed := shared.AllowedFields(changes, measurement.UpdatableFields)
	if len(allowed) == 0 {
		return shared.ValidationError("No hay campos para actualizar", "Ninguno de los campos enviados puede modificarse")
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener la medición", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(measurement.ErrNotFound))
	}

	values, errs := existing.ValidateChanges(allowed, s.clock.Now())
	if len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}
	fields := values.Columns()
	if raw, ok := allowed[measurement.ColumnNotes]; ok {
		notes, _ := raw.(string)
		fields[measurement.ColumnNotes] = strings.TrimSpace(notes)
	}

	updated, found, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return common.StorageError(err, "Error al actualizar la medición", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(measurement.ErrNotFound))
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	common.Notify(ctx, s.publisher, EventUpdated, updated)
	return shared.Success(updated, "Medición actualizada exitosamente")
}

// Deactivate hides a measurement from the athlete history.
func (s *Service) Deactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, false)
}

// Reactivate restores a deactivated measurement.
func (s *Service) Reactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, true)
}
