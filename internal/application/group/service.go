// Package group provides the application service for athlete groups.
package group

import (
	"context"
	"slices"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/group"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const table = "athlete_groups"

const invalidMessage = "Datos de grupo inválidos"

// AthleteReader is the part of the athlete store the service reads.
type AthleteReader interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*athlete.Athlete, error)
	GetByFilter(ctx context.Context, criteria shared.Fields) ([]*athlete.Athlete, error)
}

// CoachReader is the part of the coach store the service reads.
type CoachReader interface {
	GetByID(ctx context.Context, id int64) (*coach.Coach, bool, error)
}

// Service implements the group use cases.
type Service struct {
	repo     group.Repository
	athletes AthleteReader
	coaches  CoachReader
	auditor  common.Auditor
	clock    common.Clock
	status   common.StatusChange[group.Group]
}

// NewService creates a new group Service.
func NewService(repo group.Repository, athletes AthleteReader, coaches CoachReader, auditor common.Auditor, clock common.Clock) *Service {
	return &Service{
		repo:     repo,
		athletes: athletes,
		coaches:  coaches,
		auditor:  auditor,
		clock:    clock,
		status: common.StatusChange[group.Group]{
			DAO:             repo,
			Table:           table,
			Flag:            group.FieldIsActive,
			IsActive:        func(g *group.Group) bool { return g.IsActive },
			NotFound:        group.ErrNotFound,
			AlreadyInactive: group.ErrAlreadyInactive,
			AlreadyActive:   group.ErrAlreadyActive,
			Deactivated:     "Grupo dado de baja exitosamente",
			Reactivated:     "Grupo reactivado exitosamente",
		},
	}
}

// Create registers a group with its initial members.
func (s *Service) Create(ctx context.Context, data map[string]any) *shared.Result {
	errs := shared.RequiredFields(data, group.RequiredFields)
	in, parseErrs := group.ParseInput(data, group.UpdatableFields)
	if errs = append(errs, parseErrs...); len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}

	minAge := in.Fields[group.FieldMinAge].(int)
	maxAge := in.Fields[group.FieldMaxAge].(int)
	if err := group.ValidateAgeRange(minAge, maxAge); err != nil {
		return shared.ValidationError(invalidMessage, shared.Message(err))
	}
	if res := s.checkCoach(ctx, in.Fields[group.FieldCoachID].(int64)); res != nil {
		return res
	}
	members := dedupe(in.Members)
	if res := s.checkMembers(ctx, members, minAge, maxAge); res != nil {
		return res
	}

	created, err := s.repo.CreateWithMembers(ctx, in.Fields, members)
	if err != nil {
		return common.StorageError(err, "Error al crear el grupo", table, 0)
	}

	common.Audited(s.auditor.LogCreate(ctx, table, created.ID, created, common.PerformedBy(ctx)), table, created.ID)
	return shared.Success(created, "Grupo creado exitosamente")
}

// Get returns one group with its members.
func (s *Service) Get(ctx context.Context, id int64) *shared.Result {
	g, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el grupo", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(group.ErrNotFound))
	}
	return shared.Success(g, "")
}

// List returns the groups, only active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) *shared.Result {
	var (
		items []*group.Group
		err   error
	)
	if activeOnly {
		items, err = s.repo.GetByFilter(ctx, shared.Fields{group.FieldIsActive: true})
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return common.StorageError(err, "Error al listar los grupos", table, 0)
	}
	return shared.Success(items, "")
}

// ListByCoach returns the active groups of a coach.
func (s *Service) ListByCoach(ctx context.Context, coachID int64) *shared.Result {
	if _, found, err := s.coaches.GetByID(ctx, coachID); err != nil {
		return common.StorageError(err, "Error al obtener el entrenador", "coaches", coachID)
	} else if !found {
		return shared.NotFound(shared.Message(coach.ErrNotFound))
	}

	items, err := s.repo.ListByCoach(ctx, coachID)
	if err != nil {
		return common.StorageError(err, "Error al listar los grupos del entrenador", table, coachID)
	}
	return shared.Success(items, "")
}

// Update applies the allow-listed changes. A members key replaces the whole
// member list; a changed age range is re-checked against the members.
func (s *Service) Update(ctx context.Context, id int64, changes map[string]any) *shared.Result {
	in, errs := group.ParseInput(changes, group.UpdatableFields)
	for _, key := range []string{group.FieldName, group.FieldCategory, group.FieldMinAge, group.FieldMaxAge, group.FieldCoachID} {
		if _, ok := in.Fields[key]; ok {
			errs = append(errs, shared.RequiredFields(in.Fields, []string{key})...)
		}
	}
	if len(errs) > 0 {
		return shared.Invalid(invalidMessage, errs)
	}
	if len(in.Fields) == 0 && !in.HasMembers {
		return shared.ValidationError("No hay campos para actualizar", "Ninguno de los campos enviados puede modificarse")
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el grupo", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(group.ErrNotFound))
	}

	minAge, maxAge := existing.MinAge, existing.MaxAge
	if v, ok := in.Fields[group.FieldMinAge].(int); ok {
		minAge = v
	}
	if v, ok := in.Fields[group.FieldMaxAge].(int); ok {
		maxAge = v
	}
	if err := group.ValidateAgeRange(minAge, maxAge); err != nil {
		return shared.ValidationError(invalidMessage, shared.Message(err))
	}

	if coachID, ok := in.Fields[group.FieldCoachID].(int64); ok && coachID != existing.CoachID {
		if res := s.checkCoach(ctx, coachID); res != nil {
			return res
		}
	}

	var members []int64
	switch {
	case in.HasMembers:
		members = dedupe(in.Members)
		if members == nil {
			members = []int64{}
		}
		if res := s.checkMembers(ctx, members, minAge, maxAge); res != nil {
			return res
		}
	case minAge != existing.MinAge || maxAge != existing.MaxAge:
		if res := s.checkMembers(ctx, existing.Members, minAge, maxAge); res != nil {
			return res
		}
	}

	updated, found, err := s.repo.UpdateWithMembers(ctx, id, in.Fields, members)
	if err != nil {
		return common.StorageError(err, "Error al actualizar el grupo", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(group.ErrNotFound))
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	return shared.Success(updated, "Grupo actualizado exitosamente")
}

// Deactivate soft-deletes a group.
func (s *Service) Deactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, false)
}

// Reactivate restores a deactivated group.
func (s *Service) Reactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, true)
}

// EligibilityQuery selects candidates for a group: either the range of an
// existing group (whose members are excluded) or an explicit age range.
type EligibilityQuery struct {
	GroupID *int64
	MinAge  *int
	MaxAge  *int
}

// EligibleAthletes lists active athletes whose age fits the range.
func (s *Service) EligibleAthletes(ctx context.Context, q EligibilityQuery) *shared.Result {
	var (
		minAge, maxAge int
		exclude        []int64
	)
	switch {
	case q.GroupID != nil:
		g, found, err := s.repo.GetByID(ctx, *q.GroupID)
		if err != nil {
			return common.StorageError(err, "Error al obtener el grupo", table, *q.GroupID)
		}
		if !found {
			return shared.NotFound(shared.Message(group.ErrNotFound))
		}
		minAge, maxAge, exclude = g.MinAge, g.MaxAge, g.Members
	case q.MinAge != nil && q.MaxAge != nil:
		minAge, maxAge = *q.MinAge, *q.MaxAge
		if err := group.ValidateAgeRange(minAge, maxAge); err != nil {
			return shared.ValidationError(invalidMessage, shared.Message(err))
		}
	default:
		return shared.ValidationError("Parámetros inválidos", shared.Message(group.ErrEligibilityScope))
	}

	active, err := s.athletes.GetByFilter(ctx, shared.Fields{athlete.FieldIsActive: true})
	if err != nil {
		return common.StorageError(err, "Error al listar los atletas", "athletes", 0)
	}

	today := s.clock.Now()
	eligible := []*athlete.Athlete{}
	for _, a := range active {
		age := a.AgeOn(today)
		if age >= minAge && age <= maxAge && !slices.Contains(exclude, a.ID) {
			eligible = append(eligible, a)
		}
	}
	return shared.Success(eligible, "")
}

func (s *Service) checkCoach(ctx context.Context, coachID int64) *shared.Result {
	if coachID <= 0 {
		return shared.ValidationError(invalidMessage, shared.Message(group.ErrCoachRequired))
	}
	c, found, err := s.coaches.GetByID(ctx, coachID)
	if err != nil {
		return common.StorageError(err, "Error al obtener el entrenador", "coaches", coachID)
	}
	if !found {
		return shared.ValidationError(invalidMessage, shared.Message(group.ErrCoachNotFound))
	}
	if !c.IsActive {
		return shared.ValidationError(invalidMessage, shared.Message(group.ErrCoachInactive))
	}
	return nil
}

// checkMembers verifies that every id exists and every athlete fits the range.
func (s *Service) checkMembers(ctx context.Context, ids []int64, minAge, maxAge int) *shared.Result {
	if len(ids) == 0 {
		return nil
	}
	if err := group.ValidateMemberIDs(ids); err != nil {
		return shared.ValidationError(invalidMessage, shared.Message(err))
	}

	found, err := s.athletes.GetByIDs(ctx, ids)
	if err != nil {
		return common.StorageError(err, "Error al verificar los atletas del grupo", "athletes", 0)
	}
	byID := make(map[int64]*athlete.Athlete, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return shared.ValidationError(invalidMessage, shared.Message(&group.MissingMembersError{IDs: missing}))
	}

	today := s.clock.Now()
	var errs []string
	for _, id := range ids {
		if age := byID[id].AgeOn(today); age < minAge || age > maxAge {
			errs = append(errs, shared.Message(&group.AgeMismatchError{AthleteID: id, Age: age, MinAge: minAge, MaxAge: maxAge}))
		}
	}
	if len(errs) > 0 {
		return shared.ValidationError(invalidMessage, errs...)
	}
	return nil
}

// dedupe removes repeated ids, keeping the first occurrence.
func dedupe(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
