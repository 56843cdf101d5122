// Package coach provides the application service for coaches.
package coach

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const table = "coaches"

// constraintErrors maps unique constraints to the conflict they represent.
var constraintErrors = map[string]error{
	"coaches_email_key":            coach.ErrDuplicateEmail,
	"coaches_dni_key":              coach.ErrDuplicateDNI,
	"coaches_persona_external_key": coach.ErrDuplicatePersona,
}

// ErrPhotoStoreDisabled is returned when no object storage is configured.
var ErrPhotoStoreDisabled = errors.New("el almacenamiento de fotos no está configurado")

// Service implements the coach use cases.
type Service struct {
	repo      coach.Repository
	rules     coach.Rules
	directory coach.PersonDirectory
	photos    coach.PhotoStore
	auditor   common.Auditor
	status    common.StatusChange[coach.Coach]
}

// Option configures optional collaborators of the Service.
type Option func(*Service)

// WithPersonDirectory enables persona_external verification.
func WithPersonDirectory(d coach.PersonDirectory) Option {
	return func(s *Service) { s.directory = d }
}

// WithPhotoStore enables photo uploads.
func WithPhotoStore(p coach.PhotoStore) Option {
	return func(s *Service) { s.photos = p }
}

// NewService creates a new coach Service.
func NewService(repo coach.Repository, rules coach.Rules, auditor common.Auditor, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		rules:   rules,
		auditor: auditor,
		status: common.StatusChange[coach.Coach]{
			DAO:             repo,
			Table:           table,
			Flag:            coach.FieldIsActive,
			IsActive:        func(c *coach.Coach) bool { return c.IsActive },
			NotFound:        coach.ErrNotFound,
			AlreadyInactive: coach.ErrAlreadyInactive,
			AlreadyActive:   coach.ErrAlreadyActive,
			Deactivated:     "Entrenador dado de baja exitosamente",
			Reactivated:     "Entrenador reactivado exitosamente",
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new coach.
func (s *Service) Create(ctx context.Context, data map[string]any) *shared.Result {
	fields, errs := s.rules.ValidateNew(data)
	if len(errs) > 0 {
		return shared.Invalid("Datos de entrenador inválidos", errs)
	}

	if res := s.checkUnique(ctx, fields[coach.FieldEmail].(string), fields[coach.FieldDNI].(string)); res != nil {
		return res
	}

	if external, ok := fields[coach.FieldPersonaExternal].(string); ok && s.directory != nil {
		actor, _ := common.ActorFrom(ctx)
		exists, err := s.directory.PersonExists(ctx, external, actor.Token)
		if err != nil {
			log.Error().Err(err).Str("persona_external", external).Msg("User module lookup failed")
			return shared.Error(shared.Message(coach.ErrUserModuleUnavailable))
		}
		if !exists {
			return shared.ValidationError("Datos de entrenador inválidos", shared.Message(coach.ErrPersonaNotFound))
		}
	}

	created, err := s.repo.Create(ctx, fields)
	if err != nil {
		if res := duplicateResult(err); res != nil {
			return res
		}
		return common.StorageError(err, "Error al crear el entrenador", table, 0)
	}

	common.Audited(s.auditor.LogCreate(ctx, table, created.ID, created, common.PerformedBy(ctx)), table, created.ID)
	return shared.Success(created, "Entrenador creado exitosamente")
}

func (s *Service) checkUnique(ctx context.Context, email, dni string) *shared.Result {
	if _, exists, err := s.repo.FindByEmail(ctx, email); err != nil {
		return common.StorageError(err, "Error al verificar el correo del entrenador", table, 0)
	} else if exists {
		return shared.Conflict(shared.Message(coach.ErrDuplicateEmail))
	}
	if _, exists, err := s.repo.FindByDNI(ctx, dni); err != nil {
		return common.StorageError(err, "Error al verificar el DNI del entrenador", table, 0)
	} else if exists {
		return shared.Conflict(shared.Message(coach.ErrDuplicateDNI))
	}
	return nil
}

func duplicateResult(err error) *shared.Result {
	constraint, dup := shared.DuplicateConstraint(err)
	if !dup {
		return nil
	}
	if domainErr, ok := constraintErrors[constraint]; ok {
		return shared.Conflict(shared.Message(domainErr))
	}
	return shared.Conflict("El entrenador ya existe")
}

// Get returns one coach.
func (s *Service) Get(ctx context.Context, id int64) *shared.Result {
	c, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el entrenador", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(coach.ErrNotFound))
	}
	return shared.Success(c, "")
}

// List returns the coaches, only active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) *shared.Result {
	var (
		items []*coach.Coach
		err   error
	)
	if activeOnly {
		items, err = s.repo.GetByFilter(ctx, shared.Fields{coach.FieldIsActive: true})
	} else {
		items, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return common.StorageError(err, "Error al listar los entrenadores", table, 0)
	}
	return shared.Success(items, "")
}

// Update applies the allow-listed changes.
func (s *Service) Update(ctx context.Context, id int64, changes map[string]any) *shared.Result {
	fields, errs := s.rules.ValidateChanges(changes)
	if len(errs) > 0 {
		return shared.Invalid("Datos de entrenador inválidos", errs)
	}
	if len(fields) == 0 {
		return shared.ValidationError("No hay campos para actualizar", "Ninguno de los campos enviados puede modificarse")
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el entrenador", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(coach.ErrNotFound))
	}

	if email, ok := fields[coach.FieldEmail].(string); ok && email != existing.Email {
		if other, exists, err := s.repo.FindByEmail(ctx, email); err != nil {
			return common.StorageError(err, "Error al verificar el correo del entrenador", table, id)
		} else if exists && other.ID != id {
			return shared.Conflict(shared.Message(coach.ErrDuplicateEmail))
		}
	}

	updated, found, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if res := duplicateResult(err); res != nil {
			return res
		}
		return common.StorageError(err, "Error al actualizar el entrenador", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(coach.ErrNotFound))
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	return shared.Success(updated, "Entrenador actualizado exitosamente")
}

// Deactivate soft-deletes a coach.
func (s *Service) Deactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, false)
}

// Reactivate restores a deactivated coach.
func (s *Service) Reactivate(ctx context.Context, id int64) *shared.Result {
	return s.status.Apply(ctx, s.auditor, id, true)
}

// UploadPhoto stores a profile picture and records its URL.
func (s *Service) UploadPhoto(ctx context.Context, id int64, r io.Reader, size int64, contentType string) *shared.Result {
	if s.photos == nil {
		return shared.Error(shared.Message(ErrPhotoStoreDisabled))
	}
	if err := coach.CheckPhoto(contentType, size); err != nil {
		return shared.ValidationError("Foto inválida", shared.Message(err))
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return common.StorageError(err, "Error al obtener el entrenador", table, id)
	}
	if !found {
		return shared.NotFound(shared.Message(coach.ErrNotFound))
	}

	url, err := s.photos.UploadCoachPhoto(ctx, id, r, size, contentType)
	if err != nil {
		return common.StorageError(err, "Error al subir la foto del entrenador", table, id)
	}

	updated, found, err := s.repo.Update(ctx, id, shared.Fields{coach.FieldPhotoURL: url})
	if err != nil || !found {
		if delErr := s.photos.DeleteObject(ctx, url); delErr != nil {
			log.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned coach photo")
		}
		if err != nil {
			return common.StorageError(err, "Error al guardar la foto del entrenador", table, id)
		}
		return shared.NotFound(shared.Message(coach.ErrNotFound))
	}

	if existing.PhotoURL != "" && existing.PhotoURL != url {
		if err := s.photos.DeleteObject(ctx, existing.PhotoURL); err != nil {
			log.Warn().Err(err).Str("url", existing.PhotoURL).Msg("Failed to delete previous coach photo")
		}
	}

	common.Audited(s.auditor.LogUpdate(ctx, table, id, existing, updated, common.PerformedBy(ctx)), table, id)
	return shared.Success(updated, "Foto actualizada exitosamente")
}
