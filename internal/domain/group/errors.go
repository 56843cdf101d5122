package group

import "errors"

// Domain errors for group operations.
var (
	ErrNotFound         = errors.New("grupo no encontrado")
	ErrCoachRequired    = errors.New("el entrenador es obligatorio")
	ErrCoachNotFound    = errors.New("el entrenador especificado no existe")
	ErrCoachInactive    = errors.New("el entrenador especificado está dado de baja")
	ErrNegativeMinAge   = errors.New("la edad mínima no puede ser negativa")
	ErrMaxAgeTooHigh    = errors.New("la edad máxima no puede ser mayor a 150")
	ErrMinAboveMax      = errors.New("la edad mínima no puede ser mayor a la máxima")
	ErrTooManyMembers   = errors.New("no se pueden asignar más de 100 atletas a un grupo")
	ErrInvalidMemberID  = errors.New("los IDs de atletas deben ser números positivos")
	ErrNotInteger       = errors.New("valor entero inválido")
	ErrEligibilityScope = errors.New("se requiere un group_id o un rango de edad (min_age, max_age)")
	ErrAlreadyInactive  = errors.New("el grupo ya está dado de baja")
	ErrAlreadyActive    = errors.New("el grupo ya está activo")
)
