package measurement

import "errors"

// Domain errors for measurement operations.
var (
	// ErrNotFound is returned when a measurement does not exist.
	ErrNotFound = errors.New("medición no encontrada")

	// ErrAthleteNotFound is returned when the measured athlete does not exist.
	ErrAthleteNotFound = errors.New("atleta no encontrado")

	// ErrAthleteInactive is returned when measuring an athlete that was deactivated.
	ErrAthleteInactive = errors.New("el atleta está inactivo")

	// ErrNotEnrolled is returned when the athlete has no enabled enrollment.
	ErrNotEnrolled = errors.New("el atleta no tiene una inscripción habilitada")

	// ErrAlreadyInactive is returned when deactivating an inactive measurement.
	ErrAlreadyInactive = errors.New("la medición ya está desactivada")

	// ErrAlreadyActive is returned when reactivating an active measurement.
	ErrAlreadyActive = errors.New("la medición ya está activa")
)
