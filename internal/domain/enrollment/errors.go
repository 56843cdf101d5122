package enrollment

import "errors"

// Domain errors for enrollment operations.
var (
	ErrNotFound        = errors.New("inscripción no encontrada")
	ErrAthleteNotFound = errors.New("atleta no encontrado")
	ErrAlreadyEnrolled = errors.New("el atleta ya tiene una inscripción")
	ErrInvalidType     = errors.New("el tipo de inscripción debe ser FEDERADO, NO_FEDERADO o INVITADO")
	ErrFutureDate      = errors.New("la fecha de inscripción no puede ser futura")
	ErrAlreadyDisabled = errors.New("la inscripción ya está deshabilitada")
	ErrAlreadyEnabled  = errors.New("la inscripción ya está habilitada")
)
