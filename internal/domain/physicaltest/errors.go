package physicaltest

import "errors"

// Domain errors for physical test operations.
var (
	ErrNotFound          = errors.New("prueba física no encontrada")
	ErrAthleteNotFound   = errors.New("atleta no encontrado")
	ErrInvalidType       = errors.New("el tipo de prueba debe ser VELOCIDAD, RESISTENCIA, FUERZA, FLEXIBILIDAD, COORDINACION o AGILIDAD")
	ErrResultNotPositive = errors.New("el resultado debe ser mayor que 0")
	ErrFutureDate        = errors.New("la fecha de registro no puede ser futura")
	ErrAlreadyInactive   = errors.New("la prueba física ya está desactivada")
	ErrAlreadyActive     = errors.New("la prueba física ya está activa")
)
