package athlete

import "errors"

// Domain errors for athlete operations.
var (
	ErrNotFound          = errors.New("atleta no encontrado")
	ErrDuplicateDNI      = errors.New("ya existe un atleta con ese DNI")
	ErrInvalidSex        = errors.New("el sexo debe ser M, F u O")
	ErrInvalidEmail      = errors.New("el correo electrónico no es válido")
	ErrBirthDateInFuture = errors.New("la fecha de nacimiento no puede ser futura")
	ErrAlreadyInactive   = errors.New("el atleta ya está dado de baja")
	ErrAlreadyActive     = errors.New("el atleta ya está activo")
)
