package coach

import "errors"

// Domain errors for coach operations.
var (
	ErrNotFound              = errors.New("entrenador no encontrado")
	ErrDuplicateEmail        = errors.New("ya existe un entrenador con ese correo")
	ErrDuplicateDNI          = errors.New("ya existe un entrenador con ese DNI")
	ErrDuplicatePersona      = errors.New("la persona ya está registrada como entrenador")
	ErrPersonaNotFound       = errors.New("la persona no existe en el módulo de usuarios")
	ErrUserModuleUnavailable = errors.New("no se pudo contactar al módulo de usuarios")
	ErrAlreadyInactive       = errors.New("el entrenador ya está dado de baja")
	ErrAlreadyActive         = errors.New("el entrenador ya está activo")
	ErrInvalidPhoto          = errors.New("la foto debe ser una imagen JPEG, PNG o WEBP de hasta 5 MB")
)
