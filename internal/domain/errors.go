package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrNoClassifiableValue indica que el catálogo no tiene valor anual positivo para rankear (ABC).
	// La clasificación previa se conserva intacta.
	ErrNoClassifiableValue = errors.New("sin valor anual clasificable en el catálogo")
)
