package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// isConstraintViolation CHECK o FK rechazados por la base: el dato no cumple las invariantes del esquema.
func isConstraintViolation(err error) bool {
	switch pgErrorCode(err) {
	case codeCheckViolation, codeForeignKeyViolation:
		return true
	}
	return false
}

// isInvalidText el parámetro no se pudo convertir al tipo de la columna (p. ej. un id que no es UUID).
func isInvalidText(err error) bool {
	return pgErrorCode(err) == codeInvalidText
}
