// Package common defines shared constants and sentinel errors used across
// the biblio client. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Remote call errors, classified at the transport boundary by origin.
	ErrBadRequest = errors.New("servicio rechazó los datos enviados")
	ErrNotFound   = errors.New("recurso no encontrado")
	ErrServer     = errors.New("error interno del servicio")
	ErrNetwork    = errors.New("sin respuesta del servicio")

	// ErrRecoveryFailed means a rollback re-fetch also failed: local and
	// remote state can no longer be reconciled automatically.
	ErrRecoveryFailed = errors.New("no se pudo recuperar el estado del catálogo")

	// ErrSessionExpired means an authorization failure that a single token
	// refresh did not resolve. The session must be torn down.
	ErrSessionExpired = errors.New("sesión expirada")

	// ErrBusy means a mutation was requested on a record that already has
	// one in flight.
	ErrBusy = errors.New("operación en curso para este registro")
)

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// ValidationError carries per-field validation failures. It never reaches
// the network: operations fail fast before issuing any remote call.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "datos inválidos (" + strings.Join(parts, "; ") + ")"
}

// NewValidationError wraps a non-empty field-error map.
func NewValidationError(fields FieldErrors) error {
	return &ValidationError{Fields: fields}
}

// AsValidation unwraps err as a *ValidationError, or returns nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
