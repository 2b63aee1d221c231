// Package models defines the catalog record types and their field-level
// validation. Field names mirror what the entity services return, so records
// unmarshal straight from a response body.
package models

import (
	"regexp"
	"time"

	"github.com/jcastrov/biblio/internal/common"
)

// DateLayout is the day-granularity format used in forms and payloads.
const DateLayout = "2006-01-02"

// guidPattern matches a GUID-shaped author identifier.
var guidPattern = regexp.MustCompile(`^[\da-fA-F-]{36}$`)

// IsAuthorID reports whether term looks like an author identifier rather
// than a name fragment.
func IsAuthorID(term string) bool {
	return guidPattern.MatchString(term)
}

// Author is a catalog author. FechaNacimiento, when present, is a
// DateLayout string.
type Author struct {
	AutorLibroID    string `json:"autorLibroId"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	FechaNacimiento string `json:"fechaNacimiento,omitempty"`
}

// Validate checks the author's fields against the given wall-clock time.
// An empty map means the record is valid.
func (a Author) Validate(now time.Time) common.FieldErrors {
	errs := common.FieldErrors{}
	if isBlank(a.Nombre) {
		errs["nombre"] = "Nombre requerido"
	}
	if isBlank(a.Apellido) {
		errs["apellido"] = "Apellido requerido"
	}
	if msg := checkDate(a.FechaNacimiento, now); msg != "" {
		errs["fechaNacimiento"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
