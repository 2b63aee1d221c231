package models

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/jcastrov/biblio/internal/common"
)

// MaxTituloLen bounds the title length accepted by the book service.
const MaxTituloLen = 100

// authorRefPattern is the identifier-safe character set for the optional
// author reference on a book.
var authorRefPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Book is a catalog book. AutorLibro optionally references an author
// identifier.
type Book struct {
	LibreriaMaterialID string `json:"libreriaMaterialId"`
	Titulo             string `json:"titulo"`
	FechaPublicacion   string `json:"fechaPublicacion,omitempty"`
	AutorLibro         string `json:"autorLibro,omitempty"`
}

// Validate checks the book's fields against the given wall-clock time.
func (b Book) Validate(now time.Time) common.FieldErrors {
	errs := common.FieldErrors{}
	if isBlank(b.Titulo) {
		errs["titulo"] = "El título es requerido"
	} else if utf8.RuneCountInString(b.Titulo) > MaxTituloLen {
		errs["titulo"] = "El título no puede superar los 100 caracteres"
	}
	if msg := checkDate(b.FechaPublicacion, now); msg != "" {
		errs["fechaPublicacion"] = msg
	}
	if b.AutorLibro != "" && !authorRefPattern.MatchString(b.AutorLibro) {
		errs["autorLibro"] = "Identificador de autor inválido"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// MatchesTitle reports whether the book title contains term,
// case-insensitively. Used by the local filter in the book flow.
func (b Book) MatchesTitle(term string) bool {
	return containsFold(b.Titulo, term)
}
