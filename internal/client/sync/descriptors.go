package sync

import (
	"time"

	"github.com/jcastrov/biblio/internal/client/api"
	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/common"
	"github.com/jcastrov/biblio/internal/logging"
)

// AuthorDescriptor configures a controller for the author flow: remote name
// search with identifier shortcut.
func AuthorDescriptor() Descriptor[models.Author] {
	return Descriptor[models.Author]{
		Name: "autor",
		ID:   func(a models.Author) string { return a.AutorLibroID },
		WithID: func(a models.Author, id string) models.Author {
			a.AutorLibroID = id
			return a
		},
		Validate: func(a models.Author, now time.Time) common.FieldErrors {
			return a.Validate(now)
		},
		LooksLikeID: models.IsAuthorID,
	}
}

// BookDescriptor configures a controller for the book flow: local title
// filter, opaque identifiers.
func BookDescriptor() Descriptor[models.Book] {
	return Descriptor[models.Book]{
		Name: "libro",
		ID:   func(b models.Book) string { return b.LibreriaMaterialID },
		WithID: func(b models.Book, id string) models.Book {
			b.LibreriaMaterialID = id
			return b
		},
		Validate: func(b models.Book, now time.Time) common.FieldErrors {
			return b.Validate(now)
		},
		Matches: models.Book.MatchesTitle,
	}
}

// NewAuthors builds the author controller.
func NewAuthors(svc api.EntityService[models.Author], log logging.Logger, timeout time.Duration) *Controller[models.Author] {
	return New(AuthorDescriptor(), svc, log, timeout)
}

// NewBooks builds the book controller.
func NewBooks(svc api.EntityService[models.Book], log logging.Logger, timeout time.Duration) *Controller[models.Book] {
	return New(BookDescriptor(), svc, log, timeout)
}
