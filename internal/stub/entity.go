// Package stub provides in-process fakes of the three catalog microservices.
// They honor the same routes, wire casing and failure statuses as the real
// deployments, which makes them usable both from transport tests and from
// the local development server in cmd/stubserver.
package stub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcastrov/biblio/internal/client/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// requireBearer rejects requests without a valid bearer token when verify is
// set.
func requireBearer(verify func(token string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verify == nil {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || !verify(token) {
				writeMessage(w, http.StatusUnauthorized, "token inválido o expirado")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthorServer fakes the author microservice with GUID identifiers.
type AuthorServer struct {
	mu      sync.Mutex
	order   []string
	authors map[string]models.Author

	// Verify, when set, gates every route behind a bearer-token check.
	Verify func(token string) bool
}

func NewAuthorServer() *AuthorServer {
	return &AuthorServer{authors: make(map[string]models.Author)}
}

// Seed inserts an author, assigning an identifier when missing.
func (s *AuthorServer) Seed(a models.Author) models.Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.AutorLibroID == "" {
		a.AutorLibroID = uuid.NewString()
	}
	if _, exists := s.authors[a.AutorLibroID]; !exists {
		s.order = append(s.order, a.AutorLibroID)
	}
	s.authors[a.AutorLibroID] = a
	return a
}

func (s *AuthorServer) list() []models.Author {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Author, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.authors[id])
	}
	return out
}

type authorWire struct {
	Nombre          string  `json:"Nombre"`
	Apellido        string  `json:"Apellido"`
	FechaNacimiento *string `json:"FechaNacimiento"`
}

func (s *AuthorServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requireBearer(s.Verify))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.list())
	})

	r.Get("/buscar", func(w http.ResponseWriter, r *http.Request) {
		term := strings.ToLower(r.URL.Query().Get("nombre"))
		matched := make([]models.Author, 0)
		for _, a := range s.list() {
			full := strings.ToLower(a.Nombre + " " + a.Apellido)
			if strings.Contains(full, term) {
				matched = append(matched, a)
			}
		}
		writeJSON(w, http.StatusOK, matched)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		a, ok := s.authors[chi.URLParam(r, "id")]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusNotFound, "autor no encontrado")
			return
		}
		writeJSON(w, http.StatusOK, a)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var in authorWire
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Nombre == "" || in.Apellido == "" {
			writeMessage(w, http.StatusBadRequest, "datos de autor inválidos")
			return
		}
		a := models.Author{Nombre: in.Nombre, Apellido: in.Apellido}
		if in.FechaNacimiento != nil {
			a.FechaNacimiento = *in.FechaNacimiento
		}
		writeJSON(w, http.StatusCreated, s.Seed(a))
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		_, ok := s.authors[id]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusNotFound, "autor no encontrado")
			return
		}
		var in authorWire
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Nombre == "" || in.Apellido == "" {
			writeMessage(w, http.StatusBadRequest, "datos de autor inválidos")
			return
		}
		a := models.Author{AutorLibroID: id, Nombre: in.Nombre, Apellido: in.Apellido}
		if in.FechaNacimiento != nil {
			a.FechaNacimiento = *in.FechaNacimiento
		}
		s.mu.Lock()
		s.authors[id] = a
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, a)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.authors[id]; !ok {
			writeMessage(w, http.StatusNotFound, "autor no encontrado")
			return
		}
		delete(s.authors, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// BookServer fakes the book microservice with opaque identifiers. Its
// create response deliberately returns only the assigned identifier, the
// quirk the client normalizes around.
type BookServer struct {
	mu    sync.Mutex
	order []string
	books map[string]models.Book

	// Verify, when set, gates every route behind a bearer-token check.
	Verify func(token string) bool
}

func NewBookServer() *BookServer {
	return &BookServer{books: make(map[string]models.Book)}
}

func (s *BookServer) Seed(b models.Book) models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.LibreriaMaterialID == "" {
		b.LibreriaMaterialID = uuid.NewString()
	}
	if _, exists := s.books[b.LibreriaMaterialID]; !exists {
		s.order = append(s.order, b.LibreriaMaterialID)
	}
	s.books[b.LibreriaMaterialID] = b
	return b
}

func (s *BookServer) list() []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Book, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.books[id])
	}
	return out
}

type bookWire struct {
	Titulo           string  `json:"Titulo"`
	FechaPublicacion *string `json:"FechaPublicacion"`
	AutorLibro       *string `json:"AutorLibro"`
	LibroID          string  `json:"LibroId"`
}

func (s *BookServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requireBearer(s.Verify))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.list())
	})

	r.Get("/buscar", func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("nombre")
		matched := make([]models.Book, 0)
		for _, b := range s.list() {
			if b.MatchesTitle(term) {
				matched = append(matched, b)
			}
		}
		writeJSON(w, http.StatusOK, matched)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		b, ok := s.books[chi.URLParam(r, "id")]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusNotFound, "libro no encontrado")
			return
		}
		writeJSON(w, http.StatusOK, b)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var in bookWire
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Titulo == "" {
			writeMessage(w, http.StatusBadRequest, "datos de libro inválidos")
			return
		}
		b := models.Book{Titulo: in.Titulo}
		if in.FechaPublicacion != nil {
			b.FechaPublicacion = *in.FechaPublicacion
		}
		if in.AutorLibro != nil {
			b.AutorLibro = *in.AutorLibro
		}
		created := s.Seed(b)
		writeJSON(w, http.StatusCreated, map[string]string{
			"libreriaMaterialId": created.LibreriaMaterialID,
		})
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		_, ok := s.books[id]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusNotFound, "libro no encontrado")
			return
		}
		var in bookWire
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Titulo == "" {
			writeMessage(w, http.StatusBadRequest, "datos de libro inválidos")
			return
		}
		b := models.Book{LibreriaMaterialID: id, Titulo: in.Titulo}
		if in.FechaPublicacion != nil {
			b.FechaPublicacion = *in.FechaPublicacion
		}
		if in.AutorLibro != nil {
			b.AutorLibro = *in.AutorLibro
		}
		s.mu.Lock()
		s.books[id] = b
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, b)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.books[id]; !ok {
			writeMessage(w, http.StatusNotFound, "libro no encontrado")
			return
		}
		delete(s.books, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
