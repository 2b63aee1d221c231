package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/logging"
)

// BookService is the HTTP client for the book microservice. Same casing
// convention as the author service, with two quirks inherited from the
// backend: update wants the identifier repeated in the body, and create may
// answer with the identifier alone.
type BookService struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

func NewBookService(baseURL string, client *http.Client, log logging.Logger) *BookService {
	return &BookService{baseURL: baseURL, http: client, log: log.With("service", "libro")}
}

type bookPayload struct {
	Titulo           string  `json:"Titulo"`
	FechaPublicacion *string `json:"FechaPublicacion"`
	AutorLibro       *string `json:"AutorLibro"`
	LibroID          string  `json:"LibroId,omitempty"`
}

func toBookPayload(b models.Book) bookPayload {
	p := bookPayload{Titulo: b.Titulo}
	if b.FechaPublicacion != "" {
		fecha := b.FechaPublicacion
		p.FechaPublicacion = &fecha
	}
	if b.AutorLibro != "" {
		autor := b.AutorLibro
		p.AutorLibro = &autor
	}
	return p
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	var out []models.Book
	if err := doJSON(ctx, s.http, http.MethodGet, s.baseURL+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BookService) Get(ctx context.Context, id string) (models.Book, error) {
	var out models.Book
	if err := doJSON(ctx, s.http, http.MethodGet, s.baseURL+"/"+url.PathEscape(id), nil, &out); err != nil {
		return models.Book{}, err
	}
	return out, nil
}

func (s *BookService) SearchByName(ctx context.Context, term string) ([]models.Book, error) {
	var out []models.Book
	u := s.baseURL + "/buscar?nombre=" + url.QueryEscape(term)
	if err := doJSON(ctx, s.http, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts the book and normalizes the reply: some deployments answer
// with just the assigned identifier, so missing fields are filled back in
// from the submitted record.
func (s *BookService) Create(ctx context.Context, record models.Book) (models.Book, error) {
	var resp struct {
		LibreriaMaterialID string `json:"libreriaMaterialId"`
		ID                 string `json:"id"`
		Titulo             string `json:"titulo"`
		FechaPublicacion   string `json:"fechaPublicacion"`
		AutorLibro         string `json:"autorLibro"`
	}
	if err := doJSON(ctx, s.http, http.MethodPost, s.baseURL+"/", toBookPayload(record), &resp); err != nil {
		return models.Book{}, err
	}

	created := models.Book{
		LibreriaMaterialID: resp.LibreriaMaterialID,
		Titulo:             resp.Titulo,
		FechaPublicacion:   resp.FechaPublicacion,
		AutorLibro:         resp.AutorLibro,
	}
	if created.LibreriaMaterialID == "" {
		created.LibreriaMaterialID = resp.ID
	}
	if created.Titulo == "" {
		created.Titulo = record.Titulo
	}
	if created.FechaPublicacion == "" {
		created.FechaPublicacion = record.FechaPublicacion
	}
	if created.AutorLibro == "" {
		created.AutorLibro = record.AutorLibro
	}
	return created, nil
}

func (s *BookService) Update(ctx context.Context, id string, record models.Book) (models.Book, error) {
	payload := toBookPayload(record)
	payload.LibroID = id

	var out models.Book
	if err := doJSON(ctx, s.http, http.MethodPut, s.baseURL+"/"+url.PathEscape(id), payload, &out); err != nil {
		return models.Book{}, err
	}
	if out.LibreriaMaterialID == "" {
		out.LibreriaMaterialID = id
	}
	return out, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	return doJSON(ctx, s.http, http.MethodDelete, s.baseURL+"/"+url.PathEscape(id), nil, nil)
}
