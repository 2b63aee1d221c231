package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/logging"
)

// AuthorService is the HTTP client for the author microservice. The service
// accepts PascalCase payload fields but answers in the camelCase the models
// carry, so only outbound bodies need mapping.
type AuthorService struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewAuthorService wires the author client over the given HTTP client,
// normally one using a SessionTransport.
func NewAuthorService(baseURL string, client *http.Client, log logging.Logger) *AuthorService {
	return &AuthorService{baseURL: baseURL, http: client, log: log.With("service", "autor")}
}

type authorPayload struct {
	Nombre          string  `json:"Nombre"`
	Apellido        string  `json:"Apellido"`
	FechaNacimiento *string `json:"FechaNacimiento"`
}

func toAuthorPayload(a models.Author) authorPayload {
	p := authorPayload{Nombre: a.Nombre, Apellido: a.Apellido}
	if a.FechaNacimiento != "" {
		fecha := a.FechaNacimiento
		p.FechaNacimiento = &fecha
	}
	return p
}

func (s *AuthorService) List(ctx context.Context) ([]models.Author, error) {
	var out []models.Author
	if err := doJSON(ctx, s.http, http.MethodGet, s.baseURL+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AuthorService) Get(ctx context.Context, id string) (models.Author, error) {
	var out models.Author
	if err := doJSON(ctx, s.http, http.MethodGet, s.baseURL+"/"+url.PathEscape(id), nil, &out); err != nil {
		return models.Author{}, err
	}
	return out, nil
}

func (s *AuthorService) SearchByName(ctx context.Context, term string) ([]models.Author, error) {
	var out []models.Author
	u := s.baseURL + "/buscar?nombre=" + url.QueryEscape(term)
	if err := doJSON(ctx, s.http, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "author search resolved", "term", term, "hits", len(out))
	return out, nil
}

func (s *AuthorService) Create(ctx context.Context, record models.Author) (models.Author, error) {
	var out models.Author
	if err := doJSON(ctx, s.http, http.MethodPost, s.baseURL+"/", toAuthorPayload(record), &out); err != nil {
		return models.Author{}, err
	}
	return out, nil
}

func (s *AuthorService) Update(ctx context.Context, id string, record models.Author) (models.Author, error) {
	var out models.Author
	u := s.baseURL + "/" + url.PathEscape(id)
	if err := doJSON(ctx, s.http, http.MethodPut, u, toAuthorPayload(record), &out); err != nil {
		return models.Author{}, err
	}
	return out, nil
}

func (s *AuthorService) Delete(ctx context.Context, id string) error {
	return doJSON(ctx, s.http, http.MethodDelete, s.baseURL+"/"+url.PathEscape(id), nil, nil)
}
