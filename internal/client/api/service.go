// Package api implements HTTP clients for the catalog microservices: the
// author and book entity services and the auth service. It owns the wire
// casing of outbound payloads and classifies every failure into the shared
// error taxonomy before it leaves this package.
package api

import "context"

// EntityService is the remote collaborator owning persistent storage for one
// entity type.
type EntityService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	SearchByName(ctx context.Context, term string) ([]T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Tokens is the pair returned by a successful login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the fields of the registration form.
type RegisterInput struct {
	Email          string
	Password       string
	SecretQuestion string
	SecretAnswer   string
}

// Auth is the authentication service collaborator.
type Auth interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (Tokens, error)
	SecretQuestion(ctx context.Context, email string) (string, error)
	VerifySecretAnswer(ctx context.Context, email, answer, newPassword string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
