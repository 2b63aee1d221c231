package stub

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type account struct {
	password       string
	secretQuestion string
	secretAnswer   string
}

// AuthServer fakes the auth microservice: it registers accounts, issues
// HS256 access tokens plus opaque refresh tokens, answers the secret
// question flow, and exchanges refresh tokens for new access tokens.
type AuthServer struct {
	mu       sync.Mutex
	accounts map[string]account
	refresh  map[string]string // refresh token -> email

	secret []byte
	ttl    time.Duration
}

// NewAuthServer creates an auth stub issuing tokens valid for ttl.
func NewAuthServer(ttl time.Duration) *AuthServer {
	return &AuthServer{
		accounts: make(map[string]account),
		refresh:  make(map[string]string),
		secret:   []byte(uuid.NewString()),
		ttl:      ttl,
	}
}

// Register adds an account directly, bypassing the HTTP surface.
func (s *AuthServer) Register(email, password, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{password: password, secretQuestion: question, secretAnswer: answer}
}

func (s *AuthServer) issueAccess(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken validates an access token signature and expiry. Entity stubs
// use it as their bearer check.
func (s *AuthServer) VerifyToken(token string) bool {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && parsed.Valid
}

func (s *AuthServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Email          string `json:"email"`
			Password       string `json:"password"`
			SecretQuestion string `json:"secretQuestion"`
			SecretAnswer   string `json:"secretAnswer"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
			writeMessage(w, http.StatusBadRequest, "datos de registro inválidos")
			return
		}
		s.mu.Lock()
		_, exists := s.accounts[in.Email]
		if !exists {
			s.accounts[in.Email] = account{
				password:       in.Password,
				secretQuestion: in.SecretQuestion,
				secretAnswer:   in.SecretAnswer,
			}
		}
		s.mu.Unlock()
		if exists {
			writeMessage(w, http.StatusBadRequest, "el correo ya está registrado")
			return
		}
		writeMessage(w, http.StatusCreated, "usuario registrado")
	})

	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(req.Body).Decode(&in)

		s.mu.Lock()
		acc, ok := s.accounts[in.Email]
		s.mu.Unlock()
		if !ok || acc.password != in.Password {
			writeMessage(w, http.StatusBadRequest, "credenciales inválidas")
			return
		}

		access, err := s.issueAccess(in.Email)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "no se pudo emitir el token")
			return
		}
		refreshToken := uuid.NewString()
		s.mu.Lock()
		s.refresh[refreshToken] = in.Email
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]string{
			"token":        access,
			"refreshToken": refreshToken,
		})
	})

	r.Post("/get-question", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(req.Body).Decode(&in)

		s.mu.Lock()
		acc, ok := s.accounts[in.Email]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusNotFound, "correo no registrado")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"question": acc.secretQuestion})
	})

	r.Post("/verify-answer", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			Email        string `json:"email"`
			SecretAnswer string `json:"secretAnswer"`
			NewPassword  string `json:"newPassword"`
		}
		_ = json.NewDecoder(req.Body).Decode(&in)

		s.mu.Lock()
		defer s.mu.Unlock()
		acc, ok := s.accounts[in.Email]
		if !ok {
			writeMessage(w, http.StatusNotFound, "correo no registrado")
			return
		}
		if acc.secretAnswer != in.SecretAnswer {
			writeMessage(w, http.StatusBadRequest, "respuesta secreta incorrecta")
			return
		}
		acc.password = in.NewPassword
		s.accounts[in.Email] = acc
		writeJSON(w, http.StatusOK, map[string]string{"message": "contraseña actualizada"})
	})

	r.Post("/refresh", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(req.Body).Decode(&in)

		s.mu.Lock()
		email, ok := s.refresh[in.RefreshToken]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "refresh token inválido")
			return
		}
		access, err := s.issueAccess(email)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "no se pudo emitir el token")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": access})
	})

	return r
}
