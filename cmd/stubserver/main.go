// Command stubserver runs in-memory fakes of the three catalog
// microservices on one address, for local development of the client.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/stub"
)

func main() {
	addr := flag.String("a", ":8080", "listen address")
	ttl := flag.Duration("ttl", 15*time.Minute, "access token lifetime")
	flag.Parse()

	auth := stub.NewAuthServer(*ttl)
	auth.Register("demo@biblio.dev", "demo123", "¿Color favorito?", "azul")

	authors := stub.NewAuthorServer()
	authors.Verify = auth.VerifyToken
	ana := authors.Seed(models.Author{Nombre: "Gabriel", Apellido: "García Márquez", FechaNacimiento: "1927-03-06T00:00:00"})

	books := stub.NewBookServer()
	books.Verify = auth.VerifyToken
	books.Seed(models.Book{Titulo: "Cien años de soledad", FechaPublicacion: "1967-05-30T00:00:00", AutorLibro: ana.AutorLibroID})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/api/auth", auth.Handler())
	r.Mount("/api/autor", authors.Handler())
	r.Mount("/api/libro", books.Handler())

	log.Printf("stub services on %s (user demo@biblio.dev / demo123)", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}
