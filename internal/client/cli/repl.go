package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Recover(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	ListAuthors(ctx context.Context) error
	AddAuthor(ctx context.Context) error
	EditAuthor(ctx context.Context) error
	DeleteAuthor(ctx context.Context) error
	SearchAuthors(ctx context.Context) error
	ListBooks(ctx context.Context) error
	AddBook(ctx context.Context) error
	EditBook(ctx context.Context) error
	DeleteBook(ctx context.Context) error
	SearchBooks(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("biblio %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Comandos: autores, addautor, editautor, delautor, buscarautor,")
				printlnFn("          libros, addlibro, editlibro, dellibro, buscarlibro,")
				printlnFn("          status, logout, exit")
			} else {
				printlnFn("Comandos: login, register, recuperar, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "recuperar", "recover":
			_ = a.Recover(ctx)

		case "status":
			_ = a.Status(ctx)

		case "autores":
			_ = a.ListAuthors(ctx)

		case "addautor":
			_ = a.AddAuthor(ctx)

		case "editautor":
			_ = a.EditAuthor(ctx)

		case "delautor":
			_ = a.DeleteAuthor(ctx)

		case "buscarautor":
			_ = a.SearchAuthors(ctx)

		case "libros":
			_ = a.ListBooks(ctx)

		case "addlibro":
			_ = a.AddBook(ctx)

		case "editlibro":
			_ = a.EditBook(ctx)

		case "dellibro":
			_ = a.DeleteBook(ctx)

		case "buscarlibro":
			_ = a.SearchBooks(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Hasta luego.")
			return

		default:
			printlnFn("Comando desconocido:", cmd)
		}
	}
}
