package config

import (
	"flag"
	"os"
	"time"

	"github.com/jcastrov/biblio/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-auth string     base URL of the auth service
//	-autores string  base URL of the author service
//	-libros string   base URL of the book service
//	-d int           debounce window in milliseconds
//	-t int           request timeout in seconds
//
// Only the flags handled here are parsed, via flagx.Pick, so the config
// file flags defined elsewhere do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.Pick(os.Args[1:], "-auth", "-autores", "-libros", "-d", "-t")

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthServiceURL, "auth", cfg.AuthServiceURL, "auth service base URL")
	fs.StringVar(&cfg.AuthorServiceURL, "autores", cfg.AuthorServiceURL, "author service base URL")
	fs.StringVar(&cfg.BookServiceURL, "libros", cfg.BookServiceURL, "book service base URL")
	debounceMs := fs.Int("d", int(cfg.DebounceWindow.Milliseconds()), "debounce window (milliseconds)")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DebounceWindow = time.Duration(*debounceMs) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
