package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/jcastrov/biblio/internal/client/cli"
	"github.com/jcastrov/biblio/internal/client/config"
	"github.com/jcastrov/biblio/internal/logging"
)

// Set via -ldflags at build time.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	fmt.Fprintf(os.Stdout, "biblio client %s (%s)\n", buildVersion, buildDate)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	app := cli.NewApp(cfg, logging.NewZapLogger(zl))
	app.Run(ctx)
}
