package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if email := a.session.Email(); email != "" {
		return fmt.Sprintf("(%s)", email)
	}
	return ""
}

// Root runs the interactive loop until EOF or an exit command.
func (a *App) Root(ctx context.Context) {
	printlnFn("Biblioteca CLI (escribe 'help' para ver los comandos)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
