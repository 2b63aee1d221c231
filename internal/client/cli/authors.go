package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/jcastrov/biblio/internal/client/debounce"
	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/common"
)

// ListAuthors re-fetches the collection and prints it.
func (a *App) ListAuthors(ctx context.Context) error {
	if err := a.autores.Load(ctx); err != nil {
		printlnFn("No se pudieron cargar los autores:", err)
		return err
	}
	printAuthors(a.autores.Store().All())
	return nil
}

// AddAuthor prompts for the author form and creates the record. Validation
// failures are printed per field and nothing is sent.
func (a *App) AddAuthor(ctx context.Context) error {
	nombre, err := getSimpleText(a.reader, "Nombre", os.Stdout)
	if err != nil {
		return err
	}
	apellido, err := getSimpleText(a.reader, "Apellido", os.Stdout)
	if err != nil {
		return err
	}
	fecha, err := getSimpleText(a.reader, "Fecha de nacimiento (AAAA-MM-DD, opcional)", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.autores.Create(ctx, models.Author{
		Nombre:          nombre,
		Apellido:        apellido,
		FechaNacimiento: fecha,
	})
	if err != nil {
		printErr("No se pudo guardar el autor", err)
		return err
	}
	printlnFn("Autor guardado:", created.AutorLibroID)
	return nil
}

// EditAuthor prompts for an ID, shows the current values and updates the
// record with whatever the user types; empty input keeps the current value.
func (a *App) EditAuthor(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Identificador del autor", os.Stdout)
	if err != nil {
		return err
	}
	current, ok := a.autores.Store().Get(id)
	if !ok {
		printlnFn("Autor no encontrado:", id)
		return common.ErrNotFound
	}

	nombre, err := getSimpleText(a.reader, fmt.Sprintf("Nombre [%s]", current.Nombre), os.Stdout)
	if err != nil {
		return err
	}
	apellido, err := getSimpleText(a.reader, fmt.Sprintf("Apellido [%s]", current.Apellido), os.Stdout)
	if err != nil {
		return err
	}
	fecha, err := getSimpleText(a.reader, fmt.Sprintf("Fecha de nacimiento [%s]", models.DateOnly(current.FechaNacimiento)), os.Stdout)
	if err != nil {
		return err
	}

	next := current
	if nombre != "" {
		next.Nombre = nombre
	}
	if apellido != "" {
		next.Apellido = apellido
	}
	if fecha != "" {
		next.FechaNacimiento = fecha
	}

	if err := a.autores.Update(ctx, id, next); err != nil {
		printErr("No se pudo actualizar el autor", err)
		return err
	}
	printlnFn("Autor actualizado.")
	return nil
}

// DeleteAuthor asks for an ID, requests the deletion and only confirms it
// after the user agrees.
func (a *App) DeleteAuthor(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Identificador del autor", os.Stdout)
	if err != nil {
		return err
	}
	record, ok := a.autores.Store().Get(id)
	if !ok {
		printlnFn("Autor no encontrado:", id)
		return common.ErrNotFound
	}

	a.autores.RequestDelete(id)
	yes, err := Confirm(a.reader, fmt.Sprintf("¿Eliminar a %s %s?", record.Nombre, record.Apellido), os.Stdout)
	if err != nil {
		a.autores.CancelDelete()
		return err
	}
	if !yes {
		a.autores.CancelDelete()
		printlnFn("Eliminación cancelada.")
		return nil
	}

	if err := a.autores.ConfirmDelete(ctx); err != nil {
		printErr("No se pudo eliminar el autor", err)
		return err
	}
	printlnFn("Autor eliminado.")
	return nil
}

// SearchAuthors runs an incremental search loop: every line typed restarts
// the debounce window, and once it elapses the term is resolved against the
// author service. An empty line clears the filter and ends the loop; the
// reset runs synchronously on exit, it never rides a timer the loop is
// about to cancel.
func (a *App) SearchAuthors(ctx context.Context) error {
	printlnFn("Escribe un nombre o un identificador; línea vacía para salir.")

	reset := func() {
		a.autores.Store().ResetFilter()
		printAuthors(a.autores.Store().All())
	}
	d := debounce.New(a.config.DebounceWindow, reset,
		func(term string) {
			if err := a.autores.Search(ctx, term); err != nil {
				printlnFn("La búsqueda falló:", err)
				return
			}
			printAuthors(a.autores.Store().Filtered())
		})
	defer d.Stop()

	for {
		term, err := getSimpleText(a.reader, "Buscar", os.Stdout)
		if err != nil {
			d.Stop()
			reset()
			return err
		}
		if term == "" {
			d.Stop()
			reset()
			return nil
		}
		d.Set(term)
	}
}

func printAuthors(records []models.Author) {
	if len(records) == 0 {
		printlnFn("Sin autores.")
		return
	}
	for _, r := range records {
		printlnFn(fmt.Sprintf("%s  %s %s  %s", r.AutorLibroID, r.Nombre, r.Apellido, models.DateOnly(r.FechaNacimiento)))
	}
}

// printErr prints validation failures field by field, any other error as a
// single line.
func printErr(prefix string, err error) {
	if verr := common.AsValidation(err); verr != nil {
		printlnFn(prefix + ":")
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			printlnFn(" -", verr.Fields[f])
		}
		return
	}
	printlnFn(prefix+":", err)
}
