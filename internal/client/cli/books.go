package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jcastrov/biblio/internal/client/debounce"
	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/common"
)

// ListBooks re-fetches the collection and prints it.
func (a *App) ListBooks(ctx context.Context) error {
	if err := a.libros.Load(ctx); err != nil {
		printlnFn("No se pudieron cargar los libros:", err)
		return err
	}
	printBooks(a.libros.Store().All())
	return nil
}

// AddBook prompts for the book form and creates the record. An empty author
// field picks the first known author, so a book can be added right after the
// initial load without retyping a GUID.
func (a *App) AddBook(ctx context.Context) error {
	titulo, err := getSimpleText(a.reader, "Título", os.Stdout)
	if err != nil {
		return err
	}
	fecha, err := getSimpleText(a.reader, "Fecha de publicación (AAAA-MM-DD, opcional)", os.Stdout)
	if err != nil {
		return err
	}

	printAuthors(a.autores.Store().All())
	autor, err := getSimpleText(a.reader, "Identificador del autor (vacío = primero de la lista)", os.Stdout)
	if err != nil {
		return err
	}
	if autor == "" {
		if authors := a.autores.Store().All(); len(authors) > 0 {
			autor = authors[0].AutorLibroID
		}
	}

	created, err := a.libros.Create(ctx, models.Book{
		Titulo:           titulo,
		FechaPublicacion: fecha,
		AutorLibro:       autor,
	})
	if err != nil {
		printErr("No se pudo guardar el libro", err)
		return err
	}
	printlnFn("Libro guardado:", created.LibreriaMaterialID)
	return nil
}

// EditBook prompts for an ID, shows the current values and updates the
// record with whatever the user types; empty input keeps the current value.
func (a *App) EditBook(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Identificador del libro", os.Stdout)
	if err != nil {
		return err
	}
	current, ok := a.libros.Store().Get(id)
	if !ok {
		printlnFn("Libro no encontrado:", id)
		return common.ErrNotFound
	}

	titulo, err := getSimpleText(a.reader, fmt.Sprintf("Título [%s]", current.Titulo), os.Stdout)
	if err != nil {
		return err
	}
	fecha, err := getSimpleText(a.reader, fmt.Sprintf("Fecha de publicación [%s]", models.DateOnly(current.FechaPublicacion)), os.Stdout)
	if err != nil {
		return err
	}
	autor, err := getSimpleText(a.reader, fmt.Sprintf("Autor [%s]", current.AutorLibro), os.Stdout)
	if err != nil {
		return err
	}

	next := current
	if titulo != "" {
		next.Titulo = titulo
	}
	if fecha != "" {
		next.FechaPublicacion = fecha
	}
	if autor != "" {
		next.AutorLibro = autor
	}

	if err := a.libros.Update(ctx, id, next); err != nil {
		printErr("No se pudo actualizar el libro", err)
		return err
	}
	printlnFn("Libro actualizado.")
	return nil
}

// DeleteBook asks for an ID, requests the deletion and only confirms it
// after the user agrees.
func (a *App) DeleteBook(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Identificador del libro", os.Stdout)
	if err != nil {
		return err
	}
	record, ok := a.libros.Store().Get(id)
	if !ok {
		printlnFn("Libro no encontrado:", id)
		return common.ErrNotFound
	}

	a.libros.RequestDelete(id)
	yes, err := Confirm(a.reader, fmt.Sprintf("¿Eliminar %q?", record.Titulo), os.Stdout)
	if err != nil {
		a.libros.CancelDelete()
		return err
	}
	if !yes {
		a.libros.CancelDelete()
		printlnFn("Eliminación cancelada.")
		return nil
	}

	if err := a.libros.ConfirmDelete(ctx); err != nil {
		printErr("No se pudo eliminar el libro", err)
		return err
	}
	printlnFn("Libro eliminado.")
	return nil
}

// SearchBooks filters the loaded collection by title as the user types. The
// filter is local, no request leaves the client. An empty line clears the
// filter and ends the loop; the reset runs synchronously on exit, it never
// rides a timer the loop is about to cancel.
func (a *App) SearchBooks(ctx context.Context) error {
	printlnFn("Escribe parte del título; línea vacía para salir.")

	reset := func() {
		a.libros.Store().ResetFilter()
		printBooks(a.libros.Store().All())
	}
	d := debounce.New(a.config.DebounceWindow, reset,
		func(term string) {
			a.libros.FilterLocal(term)
			printBooks(a.libros.Store().Filtered())
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

func printBooks(records []models.Book) {
	if len(records) == 0 {
		printlnFn("Sin libros.")
		return
	}
	for _, r := range records {
		printlnFn(fmt.Sprintf("%s  %q  %s  autor=%s", r.LibreriaMaterialID, r.Titulo, models.DateOnly(r.FechaPublicacion), r.AutorLibro))
	}
}
