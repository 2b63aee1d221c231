package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastrov/biblio/internal/client/models"
	"github.com/jcastrov/biblio/internal/common"
	"github.com/jcastrov/biblio/internal/logging"
)

// fakeAuthors implements api.EntityService[models.Author] with presets,
// recording which operations were invoked.
type fakeAuthors struct {
	calls []string

	listRecs []models.Author
	listErr  error

	getFn    func(id string) (models.Author, error)
	searchFn func(term string) ([]models.Author, error)
	createFn func(rec models.Author) (models.Author, error)
	updateFn func(id string, rec models.Author) (models.Author, error)
	deleteFn func(id string) error
}

func (f *fakeAuthors) List(ctx context.Context) ([]models.Author, error) {
	f.calls = append(f.calls, "list")
	return f.listRecs, f.listErr
}

func (f *fakeAuthors) Get(ctx context.Context, id string) (models.Author, error) {
	f.calls = append(f.calls, "get")
	if f.getFn == nil {
		return models.Author{}, common.ErrNotFound
	}
	return f.getFn(id)
}

func (f *fakeAuthors) SearchByName(ctx context.Context, term string) ([]models.Author, error) {
	f.calls = append(f.calls, "search")
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(term)
}

func (f *fakeAuthors) Create(ctx context.Context, rec models.Author) (models.Author, error) {
	f.calls = append(f.calls, "create")
	return f.createFn(rec)
}

func (f *fakeAuthors) Update(ctx context.Context, id string, rec models.Author) (models.Author, error) {
	f.calls = append(f.calls, "update")
	return f.updateFn(id, rec)
}

func (f *fakeAuthors) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(id)
}

func newAuthorsController(svc *fakeAuthors) *Controller[models.Author] {
	return NewAuthors(svc, logging.NewNop(), time.Second)
}

func storeIDs(c *Controller[models.Author]) []string {
	all := c.Store().All()
	ids := make([]string, len(all))
	for i, a := range all {
		ids[i] = a.AutorLibroID
	}
	return ids
}

func TestCreate_ReplacesTemporaryIDWithServerID(t *testing.T) {
	var seenDuringCall []string
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)

	svc.createFn = func(rec models.Author) (models.Author, error) {
		// Optimistic record must be visible before the call resolves.
		seenDuringCall = storeIDs(c)
		return models.Author{AutorLibroID: "A1", Nombre: rec.Nombre, Apellido: rec.Apellido}, nil
	}

	created, err := c.Create(context.Background(), models.Author{Nombre: "Ana", Apellido: "Lopez"})
	require.NoError(t, err)
	assert.Equal(t, "A1", created.AutorLibroID)

	require.Len(t, seenDuringCall, 1)
	assert.True(t, IsTempID(seenDuringCall[0]), "optimistic record carries a temporary id")

	ids := storeIDs(c)
	require.Equal(t, []string{"A1"}, ids, "exactly one record, no leftover temporary entry")
}

func TestCreate_InvalidInputNeverCallsService(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)

	_, err := c.Create(context.Background(), models.Author{Nombre: "", Apellido: "Smith"})

	ve := common.AsValidation(err)
	require.NotNil(t, ve)
	assert.Equal(t, "Nombre requerido", ve.Fields["nombre"])
	assert.Empty(t, svc.calls, "validation failure must not trigger a network call")
	assert.Zero(t, c.Store().Len())
}

func TestCreate_RemoteFailureRestoresStore(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}})

	svc.createFn = func(models.Author) (models.Author, error) {
		return models.Author{}, common.ErrBadRequest
	}

	_, err := c.Create(context.Background(), models.Author{Nombre: "Luis", Apellido: "Marín"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, []string{"A1"}, storeIDs(c), "store identical to before the call")
}

func TestUpdate_SuccessTakesServerRepresentation(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}})

	svc.updateFn = func(id string, rec models.Author) (models.Author, error) {
		// Server normalizes the date to a full timestamp.
		rec.FechaNacimiento = "1980-06-01T00:00:00Z"
		return rec, nil
	}

	err := c.Update(context.Background(), "A1",
		models.Author{Nombre: "Ana María", Apellido: "Lopez", FechaNacimiento: "1980-06-01"})
	require.NoError(t, err)

	got, ok := c.Store().Get("A1")
	require.True(t, ok)
	assert.Equal(t, "Ana María", got.Nombre)
	assert.Equal(t, "1980-06-01T00:00:00Z", got.FechaNacimiento)
}

func TestUpdate_RemoteFailureRollsBack(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	before := models.Author{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}
	c.Store().ReplaceAll([]models.Author{before})

	svc.updateFn = func(string, models.Author) (models.Author, error) {
		return models.Author{}, common.ErrServer
	}

	err := c.Update(context.Background(), "A1", models.Author{Nombre: "Otro", Apellido: "Nombre"})
	assert.ErrorIs(t, err, common.ErrServer)

	got, ok := c.Store().Get("A1")
	require.True(t, ok)
	assert.Equal(t, before, got, "field values equal the pre-mutation snapshot")
}

func TestUpdate_UnknownIDFailsWithoutCall(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)

	err := c.Update(context.Background(), "A9", models.Author{Nombre: "X", Apellido: "Y"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, svc.calls)
}

func TestUpdate_SecondMutationOnSameRecordIsRejected(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}})

	entered := make(chan struct{})
	unblock := make(chan struct{})
	svc.updateFn = func(id string, rec models.Author) (models.Author, error) {
		close(entered)
		<-unblock
		return rec, nil
	}

	done := make(chan error, 1)
	go func() {
		done <- c.Update(context.Background(), "A1", models.Author{Nombre: "Uno", Apellido: "L"})
	}()

	<-entered
	err := c.Update(context.Background(), "A1", models.Author{Nombre: "Dos", Apellido: "L"})
	assert.ErrorIs(t, err, common.ErrBusy)

	close(unblock)
	require.NoError(t, <-done)
}

func TestDelete_AbsentIDIsNoop(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}})

	err := c.Delete(context.Background(), "nunca")
	assert.NoError(t, err)
	assert.Empty(t, svc.calls)
	assert.Equal(t, []string{"A1"}, storeIDs(c))
}

func TestDelete_RemoteFailureResynchronizes(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{
		{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"},
		{AutorLibroID: "B2", Nombre: "Luis", Apellido: "Marín"},
	})

	svc.deleteFn = func(string) error { return common.ErrNetwork }
	// Authoritative server list differs from the pre-deletion local list.
	svc.listRecs = []models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}}

	err := c.Delete(context.Background(), "B2")
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.Equal(t, []string{"A1"}, storeIDs(c), "store equals the server's list after re-fetch")
}

func TestDelete_RefetchFailureIsRecoveryFailure(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "B2", Nombre: "Luis", Apellido: "Marín"}})

	svc.deleteFn = func(string) error { return common.ErrServer }
	svc.listErr = common.ErrNetwork

	err := c.Delete(context.Background(), "B2")
	assert.ErrorIs(t, err, common.ErrRecoveryFailed)
}

func TestConfirmDelete_TwoPhase(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}})

	c.RequestDelete("A1")
	id, ok := c.PendingDelete()
	require.True(t, ok)
	assert.Equal(t, "A1", id)

	c.CancelDelete()
	_, ok = c.PendingDelete()
	assert.False(t, ok)
	assert.Equal(t, []string{"A1"}, storeIDs(c), "cancel keeps the record")

	c.RequestDelete("A1")
	require.NoError(t, c.ConfirmDelete(context.Background()))
	assert.Empty(t, storeIDs(c))
	_, ok = c.PendingDelete()
	assert.False(t, ok, "marker cleared on confirm")
}

func TestSearch_IDShapedTermLooksUpExactFirst(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)

	const guid = "3fa85f64-5567-1021-b3fc-2c963f66afa6"
	svc.getFn = func(id string) (models.Author, error) {
		return models.Author{AutorLibroID: id, Nombre: "Ana", Apellido: "Lopez"}, nil
	}

	require.NoError(t, c.Search(context.Background(), guid))
	view := c.Store().Filtered()
	require.Len(t, view, 1)
	assert.Equal(t, guid, view[0].AutorLibroID)
	assert.Equal(t, []string{"get"}, svc.calls)
}

func TestSearch_IDLookupFailureFallsBackToNameSearch(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)

	svc.getFn = func(string) (models.Author, error) { return models.Author{}, common.ErrNotFound }
	svc.searchFn = func(term string) ([]models.Author, error) {
		return []models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}}, nil
	}

	require.NoError(t, c.Search(context.Background(), "3fa85f64-5567-1021-b3fc-2c963f66afa6"))
	assert.Equal(t, []string{"get", "search"}, svc.calls)
	require.Len(t, c.Store().Filtered(), 1)
}

func TestSearch_FailureRevertsToFullCollection(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{
		{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"},
		{AutorLibroID: "B2", Nombre: "Luis", Apellido: "Marín"},
	})
	c.Store().SetFiltered([]models.Author{})

	svc.searchFn = func(string) ([]models.Author, error) { return nil, common.ErrNetwork }

	err := c.Search(context.Background(), "gar")
	assert.ErrorIs(t, err, common.ErrNetwork)
	assert.Len(t, c.Store().Filtered(), 2, "view reverted to the full collection")
}

func TestSearch_EmptyTermResetsFilter(t *testing.T) {
	svc := &fakeAuthors{}
	c := newAuthorsController(svc)
	c.Store().ReplaceAll([]models.Author{{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"}})
	c.Store().SetFiltered([]models.Author{})

	require.NoError(t, c.Search(context.Background(), "   "))
	assert.Len(t, c.Store().Filtered(), 1)
	assert.Empty(t, svc.calls)
}

func TestLoad_ReplacesSnapshot(t *testing.T) {
	svc := &fakeAuthors{listRecs: []models.Author{
		{AutorLibroID: "A1", Nombre: "Ana", Apellido: "Lopez"},
		{AutorLibroID: "B2", Nombre: "Luis", Apellido: "Marín"},
	}}
	c := newAuthorsController(svc)

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, []string{"A1", "B2"}, storeIDs(c))
}
