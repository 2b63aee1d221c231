// Package sync mediates every mutation between the local store and a remote
// entity service: optimistic apply, reconcile on success, rollback with
// re-fetch on failure. The local snapshot never permanently diverges from
// server truth.
package sync

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcastrov/biblio/internal/client/api"
	"github.com/jcastrov/biblio/internal/client/store"
	"github.com/jcastrov/biblio/internal/common"
	"github.com/jcastrov/biblio/internal/logging"
)

// tempIDPrefix distinguishes locally assigned identifiers from
// server-assigned ones. Exactly one scheme is active per record at a time.
const tempIDPrefix = "tmp-"

// TempID generates a fresh temporary identifier for an unconfirmed record.
func TempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was assigned locally.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Descriptor parameterizes a Controller for one entity type, so the same
// state machine serves authors and books instead of being re-derived per
// entity.
type Descriptor[T any] struct {
	// Name labels the entity in logs ("autor", "libro").
	Name string

	// ID extracts the record identifier; WithID returns a copy carrying it.
	ID     func(T) string
	WithID func(T, string) T

	// Validate returns per-field errors; an empty map means valid.
	Validate func(T, time.Time) common.FieldErrors

	// LooksLikeID, when set, recognizes search terms that should try an
	// exact identifier lookup before the name search.
	LooksLikeID func(string) bool

	// Matches, when set, enables the local substring filter.
	Matches func(T, string) bool
}

// Controller orchestrates create/update/delete/search for one entity type.
type Controller[T any] struct {
	desc    Descriptor[T]
	svc     api.EntityService[T]
	store   *store.Store[T]
	log     logging.Logger
	timeout time.Duration
	now     func() time.Time

	mu       gosync.Mutex
	gen      uint64
	inflight map[string]uint64
	pending  string
}

// New builds a controller over an empty store. timeout bounds every remote
// call so a hung request cannot leave optimistic state stranded.
func New[T any](desc Descriptor[T], svc api.EntityService[T], log logging.Logger, timeout time.Duration) *Controller[T] {
	return &Controller[T]{
		desc:     desc,
		svc:      svc,
		store:    store.New(desc.ID),
		log:      log.With("entity", desc.Name),
		timeout:  timeout,
		now:      time.Now,
		inflight: make(map[string]uint64),
	}
}

// Store exposes the local snapshot for the presentation layer. Read-only by
// convention: all mutations go through the controller.
func (c *Controller[T]) Store() *store.Store[T] {
	return c.store
}

func (c *Controller[T]) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// acquire marks a mutation in flight for id. A second mutation on the same
// record is rejected rather than queued.
func (c *Controller[T]) acquire(id string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[id]; busy {
		return 0, fmt.Errorf("%w: %s", common.ErrBusy, id)
	}
	c.gen++
	c.inflight[id] = c.gen
	return c.gen, nil
}

func (c *Controller[T]) release(id string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[id] == gen {
		delete(c.inflight, id)
	}
}

// owns reports whether gen is still the active mutation for id. A stale
// response (superseded generation) must not touch the store.
func (c *Controller[T]) owns(id string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[id] == gen
}

// Load fetches the full collection and replaces the local snapshot.
func (c *Controller[T]) Load(ctx context.Context) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	records, err := c.svc.List(cctx)
	if err != nil {
		return err
	}
	c.store.ReplaceAll(records)
	c.log.Debug(ctx, "collection loaded", "count", len(records))
	return nil
}

// Create validates input, inserts it under a temporary identifier for
// immediate visibility, then issues the remote create. On success the
// temporary record is replaced by the server's; on failure it is removed so
// the store returns to its pre-call state.
func (c *Controller[T]) Create(ctx context.Context, input T) (T, error) {
	var zero T
	if errs := c.desc.Validate(input, c.now()); len(errs) > 0 {
		return zero, common.NewValidationError(errs)
	}

	tempID := TempID()
	gen, err := c.acquire(tempID)
	if err != nil {
		return zero, err
	}
	defer c.release(tempID, gen)

	c.store.Upsert(c.desc.WithID(input, tempID))

	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	created, err := c.svc.Create(cctx, input)
	if err != nil {
		if c.owns(tempID, gen) {
			c.store.Remove(tempID)
		}
		c.log.Warn(ctx, "create failed, optimistic record removed", "error", err)
		return zero, err
	}
	if c.owns(tempID, gen) {
		c.store.Replace(tempID, created)
	}
	c.log.Info(ctx, "record created", "id", c.desc.ID(created))
	return created, nil
}

// Update validates input, applies it optimistically, then issues the remote
// update. On success the store takes the server's representation, which may
// normalize fields; on failure the pre-update snapshot is restored.
func (c *Controller[T]) Update(ctx context.Context, id string, input T) error {
	if errs := c.desc.Validate(input, c.now()); len(errs) > 0 {
		return common.NewValidationError(errs)
	}

	prev, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}

	gen, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer c.release(id, gen)

	c.store.Upsert(c.desc.WithID(input, id))

	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	updated, err := c.svc.Update(cctx, id, c.desc.WithID(input, id))
	if err != nil {
		if c.owns(id, gen) {
			c.store.Upsert(prev)
		}
		c.log.Warn(ctx, "update failed, rolled back", "id", id, "error", err)
		return err
	}
	if c.owns(id, gen) {
		c.store.Upsert(updated)
	}
	return nil
}

// RequestDelete marks id as a deletion candidate awaiting confirmation.
func (c *Controller[T]) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = id
}

// PendingDelete returns the current deletion candidate, if any.
func (c *Controller[T]) PendingDelete() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != ""
}

// CancelDelete clears the deletion candidate.
func (c *Controller[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = ""
}

// ConfirmDelete performs the pending deletion, if one is marked.
func (c *Controller[T]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.pending
	c.pending = ""
	c.mu.Unlock()

	if id == "" {
		return nil
	}
	return c.Delete(ctx, id)
}

// Delete removes the record locally and issues the remote delete. A failed
// remote delete does not re-insert the single record; the whole collection
// is re-fetched to resynchronize, and if that also fails the caller gets a
// recovery-failure error. Deleting an absent identifier is a no-op.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if _, ok := c.store.Get(id); !ok {
		return nil
	}

	gen, err := c.acquire(id)
	if err != nil {
		return err
	}
	defer c.release(id, gen)

	c.store.Remove(id)

	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	if err := c.svc.Delete(cctx, id); err != nil {
		c.log.Warn(ctx, "delete failed, resynchronizing", "id", id, "error", err)

		rctx, rcancel := c.callCtx(ctx)
		defer rcancel()
		records, ferr := c.svc.List(rctx)
		if ferr != nil {
			return fmt.Errorf("%w: %v", common.ErrRecoveryFailed, ferr)
		}
		c.store.ReplaceAll(records)
		return err
	}
	return nil
}

// Search resolves a term against the remote service. Identifier-shaped
// terms try an exact lookup first and fall back to the name search on any
// failure. A failed search reverts the view to the full collection.
func (c *Controller[T]) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		c.store.ResetFilter()
		return nil
	}

	if c.desc.LooksLikeID != nil && c.desc.LooksLikeID(term) {
		cctx, cancel := c.callCtx(ctx)
		record, err := c.svc.Get(cctx, term)
		cancel()
		if err == nil {
			c.store.SetFiltered([]T{record})
			return nil
		}
	}

	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	records, err := c.svc.SearchByName(cctx, term)
	if err != nil {
		c.store.ResetFilter()
		return err
	}
	c.store.SetFiltered(records)
	return nil
}

// FilterLocal installs a substring filter computed against the local
// snapshot, for entity types whose flow never searches remotely.
func (c *Controller[T]) FilterLocal(term string) {
	term = strings.TrimSpace(term)
	if term == "" || c.desc.Matches == nil {
		c.store.ResetFilter()
		return
	}

	all := c.store.All()
	matched := make([]T, 0, len(all))
	for _, record := range all {
		if c.desc.Matches(record, term) {
			matched = append(matched, record)
		}
	}
	c.store.SetFiltered(matched)
}
