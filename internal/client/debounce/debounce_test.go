package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	resets   int
	searches []string
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *recorder) search(term string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, term)
}

func (r *recorder) snapshot() (int, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets, append([]string(nil), r.searches...)
}

func TestSet_ResolvesOnceWithLatestTerm(t *testing.T) {
	rec := &recorder{}
	d := New(50*time.Millisecond, rec.reset, rec.search)

	d.Set("a")
	time.Sleep(10 * time.Millisecond)
	d.Set("ab")

	time.Sleep(150 * time.Millisecond)

	resets, searches := rec.snapshot()
	assert.Zero(t, resets)
	require.Equal(t, []string{"ab"}, searches, "exactly one resolution, with the latest term")
}

func TestSet_EmptyTermResolvesToReset(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.reset, rec.search)

	d.Set("garcía")
	d.Set("   ")

	time.Sleep(100 * time.Millisecond)

	resets, searches := rec.snapshot()
	assert.Equal(t, 1, resets)
	assert.Empty(t, searches)
}

func TestStop_CancelsPendingResolution(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.reset, rec.search)

	d.Set("a")
	d.Stop()

	time.Sleep(100 * time.Millisecond)

	resets, searches := rec.snapshot()
	assert.Zero(t, resets)
	assert.Empty(t, searches)
}

func TestFire_StaleGenerationIsDiscarded(t *testing.T) {
	rec := &recorder{}
	d := New(time.Hour, rec.reset, rec.search)

	d.Set("viejo")
	d.Set("nuevo")

	// A resolution whose timer fired before it was superseded arrives with
	// the old generation and must not run its callback.
	d.fire(1, "viejo")

	resets, searches := rec.snapshot()
	assert.Zero(t, resets)
	assert.Empty(t, searches)

	d.fire(2, "nuevo")
	_, searches = rec.snapshot()
	assert.Equal(t, []string{"nuevo"}, searches)
}

func TestStop_DiscardsAlreadyFiredTimer(t *testing.T) {
	rec := &recorder{}
	d := New(time.Millisecond, rec.reset, rec.search)

	d.Set("viejo")

	// Hold the lock across the window so the timer fires but its resolution
	// blocks; Stop's generation bump must then discard it.
	d.mu.Lock()
	time.Sleep(20 * time.Millisecond)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	resets, searches := rec.snapshot()
	assert.Zero(t, resets)
	assert.Empty(t, searches)
}

func TestSet_ConsecutiveQuietPeriodsEachResolve(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.reset, rec.search)

	d.Set("uno")
	time.Sleep(80 * time.Millisecond)
	d.Set("dos")
	time.Sleep(80 * time.Millisecond)

	_, searches := rec.snapshot()
	assert.Equal(t, []string{"uno", "dos"}, searches)
}
