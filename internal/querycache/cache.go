// Package querycache is an in-memory, key-addressed store of fetched query
// results with staleness windows, in-flight de-duplication and invalidation.
//
// One Cache is created at startup and shared by every view for the life of
// the process. It is safe for concurrent use: the entry map is guarded by a
// single mutex and each key has at most one loader running at a time.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/marcus/notehub/internal/metrics"
	"github.com/marcus/notehub/internal/notify"
)

const (
	// DefaultStaleTime is how long a fetched result is served without
	// re-running its loader.
	DefaultStaleTime = time.Minute
	// DefaultGCTime is how long an unobserved entry is retained.
	DefaultGCTime = 5 * time.Minute
)

// Status is the lifecycle state of an entry.
type Status string

const (
	StatusFresh    Status = "fresh"
	StatusStale    Status = "stale"
	StatusInFlight Status = "in-flight"
	StatusError    Status = "error"
)

// Loader produces the data for a key.
type Loader func(ctx context.Context) (any, error)

// Entry is a point-in-time snapshot of a cached result.
type Entry struct {
	Key       Key
	Data      any // last successful result; kept through later failures
	HasData   bool
	FetchedAt time.Time
	Status    Status
	Err       error // last loader error, cleared by the next success
	// Changed is false when the last refetch returned a payload identical
	// to the previous one, in which case Data is the previous value.
	Changed bool
}

// Options configures a Cache.
type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Retry     RetryPolicy
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

type entry struct {
	key         Key
	data        any
	hasData     bool
	fingerprint uint64
	fetchedAt   time.Time
	err         error
	changed     bool

	invalidated bool
	generation  uint64 // bumped by Invalidate; compared against in-flight loads
	inFlight    bool
	observers   int
	lastUsed    time.Time
}

// Cache holds query results.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	group   singleflight.Group
	opts    Options
}

// New creates an empty cache.
func New(opts Options) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		entries: make(map[Key]*entry),
		opts:    opts,
	}
}

// Get returns a snapshot of the entry for key.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return c.snapshot(e, c.opts.Now()), true
}

// Fetch returns the data for key. A fresh entry is returned as-is. If a
// load for key is already running the caller waits for and shares its
// result. Otherwise loader runs under the retry policy and its result is
// stored. Failures are returned to every waiting caller and leave any
// previously cached data in place for display.
func (c *Cache) Fetch(ctx context.Context, key Key, loader Loader) (any, error) {
	if data, ok := c.freshData(key); ok {
		c.opts.Metrics.CacheFetch(string(key.Kind), "hit")
		return data, nil
	}

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		return c.load(ctx, key, loader)
	})
	switch {
	case err != nil:
		c.opts.Metrics.CacheFetch(string(key.Kind), "error")
	case shared:
		c.opts.Metrics.CacheFetch(string(key.Kind), "shared")
	default:
		c.opts.Metrics.CacheFetch(string(key.Kind), "miss")
	}
	return v, err
}

// Fetch is the typed form of Cache.Fetch.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("querycache: %s holds %T, want %T", key, v, zero)
	}
	return t, nil
}

// freshData returns cached data when the entry may be served without a load.
func (c *Cache) freshData(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	now := c.opts.Now()
	e.lastUsed = now
	if c.isFresh(e, now) {
		return e.data, true
	}
	return nil, false
}

// load runs inside the singleflight group, so at most one load per key
// executes at a time and only it writes the entry's result fields.
func (c *Cache) load(ctx context.Context, key Key, loader Loader) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	now := c.opts.Now()
	// A load that finished between this caller's freshness check and
	// joining the group already produced what we need.
	if c.isFresh(e, now) {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	e.inFlight = true
	gen := e.generation
	c.mu.Unlock()

	ctx, deferred := notify.Defer(ctx)
	c.opts.Logger.Debug("querycache: loading", "key", key.String())
	data, err := c.opts.Retry.run(ctx, loader, func(attempt int, err error, wait time.Duration) {
		c.opts.Logger.Debug("querycache: retrying", "key", key.String(), "attempt", attempt, "wait", wait, "error", err)
	})

	c.mu.Lock()
	e.inFlight = false
	e.lastUsed = c.opts.Now()
	if err != nil {
		abandoned := ctx.Err() != nil
		if !abandoned {
			e.err = err
		}
		c.mu.Unlock()
		if abandoned {
			deferred.Discard()
		} else {
			deferred.Flush()
		}
		c.opts.Logger.Debug("querycache: load failed", "key", key.String(), "error", err)
		return nil, err
	}
	deferred.Discard()

	fp := fingerprint(data)
	if e.hasData && fp != 0 && fp == e.fingerprint {
		data = e.data
		e.changed = false
	} else {
		e.data = data
		e.fingerprint = fp
		e.changed = true
	}
	e.hasData = true
	e.err = nil
	e.fetchedAt = c.opts.Now()
	// An invalidation that raced with this load leaves the result stale so
	// the next fetch reloads.
	e.invalidated = gen != e.generation
	// An entry removed while loading stays detached; the result only goes
	// back to the waiting callers.
	c.mu.Unlock()
	return data, nil
}

// Invalidate marks every matching entry stale. The next Fetch of each
// re-runs its loader. It returns the number of entries marked.
func (c *Cache) Invalidate(match Predicate) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if match(k) {
			e.invalidated = true
			e.generation++
			n++
		}
	}
	if n > 0 {
		c.opts.Logger.Debug("querycache: invalidated", "entries", n)
	}
	return n
}

// SetData stores data for key as a fresh result, replacing any cached value.
func (c *Cache) SetData(key Key, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	now := c.opts.Now()
	e.data = data
	e.fingerprint = fingerprint(data)
	e.hasData = true
	e.changed = true
	e.err = nil
	e.invalidated = false
	e.generation++
	e.fetchedAt = now
	e.lastUsed = now
}

// Remove drops every matching entry and returns how many were removed.
func (c *Cache) Remove(match Predicate) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if match(k) {
			delete(c.entries, k)
			n++
		}
	}
	c.opts.Metrics.SetCacheEntries(len(c.entries))
	return n
}

// Observe registers interest in key. Observed entries are never collected.
// The returned release func must be called once the observer goes away.
func (c *Cache) Observe(key Key) (release func()) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.observers++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if e.observers > 0 {
				e.observers--
			}
			e.lastUsed = c.opts.Now()
		})
	}
}

// Collect removes entries that have no observers, are not loading, and have
// not been used for longer than the retention window.
func (c *Cache) Collect() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.opts.Now()
	n := 0
	for k, e := range c.entries {
		if e.observers == 0 && !e.inFlight && now.Sub(e.lastUsed) >= c.opts.GCTime {
			delete(c.entries, k)
			n++
		}
	}
	if n > 0 {
		c.opts.Logger.Debug("querycache: collected", "entries", n)
	}
	c.opts.Metrics.SetCacheEntries(len(c.entries))
	return n
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// GCTime returns the retention window.
func (c *Cache) GCTime() time.Duration { return c.opts.GCTime }

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{key: key, lastUsed: c.opts.Now()}
		c.entries[key] = e
		c.opts.Metrics.SetCacheEntries(len(c.entries))
	}
	return e
}

func (c *Cache) isFresh(e *entry, now time.Time) bool {
	return e.hasData && e.err == nil && !e.invalidated && now.Sub(e.fetchedAt) < c.opts.StaleTime
}

func (c *Cache) snapshot(e *entry, now time.Time) Entry {
	s := Entry{
		Key:       e.key,
		Data:      e.data,
		HasData:   e.hasData,
		FetchedAt: e.fetchedAt,
		Err:       e.err,
		Changed:   e.changed,
	}
	switch {
	case e.inFlight:
		s.Status = StatusInFlight
	case e.err != nil:
		s.Status = StatusError
	case c.isFresh(e, now):
		s.Status = StatusFresh
	default:
		s.Status = StatusStale
	}
	return s
}

// fingerprint hashes the JSON encoding of data. Zero means "unknown" and
// disables reuse of the previous value.
func fingerprint(data any) uint64 {
	b, err := json.Marshal(data)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(b)
}
