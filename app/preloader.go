package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type resourceState struct {
	value    any
	count    int
	cached   bool
	loading  bool
	inflight int
	// leading is true while a fetch of the current epoch is in flight.
	leading bool
	err     string
	// epoch advances on every clear; a fetch started in an older epoch
	// does not write its result back.
	epoch uint64
}

// Snapshot is a point-in-time copy of the Preloader's state. A resource
// missing from Cache has never been fetched (or was cleared); a present but
// empty slice was fetched and came back empty. Cached slices are shared and
// must not be modified.
type Snapshot struct {
	Cache      map[Resource]any
	Loading    map[Resource]bool
	AllLoading bool
	Errors     map[Resource]string
}

func emptySnapshot() Snapshot {
	s := Snapshot{
		Cache:   make(map[Resource]any, len(AllResources)),
		Loading: make(map[Resource]bool, len(AllResources)),
		Errors:  make(map[Resource]string, len(AllResources)),
	}
	for _, r := range AllResources {
		s.Loading[r] = false
	}
	return s
}

// Has reports whether r holds a fetched value in this snapshot.
func (s Snapshot) Has(r Resource) bool {
	_, ok := s.Cache[r]
	return ok
}

// CacheStatus is the debug view of the Preloader. Errors are null when a
// resource has no error.
type CacheStatus struct {
	Cache   map[Resource]int     `json:"cache"`
	Loading map[Resource]bool    `json:"loading"`
	Errors  map[Resource]*string `json:"errors"`
}

// FetchError is a failed fetch surfaced to a caller that asked for it.
type FetchError struct {
	Resource Resource
	Message  string
}

func (e *FetchError) Error() string {
	return e.Message
}

type flightResult struct {
	value any
	err   error
}

// Preloader owns the in-memory cache of programs, coaches and logbook
// entries. Fetch failures are recorded per resource and never returned from
// PreloadAll or PreloadResource; a failed resource caches an empty slice.
type Preloader struct {
	mu         sync.RWMutex
	states     map[Resource]*resourceState
	allLoading int

	source  DataSource
	flights singleflight.Group
	bus     *Bus[StateChange]
	nextID  atomic.Uint64
	metrics *Metrics
}

func NewPreloader(source DataSource, bus *Bus[StateChange], metrics *Metrics) *Preloader {
	if bus == nil {
		bus = NewBus[StateChange]()
	}
	p := &Preloader{
		states:  make(map[Resource]*resourceState, len(AllResources)),
		source:  source,
		bus:     bus,
		metrics: metrics,
	}
	for _, r := range AllResources {
		p.states[r] = &resourceState{}
	}
	return p
}

// Subscribe registers for a StateChange after every mutation.
func (p *Preloader) Subscribe() (<-chan StateChange, func()) {
	return p.bus.Subscribe()
}

// PreloadAll fetches every resource concurrently and waits for all of them
// to settle. One resource failing does not affect the others.
func (p *Preloader) PreloadAll(ctx context.Context) Snapshot {
	p.mu.Lock()
	p.allLoading++
	p.mu.Unlock()

	log(ctx).Debug("Preloading all resources")
	start := time.Now()

	var g errgroup.Group
	for _, r := range AllResources {
		g.Go(func() error {
			p.PreloadResource(ctx, r)
			return nil
		})
	}
	_ = g.Wait()

	p.mu.Lock()
	p.allLoading--
	p.mu.Unlock()

	snap := p.Snapshot()
	log(ctx).Info("Preload complete",
		"duration", time.Since(start),
		"programs", valueLen(snap.Cache[ResourcePrograms]),
		"coaches", valueLen(snap.Cache[ResourceCoaches]),
		"logbook", valueLen(snap.Cache[ResourceLogbook]),
	)
	p.publish(StatePreloaded, "", "")
	return snap
}

// PreloadResource fetches r and caches the result. Concurrent calls for the
// same resource share one backend request and receive the same value. On
// failure the error is recorded and an empty slice is returned.
func (p *Preloader) PreloadResource(ctx context.Context, r Resource) any {
	value, _ := p.preload(ctx, r)
	return value
}

func (p *Preloader) PreloadPrograms(ctx context.Context) []Program {
	programs, _ := p.PreloadResource(ctx, ResourcePrograms).([]Program)
	return programs
}

func (p *Preloader) PreloadCoaches(ctx context.Context) []Coach {
	coaches, _ := p.PreloadResource(ctx, ResourceCoaches).([]Coach)
	return coaches
}

func (p *Preloader) PreloadLogbook(ctx context.Context) []LogbookEntry {
	entries, _ := p.PreloadResource(ctx, ResourceLogbook).([]LogbookEntry)
	return entries
}

// Refresh drops the cached value of r and fetches it again.
func (p *Preloader) Refresh(ctx context.Context, r Resource) any {
	value, _ := p.refresh(ctx, r)
	return value
}

// refresh joins a fetch of r that is already running in the current epoch;
// otherwise it clears r and starts a new one.
func (p *Preloader) refresh(ctx context.Context, r Resource) (any, error) {
	p.mu.RLock()
	st, exists := p.states[r]
	joining := exists && st.leading
	p.mu.RUnlock()

	if !joining {
		p.ClearCache(r)
	}
	return p.preload(ctx, r)
}

func (p *Preloader) preload(ctx context.Context, r Resource) (any, error) {
	if _, ok := p.states[r]; !ok {
		return nil, fmt.Errorf("unknown resource %q", r)
	}
	// The fetch outlives any one caller: joiners share its result, so a
	// caller giving up must not cancel it. Context values (the request
	// logger) are kept.
	fetchCtx := context.WithoutCancel(ctx)
	leader := false
	v, _, _ := p.flights.Do(string(r), func() (any, error) {
		leader = true
		value, err := p.load(fetchCtx, r)
		return flightResult{value: value, err: err}, nil
	})
	if !leader {
		p.metrics.observeJoin(r)
	}
	res := v.(flightResult)
	return res.value, res.err
}

// load runs a single fetch. It is only called from inside a flight, so at
// most one load per resource and epoch runs at a time.
func (p *Preloader) load(ctx context.Context, r Resource) (any, error) {
	p.mu.Lock()
	st := p.states[r]
	st.inflight++
	st.loading = true
	st.leading = true
	st.err = ""
	epoch := st.epoch
	p.mu.Unlock()
	p.publish(StateLoading, r, "")

	start := time.Now()
	value, err := p.fetch(ctx, r)
	p.metrics.observeFetch(r, time.Since(start), err)

	msg := ""
	if err != nil {
		msg = err.Error()
		if msg == "" {
			msg = fmt.Sprintf("failed to load %s", r)
		}
		value = emptyValue(r)
		log(ctx).Warn("Fetch failed", "resource", r, "error", msg)
	}
	count := valueLen(value)

	p.mu.Lock()
	st.inflight--
	st.loading = st.inflight > 0
	current := st.epoch == epoch
	if current {
		st.leading = false
		st.value = value
		st.count = count
		st.cached = true
		st.err = msg
	}
	p.mu.Unlock()

	if err != nil {
		err = &FetchError{Resource: r, Message: msg}
	}
	if !current {
		log(ctx).Debug("Discarding fetch result for cleared resource", "resource", r)
		return value, err
	}

	p.metrics.setCached(r, count)
	if err != nil {
		p.publish(StateFailed, r, msg)
		return value, err
	}
	log(ctx).Debug("Fetched resource", "resource", r, "count", count, "duration", time.Since(start))
	p.publish(StateLoaded, r, "")
	return value, nil
}

// fetch calls the data source and transforms its rows. A panic inside the
// data source is reported as an error.
func (p *Preloader) fetch(ctx context.Context, r Resource) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			value = nil
			err = fmt.Errorf("%v", rec)
		}
	}()

	switch r {
	case ResourcePrograms:
		rows, ferr := p.source.FetchPrograms(ctx)
		if ferr != nil {
			return nil, ferr
		}
		return transformPrograms(rows), nil
	case ResourceCoaches:
		rows, ferr := p.source.FetchCoaches(ctx)
		if ferr != nil {
			return nil, ferr
		}
		return transformCoaches(rows), nil
	case ResourceLogbook:
		rows, ferr := p.source.FetchLogbookEntries(ctx)
		if ferr != nil {
			return nil, ferr
		}
		return transformLogbook(rows), nil
	}
	return nil, fmt.Errorf("unknown resource %q", r)
}

// GetCachedData returns the cached value of r. ok is false when r has never
// been fetched or was cleared.
func (p *Preloader) GetCachedData(r Resource) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, exists := p.states[r]
	if !exists || !st.cached {
		return nil, false
	}
	return st.value, true
}

func cachedAs[T any](p *Preloader, r Resource) ([]T, bool) {
	v, ok := p.GetCachedData(r)
	if !ok {
		return nil, false
	}
	items, ok := v.([]T)
	return items, ok
}

func (p *Preloader) CachedPrograms() ([]Program, bool) {
	return cachedAs[Program](p, ResourcePrograms)
}

func (p *Preloader) CachedCoaches() ([]Coach, bool) {
	return cachedAs[Coach](p, ResourceCoaches)
}

func (p *Preloader) CachedLogbook() ([]LogbookEntry, bool) {
	return cachedAs[LogbookEntry](p, ResourceLogbook)
}

func (p *Preloader) IsLoading(r Resource) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, exists := p.states[r]
	return exists && st.loading
}

// IsAllLoading reports whether a PreloadAll is in flight.
func (p *Preloader) IsAllLoading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.allLoading > 0
}

// GetError returns the last fetch error for r, or "" if there is none.
func (p *Preloader) GetError(r Resource) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, exists := p.states[r]
	if !exists {
		return ""
	}
	return st.err
}

// HasData is true for any fetched value, including an empty one.
func (p *Preloader) HasData(r Resource) bool {
	_, ok := p.GetCachedData(r)
	return ok
}

// ClearCache forgets the cached value and error of the given resources, or
// of every resource when none are given. Loading flags are left alone: they
// belong to fetches still in flight. Those fetches still answer their
// callers but no longer write to the cache, and the next PreloadResource
// starts a fresh fetch instead of joining them.
func (p *Preloader) ClearCache(resources ...Resource) {
	if len(resources) == 0 {
		resources = AllResources
	}
	p.mu.Lock()
	for _, r := range resources {
		st, exists := p.states[r]
		if !exists {
			continue
		}
		st.value = nil
		st.count = 0
		st.cached = false
		st.err = ""
		st.leading = false
		st.epoch++
		p.flights.Forget(string(r))
	}
	p.mu.Unlock()

	for _, r := range resources {
		p.metrics.setCached(r, 0)
	}
	if len(resources) == 1 {
		p.publish(StateCleared, resources[0], "")
	} else {
		p.publish(StateCleared, "", "")
	}
}

// Snapshot copies the current cache, loading and error state.
func (p *Preloader) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap := emptySnapshot()
	snap.AllLoading = p.allLoading > 0
	for r, st := range p.states {
		if st.cached {
			snap.Cache[r] = st.value
		}
		snap.Loading[r] = st.loading
		if st.err != "" {
			snap.Errors[r] = st.err
		}
	}
	return snap
}

// CacheStatus reports item counts, loading flags and errors per resource.
func (p *Preloader) CacheStatus() CacheStatus {
	return statusOf(p.Snapshot())
}

func statusOf(snap Snapshot) CacheStatus {
	status := CacheStatus{
		Cache:   make(map[Resource]int, len(AllResources)),
		Loading: make(map[Resource]bool, len(AllResources)),
		Errors:  make(map[Resource]*string, len(AllResources)),
	}
	for _, r := range AllResources {
		status.Cache[r] = valueLen(snap.Cache[r])
		status.Loading[r] = snap.Loading[r]
		if msg, ok := snap.Errors[r]; ok && msg != "" {
			status.Errors[r] = &msg
		} else {
			status.Errors[r] = nil
		}
	}
	return status
}

func (p *Preloader) publish(t StateChangeType, r Resource, errMsg string) {
	p.bus.Publish(StateChange{
		ID:        p.nextID.Add(1),
		Type:      t,
		Resource:  r,
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}
