package app

import (
	"context"
	"errors"
	"sync"
	"time"
)

const DefaultPreloadDebounce = 500 * time.Millisecond

// PreloadProvider mirrors the Preloader's state for UI consumers and ties
// the cache to the session: it preloads once per signed-in user and clears
// everything on sign-out. It only reads the Preloader through its methods.
type PreloadProvider struct {
	preloader *Preloader
	sessions  *SessionStore
	debounce  time.Duration

	mu     sync.RWMutex
	mirror Snapshot

	sessionMu  sync.Mutex
	userKey    string
	generation uint64
	pending    *time.Timer
	inflight   sync.WaitGroup
}

func NewPreloadProvider(preloader *Preloader, sessions *SessionStore, debounce time.Duration) *PreloadProvider {
	if debounce < 0 {
		debounce = DefaultPreloadDebounce
	}
	return &PreloadProvider{
		preloader: preloader,
		sessions:  sessions,
		debounce:  debounce,
		mirror:    emptySnapshot(),
	}
}

// Run watches session changes and Preloader updates until ctx ends.
func (pp *PreloadProvider) Run(ctx context.Context) {
	sessions, stopSessions := pp.sessions.Watch()
	defer stopSessions()
	changes, stopChanges := pp.preloader.Subscribe()
	defer stopChanges()

	pp.HandleSession(ctx, pp.sessions.Current())

	for {
		select {
		case <-ctx.Done():
			pp.sessionMu.Lock()
			pp.generation++
			pp.stopPendingLocked()
			pp.sessionMu.Unlock()
			pp.inflight.Wait()
			return
		case s := <-sessions:
			pp.HandleSession(ctx, s)
		case <-changes:
			pp.sync()
		}
	}
}

// HandleSession applies one session observation. A newly authenticated user
// schedules a debounced PreloadAll; the same user seen again does nothing;
// no user clears all cached data.
func (pp *PreloadProvider) HandleSession(ctx context.Context, s Session) {
	if !s.IsAuthenticated || s.User == nil {
		pp.sessionMu.Lock()
		signedIn := pp.userKey != ""
		pp.userKey = ""
		pp.generation++
		pp.stopPendingLocked()
		pp.sessionMu.Unlock()

		if signedIn {
			log(ctx).Info("Session ended, clearing cached data")
		}
		pp.ClearAllData()
		return
	}

	key := s.User.ID.String()

	pp.sessionMu.Lock()
	if key == pp.userKey {
		pp.sessionMu.Unlock()
		return
	}
	switched := pp.userKey != ""
	pp.userKey = key
	pp.generation++
	gen := pp.generation
	pp.stopPendingLocked()
	if switched {
		pp.ClearAllData()
	}
	pp.inflight.Add(1)
	pp.pending = time.AfterFunc(pp.debounce, func() {
		defer pp.inflight.Done()
		pp.preloadFor(ctx, gen)
	})
	pp.sessionMu.Unlock()

	log(ctx).Info("Session started, scheduling preload", "user_id", key, "debounce", pp.debounce)
}

// stopPendingLocked cancels a scheduled preload that has not started yet.
// Callers hold sessionMu.
func (pp *PreloadProvider) stopPendingLocked() {
	if pp.pending != nil && pp.pending.Stop() {
		pp.inflight.Done()
	}
	pp.pending = nil
}

func (pp *PreloadProvider) preloadFor(ctx context.Context, gen uint64) {
	if !pp.isCurrent(gen) || ctx.Err() != nil {
		return
	}
	pp.PreloadAllData(ctx)
}

func (pp *PreloadProvider) isCurrent(gen uint64) bool {
	pp.sessionMu.Lock()
	defer pp.sessionMu.Unlock()
	return pp.generation == gen
}

// Wait blocks until scheduled preloads have finished or been cancelled.
func (pp *PreloadProvider) Wait() {
	pp.inflight.Wait()
}

// GetPreloadedData returns the mirrored value of r.
func (pp *PreloadProvider) GetPreloadedData(r Resource) (any, bool) {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	v, ok := pp.mirror.Cache[r]
	return v, ok
}

// GetDataWithFallback returns the mirrored value of r, or the Preloader's
// own cached value when the mirror has not caught up yet.
func (pp *PreloadProvider) GetDataWithFallback(r Resource) (any, bool) {
	if v, ok := pp.GetPreloadedData(r); ok {
		return v, true
	}
	return pp.preloader.GetCachedData(r)
}

func (pp *PreloadProvider) HasPreloadedData(r Resource) bool {
	_, ok := pp.GetPreloadedData(r)
	return ok
}

func (pp *PreloadProvider) IsDataLoading(r Resource) bool {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	return pp.mirror.Loading[r]
}

func (pp *PreloadProvider) IsAllDataLoading() bool {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	return pp.mirror.AllLoading
}

func (pp *PreloadProvider) GetDataError(r Resource) string {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	return pp.mirror.Errors[r]
}

// CacheStatus reports the mirrored state in debug form.
func (pp *PreloadProvider) CacheStatus() CacheStatus {
	pp.mu.RLock()
	defer pp.mu.RUnlock()
	return statusOf(pp.mirror)
}

// PreloadAllData runs PreloadAll and mirrors the result.
func (pp *PreloadProvider) PreloadAllData(ctx context.Context) Snapshot {
	pp.mu.Lock()
	pp.mirror.AllLoading = true
	pp.mu.Unlock()

	snap := pp.preloader.PreloadAll(ctx)
	pp.sync()
	return snap
}

// RefreshData re-fetches r. Unlike the Preloader, it returns the failure so
// an explicit retry can report it; the error is also recorded.
func (pp *PreloadProvider) RefreshData(ctx context.Context, r Resource) (any, error) {
	pp.mu.Lock()
	pp.mirror.Loading[r] = true
	delete(pp.mirror.Errors, r)
	pp.mu.Unlock()

	value, err := pp.preloader.refresh(ctx, r)
	pp.sync()

	if err != nil {
		msg := err.Error()
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			msg = fetchErr.Message
		}
		pp.mu.Lock()
		pp.mirror.Errors[r] = msg
		pp.mu.Unlock()
		log(ctx).Warn("Refresh failed", "resource", r, "error", msg)
		return value, err
	}
	return value, nil
}

// ClearAllData empties both the Preloader and the mirror.
func (pp *PreloadProvider) ClearAllData() {
	pp.preloader.ClearCache()
	pp.mu.Lock()
	pp.mirror = emptySnapshot()
	pp.mu.Unlock()
}

// sync copies the Preloader's current state into the mirror.
func (pp *PreloadProvider) sync() {
	snap := pp.preloader.Snapshot()
	pp.mu.Lock()
	pp.mirror = snap
	pp.mu.Unlock()
}
