package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"newsfeed/internal/observability/metrics"
)

// DefaultMountTTL is how long a mounted NewsFeed survives without being accessed.
const DefaultMountTTL = 30 * time.Minute

// Registry owns the mounted NewsFeed instances, keyed by mount id.
//
// An instance that is not accessed for the TTL is evicted and disposed, which cancels
// its fetch if it is still in flight. Registry never shares headline data between mounts:
// every Mount builds a fresh instance and triggers its own fetch.
type Registry struct {
	newFeed func() *NewsFeed
	store   *cache.Cache
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewRegistry creates a registry. newFeed must return a fresh, uninitialized NewsFeed
// on every call. A ttl <= 0 disables idle eviction.
func NewRegistry(newFeed func() *NewsFeed, ttl time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	expiration, cleanup := ttl, ttl/2
	if ttl <= 0 {
		expiration, cleanup = cache.NoExpiration, 0
	} else if cleanup < time.Second {
		cleanup = time.Second
	}

	r := &Registry{
		newFeed: newFeed,
		store:   cache.New(expiration, cleanup),
		logger:  logger,
	}
	r.store.OnEvicted(r.onEvicted)
	return r
}

func (r *Registry) onEvicted(id string, v interface{}) {
	f, ok := v.(*NewsFeed)
	if !ok {
		return
	}
	settled := f.IsSettled()
	if f.dispose() {
		metrics.RecordFeedDisposed(settled)
		r.logger.Debug("news feed unmounted",
			slog.String("mount_id", id),
			slog.Bool("settled", settled))
	}
}

// Mount constructs and registers a new NewsFeed and starts its initialization on a
// separate goroutine. The returned instance is in StateLoading; use Settled or Wait
// to observe completion. Cancellation of ctx does not abort the fetch; Unmount does.
func (r *Registry) Mount(ctx context.Context) (string, *NewsFeed) {
	id := uuid.NewString()
	f := r.newFeed()
	r.store.Set(id, f, cache.DefaultExpiration)
	metrics.RecordFeedMounted()

	initCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := f.Initialize(initCtx); err != nil {
			r.logger.DebugContext(initCtx, "news feed settled with error",
				slog.String("mount_id", id),
				slog.String("error", err.Error()))
		}
	}()

	r.logger.DebugContext(ctx, "news feed mounted", slog.String("mount_id", id))
	return id, f
}

// Get returns the mounted instance for id and refreshes its idle deadline.
func (r *Registry) Get(id string) (*NewsFeed, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := r.store.Get(id)
	if !ok {
		return nil, false
	}
	f := v.(*NewsFeed)

	// 再設定で期限を延長する。直前に破棄されていた場合は登録を取り消す
	r.store.Set(id, f, cache.DefaultExpiration)
	if f.Disposed() {
		r.store.Delete(id)
		return nil, false
	}
	return f, true
}

// GetOrMount returns the instance for id, mounting a new one when id is unknown or expired.
// The boolean reports whether a new mount happened.
func (r *Registry) GetOrMount(ctx context.Context, id string) (string, *NewsFeed, bool) {
	if f, ok := r.Get(id); ok {
		return id, f, false
	}
	newID, f := r.Mount(ctx)
	return newID, f, true
}

// Unmount disposes and removes the instance for id. Unknown ids are ignored.
func (r *Registry) Unmount(id string) {
	r.store.Delete(id)
}

// Len returns the number of mounted instances, including expired ones not yet evicted.
func (r *Registry) Len() int {
	return r.store.ItemCount()
}

// Close unmounts every instance and waits for their initialization goroutines to return.
// Fetchers that ignore context cancellation can make Close block until ctx ends.
func (r *Registry) Close(ctx context.Context) error {
	r.store.DeleteExpired()
	for id := range r.store.Items() {
		r.store.Delete(id)
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
