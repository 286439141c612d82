package feed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/usecase/feed"
)

func newRegistry(t *testing.T, stub *stubFetcher, ttl time.Duration) *feed.Registry {
	t.Helper()
	r := feed.NewRegistry(func() *feed.NewsFeed {
		return feed.New(stub, feed.Options{Logger: discardLogger()})
	}, ttl, discardLogger())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, r.Close(ctx))
	})
	return r
}

func TestRegistry_MountInitializes(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles()}
	r := newRegistry(t, stub, time.Minute)

	id, nf := r.Mount(context.Background())
	require.NotEmpty(t, id)
	require.NoError(t, nf.Wait(context.Background()))

	assert.Equal(t, feed.StateReady, nf.State())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, stub.Calls())

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, nf, got)
	assert.Equal(t, 1, stub.Calls(), "reuse does not refetch")
}

func TestRegistry_MountIgnoresRequestCancellation(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles()}
	r := newRegistry(t, stub, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, nf := r.Mount(ctx)
	require.NoError(t, nf.Wait(context.Background()))
	assert.Equal(t, feed.StateReady, nf.State())
}

func TestRegistry_EachMountFetches(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles()}
	r := newRegistry(t, stub, time.Minute)

	id1, nf1 := r.Mount(context.Background())
	id2, nf2 := r.Mount(context.Background())
	require.NoError(t, nf1.Wait(context.Background()))
	require.NoError(t, nf2.Wait(context.Background()))

	assert.NotEqual(t, id1, id2)
	assert.NotSame(t, nf1, nf2)
	assert.Equal(t, 2, stub.Calls())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_GetOrMount(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles()}
	r := newRegistry(t, stub, time.Minute)

	id, nf, mounted := r.GetOrMount(context.Background(), "")
	require.True(t, mounted)

	sameID, same, mounted := r.GetOrMount(context.Background(), id)
	assert.False(t, mounted)
	assert.Equal(t, id, sameID)
	assert.Same(t, nf, same)

	otherID, other, mounted := r.GetOrMount(context.Background(), "unknown-id")
	assert.True(t, mounted)
	assert.NotEqual(t, "unknown-id", otherID)
	assert.NotSame(t, nf, other)
}

func TestRegistry_UnmountDisposes(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles(), release: make(chan struct{})}
	r := newRegistry(t, stub, time.Minute)

	id, nf := r.Mount(context.Background())
	require.Eventually(t, func() bool { return stub.Calls() == 1 }, time.Second, 5*time.Millisecond)

	r.Unmount(id)

	assert.NoError(t, nf.Wait(context.Background()), "disposal leaves no settle error")
	assert.True(t, nf.Disposed())
	assert.Equal(t, feed.StateLoading, nf.State())
	assert.Zero(t, r.Len())

	_, ok := r.Get(id)
	assert.False(t, ok)
}

func TestRegistry_IdleExpiry(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles()}
	r := newRegistry(t, stub, 50*time.Millisecond)

	id, nf := r.Mount(context.Background())
	require.NoError(t, nf.Wait(context.Background()))

	time.Sleep(100 * time.Millisecond)
	_, ok := r.Get(id)
	assert.False(t, ok, "expired mount is not returned")

	require.Eventually(t, nf.Disposed, 3*time.Second, 20*time.Millisecond, "janitor disposes expired mount")
}

func TestRegistry_CloseDisposesAll(t *testing.T) {
	stub := &stubFetcher{articles: sampleArticles(), release: make(chan struct{})}
	r := feed.NewRegistry(func() *feed.NewsFeed {
		return feed.New(stub, feed.Options{Logger: discardLogger()})
	}, 0, discardLogger())

	var feeds []*feed.NewsFeed
	for range 3 {
		_, nf := r.Mount(context.Background())
		feeds = append(feeds, nf)
	}
	require.Eventually(t, func() bool { return stub.Calls() == 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))

	for _, nf := range feeds {
		assert.True(t, nf.Disposed())
		assert.True(t, nf.IsSettled())
	}
	assert.Zero(t, r.Len())
}
