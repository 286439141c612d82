package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

// DefaultPlaceholderImageURL is shown on cards whose article has no image.
const DefaultPlaceholderImageURL = "https://via.placeholder.com/400x200?text=No+Image"

// DefaultCountry is the country filter used when Options.Country is empty.
const DefaultCountry = "us"

// HeadlinesFetcher retrieves top headlines for a country.
// A nil slice with a nil error means the response carried no articles.
type HeadlinesFetcher interface {
	TopHeadlines(ctx context.Context, country string) ([]entity.Article, error)
}

// Options configures a NewsFeed.
type Options struct {
	// Country is sent as the country filter. Default: "us".
	Country string

	// PlaceholderImageURL replaces missing article images on cards.
	PlaceholderImageURL string

	// Logger receives settle and failure logs. Default: slog.Default().
	Logger *slog.Logger
}

// State is the observable phase of a NewsFeed.
type State int

const (
	// StateLoading means the fetch has not settled yet.
	StateLoading State = iota
	// StateError means the fetch settled with no news or a failure.
	StateError
	// StateReady means the fetch settled with at least one article.
	StateReady
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Card is the presentation of one article in the grid.
type Card struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
}

// View is a consistent snapshot of a NewsFeed.
// Cards holds the filtered articles and is empty unless State is StateReady.
type View struct {
	State      State  `json:"-"`
	Error      string `json:"error,omitempty"`
	SearchTerm string `json:"searchTerm"`
	Total      int    `json:"total"`
	Cards      []Card `json:"cards"`
}

// NewsFeed fetches top headlines once and serves a filterable view of them.
// It starts in StateLoading and moves to StateError or StateReady exactly once.
// All methods are safe for concurrent use.
type NewsFeed struct {
	fetcher     HeadlinesFetcher
	country     string
	placeholder string
	logger      *slog.Logger

	mu         sync.RWMutex
	articles   []entity.Article
	loading    bool
	err        error
	searchTerm string
	disposed   bool

	started     atomic.Bool
	settled     chan struct{}
	lifetime    context.Context
	cancel      context.CancelFunc
	disposeOnce sync.Once
}

// New creates a NewsFeed in StateLoading. No request is made until Initialize.
// The API key belongs to the fetcher; the component never reads it.
func New(fetcher HeadlinesFetcher, opts Options) *NewsFeed {
	if opts.Country == "" {
		opts.Country = DefaultCountry
	}
	if opts.PlaceholderImageURL == "" {
		opts.PlaceholderImageURL = DefaultPlaceholderImageURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	lifetime, cancel := context.WithCancel(context.Background())
	return &NewsFeed{
		fetcher:     fetcher,
		country:     opts.Country,
		placeholder: opts.PlaceholderImageURL,
		logger:      opts.Logger,
		articles:    []entity.Article{},
		loading:     true,
		settled:     make(chan struct{}),
		lifetime:    lifetime,
		cancel:      cancel,
	}
}

// Initialize performs the single headlines fetch and blocks until it settles.
//
// It returns nil when articles were stored, ErrNoNews for an empty result, and an error
// wrapping ErrFetchFailed and the cause otherwise. Later calls return ErrAlreadyInitialized
// without touching the network. The request is canceled when ctx ends or the instance is
// disposed; a fetch that settles after Dispose leaves the state untouched and returns ErrDisposed.
func (f *NewsFeed) Initialize(ctx context.Context) (err error) {
	if !f.started.CompareAndSwap(false, true) {
		return ErrAlreadyInitialized
	}

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.lifetime, cancel)
	defer func() {
		stop()
		cancel()
	}()

	// 成否に関わらず loading を解除し待機者を解放する
	defer func() {
		f.mu.Lock()
		if f.disposed {
			err = ErrDisposed
		} else {
			f.loading = false
		}
		f.mu.Unlock()
		close(f.settled)
	}()

	// 破棄済みならリクエストを送らない
	if f.lifetime.Err() != nil {
		return ErrDisposed
	}

	articles, fetchErr := f.fetcher.TopHeadlines(ctx, f.country)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disposed {
		return ErrDisposed
	}

	switch {
	case fetchErr != nil:
		f.err = fmt.Errorf("%w: %w", ErrFetchFailed, fetchErr)
		f.logger.WarnContext(ctx, "headlines fetch failed",
			slog.String("country", f.country),
			slog.String("error", fetchErr.Error()))
		metrics.RecordFeedSettled(metrics.OutcomeFailed, 0)
	case len(articles) == 0:
		f.err = ErrNoNews
		f.logger.InfoContext(ctx, "headlines fetch returned no articles",
			slog.String("country", f.country))
		metrics.RecordFeedSettled(metrics.OutcomeEmpty, 0)
	default:
		f.articles = articles
		f.err = nil
		f.logger.DebugContext(ctx, "headlines fetched",
			slog.String("country", f.country),
			slog.Int("articles", len(articles)))
		metrics.RecordFeedSettled(metrics.OutcomeReady, len(articles))
	}
	return f.err
}

// Settled returns a channel closed once Initialize has settled.
func (f *NewsFeed) Settled() <-chan struct{} {
	return f.settled
}

// Wait blocks until Initialize settles or ctx ends, and returns the settle error.
func (f *NewsFeed) Wait(ctx context.Context) error {
	select {
	case <-f.settled:
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the settle error, or nil while loading or when ready.
func (f *NewsFeed) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

// Dispose cancels an in-flight fetch and freezes the state. It is idempotent.
func (f *NewsFeed) Dispose() {
	f.dispose()
}

// dispose reports whether this call performed the disposal.
func (f *NewsFeed) dispose() bool {
	first := false
	f.disposeOnce.Do(func() {
		first = true
		f.mu.Lock()
		f.disposed = true
		f.mu.Unlock()
		f.cancel()
	})
	return first
}

// Disposed reports whether Dispose has been called.
func (f *NewsFeed) Disposed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.disposed
}

// IsSettled reports whether Initialize has settled.
func (f *NewsFeed) IsSettled() bool {
	select {
	case <-f.settled:
		return true
	default:
		return false
	}
}

// SetSearchTerm replaces the search term. Any string is accepted.
func (f *NewsFeed) SetSearchTerm(term string) {
	f.mu.Lock()
	f.searchTerm = term
	f.mu.Unlock()
}

// SearchTerm returns the current search term.
func (f *NewsFeed) SearchTerm() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.searchTerm
}

// Articles returns a copy of the stored articles in response order.
func (f *NewsFeed) Articles() []entity.Article {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]entity.Article, len(f.articles))
	copy(out, f.articles)
	return out
}

// Filtered returns the stored articles matching the current search term.
// It is recomputed on every call.
func (f *NewsFeed) Filtered() []entity.Article {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Filter(f.articles, f.searchTerm)
}

// State returns the current phase.
func (f *NewsFeed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stateLocked()
}

func (f *NewsFeed) stateLocked() State {
	switch {
	case f.loading:
		return StateLoading
	case f.err != nil:
		return StateError
	default:
		return StateReady
	}
}

// View returns a snapshot for rendering.
func (f *NewsFeed) View() View {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v := View{
		State:      f.stateLocked(),
		SearchTerm: f.searchTerm,
		Total:      len(f.articles),
		Cards:      []Card{},
	}

	switch v.State {
	case StateError:
		v.Error = UserMessage(f.err)
	case StateReady:
		for _, a := range Filter(f.articles, f.searchTerm) {
			v.Cards = append(v.Cards, Card{
				Title:       a.Title,
				Description: a.DescriptionText(),
				URL:         a.URL,
				ImageURL:    a.ImageURL(f.placeholder),
			})
		}
	}
	return v
}
