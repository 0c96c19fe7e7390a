package catalog

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

// ErrPageOutOfRange is returned by SetPage when the requested page is below
// 1 or beyond the last known page. The request is rejected rather than
// clamped so caller bugs are not masked.
var ErrPageOutOfRange = errors.New("page out of range")

// Defaults for Config zero values.
const (
	DefaultPageSize       = 16
	DefaultSearchDebounce = 400 * time.Millisecond
)

// Config tunes a Synchronizer.
type Config struct {
	// PageSize is the catalog page length requested from the repository.
	PageSize int
	// SearchDebounce is how long free-text input must stay quiet before a
	// search commit fires.
	SearchDebounce time.Duration
}

func (c *Config) setDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = DefaultSearchDebounce
	}
}

// Snapshot is the state a presentation layer observes: the committed
// filter, the last applied fetch results and the loading/error flags.
// Slices are shared with the synchronizer and must not be mutated.
type Snapshot struct {
	Filter     FilterState
	Products   []product.Product
	Categories []product.Category
	Pagination product.Pagination
	Loading    bool
	Err        error

	// Ready is true once at least one fetch has been applied.
	Ready bool
}

// NoResults reports whether the last applied fetch succeeded and matched
// nothing.
func (s Snapshot) NoResults() bool {
	return s.Ready && !s.Loading && s.Err == nil && s.Pagination.Total == 0
}

// Synchronizer is the single source of truth for the catalog's
// filter/search/pagination selection. It keeps the selection in sync with
// the canonical shareable encoding, debounces free-text input, and drives
// data fetching with last-issued-wins semantics: every fetch carries a
// monotonically increasing sequence number, and a result is applied only
// if no newer fetch has been issued since.
type Synchronizer struct {
	repo product.Repository
	lg   *zap.Logger

	pageSize int
	debounce time.Duration

	mu         sync.Mutex
	filter     FilterState
	products   []product.Product
	categories []product.Category
	pagination product.Pagination
	loading    bool
	ready      bool
	err        error

	// searchTimer holds the pending debounced search commit; nil when no
	// commit is scheduled. Owned by the synchronizer, never shared.
	searchTimer *time.Timer

	// seq is the sequence number of the most recently issued fetch.
	seq uint64

	updates chan Snapshot
}

// NewSynchronizer creates a Synchronizer reading from repo. No fetch is
// issued until one of the filter operations, Restore or Refresh is called.
func NewSynchronizer(repo product.Repository, cfg Config, lg *zap.Logger) *Synchronizer {
	cfg.setDefaults()
	return &Synchronizer{
		repo:     repo,
		lg:       lg.Named("catalog"),
		pageSize: cfg.PageSize,
		debounce: cfg.SearchDebounce,
		filter:   DefaultFilter(),
		updates:  make(chan Snapshot, 1),
	}
}

// Updates returns a coalescing channel of state snapshots. Only the latest
// snapshot is retained when the consumer lags.
func (s *Synchronizer) Updates() <-chan Snapshot {
	return s.updates
}

// Snapshot returns the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Filter returns the current committed filter state.
func (s *Synchronizer) Filter() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetSearchText updates the free-text filter, committing only after input
// stays quiet for the debounce interval. A call made before a pending
// commit fires replaces it, so a burst of keystrokes commits exactly once
// with the final value. The commit resets the page to 1 and fetches.
func (s *Synchronizer) SetSearchText(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSearchTimerLocked()
	s.searchTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.searchTimer = nil
		s.filter = s.filter.WithSearch(text)
		s.fetchLocked(ctx)
	})
}

// SubmitSearch commits a search immediately, for explicit submit gestures.
// Any pending debounced commit is cancelled.
func (s *Synchronizer) SubmitSearch(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSearchTimerLocked()
	s.filter = s.filter.WithSearch(text)
	s.fetchLocked(ctx)
}

// SetCategory sets the category filter (empty for "all"), resets the page
// to 1 and fetches immediately.
func (s *Synchronizer) SetCategory(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = s.filter.WithCategory(id)
	s.fetchLocked(ctx)
}

// SetModel sets the compatibility-model filter (empty for "all"), resets
// the page to 1 and fetches immediately.
func (s *Synchronizer) SetModel(ctx context.Context, m product.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = s.filter.WithModel(m)
	s.fetchLocked(ctx)
}

// SetPage moves to page n and fetches. Once the page count is known,
// requests outside [1, pages] return ErrPageOutOfRange and leave the state
// untouched.
func (s *Synchronizer) SetPage(ctx context.Context, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		return ErrPageOutOfRange
	}
	if s.ready && n > max(s.pagination.Pages, 1) {
		return ErrPageOutOfRange
	}
	s.filter = s.filter.WithPage(n)
	s.fetchLocked(ctx)
	return nil
}

// ClearAll resets every filter dimension to its default, cancels any
// pending debounced search commit, and fetches.
func (s *Synchronizer) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSearchTimerLocked()
	s.filter = s.filter.Reset()
	s.fetchLocked(ctx)
}

// Restore adopts a shared or bookmarked query encoding and fetches.
func (s *Synchronizer) Restore(ctx context.Context, v url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSearchTimerLocked()
	s.filter = ParseQuery(v)
	s.fetchLocked(ctx)
}

// Refresh re-fetches the current query. This is the manual retry path
// after a fetch error.
func (s *Synchronizer) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLocked(ctx)
}

// Close cancels any pending debounced commit. In-flight fetches finish on
// their own and are discarded if superseded.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSearchTimerLocked()
}

func (s *Synchronizer) stopSearchTimerLocked() {
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
}

// fetchLocked issues a fetch for the current filter. Must be called with
// s.mu held.
func (s *Synchronizer) fetchLocked(ctx context.Context) {
	s.seq++
	seq := s.seq
	q := s.filter.Query(s.pageSize)
	s.loading = true
	s.publishLocked()

	go s.fetch(ctx, seq, q)
}

// fetch requests the product page and the full category list concurrently
// and applies both atomically. A result whose sequence number is no longer
// the highest issued is discarded regardless of completion order.
func (s *Synchronizer) fetch(ctx context.Context, seq uint64, q product.ListQuery) {
	var (
		page *product.ListPage
		cats []product.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.repo.List(gctx, q)
		return errors.Wrap(err, "list products")
	})
	g.Go(func() error {
		var err error
		cats, err = s.repo.Categories(gctx)
		return errors.Wrap(err, "list categories")
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.lg.Debug("Discarding superseded fetch",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.seq))
		return
	}

	s.loading = false
	if err != nil {
		// Keep last-known-good data; the error state is recoverable via Refresh.
		s.err = err
		s.lg.Warn("Catalog fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		s.publishLocked()
		return
	}

	s.err = nil
	s.ready = true
	s.products = page.Items
	s.pagination = page.Pagination
	s.categories = cats
	s.publishLocked()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	return Snapshot{
		Filter:     s.filter,
		Products:   s.products,
		Categories: s.categories,
		Pagination: s.pagination,
		Loading:    s.loading,
		Err:        s.err,
		Ready:      s.ready,
	}
}

// publishLocked pushes the current snapshot to the updates channel,
// dropping a stale undelivered snapshot first. Must be called with s.mu
// held.
func (s *Synchronizer) publishLocked() {
	snap := s.snapshotLocked()
	for {
		select {
		case s.updates <- snap:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
