package catalog

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

// fakeRepo is a controllable product.Repository. The default List response
// names its products after the query so tests can tell fetches apart.
type fakeRepo struct {
	mu      sync.Mutex
	queries []product.ListQuery

	listFn func(product.ListQuery) (*product.ListPage, error)
	catsFn func() ([]product.Category, error)
}

func (f *fakeRepo) List(_ context.Context, q product.ListQuery) (*product.ListPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(q)
	}
	return &product.ListPage{
		Items:      []product.Product{{ID: "p-" + q.Search + q.Category, Name: "Part"}},
		Pagination: product.Pagination{Total: 1, Pages: 1, Page: q.Page},
	}, nil
}

func (f *fakeRepo) Categories(context.Context) ([]product.Category, error) {
	f.mu.Lock()
	fn := f.catsFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return []product.Category{{ID: "c1", Name: "Brakes"}}, nil
}

func (f *fakeRepo) GetByID(context.Context, string) (*product.Product, error) {
	return nil, product.ErrNotFound
}

func (f *fakeRepo) listCalls() []product.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]product.ListQuery, len(f.queries))
	copy(out, f.queries)
	return out
}

func newTestSync(t *testing.T, repo *fakeRepo, cfg Config) *Synchronizer {
	t.Helper()
	s := NewSynchronizer(repo, cfg, zap.NewNop())
	t.Cleanup(s.Close)
	return s
}

func waitSettled(t *testing.T, s *Synchronizer) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Ready && !snap.Loading || snap.Err != nil
	}, 2*time.Second, 5*time.Millisecond)
	return s.Snapshot()
}

func TestSynchronizer_FilterCommitsResetPage(t *testing.T) {
	repo := &fakeRepo{listFn: func(q product.ListQuery) (*product.ListPage, error) {
		return &product.ListPage{
			Pagination: product.Pagination{Total: 100, Pages: 7, Page: q.Page},
		}, nil
	}}
	s := newTestSync(t, repo, Config{})
	ctx := context.Background()

	s.Refresh(ctx)
	waitSettled(t, s)
	require.NoError(t, s.SetPage(ctx, 5))
	waitSettled(t, s)
	require.Equal(t, 5, s.Filter().Page)

	s.SetCategory(ctx, "brakes")
	assert.Equal(t, 1, s.Filter().Page)

	require.NoError(t, s.SetPage(ctx, 5))
	s.SetModel(ctx, product.ModelDaily)
	assert.Equal(t, 1, s.Filter().Page)

	require.NoError(t, s.SetPage(ctx, 5))
	s.SubmitSearch(ctx, "bomba")
	assert.Equal(t, 1, s.Filter().Page)
}

func TestSynchronizer_SetPageRejectsOutOfRange(t *testing.T) {
	repo := &fakeRepo{listFn: func(q product.ListQuery) (*product.ListPage, error) {
		return &product.ListPage{
			Pagination: product.Pagination{Total: 48, Pages: 3, Page: q.Page},
		}, nil
	}}
	s := newTestSync(t, repo, Config{})
	ctx := context.Background()

	// Before the page count is known, any positive page is accepted.
	assert.ErrorIs(t, s.SetPage(ctx, 0), ErrPageOutOfRange)
	require.NoError(t, s.SetPage(ctx, 2))
	waitSettled(t, s)

	err := s.SetPage(ctx, 99)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.Equal(t, 2, s.Filter().Page, "rejected request must not change the page")

	assert.ErrorIs(t, s.SetPage(ctx, -1), ErrPageOutOfRange)
	assert.Equal(t, 2, s.Filter().Page)
}

func TestSynchronizer_SearchDebounce(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestSync(t, repo, Config{SearchDebounce: 40 * time.Millisecond})
	ctx := context.Background()

	// A burst of keystrokes within the debounce window commits exactly
	// once, with the final value.
	s.SetSearchText(ctx, "a")
	s.SetSearchText(ctx, "ab")
	s.SetSearchText(ctx, "abc")

	require.Eventually(t, func() bool {
		return len(repo.listCalls()) > 0
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	calls := repo.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "abc", calls[0].Search)
	assert.Equal(t, 1, calls[0].Page)
	assert.Equal(t, "abc", s.Filter().Search)
}

func TestSynchronizer_SubmitSearchCancelsPendingDebounce(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestSync(t, repo, Config{SearchDebounce: 50 * time.Millisecond})
	ctx := context.Background()

	s.SetSearchText(ctx, "fil")
	s.SubmitSearch(ctx, "filtro")
	time.Sleep(120 * time.Millisecond)

	calls := repo.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "filtro", calls[0].Search)
}

func TestSynchronizer_ClearAllCancelsPendingDebounce(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestSync(t, repo, Config{SearchDebounce: 50 * time.Millisecond})
	ctx := context.Background()

	s.SubmitSearch(ctx, "old")
	waitSettled(t, s)
	s.SetSearchText(ctx, "pending")
	s.ClearAll(ctx)
	time.Sleep(120 * time.Millisecond)

	assert.True(t, s.Filter().IsDefault())
	for _, q := range repo.listCalls() {
		assert.NotEqual(t, "pending", q.Search, "cancelled commit must never fetch")
	}
}

func TestSynchronizer_LastIssuedWins(t *testing.T) {
	release := map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}
	repo := &fakeRepo{listFn: func(q product.ListQuery) (*product.ListPage, error) {
		<-release[q.Category]
		return &product.ListPage{
			Items:      []product.Product{{ID: q.Category, Name: q.Category}},
			Pagination: product.Pagination{Total: 1, Pages: 1, Page: 1},
		}, nil
	}}
	s := newTestSync(t, repo, Config{})
	ctx := context.Background()

	s.SetCategory(ctx, "slow") // fetch A
	s.SetCategory(ctx, "fast") // fetch B supersedes A

	// B completes first, then A. The final state must reflect B.
	close(release["fast"])
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Ready && len(snap.Products) == 1 && snap.Products[0].ID == "fast"
	}, 2*time.Second, 5*time.Millisecond)

	close(release["slow"])
	time.Sleep(50 * time.Millisecond)

	snap := s.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "fast", snap.Products[0].ID, "stale fetch result must be discarded")
	assert.False(t, snap.Loading)
}

func TestSynchronizer_FetchErrorKeepsLastKnownGood(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	repo := &fakeRepo{}
	repo.listFn = func(q product.ListQuery) (*product.ListPage, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("api down")
		}
		return &product.ListPage{
			Items:      []product.Product{{ID: "p1", Name: "Filter"}},
			Pagination: product.Pagination{Total: 1, Pages: 1, Page: 1},
		}, nil
	}
	s := newTestSync(t, repo, Config{})
	ctx := context.Background()

	s.Refresh(ctx)
	good := waitSettled(t, s)
	require.NoError(t, good.Err)
	require.Len(t, good.Products, 1)

	mu.Lock()
	fail = true
	mu.Unlock()
	s.SetCategory(ctx, "engine")
	require.Eventually(t, func() bool {
		return s.Snapshot().Err != nil
	}, 2*time.Second, 5*time.Millisecond)

	snap := s.Snapshot()
	assert.Len(t, snap.Products, 1, "stale-but-valid data is retained")
	assert.False(t, snap.Loading)

	// Manual retry recovers.
	mu.Lock()
	fail = false
	mu.Unlock()
	s.Refresh(ctx)
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Err == nil && !snap.Loading
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSynchronizer_NoResults(t *testing.T) {
	repo := &fakeRepo{listFn: func(q product.ListQuery) (*product.ListPage, error) {
		return &product.ListPage{
			Items:      []product.Product{},
			Pagination: product.Pagination{Total: 0, Pages: 0, Page: 1},
		}, nil
	}}
	s := newTestSync(t, repo, Config{})

	s.SubmitSearch(context.Background(), "no such part")
	snap := waitSettled(t, s)

	assert.Empty(t, snap.Products)
	assert.True(t, snap.NoResults())
}

func TestSynchronizer_RestoreAdoptsSharedQuery(t *testing.T) {
	repo := &fakeRepo{listFn: func(q product.ListQuery) (*product.ListPage, error) {
		return &product.ListPage{
			Pagination: product.Pagination{Total: 50, Pages: 4, Page: q.Page},
		}, nil
	}}
	s := newTestSync(t, repo, Config{PageSize: 12})

	v, err := url.ParseQuery("category=engine&model=daily&page=3")
	require.NoError(t, err)
	s.Restore(context.Background(), v)
	waitSettled(t, s)

	f := s.Filter()
	assert.Equal(t, "engine", f.Category)
	assert.Equal(t, product.ModelDaily, f.Model)
	assert.Equal(t, 3, f.Page)

	calls := repo.listCalls()
	require.NotEmpty(t, calls)
	assert.Equal(t, 12, calls[0].Limit)
	assert.Equal(t, 3, calls[0].Page)
}

func TestSynchronizer_UpdatesCoalesce(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestSync(t, repo, Config{})
	ctx := context.Background()

	s.SetCategory(ctx, "a")
	s.SetCategory(ctx, "b")
	waitSettled(t, s)

	// The channel only retains the latest snapshot; a lagging consumer
	// never blocks the synchronizer.
	var last Snapshot
	for {
		select {
		case snap := <-s.Updates():
			last = snap
			continue
		default:
		}
		break
	}
	assert.Equal(t, "b", last.Filter.Category)
}
