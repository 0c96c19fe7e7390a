// Package tui renders the storefront in the terminal: catalog browsing
// with search, category/model filters and pagination, a product detail
// view, and a cart drawer. All query and cart logic lives in the catalog
// synchronizer and cart aggregator; this package only presents their
// state and forwards input events.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rossa-autoparts/storefront/internal/cart"
	"github.com/rossa-autoparts/storefront/internal/catalog"
	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

// mode selects the active page.
type mode int

const (
	modeCatalog mode = iota
	modeDetail
)

// Messages.
type (
	snapshotMsg catalog.Snapshot

	detailMsg struct {
		product *product.Product
		err     error
	}

	clearAddedMsg struct{}

	cartRefreshedMsg struct{}
)

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	sync *catalog.Synchronizer
	cart *cart.Aggregator
	repo product.Repository
	lg   *zap.Logger

	width  int
	height int

	mode mode
	snap catalog.Snapshot

	// Catalog page state.
	search        textinput.Model
	searchFocused bool
	cursor        int

	// Detail page state.
	detail        *product.Product
	detailLoading bool
	detailErr     error
	qty           int
	added         bool

	// Cart drawer state.
	cartCursor int

	styles Styles
}

// New creates the root model. The context bounds every fetch the UI
// triggers.
func New(ctx context.Context, sync *catalog.Synchronizer, bag *cart.Aggregator, repo product.Repository, lg *zap.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Search by name, part number, brand..."
	ti.CharLimit = 80
	ti.Prompt = "🔍 "

	return Model{
		ctx:    ctx,
		sync:   sync,
		cart:   bag,
		repo:   repo,
		lg:     lg.Named("tui"),
		search: ti,
		qty:    1,
		styles: DefaultStyles(),
	}
}

// Init starts listening for synchronizer snapshots.
func (m Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

// waitForSnapshot blocks on the synchronizer's coalescing updates channel.
func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case snap := <-m.sync.Updates():
			return snapshotMsg(snap)
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

// refreshCart re-hydrates cart lines from the catalog so the drawer shows
// current prices instead of the ones frozen at add time.
func (m Model) refreshCart() tea.Cmd {
	return func() tea.Msg {
		m.cart.Refresh(m.ctx)
		return cartRefreshedMsg{}
	}
}

func (m Model) fetchDetail(id string) tea.Cmd {
	return func() tea.Msg {
		p, err := m.repo.GetByID(m.ctx, id)
		return detailMsg{product: p, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snap = catalog.Snapshot(msg)
		if n := len(m.snap.Products); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		return m, m.waitForSnapshot()

	case detailMsg:
		m.detailLoading = false
		m.detail = msg.product
		m.detailErr = msg.err
		m.qty = 1
		m.added = false
		return m, nil

	case clearAddedMsg:
		m.added = false
		return m, nil

	case cartRefreshedMsg:
		// Refreshed lines render on the next View; clamp the cursor in case
		// a delisted product was dropped.
		if n := len(m.cart.Lines()); m.cartCursor >= n {
			m.cartCursor = max(n-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.cart.IsOpen() {
		return m.updateCartDrawer(msg)
	}

	switch m.mode {
	case modeDetail:
		return m.updateDetail(msg)
	default:
		return m.updateCatalog(msg)
	}
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocused {
		switch msg.String() {
		case "enter":
			m.searchFocused = false
			m.search.Blur()
			m.sync.SubmitSearch(m.ctx, m.search.Value())
			return m, nil
		case "esc":
			m.searchFocused = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != before {
			// Each keystroke schedules a debounced commit; only the final
			// value in a burst is committed.
			m.sync.SetSearchText(m.ctx, v)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searchFocused = true
		m.search.Focus()
		return m, textinput.Blink
	case "tab":
		m.cart.Open()
		m.cartCursor = 0
		return m, m.refreshCart()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Products)-1 {
			m.cursor++
		}
	case "left", "h":
		if err := m.sync.SetPage(m.ctx, m.snap.Filter.Page-1); err != nil {
			m.lg.Debug("Page change rejected", zap.Error(err))
		}
	case "right", "l":
		if err := m.sync.SetPage(m.ctx, m.snap.Filter.Page+1); err != nil {
			m.lg.Debug("Page change rejected", zap.Error(err))
		}
	case "c":
		m.sync.SetCategory(m.ctx, m.nextCategory())
	case "m":
		m.sync.SetModel(m.ctx, m.nextModel())
	case "x":
		m.search.SetValue("")
		m.sync.ClearAll(m.ctx)
	case "r":
		m.sync.Refresh(m.ctx)
	case "enter":
		if p, ok := m.selected(); ok {
			m.mode = modeDetail
			m.detail = nil
			m.detailErr = nil
			m.detailLoading = true
			return m, m.fetchDetail(p.ID)
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "q":
		m.mode = modeCatalog
		m.detail = nil
		return m, nil
	case "tab":
		m.cart.Open()
		m.cartCursor = 0
		return m, m.refreshCart()
	case "+", "up", "k":
		if m.detail != nil && m.qty < m.detail.Stock {
			m.qty++
		}
	case "-", "down", "j":
		if m.qty > 1 {
			m.qty--
		}
	case "a", "enter":
		if m.detail != nil && m.detail.InStock() {
			if err := m.cart.Add(m.ctx, *m.detail, m.qty); err != nil {
				m.lg.Warn("Add to cart rejected", zap.Error(err))
				return m, nil
			}
			m.added = true
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return clearAddedMsg{}
			})
		}
	}
	return m, nil
}

func (m Model) updateCartDrawer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()
	switch msg.String() {
	case "esc", "tab", "q":
		m.cart.Close()
		return m, nil
	case "up", "k":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down", "j":
		if m.cartCursor < len(lines)-1 {
			m.cartCursor++
		}
	case "+":
		if l, ok := lineAt(lines, m.cartCursor); ok {
			m.cart.SetQuantity(m.ctx, l.Product.ID, l.Quantity+1)
		}
	case "-":
		if l, ok := lineAt(lines, m.cartCursor); ok {
			// Quantity 0 behaves as remove.
			m.cart.SetQuantity(m.ctx, l.Product.ID, l.Quantity-1)
		}
	case "x", "delete", "backspace":
		if l, ok := lineAt(lines, m.cartCursor); ok {
			m.cart.Remove(m.ctx, l.Product.ID)
			if m.cartCursor > 0 {
				m.cartCursor--
			}
		}
	}
	return m, nil
}

func (m Model) selected() (product.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Products) {
		return product.Product{}, false
	}
	return m.snap.Products[m.cursor], true
}

func lineAt(lines []cart.Line, i int) (cart.Line, bool) {
	if i < 0 || i >= len(lines) {
		return cart.Line{}, false
	}
	return lines[i], true
}

// nextCategory cycles all → first category → ... → last → all.
func (m Model) nextCategory() string {
	cats := m.snap.Categories
	cur := m.snap.Filter.Category
	if cur == "" {
		if len(cats) == 0 {
			return ""
		}
		return cats[0].ID
	}
	for i, c := range cats {
		if c.ID == cur && i+1 < len(cats) {
			return cats[i+1].ID
		}
	}
	return ""
}

// nextModel cycles all → each known model → all.
func (m Model) nextModel() product.Model {
	models := product.Models()
	cur := m.snap.Filter.Model
	if cur == "" {
		return models[0]
	}
	for i, mo := range models {
		if mo == cur && i+1 < len(models) {
			return models[i+1]
		}
	}
	return ""
}
