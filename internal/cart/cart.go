package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

// ErrInvalidQuantity is returned when adding less than one unit.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is a single cart entry: one product and how many units of it.
// There is at most one line per product ID.
type Line struct {
	Product  product.Product
	Quantity int
}

// Subtotal returns price × quantity for this line, using the product data
// currently attached to the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Aggregator owns the cart state: an insertion-ordered list of lines with
// derived count and total. It knows nothing about checkout or payment.
// Mutations write through the Store so the cart survives a session reload;
// a store failure is logged and never fails the mutation, since the cart
// must stay usable without persistence.
type Aggregator struct {
	repo  product.Repository
	store Store
	lg    *zap.Logger

	mu    sync.Mutex
	lines []Line
	open  bool
}

// NewAggregator creates an empty cart persisting through store and
// re-hydrating product details from repo.
func NewAggregator(repo product.Repository, store Store, lg *zap.Logger) *Aggregator {
	return &Aggregator{
		repo:  repo,
		store: store,
		lg:    lg.Named("cart"),
	}
}

// Load restores persisted lines, re-hydrating each product from the
// catalog. Products that no longer exist are dropped. A store or catalog
// failure leaves the cart empty and is reported to the caller; the cart
// remains usable.
func (a *Aggregator) Load(ctx context.Context) error {
	stored, err := a.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load cart store")
	}

	lines := make([]Line, 0, len(stored))
	for _, sl := range stored {
		if sl.Quantity < 1 {
			continue
		}
		p, err := a.repo.GetByID(ctx, sl.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				a.lg.Info("Dropping cart line for removed product",
					zap.String("product_id", sl.ProductID))
				continue
			}
			return errors.Wrapf(err, "hydrate product %s", sl.ProductID)
		}
		lines = append(lines, Line{Product: *p, Quantity: sl.Quantity})
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = lines
	if len(lines) != len(stored) {
		a.persistLocked(ctx)
	}
	return nil
}

// Add puts qty units of p in the cart. A line for the same product ID is
// incremented rather than duplicated; otherwise a new line is appended.
// Quantities below 1 are rejected. No stock ceiling is enforced here:
// stock is advisory display data the caller already clamped against.
func (a *Aggregator) Add(ctx context.Context, p product.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if i := a.indexLocked(p.ID); i >= 0 {
		a.lines[i].Quantity += qty
		a.lines[i].Product = p
	} else {
		a.lines = append(a.lines, Line{Product: p, Quantity: qty})
	}
	a.persistLocked(ctx)
	return nil
}

// Remove deletes the line for the given product ID. Removing an absent
// product is a no-op, not an error.
func (a *Aggregator) Remove(ctx context.Context, productID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(productID)
	if i < 0 {
		return
	}
	a.lines = append(a.lines[:i], a.lines[i+1:]...)
	a.persistLocked(ctx)
}

// SetQuantity sets the line's quantity. A quantity of 0 or less removes
// the line, equivalent to Remove. Setting a quantity for an absent product
// is a no-op.
func (a *Aggregator) SetQuantity(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		a.Remove(ctx, productID)
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.indexLocked(productID)
	if i < 0 {
		return
	}
	a.lines[i].Quantity = qty
	a.persistLocked(ctx)
}

// Refresh re-hydrates every line's product from the catalog so price and
// stock changes propagate. Lines whose product has disappeared are
// dropped. Fetch failures leave the affected lines as they were.
func (a *Aggregator) Refresh(ctx context.Context) {
	a.mu.Lock()
	lines := make([]Line, len(a.lines))
	copy(lines, a.lines)
	a.mu.Unlock()

	kept := lines[:0]
	changed := false
	for _, l := range lines {
		p, err := a.repo.GetByID(ctx, l.Product.ID)
		switch {
		case err == nil:
			l.Product = *p
			changed = true
		case errors.Is(err, product.ErrNotFound):
			a.lg.Info("Dropping cart line for removed product",
				zap.String("product_id", l.Product.ID))
			changed = true
			continue
		default:
			a.lg.Warn("Cart refresh fetch failed",
				zap.String("product_id", l.Product.ID), zap.Error(err))
		}
		kept = append(kept, l)
	}
	if !changed {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = kept
	a.persistLocked(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (a *Aggregator) Lines() []Line {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Line, len(a.lines))
	copy(out, a.lines)
	return out
}

// Count returns the sum of quantities across all lines.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, l := range a.lines {
		n += l.Quantity
	}
	return n
}

// Total returns Σ(price × quantity) over all lines, using each line's
// current product data so price changes propagate after a Refresh.
func (a *Aggregator) Total() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := decimal.Zero
	for _, l := range a.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Open marks the cart drawer visible. Presentation state only.
func (a *Aggregator) Open() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.open = true
}

// Close marks the cart drawer hidden. Presentation state only.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.open = false
}

// IsOpen reports whether the cart drawer is visible.
func (a *Aggregator) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}

func (a *Aggregator) indexLocked(productID string) int {
	for i := range a.lines {
		if a.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// persistLocked writes the current lines through the store. Must be called
// with a.mu held.
func (a *Aggregator) persistLocked(ctx context.Context) {
	stored := make([]StoredLine, len(a.lines))
	for i, l := range a.lines {
		stored[i] = StoredLine{ProductID: l.Product.ID, Quantity: l.Quantity}
	}
	if err := a.store.Save(ctx, stored); err != nil {
		a.lg.Warn("Persisting cart failed", zap.Error(err))
	}
}
