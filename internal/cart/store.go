package cart

import "context"

// StoredLine is the persisted shape of a cart line. Only the product ID
// and quantity are stored; product details are re-hydrated from the
// catalog on load so stale data is never resurrected.
type StoredLine struct {
	ProductID string
	Quantity  int
}

// Store persists cart contents across sessions. Save replaces the whole
// cart; implementations decide the storage mechanism.
type Store interface {
	Load(ctx context.Context) ([]StoredLine, error)
	Save(ctx context.Context, lines []StoredLine) error
}

// NopStore is a Store that keeps nothing. Useful when persistence is
// disabled.
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) Load(context.Context) ([]StoredLine, error) { return nil, nil }
func (NopStore) Save(context.Context, []StoredLine) error { return nil }
