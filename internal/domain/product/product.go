package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a spare part as served by the remote catalog API.
// Instances are read-only from the storefront's perspective; stock counts
// are advisory display data, not reservations.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int
	Category    Category
	Brand       string
	PartNumber  string
	Description string
	Images      []Image
	Compatible  []Model
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Image holds a single product photo.
type Image struct {
	URL string
	Alt string
}

// Category groups products in the catalog sidebar.
type Category struct {
	ID   string
	Name string
}

// Pagination describes the slice of the catalog a listing covers.
type Pagination struct {
	Total int
	Pages int
	Page  int
}

// ListQuery narrows a catalog listing. Zero values mean "no filter" for
// Category, Search and Model.
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
	Model    Model
}

// ListPage is one page of catalog results.
type ListPage struct {
	Items      []Product
	Pagination Pagination
}

// Repository defines read operations against the product catalog.
type Repository interface {
	List(ctx context.Context, q ListQuery) (*ListPage, error)
	Categories(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
