package catalog

import (
	"net/url"
	"strconv"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

// Query parameter names of the canonical shareable encoding.
const (
	paramPage     = "page"
	paramCategory = "category"
	paramModel    = "model"
	paramSearch   = "search"
)

// FilterState is the catalog's current query: page, category, model and
// free-text search. It is an immutable value; transitions return a new
// state instead of mutating in place.
type FilterState struct {
	Page     int
	Category string
	Model    product.Model
	Search   string
}

// DefaultFilter is the unfiltered first page of the whole catalog.
func DefaultFilter() FilterState {
	return FilterState{Page: 1}
}

// WithPage returns the state moved to page n. Other dimensions are kept.
func (f FilterState) WithPage(n int) FilterState {
	f.Page = n
	return f
}

// WithCategory returns the state filtered to the given category (empty
// means "all"). The page resets to 1 so a narrower result set cannot leave
// the query pointing past its last page.
func (f FilterState) WithCategory(id string) FilterState {
	f.Category = id
	f.Page = 1
	return f
}

// WithModel returns the state filtered to the given compatibility model
// (empty means "all"). The page resets to 1.
func (f FilterState) WithModel(m product.Model) FilterState {
	f.Model = m
	f.Page = 1
	return f
}

// WithSearch returns the state filtered by the given free-text term (empty
// means "no text filter"). The page resets to 1.
func (f FilterState) WithSearch(q string) FilterState {
	f.Search = q
	f.Page = 1
	return f
}

// Reset returns the default filter.
func (f FilterState) Reset() FilterState {
	return DefaultFilter()
}

// IsDefault reports whether no filter dimension is active.
func (f FilterState) IsDefault() bool {
	return f == DefaultFilter()
}

// Query converts the state into a repository listing query with the given
// page size.
func (f FilterState) Query(limit int) product.ListQuery {
	return product.ListQuery{
		Page:     f.Page,
		Limit:    limit,
		Category: f.Category,
		Search:   f.Search,
		Model:    f.Model,
	}
}

// Encode returns the canonical url.Values representation. Dimensions at
// their default value are omitted, so the default state encodes empty.
func (f FilterState) Encode() url.Values {
	v := url.Values{}
	if f.Page > 1 {
		v.Set(paramPage, strconv.Itoa(f.Page))
	}
	if f.Category != "" {
		v.Set(paramCategory, f.Category)
	}
	if f.Model != "" {
		v.Set(paramModel, string(f.Model))
	}
	if f.Search != "" {
		v.Set(paramSearch, f.Search)
	}
	return v
}

// EncodeQuery returns the canonical representation as a URL query string.
func (f FilterState) EncodeQuery() string {
	return f.Encode().Encode()
}

// ParseQuery decodes a shared or bookmarked query into a FilterState.
// External input is parsed leniently: a malformed page or an unknown model
// tag falls back to the default for that dimension rather than failing the
// whole query.
func ParseQuery(v url.Values) FilterState {
	f := DefaultFilter()
	if n, err := strconv.Atoi(v.Get(paramPage)); err == nil && n >= 1 {
		f.Page = n
	}
	f.Category = v.Get(paramCategory)
	if m, ok := product.ParseModel(v.Get(paramModel)); ok {
		f.Model = m
	}
	f.Search = v.Get(paramSearch)
	return f
}

// ParseQueryString is ParseQuery for a raw query string. A string that does
// not parse as a query yields the default state.
func ParseQueryString(raw string) FilterState {
	v, err := url.ParseQuery(raw)
	if err != nil {
		return DefaultFilter()
	}
	return ParseQuery(v)
}
