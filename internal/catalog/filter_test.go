package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossa-autoparts/storefront/internal/domain/product"
)

func TestFilterState_Transitions(t *testing.T) {
	f := DefaultFilter().WithPage(4)

	t.Run("category resets page", func(t *testing.T) {
		got := f.WithCategory("brakes")
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, "brakes", got.Category)
	})

	t.Run("model resets page", func(t *testing.T) {
		got := f.WithModel(product.ModelDaily)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, product.ModelDaily, got.Model)
	})

	t.Run("search resets page", func(t *testing.T) {
		got := f.WithSearch("filtro")
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, "filtro", got.Search)
	})

	t.Run("page keeps other dimensions", func(t *testing.T) {
		got := f.WithCategory("brakes").WithPage(3)
		assert.Equal(t, 3, got.Page)
		assert.Equal(t, "brakes", got.Category)
	})

	t.Run("transitions do not mutate the receiver", func(t *testing.T) {
		_ = f.WithCategory("brakes")
		assert.Equal(t, 4, f.Page)
		assert.Empty(t, f.Category)
	})

	t.Run("reset returns defaults", func(t *testing.T) {
		got := f.WithCategory("brakes").WithSearch("x").Reset()
		assert.True(t, got.IsDefault())
	})
}

func TestFilterState_CanonicalEncoding(t *testing.T) {
	t.Run("default state encodes empty", func(t *testing.T) {
		assert.Empty(t, DefaultFilter().EncodeQuery())
	})

	t.Run("empty representation decodes to default", func(t *testing.T) {
		assert.Equal(t, DefaultFilter(), ParseQuery(url.Values{}))
		assert.Equal(t, DefaultFilter(), ParseQueryString(""))
	})

	t.Run("page 1 is omitted", func(t *testing.T) {
		v := DefaultFilter().WithCategory("brakes").Encode()
		assert.False(t, v.Has("page"))
		assert.Equal(t, "brakes", v.Get("category"))
	})

	tests := []struct {
		name string
		f    FilterState
	}{
		{"page only", DefaultFilter().WithPage(3)},
		{"category", DefaultFilter().WithCategory("engine")},
		{"model", DefaultFilter().WithModel(product.ModelStralis)},
		{"search with spaces", DefaultFilter().WithSearch("filtro de aceite")},
		{"everything", DefaultFilter().
			WithCategory("engine").
			WithModel(product.ModelTector).
			WithSearch("bomba").
			WithPage(7)},
	}
	for _, tt := range tests {
		t.Run("round-trip "+tt.name, func(t *testing.T) {
			encoded := tt.f.EncodeQuery()
			got := ParseQueryString(encoded)
			assert.Equal(t, tt.f, got)
		})
	}
}

func TestParseQuery_Lenient(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FilterState
	}{
		{"malformed page", "page=abc", DefaultFilter()},
		{"zero page", "page=0", DefaultFilter()},
		{"negative page", "page=-2", DefaultFilter()},
		{"unknown model dropped", "model=scania&page=2", DefaultFilter().WithPage(2)},
		{"model case-insensitive", "model=DAILY", DefaultFilter().WithModel(product.ModelDaily)},
		{"unknown params ignored", "utm_source=mail&category=brakes", DefaultFilter().WithCategory("brakes")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseQuery(v))
		})
	}
}
