package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		in     string
		want   Model
		wantOK bool
	}{
		{"daily", ModelDaily, true},
		{"Daily", ModelDaily, true},
		{"  STRALIS ", ModelStralis, true},
		{"eurocargo", ModelEurocargo, true},
		{"scania", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseModel(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseModel(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseModel(%q)", tt.in)
	}
}

func TestModelDisplay(t *testing.T) {
	assert.Equal(t, "Daily", ModelDaily.Display())
	assert.Equal(t, "", Model("").Display())
}
