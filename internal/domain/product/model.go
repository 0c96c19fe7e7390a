package product

import "strings"

// Model is a truck-model compatibility tag from a fixed set. The empty
// string means "no model".
type Model string

// The model line the storefront serves.
const (
	ModelDaily     Model = "daily"
	ModelEurocargo Model = "eurocargo"
	ModelStralis   Model = "stralis"
	ModelTrakker   Model = "trakker"
	ModelTector    Model = "tector"
	ModelCursor    Model = "cursor"
)

// Models returns every known compatibility model in display order.
func Models() []Model {
	return []Model{
		ModelDaily,
		ModelEurocargo,
		ModelStralis,
		ModelTrakker,
		ModelTector,
		ModelCursor,
	}
}

// ParseModel matches s (case-insensitive) against the known model set.
// The second return value reports whether s named a known model.
func ParseModel(s string) (Model, bool) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Models() {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Display returns the model name capitalized for presentation.
func (m Model) Display() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}
