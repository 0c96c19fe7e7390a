package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the active page, with the cart drawer overlaid when open.
func (m Model) View() string {
	var page string
	switch m.mode {
	case modeDetail:
		page = m.viewDetail()
	default:
		page = m.viewCatalog()
	}

	if m.cart.IsOpen() {
		return lipgloss.JoinHorizontal(lipgloss.Top, page, m.viewCartDrawer())
	}
	return page
}

func (m Model) viewCatalog() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	if chips := m.viewFilterChips(); chips != "" {
		b.WriteString(chips)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	snap := m.snap
	switch {
	case snap.Err != nil:
		b.WriteString(m.styles.Error.Render("Could not load the catalog."))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Showing the last loaded results. Press r to retry."))
		b.WriteString("\n\n")
		b.WriteString(m.viewProductRows())
	case snap.Loading && !snap.Ready:
		b.WriteString(m.styles.Muted.Render("Loading catalog…"))
		b.WriteString("\n")
	case snap.NoResults():
		b.WriteString(m.styles.Subtitle.Render("No results"))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Try different search terms, or press x to see everything."))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewProductRows())
	}

	b.WriteString("\n")
	b.WriteString(m.viewPagination())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(
		"↑/↓ select · enter details · ←/→ page · / search · c category · m model · x clear · r retry · tab cart · q quit"))
	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("ROSSA REPUESTOS — Catalog")
	total := ""
	if m.snap.Ready {
		total = m.styles.Muted.Render(fmt.Sprintf("  %d products", m.snap.Pagination.Total))
	}
	badge := ""
	if n := m.cart.Count(); n > 0 {
		badge = "  " + m.styles.Badge.Render(fmt.Sprintf("cart %d · $%s", n, m.cart.Total().StringFixed(2)))
	}
	loading := ""
	if m.snap.Loading && m.snap.Ready {
		loading = m.styles.Muted.Render("  …")
	}
	return title + total + badge + loading
}

func (m Model) viewFilterChips() string {
	f := m.snap.Filter
	var chips []string
	if f.Category != "" {
		name := f.Category
		for _, c := range m.snap.Categories {
			if c.ID == f.Category {
				name = c.Name
				break
			}
		}
		chips = append(chips, m.styles.Chip.Render("category: "+name))
	}
	if f.Model != "" {
		chips = append(chips, m.styles.Chip.Render("model: "+f.Model.Display()))
	}
	if f.Search != "" {
		chips = append(chips, m.styles.Chip.Render(fmt.Sprintf("%q", f.Search)))
	}
	if len(chips) == 0 {
		return ""
	}
	return strings.Join(chips, " ")
}

func (m Model) viewProductRows() string {
	var b strings.Builder
	for i, p := range m.snap.Products {
		stock := m.styles.Stock.Render(fmt.Sprintf("in stock (%d)", p.Stock))
		if !p.InStock() {
			stock = m.styles.NoStock.Render("out of stock")
		}
		meta := p.Brand
		if p.PartNumber != "" {
			if meta != "" {
				meta += " · "
			}
			meta += p.PartNumber
		}
		row := fmt.Sprintf("%s  %s  %s  %s",
			p.Name,
			m.styles.Price.Render("$"+p.Price.StringFixed(2)),
			stock,
			m.styles.Muted.Render(meta),
		)
		if i == m.cursor {
			b.WriteString(m.styles.RowActive.String() + row)
		} else {
			b.WriteString(m.styles.Row.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewPagination() string {
	pg := m.snap.Pagination
	if !m.snap.Ready || pg.Pages <= 1 {
		return ""
	}
	return m.styles.Muted.Render(fmt.Sprintf("page %d/%d", m.snap.Filter.Page, pg.Pages))
}

func (m Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch {
	case m.detailLoading:
		b.WriteString(m.styles.Muted.Render("Loading product…"))
	case m.detailErr != nil:
		// Not-found is a terminal state for this view, not a crash.
		b.WriteString(m.styles.Subtitle.Render("Product not found"))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Press esc to go back to the catalog."))
	case m.detail != nil:
		p := m.detail
		if p.Category.Name != "" {
			b.WriteString(m.styles.Chip.Render(p.Category.Name))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Title.Render(p.Name))
		b.WriteString("\n")
		if p.Brand != "" {
			b.WriteString(m.styles.Muted.Render("Brand: " + p.Brand))
			b.WriteString("\n")
		}
		if p.PartNumber != "" {
			b.WriteString(m.styles.Muted.Render("Part no: " + p.PartNumber))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Price.Render("$" + p.Price.StringFixed(2)))
		b.WriteString("\n")
		if p.InStock() {
			b.WriteString(m.styles.Stock.Render(fmt.Sprintf("✓ in stock (%d u.)", p.Stock)))
			b.WriteString("\n\n")
			b.WriteString(fmt.Sprintf("quantity: %d  (+/- to change)\n", m.qty))
			if m.added {
				b.WriteString(m.styles.Stock.Render("✓ added to cart"))
			} else {
				b.WriteString(m.styles.Help.Render("press a to add to cart"))
			}
		} else {
			b.WriteString(m.styles.NoStock.Render("out of stock"))
		}
		b.WriteString("\n")
		if p.Description != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Subtitle.Render("Description"))
			b.WriteString("\n")
			b.WriteString(p.Description)
			b.WriteString("\n")
		}
		if len(p.Compatible) > 0 {
			b.WriteString("\n")
			b.WriteString(m.styles.Subtitle.Render("Compatible models"))
			b.WriteString("\n")
			names := make([]string, len(p.Compatible))
			for i, mo := range p.Compatible {
				names[i] = m.styles.Chip.Render(mo.Display())
			}
			b.WriteString(strings.Join(names, " "))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("esc back · a add to cart · tab cart · ctrl+c quit"))
	return b.String()
}

func (m Model) viewCartDrawer() string {
	lines := m.cart.Lines()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Cart"))
	b.WriteString("\n\n")

	if len(lines) == 0 {
		b.WriteString(m.styles.Muted.Render("Your cart is empty."))
		b.WriteString("\n")
	} else {
		for i, l := range lines {
			row := fmt.Sprintf("%s ×%d  %s", l.Product.Name, l.Quantity,
				m.styles.Price.Render("$"+l.Subtotal().StringFixed(2)))
			b.WriteString(cartRow(m.styles, row, i == m.cartCursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%d items · total %s",
			m.cart.Count(),
			m.styles.Price.Render("$"+m.cart.Total().StringFixed(2))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("+/- qty · x remove · esc close"))
	return m.styles.Drawer.Render(b.String())
}

func cartRow(st Styles, row string, active bool) string {
	if active {
		return st.RowActive.String() + row
	}
	return st.Row.Render(row)
}
