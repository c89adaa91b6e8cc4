package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelpress/internal/catalog"
	"labelpress/internal/model"
)

func testCart(qty int, promo bool) []CartEntry {
	promoPrice := 7.99
	return []CartEntry{{
		Product: catalog.Product{
			ID:         "p-1",
			Name:       "Cafe torrado e moido 500g",
			SalePrice:  12.9,
			PromoPrice: &promoPrice,
			URL:        "https://example.com/cafe",
		},
		Quantity: qty,
		UsePromo: promo,
	}}
}

func TestRenderIsDeterministic(t *testing.T) {
	layout := model.DefaultLayout("80x40")
	cart := testCart(3, false)

	a, err := Render(layout, cart)
	require.NoError(t, err)
	b, err := Render(layout, cart)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a, b), "two renders of the same input differ")
	assert.True(t, bytes.HasPrefix(a, []byte("%PDF-")))
}

func TestRenderPageCount(t *testing.T) {
	layout := model.DefaultLayout("80x40")
	promoPrice := 5.0
	cart := []CartEntry{
		{Product: catalog.Product{ID: "a", Name: "Arroz", SalePrice: 24.9}, Quantity: 2},
		{Product: catalog.Product{ID: "b", Name: "Feijao", SalePrice: 8.5, PromoPrice: &promoPrice}, Quantity: 3, UsePromo: true},
	}

	assert.Equal(t, 5, PageCount(cart))

	data, err := Render(layout, cart)
	require.NoError(t, err)
	assert.Contains(t, string(data), fmt.Sprintf("/Count %d", 5))
}

func TestRenderUnknownSize(t *testing.T) {
	layout := &model.Layout{SizeID: "9x9"}
	_, err := Render(layout, testCart(1, false))
	assert.Error(t, err)
}

func TestInvisibleElementEqualsRemovedElement(t *testing.T) {
	hidden := model.DefaultLayout("80x40")
	var id string
	for _, el := range hidden.Elements {
		if el.Type == model.TypeCurrency {
			el.Visible = false
			id = el.ID
		}
	}
	require.NotEmpty(t, id)

	removed := hidden.Clone()
	require.True(t, removed.Remove(id))
	for _, el := range removed.Elements {
		el.Visible = true
	}
	for _, el := range hidden.Elements {
		if el.ID != id {
			el.Visible = true
		}
	}

	a, err := Render(hidden, testCart(1, false))
	require.NoError(t, err)
	b, err := Render(removed, testCart(1, false))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "hidden element left a trace in the output")
}

func TestPromoBadgeGating(t *testing.T) {
	withBadge := model.DefaultLayout("80x40")
	badge := model.NewElement(model.TypePromoBadge)
	badge.X, badge.Y = 60, 8
	badge.FontSize = 9
	withBadge.Append(badge)

	without := withBadge.Clone()
	require.True(t, without.Remove(badge.ID))

	// Without promo pricing requested, the badge renders nothing and the
	// document matches one produced from a layout with no badge at all.
	a, err := Render(withBadge, testCart(1, false))
	require.NoError(t, err)
	b, err := Render(without, testCart(1, false))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))

	// With promo requested, the badge draws and the documents diverge.
	plain, err := Render(without, testCart(1, true))
	require.NoError(t, err)
	badged, err := Render(withBadge, testCart(1, true))
	require.NoError(t, err)
	assert.False(t, bytes.Equal(plain, badged), "badge did not render under promo pricing")
}

func TestPromoBadgeNeedsPromoPrice(t *testing.T) {
	layout := model.DefaultLayout("80x40")
	badge := model.NewElement(model.TypePromoBadge)
	badge.X, badge.Y = 60, 8
	badge.FontSize = 9
	layout.Append(badge)

	cart := []CartEntry{{
		Product:  catalog.Product{ID: "p", Name: "Sabao", SalePrice: 3.5},
		Quantity: 1,
		UsePromo: true, // requested, but the product has no promo price
	}}

	bare := layout.Clone()
	require.True(t, bare.Remove(badge.ID))

	a, err := Render(layout, cart)
	require.NoError(t, err)
	b, err := Render(bare, cart)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "badge rendered without a promo price")
}

func TestProductWithoutURLOmitsQR(t *testing.T) {
	layout := model.DefaultLayout("80x40")
	cart := []CartEntry{{
		Product:  catalog.Product{ID: "p", Name: "Sal", SalePrice: 2.0},
		Quantity: 1,
	}}

	bare := layout.Clone()
	for _, el := range layout.Elements {
		if el.Type == model.TypeQRCode {
			require.True(t, bare.Remove(el.ID))
		}
	}

	a, err := Render(layout, cart)
	require.NoError(t, err)
	b, err := Render(bare, cart)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "QR element rendered without a product URL")
}

func TestPromoPriceChangesPrintedDigits(t *testing.T) {
	layout := model.DefaultLayout("80x40")
	regular, err := Render(layout, testCart(1, false))
	require.NoError(t, err)
	promo, err := Render(layout, testCart(1, true))
	require.NoError(t, err)
	assert.False(t, bytes.Equal(regular, promo))
}
