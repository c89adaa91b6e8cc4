package model

import "math"

// LabelSize is one entry of the fixed physical label size table.
type LabelSize struct {
	ID       string  `json:"id"`
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`
}

// Sizes is the fixed set of selectable label dimensions.
var Sizes = []LabelSize{
	{ID: "40x25", WidthMm: 40, HeightMm: 25},
	{ID: "50x30", WidthMm: 50, HeightMm: 30},
	{ID: "60x40", WidthMm: 60, HeightMm: 40},
	{ID: "80x30", WidthMm: 80, HeightMm: 30},
	{ID: "80x40", WidthMm: 80, HeightMm: 40},
	{ID: "80x50", WidthMm: 80, HeightMm: 50},
}

// DefaultSizeID is used when no preference has been recorded yet.
const DefaultSizeID = "80x40"

// SizeByID looks up a label size by id. The second return value reports
// whether the id is known.
func SizeByID(id string) (LabelSize, bool) {
	for _, s := range Sizes {
		if s.ID == id {
			return s, true
		}
	}
	return LabelSize{}, false
}

// DefaultLayout generates the starter element set for the given label size:
// product name across the top, currency symbol, price digits split into
// integer and cents groups, and a QR code in the lower right. Positions and
// font sizes are authored for the 80x40 reference size and scaled to the
// requested dimensions.
//
// Unknown size ids fall back to the default size.
func DefaultLayout(sizeID string) *Layout {
	size, ok := SizeByID(sizeID)
	if !ok {
		size, _ = SizeByID(DefaultSizeID)
	}

	sw := size.WidthMm / 80
	sh := size.HeightMm / 40
	sf := math.Min(sw, sh) // font and QR scale

	name := NewElement(TypeProductName)
	name.X, name.Y = 2*sw, 3*sh
	name.Text = "NOME DO PRODUTO"
	name.FontSize = 11 * sf
	name.FontWeight = "bold"

	currency := NewElement(TypeCurrency)
	currency.X, currency.Y = 6*sw, 16*sh
	currency.Text = "R$"
	currency.FontSize = 12 * sf
	currency.FontWeight = "bold"

	integer := NewElement(TypePriceInteger)
	integer.X, integer.Y = 16*sw, 10*sh
	integer.Text = "99"
	integer.FontSize = 32 * sf
	integer.FontWeight = "bold"

	cents := NewElement(TypePriceCents)
	cents.X, cents.Y = 40*sw, 13*sh
	cents.Text = ",99"
	cents.FontSize = 20 * sf
	cents.FontWeight = "bold"

	code := NewElement(TypeQRCode)
	code.X, code.Y = 64*sw, 26*sh
	code.QRSize = 18 * sf
	code.QRValue = "https://example.com/produto"

	return &Layout{
		SizeID:   size.ID,
		Elements: []*Element{name, currency, integer, cents, code},
	}
}
