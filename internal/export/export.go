// Package export renders a saved label layout into a paginated PDF, one
// label-sized page per requested copy, reproducing the editor's geometry in
// millimeters.
package export

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"labelpress/internal/catalog"
	"labelpress/internal/model"
	"labelpress/internal/qr"
	"labelpress/pkg/units"
)

// CartEntry drives how many copies of the layout are printed for one
// product and whether its promotional price is used.
type CartEntry struct {
	Product  catalog.Product
	Quantity int
	UsePromo bool
}

// PageCount returns how many label pages the cart will produce.
func PageCount(cart []CartEntry) int {
	n := 0
	for _, entry := range cart {
		n += entry.Quantity
	}
	return n
}

// cutGuideInsetMm is how far the dashed cut border sits inside the page.
const cutGuideInsetMm = 0.3

// renderer carries the per-invocation state of one export run. Exports
// share nothing across invocations; the QR cache lives only for the run.
type renderer struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	size       model.LabelSize
	qr         *qr.Cache
	registered map[string]bool
}

// Render produces the print document for the layout and cart. The output
// is deterministic: the same inputs yield byte-identical PDFs. Per-element
// failures (a QR code that cannot be generated) degrade to omitting that
// element; document-level failures abort with no partial output.
func Render(layout *model.Layout, cart []CartEntry) ([]byte, error) {
	size, ok := model.SizeByID(layout.SizeID)
	if !ok {
		return nil, fmt.Errorf("export: unknown label size %q", layout.SizeID)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size.WidthMm, Ht: size.HeightMm},
	})
	// Fixed timestamps keep the output byte-for-byte reproducible.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	r := &renderer{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		size:       size,
		qr:         qr.NewCache(),
		registered: make(map[string]bool),
	}

	for _, entry := range cart {
		for i := 0; i < entry.Quantity; i++ {
			r.renderLabel(layout, entry)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("export: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}

// renderLabel emits one label page for the entry.
func (r *renderer) renderLabel(layout *model.Layout, entry CartEntry) {
	r.pdf.AddPage()
	r.drawCutGuide()

	for _, el := range layout.Elements {
		if !el.Visible {
			continue
		}
		r.renderElement(el, entry)
	}
}

// drawCutGuide draws the light dashed border used as a cutting aid.
func (r *renderer) drawCutGuide() {
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.SetLineWidth(0.1)
	r.pdf.SetDashPattern([]float64{1, 1}, 0)
	r.pdf.Rect(cutGuideInsetMm, cutGuideInsetMm,
		r.size.WidthMm-2*cutGuideInsetMm, r.size.HeightMm-2*cutGuideInsetMm, "D")
	r.pdf.SetDashPattern([]float64{}, 0)
}

func (r *renderer) renderElement(el *model.Element, entry CartEntry) {
	if el.Opacity < 1 {
		r.pdf.SetAlpha(el.Opacity, "Normal")
		defer r.pdf.SetAlpha(1, "Normal")
	}
	if el.Rotation != 0 {
		r.pdf.TransformBegin()
		// PDF rotation is counter-clockwise; the editor stores clockwise
		// degrees.
		r.pdf.TransformRotate(-el.Rotation, el.X, el.Y)
		defer r.pdf.TransformEnd()
	}

	switch el.Type {
	case model.TypeProductName:
		r.drawProductName(el, entry.Product.Name)
	case model.TypePriceInteger:
		integer, _ := catalog.SplitPrice(entry.Product.Price(entry.UsePromo))
		r.drawText(el, integer)
	case model.TypePriceCents:
		_, cents := catalog.SplitPrice(entry.Product.Price(entry.UsePromo))
		r.drawText(el, cents)
	case model.TypeCurrency, model.TypeText:
		r.drawText(el, el.Text)
	case model.TypeQRCode:
		r.drawQR(el, entry.Product)
	case model.TypePromoBadge:
		r.drawPromoBadge(el, entry)
	}
}

// drawText places literal text at the element's own position, translating
// the stored top-edge y to the print baseline.
func (r *renderer) drawText(el *model.Element, text string) {
	if text == "" {
		return
	}
	r.setFont(el)
	r.setTextColor(el.Fill)
	r.pdf.Text(el.X, el.Y+units.BaselineOffset(el.FontSize), r.tr(text))
}

// drawProductName upper-cases the name and centers it horizontally,
// ignoring the element's stored x. Long names wrap to at most two lines;
// the second line is ellipsis-truncated when a third would be needed.
func (r *renderer) drawProductName(el *model.Element, name string) {
	r.setFont(el)
	r.setTextColor(el.Fill)

	maxW := r.size.WidthMm - 4
	lines := r.wrapText(strings.ToUpper(name), maxW)

	lineH := el.FontSize * units.MmPerPoint * 1.2
	y := el.Y + units.BaselineOffset(el.FontSize)
	for i, line := range lines {
		w := r.pdf.GetStringWidth(r.tr(line))
		r.pdf.Text((r.size.WidthMm-w)/2, y+float64(i)*lineH, r.tr(line))
	}
}

// wrapText greedily wraps text to maxW millimeters at the current font,
// capped at two lines.
func (r *renderer) wrapText(text string, maxW float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		joined := current + " " + word
		if r.pdf.GetStringWidth(r.tr(joined)) <= maxW {
			current = joined
			continue
		}
		lines = append(lines, current)
		current = word
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) < 2 {
		lines = append(lines, current)
	} else {
		// A third line would be needed: truncate the second with an ellipsis.
		lines[1] = r.ellipsize(lines[1], maxW)
		lines = lines[:2]
	}
	return lines
}

func (r *renderer) ellipsize(line string, maxW float64) string {
	const ellipsis = "..."
	runes := []rune(line)
	for len(runes) > 0 && r.pdf.GetStringWidth(r.tr(string(runes)+ellipsis)) > maxW {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

// drawQR embeds a QR code for the product's URL, centered at the element
// position. Products without a URL, and codes that fail to generate, are
// omitted rather than failing the document.
func (r *renderer) drawQR(el *model.Element, p catalog.Product) {
	if p.URL == "" || el.QRSize <= 0 {
		return
	}
	png, err := r.qr.PNG(p.URL)
	if err != nil {
		log.Printf("export: skipping QR for product %s: %v", p.ID, err)
		return
	}

	name := "qr-" + p.ID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if !r.registered[name] {
		r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		r.registered[name] = true
	}
	r.pdf.ImageOptions(name, el.X-el.QRSize/2, el.Y-el.QRSize/2,
		el.QRSize, el.QRSize, false, opts, 0, "")
}

// drawPromoBadge emits the badge only when the cart entry asks for the
// promotional price and the product actually has one.
func (r *renderer) drawPromoBadge(el *model.Element, entry CartEntry) {
	if !entry.UsePromo || entry.Product.PromoPrice == nil {
		return
	}

	w, h := el.Width, el.Height
	if w <= 0 {
		w = 18
	}
	if h <= 0 {
		h = 7
	}

	cr, cg, cb := parseHexColor(el.Fill, 0xD3, 0x2F, 0x2F)
	r.pdf.SetFillColor(cr, cg, cb)
	r.pdf.Rect(el.X-w/2, el.Y-h/2, w, h, "F")

	text := el.Text
	if text == "" {
		text = "OFERTA"
	}
	r.setFont(el)
	r.pdf.SetTextColor(255, 255, 255)
	tw := r.pdf.GetStringWidth(r.tr(text))
	// Approximate vertical centering of the baseline inside the badge.
	r.pdf.Text(el.X-tw/2, el.Y+el.FontSize*units.MmPerPoint*0.35, r.tr(text))
}

// setFont selects the core font for the element. The font size carries the
// editor's numeric value unscaled; only the coordinate spaces differ.
func (r *renderer) setFont(el *model.Element) {
	style := ""
	if el.FontWeight == "bold" {
		style = "B"
	}
	size := el.FontSize
	if size <= 0 {
		size = 10
	}
	r.pdf.SetFont("Helvetica", style, size)
}

func (r *renderer) setTextColor(hex string) {
	cr, cg, cb := parseHexColor(hex, 0, 0, 0)
	r.pdf.SetTextColor(cr, cg, cb)
}

// parseHexColor parses "#rrggbb", falling back to the given default.
func parseHexColor(s string, dr, dg, db int) (int, int, int) {
	if len(s) != 7 || s[0] != '#' {
		return dr, dg, db
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return dr, dg, db
	}
	return int(v >> 16), int(v >> 8 & 0xFF), int(v & 0xFF)
}
