package mainwindow

import (
	"fmt"
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"labelpress/internal/catalog"
	"labelpress/internal/export"
)

// cartRow is one product line in the print dialog.
type cartRow struct {
	product catalog.Product
	qty     *widget.Entry
	promo   *widget.Check
}

// showPrintDialog collects (product, quantity, promo) entries and runs the
// export. The layout printed is the saved state of the current session.
func (mw *MainWindow) showPrintDialog() {
	if len(mw.products) == 0 {
		dialog.ShowInformation("Print", "No products available.", mw.Window)
		return
	}

	rows := make([]*cartRow, 0, len(mw.products))
	grid := container.NewVBox()
	for _, p := range mw.products {
		row := &cartRow{product: p}
		row.qty = widget.NewEntry()
		row.qty.SetPlaceHolder("0")
		row.promo = widget.NewCheck("promo", nil)
		if p.PromoPrice == nil {
			row.promo.Disable()
		}
		rows = append(rows, row)

		price := widget.NewLabel("R$ " + catalog.FormatPrice(p.SalePrice))
		grid.Add(container.NewBorder(nil, nil,
			widget.NewLabel(p.Name),
			container.NewHBox(price, row.qty, row.promo),
		))
	}

	content := container.NewVScroll(grid)
	content.SetMinSize(fyne.NewSize(500, 300))

	d := dialog.NewCustomConfirm("Print labels", "Export PDF", "Cancel", content,
		func(confirmed bool) {
			if !confirmed {
				return
			}
			cart := buildCart(rows)
			if len(cart) == 0 {
				dialog.ShowInformation("Print", "No quantities entered.", mw.Window)
				return
			}
			mw.exportPDF(cart)
		}, mw.Window)
	d.Show()
}

// buildCart keeps rows with a positive quantity, in dialog order.
func buildCart(rows []*cartRow) []export.CartEntry {
	var cart []export.CartEntry
	for _, row := range rows {
		qty, err := strconv.Atoi(row.qty.Text)
		if err != nil || qty <= 0 {
			continue
		}
		cart = append(cart, export.CartEntry{
			Product:  row.product,
			Quantity: qty,
			UsePromo: row.promo.Checked,
		})
	}
	return cart
}

// exportPDF renders the document and asks where to save it. Partial output
// is never written: rendering completes in memory first.
func (mw *MainWindow) exportPDF(cart []export.CartEntry) {
	data, err := export.Render(mw.session.Layout(), cart)
	if err != nil {
		dialog.ShowError(fmt.Errorf("export failed: %w", err), mw.Window)
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(fmt.Errorf("write PDF: %w", err), mw.Window)
			return
		}
		log.Printf("exported %d labels (%d bytes) to %s", export.PageCount(cart), len(data), writer.URI())
		dialog.ShowInformation("Print",
			fmt.Sprintf("%d labels exported.", export.PageCount(cart)), mw.Window)
	}, mw.Window)
}
