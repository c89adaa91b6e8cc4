// labelproof renders a proof-sheet PDF from a saved layout and a product
// catalog without starting the GUI. Useful for checking print geometry
// from the command line.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"labelpress/internal/catalog"
	"labelpress/internal/export"
	"labelpress/internal/model"
	"labelpress/internal/store"
)

func main() {
	log.SetFlags(0)

	var (
		storeDir    = flag.String("store", "", "layout store directory (default: user config dir)")
		sizeID      = flag.String("size", model.DefaultSizeID, "label size id")
		catalogPath = flag.String("catalog", "", "product catalog JSON file")
		quantity    = flag.Int("n", 1, "copies per product")
		output      = flag.String("o", "proof.pdf", "output PDF path")
		promo       = flag.Bool("promo", false, "use promotional prices where available")
	)
	flag.Parse()

	if *catalogPath == "" {
		log.Fatal("labelproof: -catalog is required")
	}

	products, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("labelproof: %v", err)
	}
	if len(products) == 0 {
		log.Fatal("labelproof: catalog is empty")
	}

	st, err := openStore(*storeDir)
	if err != nil {
		log.Fatalf("labelproof: %v", err)
	}

	layout, err := st.Load(*sizeID)
	if err != nil {
		log.Fatalf("labelproof: %v", err)
	}
	if layout == nil {
		layout = model.DefaultLayout(*sizeID)
	}

	cart := make([]export.CartEntry, 0, len(products))
	for _, p := range products {
		cart = append(cart, export.CartEntry{
			Product:  p,
			Quantity: *quantity,
			UsePromo: *promo,
		})
	}

	data, err := export.Render(layout, cart)
	if err != nil {
		log.Fatalf("labelproof: %v", err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		log.Fatalf("labelproof: %v", err)
	}
	fmt.Printf("wrote %d labels to %s (%d bytes)\n", export.PageCount(cart), *output, len(data))
}

func openStore(dir string) (*store.Store, error) {
	if dir != "" {
		return store.OpenAt(dir), nil
	}
	return store.Open()
}
