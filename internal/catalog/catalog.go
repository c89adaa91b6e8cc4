// Package catalog provides read-only access to the product records supplied
// by the surrounding application, plus the price formatting shared by the
// canvas and print renderers.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Product is one read-only catalog record. PromoPrice is nil when the
// product has no promotional price. URL is the target encoded into printed
// QR codes; products without a URL get no QR code on their labels.
type Product struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SalePrice  float64  `json:"salePrice"`
	PromoPrice *float64 `json:"promoPrice,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// Price returns the promotional price when promo is requested and one
// exists, otherwise the regular sale price.
func (p Product) Price(promo bool) float64 {
	if promo && p.PromoPrice != nil {
		return *p.PromoPrice
	}
	return p.SalePrice
}

// Load reads a product list from a JSON file.
func Load(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return products, nil
}

// FormatPrice renders a price with two decimals and a decimal comma,
// e.g. 12.9 -> "12,90".
func FormatPrice(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// SplitPrice splits a formatted price into the integer part and the cents
// part. The cents part keeps its leading comma so the two pieces
// concatenate back to the full price: 12.9 -> "12", ",90".
func SplitPrice(v float64) (integer, cents string) {
	s := FormatPrice(v)
	i := strings.Index(s, ",")
	return s[:i], s[i:]
}
