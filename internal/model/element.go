// Package model defines the label layout data model: the element variants
// that can be placed on a label, the layout that groups them, and the undo
// history over layouts.
package model

import (
	"github.com/google/uuid"
)

// ElementType identifies one of the closed set of element kinds that can be
// placed on a label. The renderers switch exhaustively over this set.
type ElementType string

const (
	TypeProductName  ElementType = "product-name"
	TypePriceInteger ElementType = "price-integer"
	TypePriceCents   ElementType = "price-cents"
	TypeCurrency     ElementType = "currency"
	TypeQRCode       ElementType = "qrcode"
	TypePromoBadge   ElementType = "promo-badge"
	TypeText         ElementType = "text"
)

// IsText reports whether the element kind carries text and font properties.
// Only QR codes are pure images.
func (t ElementType) IsText() bool {
	return t != TypeQRCode
}

// Editable reports whether the element kind supports inline text editing on
// the canvas. Badges keep a fixed caption and QR codes have no text at all.
func (t ElementType) Editable() bool {
	return t != TypeQRCode && t != TypePromoBadge
}

// Element is one placeable item on a label. All positional and size fields
// are in millimeters; pixel values never enter the model.
//
// For text-bearing kinds (X, Y) is the top-left corner of the text box. For
// QR codes it is the center of the square.
type Element struct {
	ID   string      `json:"id"`
	Type ElementType `json:"type"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Text       string  `json:"text,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	Fill       string  `json:"fill,omitempty"`

	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
	Visible  bool    `json:"visible"`
	Locked   bool    `json:"locked"`

	// QR-only fields. QRValue is the design-time placeholder; print export
	// substitutes a per-product URL.
	QRSize  float64 `json:"qrSize,omitempty"`
	QRValue string  `json:"qrValue,omitempty"`
}

// NewElement creates an element of the given kind with a fresh id and the
// shared defaults (visible, fully opaque, unlocked).
func NewElement(t ElementType) *Element {
	return &Element{
		ID:         uuid.NewString(),
		Type:       t,
		FontFamily: "Helvetica",
		FontWeight: "normal",
		Fill:       "#000000",
		Opacity:    1,
		Visible:    true,
	}
}

// Clone returns a deep copy of the element with the same id.
func (e *Element) Clone() *Element {
	c := *e
	return &c
}

// CloneWithNewID returns a deep copy of the element under a freshly minted
// id. Paste and duplicate always go through this; ids are never reused.
func (e *Element) CloneWithNewID() *Element {
	c := *e
	c.ID = uuid.NewString()
	return &c
}

// Layout is the ordered collection of elements on one label plus the label
// size it was designed for. Array order is draw order; the last element is
// topmost. Layout is the unit of save/load and of history snapshots.
type Layout struct {
	SizeID   string     `json:"labelSize"`
	Elements []*Element `json:"elements"`
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	c := &Layout{
		SizeID:   l.SizeID,
		Elements: make([]*Element, len(l.Elements)),
	}
	for i, e := range l.Elements {
		c.Elements[i] = e.Clone()
	}
	return c
}

// FindByID returns the element with the given id, or nil.
func (l *Layout) FindByID(id string) *Element {
	for _, e := range l.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Remove deletes the element with the given id, preserving the order of the
// remaining elements. It reports whether an element was removed.
func (l *Layout) Remove(id string) bool {
	for i, e := range l.Elements {
		if e.ID == id {
			l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds an element at the top of the draw order.
func (l *Layout) Append(e *Element) {
	l.Elements = append(l.Elements, e)
}
