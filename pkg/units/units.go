// Package units converts between the millimeter model space used by label
// layouts and the pixel space of the editor canvas.
//
// Every stored coordinate is in millimeters. Pixels only exist transiently
// in the canvas and interaction code; the print pipeline works in
// millimeters end to end.
package units

const (
	// PxPerMm is the fixed millimeter-to-pixel ratio shared by the canvas
	// renderer and the interaction engine. Hit-testing and drag math assume
	// this exact value, so it must never differ between consumers.
	PxPerMm = 4.0

	// MmPerPoint is the size of one typographic point in millimeters
	// (1/72 inch, rounded).
	MmPerPoint = 0.353

	// ascentFraction is the empirical fraction of the font size between the
	// top of a text box and its baseline.
	ascentFraction = 0.75
)

// MmToPx converts millimeters to canvas pixels at zoom 1.
func MmToPx(mm float64) float64 {
	return mm * PxPerMm
}

// PxToMm converts canvas pixels at zoom 1 back to millimeters.
func PxToMm(px float64) float64 {
	return px / PxPerMm
}

// BaselineOffset returns the vertical distance in millimeters from the top
// of a text box to its rendering baseline. The editor stores text positions
// by their top edge while print output places text by baseline; this bridges
// the two conventions.
func BaselineOffset(fontSize float64) float64 {
	return fontSize * MmPerPoint * ascentFraction
}
