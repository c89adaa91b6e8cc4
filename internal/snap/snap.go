// Package snap computes alignment guides and snap corrections for an
// element being dragged on the label canvas.
//
// The engine is UI-agnostic and deterministic: given the moving element's
// candidate bounding box in pixels, the canvas dimensions, and the bounding
// boxes of the other visible elements, it returns the snapped box together
// with every guide line that fired, so the renderer can draw all candidate
// lines and not only the one used for the correction.
package snap

import (
	"labelpress/pkg/geometry"

	"gonum.org/v1/gonum/floats/scalar"
)

// Threshold is the maximum distance in pixels at which a guide fires.
const Threshold = 5.0

// Source identifies where a guide line comes from. The renderer colors
// guides by source.
type Source int

const (
	// SourceCanvasCenter is the vertical or horizontal center of the label.
	SourceCanvasCenter Source = iota
	// SourceCanvasEdge is one of the four label edges.
	SourceCanvasEdge
	// SourceSibling is the center or leading edge of another element.
	SourceSibling
)

// Guide is one alignment line that fired during a snap computation.
type Guide struct {
	// Vertical guides run parallel to the y axis at x = Pos; horizontal
	// guides run at y = Pos. Pos is in pixels.
	Vertical bool
	Pos      float64
	Source   Source
}

// candidate pairs a guide with the corrected leading-edge coordinate the
// moving box would take if this guide wins its axis.
type candidate struct {
	guide     Guide
	corrected float64
	ref       float64 // the moving box's reference point for this guide
}

// Compute returns the snapped position for a moving box and all guides
// within Threshold. Candidates are evaluated in a fixed order per axis:
// canvas center, canvas edges, then sibling centers and leading edges.
// When several candidates fire on the same axis the later-evaluated one
// wins. The two axes snap independently.
func Compute(moving geometry.Rect, canvasW, canvasH float64, siblings []geometry.Rect) (geometry.Rect, []Guide) {
	xs := xCandidates(moving, canvasW, siblings)
	ys := yCandidates(moving, canvasH, siblings)

	snapped := moving
	var guides []Guide

	if fired := fired(xs); len(fired) > 0 {
		for _, c := range fired {
			guides = append(guides, c.guide)
		}
		snapped.X = fired[len(fired)-1].corrected
	}
	if fired := fired(ys); len(fired) > 0 {
		for _, c := range fired {
			guides = append(guides, c.guide)
		}
		snapped.Y = fired[len(fired)-1].corrected
	}
	return snapped, guides
}

// fired filters candidates down to those within Threshold of their target,
// preserving evaluation order.
func fired(cands []candidate) []candidate {
	var out []candidate
	for _, c := range cands {
		if scalar.EqualWithinAbs(c.ref, c.guide.Pos, Threshold) {
			out = append(out, c)
		}
	}
	return out
}

func xCandidates(moving geometry.Rect, canvasW float64, siblings []geometry.Rect) []candidate {
	cx := moving.Center().X

	cands := []candidate{
		{
			guide:     Guide{Vertical: true, Pos: canvasW / 2, Source: SourceCanvasCenter},
			corrected: canvasW/2 - moving.Width/2,
			ref:       cx,
		},
		{
			guide:     Guide{Vertical: true, Pos: 0, Source: SourceCanvasEdge},
			corrected: 0,
			ref:       moving.X,
		},
		{
			guide:     Guide{Vertical: true, Pos: canvasW, Source: SourceCanvasEdge},
			corrected: canvasW - moving.Width,
			ref:       moving.Right(),
		},
	}
	for _, s := range siblings {
		scx := s.Center().X
		cands = append(cands,
			candidate{
				guide:     Guide{Vertical: true, Pos: scx, Source: SourceSibling},
				corrected: scx - moving.Width/2,
				ref:       cx,
			},
			candidate{
				guide:     Guide{Vertical: true, Pos: s.X, Source: SourceSibling},
				corrected: s.X,
				ref:       moving.X,
			},
		)
	}
	return cands
}

func yCandidates(moving geometry.Rect, canvasH float64, siblings []geometry.Rect) []candidate {
	cy := moving.Center().Y

	cands := []candidate{
		{
			guide:     Guide{Vertical: false, Pos: canvasH / 2, Source: SourceCanvasCenter},
			corrected: canvasH/2 - moving.Height/2,
			ref:       cy,
		},
		{
			guide:     Guide{Vertical: false, Pos: 0, Source: SourceCanvasEdge},
			corrected: 0,
			ref:       moving.Y,
		},
		{
			guide:     Guide{Vertical: false, Pos: canvasH, Source: SourceCanvasEdge},
			corrected: canvasH - moving.Height,
			ref:       moving.Bottom(),
		},
	}
	for _, s := range siblings {
		scy := s.Center().Y
		cands = append(cands,
			candidate{
				guide:     Guide{Vertical: false, Pos: scy, Source: SourceSibling},
				corrected: scy - moving.Height/2,
				ref:       cy,
			},
			candidate{
				guide:     Guide{Vertical: false, Pos: s.Y, Source: SourceSibling},
				corrected: s.Y,
				ref:       moving.Y,
			},
		)
	}
	return cands
}
