// Package editor provides the label canvas widget: element selection,
// drag with snap-to-guide, resize/rotate, inline text editing and zoom.
package editor

import (
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"labelpress/internal/app"
	"labelpress/internal/model"
	"labelpress/internal/qr"
	"labelpress/internal/snap"
	"labelpress/pkg/geometry"
	"labelpress/pkg/units"
)

const (
	minZoom  = 0.5
	maxZoom  = 3.0
	zoomStep = 0.25

	// stageMargin leaves room around the label for the rotate handle.
	stageMargin = 24.0

	// handleSize is the side of the square transform handles in pixels.
	handleSize = 8.0

	// minBoxPx is the smallest bounding box a resize gesture may produce.
	// Attempts below this revert to the prior box.
	minBoxPx = 10.0

	// rotateHandleOffset is how far above the selection box the rotate
	// handle sits.
	rotateHandleOffset = 18.0
)

type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragResize
	dragRotate
)

// Editor is the interactive label canvas. It owns only transient
// per-gesture state; the persistent element model lives in the session and
// is touched exclusively through discrete commits on gesture end.
type Editor struct {
	widget.BaseWidget

	session *app.Session
	qrCache *qr.Cache

	zoom     float64
	showGrid bool

	// Drag state, all in label-space pixels at the current zoom.
	mode     dragMode
	dragID   string
	startBox geometry.Rect
	dragBox  geometry.Rect
	dragRot  float64
	grab     geometry.Point2D // press offset from the box origin
	guides   []snap.Guide

	editing *model.Element
	entry   *editEntry

	// Resolved QR images keyed by encoded value, plus in-flight fetches.
	// qrMu guards both maps: resolved codes arrive from a background
	// goroutine while rebuild reads on the event thread.
	qrMu      sync.Mutex
	qrImages  map[string]image.Image
	qrPending map[string]bool

	content *fyne.Container
	scroll  *zoomScroll

	OnZoomChanged func(zoom float64)
}

var (
	_ fyne.Tappable       = (*Editor)(nil)
	_ fyne.DoubleTappable = (*Editor)(nil)
	_ fyne.Draggable      = (*Editor)(nil)
)

// New creates an editor bound to the session.
func New(session *app.Session) *Editor {
	e := &Editor{
		session:   session,
		qrCache:   qr.NewCache(),
		zoom:      1.0,
		showGrid:  true,
		qrImages:  make(map[string]image.Image),
		qrPending: make(map[string]bool),
		content:   container.NewWithoutLayout(),
	}
	e.ExtendBaseWidget(e)
	e.scroll = newZoomScroll(e)

	session.On(app.EventLayoutChanged, func(interface{}) { e.Refresh() })
	session.On(app.EventSelectionChanged, func(interface{}) { e.Refresh() })
	session.On(app.EventSizeChanged, func(interface{}) { e.Refresh() })

	e.rebuild()
	return e
}

// Container returns the scrollable wrapper holding the editor.
func (e *Editor) Container() fyne.CanvasObject {
	return e.scroll
}

func (e *Editor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(e.content)
}

func (e *Editor) MinSize() fyne.Size {
	size := e.session.Size()
	return fyne.NewSize(
		float32(units.MmToPx(size.WidthMm)*e.zoom+2*stageMargin),
		float32(units.MmToPx(size.HeightMm)*e.zoom+2*stageMargin),
	)
}

func (e *Editor) Refresh() {
	e.rebuild()
	e.BaseWidget.Refresh()
}

// scale returns pixels per millimeter at the current zoom.
func (e *Editor) scale() float64 {
	return units.PxPerMm * e.zoom
}

// Zoom returns the current zoom factor.
func (e *Editor) Zoom() float64 {
	return e.zoom
}

// SetZoom clamps and applies the zoom factor. Zoom scales the whole stage
// uniformly and never changes stored millimeter coordinates.
func (e *Editor) SetZoom(z float64) {
	z = math.Min(maxZoom, math.Max(minZoom, z))
	if z == e.zoom {
		return
	}
	e.zoom = z
	if e.OnZoomChanged != nil {
		e.OnZoomChanged(z)
	}
	e.Refresh()
}

// ZoomIn increases the zoom by one step.
func (e *Editor) ZoomIn() { e.SetZoom(e.zoom + zoomStep) }

// ZoomOut decreases the zoom by one step.
func (e *Editor) ZoomOut() { e.SetZoom(e.zoom - zoomStep) }

// SetShowGrid toggles the 5 mm grid.
func (e *Editor) SetShowGrid(show bool) {
	e.showGrid = show
	e.Refresh()
}

// ShowGrid reports whether the grid is drawn.
func (e *Editor) ShowGrid() bool { return e.showGrid }

// Editing reports whether the inline text editor is open. Keyboard
// shortcuts are suppressed while it is.
func (e *Editor) Editing() bool { return e.editing != nil }

// elementBox returns the element's bounding box in label-space pixels at
// the current zoom.
func (e *Editor) elementBox(el *model.Element) geometry.Rect {
	s := e.scale()
	switch el.Type {
	case model.TypeQRCode:
		side := el.QRSize * s
		return geometry.NewRect(el.X*s-side/2, el.Y*s-side/2, side, side)
	case model.TypePromoBadge:
		w, h := el.Width, el.Height
		if w <= 0 {
			w = 18
		}
		if h <= 0 {
			h = 7
		}
		return geometry.NewRect(el.X*s-w*s/2, el.Y*s-h*s/2, w*s, h*s)
	default:
		size := measureText(el, e.zoom)
		return geometry.NewRect(el.X*s, el.Y*s, float64(size.Width), float64(size.Height))
	}
}

// measureText returns the on-canvas size of a text element.
func measureText(el *model.Element, zoom float64) fyne.Size {
	text := el.Text
	if text == "" {
		text = " "
	}
	style := fyne.TextStyle{Bold: el.FontWeight == "bold"}
	return fyne.MeasureText(text, float32(el.FontSize*zoom), style)
}

// hitTest returns the topmost visible, unlocked element at the label-space
// pixel position, or nil. Locked elements are transparent to gestures, so a
// press falls through to whatever sits underneath them.
func (e *Editor) hitTest(p geometry.Point2D) *model.Element {
	elements := e.session.Layout().Elements
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		if !el.Visible || el.Locked {
			continue
		}
		if e.elementBox(el).Contains(p) {
			return el
		}
	}
	return nil
}

// elementAt returns the topmost visible element at the position, locked
// included. Used to tell a click on a locked element apart from a click on
// empty canvas.
func (e *Editor) elementAt(p geometry.Point2D) *model.Element {
	elements := e.session.Layout().Elements
	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		if !el.Visible {
			continue
		}
		if e.elementBox(el).Contains(p) {
			return el
		}
	}
	return nil
}

// toLabel converts a widget event position to label-space pixels.
func (e *Editor) toLabel(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X)-stageMargin, float64(pos.Y)-stageMargin)
}

// Tapped selects the element under the pointer, or clears the selection
// when empty canvas is clicked. A click anywhere ends an open inline edit.
// Clicks on locked elements are ignored outright: they neither select the
// locked element nor disturb the existing selection.
func (e *Editor) Tapped(ev *fyne.PointEvent) {
	if e.editing != nil {
		e.commitEdit()
	}
	p := e.toLabel(ev.Position)
	if el := e.hitTest(p); el != nil {
		e.session.Select(el.ID)
		return
	}
	if e.elementAt(p) != nil {
		return
	}
	e.session.ClearSelection()
}

// DoubleTapped opens the inline text editor for editable elements.
func (e *Editor) DoubleTapped(ev *fyne.PointEvent) {
	el := e.hitTest(e.toLabel(ev.Position))
	if el == nil || !el.Type.Editable() || el.Locked {
		return
	}
	e.session.Select(el.ID)
	e.beginEdit(el)
}

// Dragged handles move, resize and rotate gestures. Intermediate positions
// are purely transient; nothing is committed until DragEnd.
func (e *Editor) Dragged(ev *fyne.DragEvent) {
	p := e.toLabel(ev.Position)

	if e.mode == dragNone {
		e.beginDrag(geometry.NewPoint2D(p.X-float64(ev.Dragged.DX), p.Y-float64(ev.Dragged.DY)))
		if e.mode == dragNone {
			return
		}
	}

	switch e.mode {
	case dragMove:
		e.dragMoveTo(p)
	case dragResize:
		e.dragResizeTo(p)
	case dragRotate:
		e.dragRotateTo(p)
	}
	e.Refresh()
}

// beginDrag decides what the gesture manipulates based on the press point:
// the selected element's transform handles first, then any element body.
func (e *Editor) beginDrag(press geometry.Point2D) {
	if e.editing != nil {
		return
	}

	if sel := e.session.Selected(); sel != nil {
		box := e.elementBox(sel)
		if press.Distance(rotateHandlePos(box)) <= handleSize {
			e.startGesture(dragRotate, sel, box)
			return
		}
		corner := geometry.NewPoint2D(box.Right(), box.Bottom())
		if press.Distance(corner) <= handleSize {
			e.startGesture(dragResize, sel, box)
			return
		}
	}

	el := e.hitTest(press)
	if el == nil {
		return
	}
	e.session.Select(el.ID)
	box := e.elementBox(el)
	e.grab = press.Sub(geometry.NewPoint2D(box.X, box.Y))
	e.startGesture(dragMove, el, box)
}

func (e *Editor) startGesture(mode dragMode, el *model.Element, box geometry.Rect) {
	e.mode = mode
	e.dragID = el.ID
	e.startBox = box
	e.dragBox = box
	e.dragRot = el.Rotation
}

// dragMoveTo recomputes the snapped box for the current pointer position.
func (e *Editor) dragMoveTo(p geometry.Point2D) {
	size := e.session.Size()
	s := e.scale()

	box := e.startBox
	box.X = p.X - e.grab.X
	box.Y = p.Y - e.grab.Y

	var siblings []geometry.Rect
	for _, other := range e.session.Layout().Elements {
		if other.ID == e.dragID || !other.Visible {
			continue
		}
		siblings = append(siblings, e.elementBox(other))
	}

	e.dragBox, e.guides = snap.Compute(box, size.WidthMm*s, size.HeightMm*s, siblings)
}

func (e *Editor) dragResizeTo(p geometry.Point2D) {
	box := e.startBox
	box.Width = p.X - box.X
	box.Height = p.Y - box.Y
	e.dragBox = box
}

func (e *Editor) dragRotateTo(p geometry.Point2D) {
	c := e.startBox.Center()
	// Zero degrees points up, towards the rotate handle.
	e.dragRot = math.Atan2(p.X-c.X, c.Y-p.Y) * 180 / math.Pi
}

// DragEnd commits the finished gesture through the session, producing
// exactly one history entry.
func (e *Editor) DragEnd() {
	mode := e.mode
	id := e.dragID
	box := e.dragBox
	start := e.startBox
	rot := e.dragRot

	e.mode = dragNone
	e.dragID = ""
	e.guides = nil

	el := e.session.Layout().FindByID(id)
	if el == nil {
		e.Refresh()
		return
	}

	s := e.scale()
	switch mode {
	case dragMove:
		if el.Type == model.TypeQRCode || el.Type == model.TypePromoBadge {
			c := box.Center()
			e.session.MoveTo(id, c.X/s, c.Y/s)
		} else {
			e.session.MoveTo(id, box.X/s, box.Y/s)
		}
	case dragResize:
		if box.Width < minBoxPx || box.Height < minBoxPx {
			// Below the minimum box: reject, prior state stays.
			e.Refresh()
			return
		}
		e.session.ApplyTransform(id, box.Width/start.Width, box.Height/start.Height, el.Rotation)
	case dragRotate:
		e.session.ApplyTransform(id, 1, 1, rot)
	}
	e.Refresh()
}

// DeleteSelection removes the selected element.
func (e *Editor) DeleteSelection() { e.session.Delete() }

// CopySelection puts the selected element on the clipboard.
func (e *Editor) CopySelection() { e.session.Copy() }

// Paste inserts the clipboard element at the paste offset.
func (e *Editor) Paste() { e.session.Paste() }

// Duplicate copies and pastes the selection in one step.
func (e *Editor) Duplicate() { e.session.Duplicate() }

// Undo steps the session history back.
func (e *Editor) Undo() { e.session.Undo() }

// Redo steps the session history forward.
func (e *Editor) Redo() { e.session.Redo() }

// Nudge moves the selection by whole pixel steps, converted back to
// millimeters before committing.
func (e *Editor) Nudge(dxPx, dyPx float64) {
	e.session.Nudge(units.PxToMm(dxPx), units.PxToMm(dyPx))
}

// Escape clears the selection and cancels any pending inline edit.
func (e *Editor) Escape() {
	if e.editing != nil {
		e.cancelEdit()
	}
	e.session.ClearSelection()
}

// rotateHandlePos returns the rotate handle position for a selection box.
func rotateHandlePos(box geometry.Rect) geometry.Point2D {
	return geometry.NewPoint2D(box.X+box.Width/2, box.Y-rotateHandleOffset)
}
