package editor

import (
	"image"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"labelpress/internal/model"
	"labelpress/internal/snap"
	"labelpress/pkg/geometry"
)

// gridSpacingMm is the fixed grid pitch.
const gridSpacingMm = 5.0

var (
	gridColor      = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	centerColor    = color.NRGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
	borderColor    = color.NRGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xFF}
	selectionColor = color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}
	handleFill     = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	// Snap guides are colored by source.
	guideCanvasCenter = color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
	guideCanvasEdge   = color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}
	guideSibling      = color.NRGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF}
)

// rebuild regenerates the full canvas object stack: background, grid and
// center guides, active snap guides, visible elements, then selection
// handles. Pure function of (layout, zoom, selection, guides, edit state).
func (e *Editor) rebuild() {
	size := e.session.Size()
	s := e.scale()
	w, h := size.WidthMm*s, size.HeightMm*s

	objs := make([]fyne.CanvasObject, 0, 32)

	bg := canvas.NewRectangle(color.White)
	bg.StrokeColor = borderColor
	bg.StrokeWidth = 1
	place(bg, geometry.NewRect(0, 0, w, h))
	objs = append(objs, bg)

	if e.showGrid {
		objs = append(objs, e.gridObjects(w, h, s)...)
	}
	objs = append(objs,
		line(w/2, 0, w/2, h, centerColor, 1),
		line(0, h/2, w, h/2, centerColor, 1),
	)

	for _, g := range e.guides {
		objs = append(objs, guideLine(g, w, h))
	}

	for _, el := range e.session.Layout().Elements {
		if !el.Visible {
			continue
		}
		objs = append(objs, e.elementObjects(el)...)
	}

	if sel := e.session.Selected(); sel != nil && e.editing == nil {
		objs = append(objs, e.selectionObjects(sel)...)
	}

	if e.editing != nil && e.entry != nil {
		objs = append(objs, e.entry)
	}

	e.content.Objects = objs
	e.content.Refresh()
}

// gridObjects returns the 5 mm grid lines. The canvas center cross is not
// part of the grid; it is drawn whether or not the grid is enabled.
func (e *Editor) gridObjects(w, h, s float64) []fyne.CanvasObject {
	var objs []fyne.CanvasObject
	step := gridSpacingMm * s

	for x := step; x < w; x += step {
		objs = append(objs, line(x, 0, x, h, gridColor, 1))
	}
	for y := step; y < h; y += step {
		objs = append(objs, line(0, y, w, y, gridColor, 1))
	}
	return objs
}

// displayBox returns where the element is drawn right now: the transient
// drag box mid-gesture, the model box otherwise.
func (e *Editor) displayBox(el *model.Element) geometry.Rect {
	if e.mode == dragMove && el.ID == e.dragID {
		return e.dragBox
	}
	return e.elementBox(el)
}

func (e *Editor) elementObjects(el *model.Element) []fyne.CanvasObject {
	box := e.displayBox(el)

	switch el.Type {
	case model.TypeQRCode:
		return e.qrObjects(el, box)
	case model.TypePromoBadge:
		return e.badgeObjects(el, box)
	default:
		if e.editing != nil && e.editing.ID == el.ID {
			// The rendered shape is hidden while its text is being edited.
			return nil
		}
		t := canvas.NewText(el.Text, hexColor(el.Fill, el.Opacity))
		t.TextSize = float32(el.FontSize * e.zoom)
		t.TextStyle = fyne.TextStyle{Bold: el.FontWeight == "bold"}
		t.Move(stagePos(box.X, box.Y))
		return []fyne.CanvasObject{t}
	}
}

// qrObjects renders the generated code image, or nothing while generation
// is still pending. Generation resolves per element value and only gates
// this element's own render.
func (e *Editor) qrObjects(el *model.Element, box geometry.Rect) []fyne.CanvasObject {
	e.qrMu.Lock()
	img, ok := e.qrImages[el.QRValue]
	e.qrMu.Unlock()
	if !ok {
		e.fetchQR(el.QRValue, int(box.Width))
		return nil
	}
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	place(ci, box)
	return []fyne.CanvasObject{ci}
}

// fetchQR starts generation for a value not yet resolved. The callback runs
// on a background goroutine, so the editor maps are only touched under qrMu.
func (e *Editor) fetchQR(value string, sizePx int) {
	if value == "" {
		return
	}
	e.qrMu.Lock()
	if e.qrPending[value] {
		e.qrMu.Unlock()
		return
	}
	e.qrPending[value] = true
	e.qrMu.Unlock()

	e.qrCache.Fetch(value, sizePx, func(img image.Image) {
		e.qrMu.Lock()
		e.qrImages[value] = img
		delete(e.qrPending, value)
		e.qrMu.Unlock()
		e.Refresh()
	})
}

func (e *Editor) badgeObjects(el *model.Element, box geometry.Rect) []fyne.CanvasObject {
	fill := el.Fill
	if fill == "" || fill == "#000000" {
		fill = "#D32F2F"
	}
	rect := canvas.NewRectangle(hexColor(fill, el.Opacity))
	place(rect, box)

	text := el.Text
	if text == "" {
		text = "OFERTA"
	}
	t := canvas.NewText(text, hexColor("#FFFFFF", el.Opacity))
	t.TextSize = float32(el.FontSize * e.zoom)
	t.TextStyle = fyne.TextStyle{Bold: true}
	ts := t.MinSize()
	c := box.Center()
	t.Move(stagePos(c.X-float64(ts.Width)/2, c.Y-float64(ts.Height)/2))
	return []fyne.CanvasObject{rect, t}
}

// selectionObjects draws the transform frame: outline, corner handles,
// resize grip at the bottom-right and the rotate handle above the box.
func (e *Editor) selectionObjects(sel *model.Element) []fyne.CanvasObject {
	box := e.displayBox(sel)
	if e.mode == dragResize && sel.ID == e.dragID {
		box = e.dragBox
	}

	outline := canvas.NewRectangle(color.Transparent)
	outline.StrokeColor = selectionColor
	outline.StrokeWidth = 1.5
	place(outline, box)
	objs := []fyne.CanvasObject{outline}

	corners := []geometry.Point2D{
		{X: box.X, Y: box.Y},
		{X: box.Right(), Y: box.Y},
		{X: box.X, Y: box.Bottom()},
		{X: box.Right(), Y: box.Bottom()},
	}
	for _, c := range corners {
		hrect := canvas.NewRectangle(handleFill)
		hrect.StrokeColor = selectionColor
		hrect.StrokeWidth = 1
		place(hrect, geometry.NewRect(c.X-handleSize/2, c.Y-handleSize/2, handleSize, handleSize))
		objs = append(objs, hrect)
	}

	rp := rotateHandlePos(box)
	objs = append(objs, line(box.X+box.Width/2, box.Y, rp.X, rp.Y, selectionColor, 1))
	grip := canvas.NewCircle(handleFill)
	grip.StrokeColor = selectionColor
	grip.StrokeWidth = 1
	place(grip, geometry.NewRect(rp.X-handleSize/2, rp.Y-handleSize/2, handleSize, handleSize))
	objs = append(objs, grip)

	return objs
}

func guideLine(g snap.Guide, w, h float64) fyne.CanvasObject {
	var c color.Color
	switch g.Source {
	case snap.SourceCanvasCenter:
		c = guideCanvasCenter
	case snap.SourceCanvasEdge:
		c = guideCanvasEdge
	default:
		c = guideSibling
	}
	if g.Vertical {
		return line(g.Pos, 0, g.Pos, h, c, 1)
	}
	return line(0, g.Pos, w, g.Pos, c, 1)
}

// stagePos converts label-space pixels to widget coordinates.
func stagePos(x, y float64) fyne.Position {
	return fyne.NewPos(float32(x+stageMargin), float32(y+stageMargin))
}

// place moves and resizes an object to a label-space rectangle.
func place(obj fyne.CanvasObject, r geometry.Rect) {
	obj.Move(stagePos(r.X, r.Y))
	obj.Resize(fyne.NewSize(float32(r.Width), float32(r.Height)))
}

func line(x1, y1, x2, y2 float64, c color.Color, width float32) fyne.CanvasObject {
	l := canvas.NewLine(c)
	l.StrokeWidth = width
	l.Position1 = stagePos(x1, y1)
	l.Position2 = stagePos(x2, y2)
	return l
}

// hexColor parses "#rrggbb" and applies the element opacity as alpha.
func hexColor(hex string, opacity float64) color.Color {
	r, g, b := uint8(0), uint8(0), uint8(0)
	if len(hex) == 7 && hex[0] == '#' {
		if v, err := strconv.ParseUint(hex[1:], 16, 32); err == nil {
			r, g, b = uint8(v>>16), uint8(v>>8&0xFF), uint8(v&0xFF)
		}
	}
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(opacity * 255)}
}
