package editor

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelpress/internal/app"
	"labelpress/internal/model"
	"labelpress/internal/snap"
	"labelpress/internal/store"
	"labelpress/pkg/geometry"
)

func newTestEditor(t *testing.T) (*Editor, *app.Session) {
	t.Helper()
	test.NewApp()
	s, err := app.NewSession(store.OpenAt(t.TempDir()), "80x40")
	require.NoError(t, err)
	return New(s), s
}

func layoutElement(t *testing.T, s *app.Session, typ model.ElementType) *model.Element {
	t.Helper()
	for _, el := range s.Layout().Elements {
		if el.Type == typ {
			return el
		}
	}
	t.Fatalf("no %s element in layout", typ)
	return nil
}

// widgetPos converts a label-space point to widget coordinates.
func widgetPos(p geometry.Point2D) fyne.Position {
	return fyne.NewPos(float32(p.X+stageMargin), float32(p.Y+stageMargin))
}

func dragEvent(labelPos geometry.Point2D, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: widgetPos(labelPos)},
		Dragged:    fyne.Delta{DX: dx, DY: dy},
	}
}

// resizeQRTo drives a full resize gesture on the QR element's bottom-right
// handle, ending with the pointer at the given label-space point.
func resizeQRTo(t *testing.T, e *Editor, s *app.Session, target geometry.Point2D) *model.Element {
	t.Helper()
	qr := layoutElement(t, s, model.TypeQRCode)
	require.True(t, s.Select(qr.ID))

	box := e.elementBox(qr)
	corner := geometry.NewPoint2D(box.Right(), box.Bottom())

	// First event: press lands on the corner handle, pointer one step out.
	e.Dragged(dragEvent(geometry.NewPoint2D(corner.X+2, corner.Y+2), 2, 2))
	e.Dragged(dragEvent(target, 1, 1))
	e.DragEnd()
	return qr
}

func TestResizeBelowMinimumReverts(t *testing.T) {
	e, s := newTestEditor(t)
	qr := layoutElement(t, s, model.TypeQRCode)
	box := e.elementBox(qr)

	// Target collapses the box to 5x7 px, under the 10 px floor.
	resizeQRTo(t, e, s, geometry.NewPoint2D(box.X+5, box.Y+7))

	assert.Equal(t, 18.0, qr.QRSize, "rejected resize must leave the size untouched")
	assert.False(t, s.CanUndo(), "rejected resize must not commit")
}

func TestResizeCommitsScale(t *testing.T) {
	e, s := newTestEditor(t)
	qr := layoutElement(t, s, model.TypeQRCode)
	box := e.elementBox(qr)

	// Double both axes: 72 px -> 144 px.
	resizeQRTo(t, e, s, geometry.NewPoint2D(box.X+2*box.Width, box.Y+2*box.Height))

	assert.Equal(t, 36.0, qr.QRSize)
	assert.True(t, s.CanUndo())
}

func TestTapOnLockedElementKeepsSelection(t *testing.T) {
	e, s := newTestEditor(t)
	name := layoutElement(t, s, model.TypeProductName)
	currency := layoutElement(t, s, model.TypeCurrency)
	currency.Locked = true
	require.True(t, s.Select(name.ID))

	e.Tapped(&fyne.PointEvent{Position: widgetPos(e.elementBox(currency).Center())})

	assert.Equal(t, name.ID, s.SelectedID(), "tap on a locked element must not change the selection")
}

func TestTapOnEmptyCanvasClearsSelection(t *testing.T) {
	e, s := newTestEditor(t)
	name := layoutElement(t, s, model.TypeProductName)
	require.True(t, s.Select(name.ID))

	e.Tapped(&fyne.PointEvent{Position: widgetPos(geometry.NewPoint2D(310, 4))})

	assert.Empty(t, s.SelectedID())
}

func TestCenterCrossDrawnWithoutGrid(t *testing.T) {
	e, _ := newTestEditor(t)
	e.SetShowGrid(false)

	objs := e.content.Objects
	require.Greater(t, len(objs), 3)
	assert.IsType(t, (*canvas.Rectangle)(nil), objs[0])
	assert.IsType(t, (*canvas.Line)(nil), objs[1])
	assert.IsType(t, (*canvas.Line)(nil), objs[2])
}

func TestGuidesDrawBeneathElements(t *testing.T) {
	e, _ := newTestEditor(t)
	e.SetShowGrid(false)
	e.guides = []snap.Guide{{Vertical: true, Pos: 100, Source: snap.SourceSibling}}
	e.rebuild()

	objs := e.content.Objects
	require.Greater(t, len(objs), 4)
	// Background, center cross, then the active guide, then the elements.
	assert.IsType(t, (*canvas.Line)(nil), objs[3])

	firstText := -1
	for i, o := range objs {
		if _, ok := o.(*canvas.Text); ok {
			firstText = i
			break
		}
	}
	require.NotEqual(t, -1, firstText)
	assert.Greater(t, firstText, 3, "element text painted before the guide line")
}

func TestResolvedCodesArriveDuringRefresh(t *testing.T) {
	e, _ := newTestEditor(t)

	// Hammer rebuild on one goroutine while the code resolves on another;
	// the resolved image must land without corrupting the editor maps.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			e.Refresh()
		}
	}()

	deadline := time.After(5 * time.Second)
	for {
		e.qrMu.Lock()
		resolved := len(e.qrImages)
		e.qrMu.Unlock()
		if resolved > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("QR code never resolved")
		case <-time.After(10 * time.Millisecond):
		}
	}
	<-done
}
