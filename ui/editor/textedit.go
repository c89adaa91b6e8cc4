package editor

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"labelpress/internal/model"
	"labelpress/pkg/geometry"
)

// editEntry is the inline text-edit overlay. Enter commits the typed text,
// Escape discards it; losing focus commits like Enter.
type editEntry struct {
	widget.Entry
	onCommit func(text string)
	onCancel func()
}

func newEditEntry(text string, onCommit func(string), onCancel func()) *editEntry {
	en := &editEntry{onCommit: onCommit, onCancel: onCancel}
	en.ExtendBaseWidget(en)
	en.SetText(text)
	return en
}

func (en *editEntry) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyReturn, fyne.KeyEnter:
		en.onCommit(en.Text)
	case fyne.KeyEscape:
		en.onCancel()
	default:
		en.Entry.TypedKey(key)
	}
}

func (en *editEntry) FocusLost() {
	en.Entry.FocusLost()
	en.onCommit(en.Text)
}

// beginEdit opens the overlay over the element, hiding its rendered shape
// and the selection handles until the edit ends.
func (e *Editor) beginEdit(el *model.Element) {
	box := e.elementBox(el)

	e.editing = el
	e.entry = newEditEntry(el.Text,
		func(text string) { e.finishEdit(text, true) },
		func() { e.finishEdit("", false) },
	)

	w := box.Width + 24
	if w < 90 {
		w = 90
	}
	h := float64(e.entry.MinSize().Height)
	place(e.entry, geometry.NewRect(box.X-4, box.Y-(h-box.Height)/2, w, h))

	e.Refresh()
	if c := fyne.CurrentApp().Driver().CanvasForObject(e); c != nil {
		c.Focus(e.entry)
	}
}

// finishEdit closes the overlay, committing the text when commit is true.
func (e *Editor) finishEdit(text string, commit bool) {
	if e.editing == nil {
		return
	}
	id := e.editing.ID
	e.editing = nil
	e.entry = nil
	if commit {
		e.session.SetText(id, text)
	}
	e.Refresh()
}

func (e *Editor) commitEdit() {
	if e.entry != nil {
		e.finishEdit(e.entry.Text, true)
	}
}

func (e *Editor) cancelEdit() {
	e.finishEdit("", false)
}
