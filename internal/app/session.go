// Package app owns the state of one open editor session: the live layout,
// its undo history, selection and clipboard, and the event fan-out to UI
// listeners.
package app

import (
	"fmt"
	"sync"

	"labelpress/internal/model"
	"labelpress/internal/store"
)

// Clipboard and duplicate offsets in millimeters.
const (
	PasteOffsetMm     = 3
	DuplicateOffsetMm = 5
)

// MinFontSize is the floor applied when a resize gesture scales text down.
const MinFontSize = 6

// EventType identifies different session events.
type EventType int

const (
	EventLayoutChanged EventType = iota
	EventSelectionChanged
	EventSizeChanged
	EventLayoutSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session holds the editing state for one open layout. All mutating
// operations route through a single commit path so every user action yields
// exactly one history entry. A session is owned by one editor window; only
// the listener registry is safe for concurrent use.
type Session struct {
	mu sync.RWMutex

	layout  *model.Layout
	size    model.LabelSize
	history *model.History

	selectedID string
	clipboard  *model.Element

	// Modified is set on every commit and cleared on save.
	Modified bool

	store     *store.Store
	listeners map[EventType][]EventListener
}

// NewSession opens a session for the given label size: the saved layout
// when one exists, otherwise the generated default element set.
func NewSession(st *store.Store, sizeID string) (*Session, error) {
	size, ok := model.SizeByID(sizeID)
	if !ok {
		return nil, fmt.Errorf("unknown label size %q", sizeID)
	}

	layout, err := st.Load(sizeID)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		layout = model.DefaultLayout(sizeID)
	}

	return &Session{
		layout:    layout,
		size:      size,
		history:   model.NewHistory(layout),
		store:     st,
		listeners: make(map[EventType][]EventListener),
	}, nil
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Layout returns the live layout. Callers must not mutate it directly;
// every change goes through a Session operation.
func (s *Session) Layout() *model.Layout {
	return s.layout
}

// Size returns the current label dimensions.
func (s *Session) Size() model.LabelSize {
	return s.size
}

// commit records the current layout in the history and notifies listeners.
func (s *Session) commit() {
	s.history.Commit(s.layout)
	s.Modified = true
	s.Emit(EventLayoutChanged, s.layout)
}

// Select marks the element as selected. Locked elements cannot be selected;
// the call is ignored and reports false.
func (s *Session) Select(id string) bool {
	el := s.layout.FindByID(id)
	if el == nil || el.Locked {
		return false
	}
	if s.selectedID != id {
		s.selectedID = id
		s.Emit(EventSelectionChanged, el)
	}
	return true
}

// ClearSelection drops any selection.
func (s *Session) ClearSelection() {
	if s.selectedID == "" {
		return
	}
	s.selectedID = ""
	s.Emit(EventSelectionChanged, nil)
}

// SelectedID returns the id of the selected element, or "".
func (s *Session) SelectedID() string {
	return s.selectedID
}

// Selected returns the selected element, or nil.
func (s *Session) Selected() *model.Element {
	if s.selectedID == "" {
		return nil
	}
	return s.layout.FindByID(s.selectedID)
}

// MoveTo sets an element's position in millimeters and commits. Called once
// per drag gesture, on release.
func (s *Session) MoveTo(id string, xMm, yMm float64) {
	el := s.layout.FindByID(id)
	if el == nil || el.Locked {
		return
	}
	el.X, el.Y = xMm, yMm
	s.commit()
}

// ApplyTransform folds a finished resize/rotate gesture back into the
// element: QR codes scale their square size, text elements scale their font
// size with a floor, and the rotation is persisted. The accumulated scale
// is consumed here so it never compounds across gestures.
func (s *Session) ApplyTransform(id string, scaleX, scaleY, rotation float64) {
	el := s.layout.FindByID(id)
	if el == nil || el.Locked {
		return
	}

	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	if el.Type == model.TypeQRCode {
		el.QRSize *= scale
	} else {
		el.FontSize *= scale
		if el.FontSize < MinFontSize {
			el.FontSize = MinFontSize
		}
	}
	el.Rotation = rotation
	s.commit()
}

// SetText replaces the element's text content and commits.
func (s *Session) SetText(id, text string) {
	el := s.layout.FindByID(id)
	if el == nil || !el.Type.Editable() {
		return
	}
	el.Text = text
	s.commit()
}

// UpdateElement applies fn to the element and commits. Used by the property
// panel for font, fill, opacity, visibility and lock changes.
func (s *Session) UpdateElement(id string, fn func(*model.Element)) {
	el := s.layout.FindByID(id)
	if el == nil {
		return
	}
	fn(el)
	s.commit()
}

// Delete removes the selected element.
func (s *Session) Delete() {
	if s.selectedID == "" {
		return
	}
	if s.layout.Remove(s.selectedID) {
		s.selectedID = ""
		s.Emit(EventSelectionChanged, nil)
		s.commit()
	}
}

// Copy stores a deep copy of the selected element on the clipboard.
func (s *Session) Copy() {
	if el := s.Selected(); el != nil {
		s.clipboard = el.Clone()
	}
}

// Paste inserts a copy of the clipboard element under a new id, offset by
// the paste delta, and selects it. Returns nil when the clipboard is empty.
func (s *Session) Paste() *model.Element {
	if s.clipboard == nil {
		return nil
	}
	return s.insertCopy(s.clipboard, PasteOffsetMm)
}

// Duplicate copies the selected element directly, with the larger
// duplicate offset.
func (s *Session) Duplicate() *model.Element {
	el := s.Selected()
	if el == nil {
		return nil
	}
	return s.insertCopy(el, DuplicateOffsetMm)
}

func (s *Session) insertCopy(src *model.Element, offsetMm float64) *model.Element {
	el := src.CloneWithNewID()
	el.X += offsetMm
	el.Y += offsetMm
	el.Locked = false
	s.layout.Append(el)
	s.selectedID = el.ID
	s.Emit(EventSelectionChanged, el)
	s.commit()
	return el
}

// AddText inserts a new free-text element near the label center.
func (s *Session) AddText() *model.Element {
	el := model.NewElement(model.TypeText)
	el.Text = "Texto"
	el.FontSize = 10
	el.X = s.size.WidthMm / 2
	el.Y = s.size.HeightMm / 2
	s.layout.Append(el)
	s.selectedID = el.ID
	s.Emit(EventSelectionChanged, el)
	s.commit()
	return el
}

// Nudge moves the selected element by the given millimeter deltas.
func (s *Session) Nudge(dxMm, dyMm float64) {
	el := s.Selected()
	if el == nil || el.Locked {
		return
	}
	el.X += dxMm
	el.Y += dyMm
	s.commit()
}

// Undo restores the previous snapshot. No-op at the oldest entry.
func (s *Session) Undo() {
	l, ok := s.history.Undo()
	if !ok {
		return
	}
	s.restore(l)
}

// Redo restores the next snapshot. No-op at the newest entry.
func (s *Session) Redo() {
	l, ok := s.history.Redo()
	if !ok {
		return
	}
	s.restore(l)
}

func (s *Session) restore(l *model.Layout) {
	s.layout = l
	s.Modified = true
	if s.selectedID != "" && l.FindByID(s.selectedID) == nil {
		s.selectedID = ""
		s.Emit(EventSelectionChanged, nil)
	}
	s.Emit(EventLayoutChanged, s.layout)
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// ChangeSize switches to another label size: the saved layout for that size
// when one exists, otherwise a freshly generated default set. The history
// restarts, matching a newly opened session.
func (s *Session) ChangeSize(sizeID string) error {
	size, ok := model.SizeByID(sizeID)
	if !ok {
		return fmt.Errorf("unknown label size %q", sizeID)
	}

	layout, err := s.store.Load(sizeID)
	if err != nil {
		return err
	}
	if layout == nil {
		layout = model.DefaultLayout(sizeID)
	}

	s.size = size
	s.layout = layout
	s.history = model.NewHistory(layout)
	s.selectedID = ""
	s.Modified = false
	s.Emit(EventSizeChanged, size)
	s.Emit(EventSelectionChanged, nil)
	s.Emit(EventLayoutChanged, s.layout)
	return nil
}

// Save persists the current layout. The in-memory layout is untouched by a
// failed save.
func (s *Session) Save() error {
	if err := s.store.Save(s.layout); err != nil {
		return err
	}
	s.Modified = false
	s.Emit(EventLayoutSaved, s.layout)
	return nil
}
