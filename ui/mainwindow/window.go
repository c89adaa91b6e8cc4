// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"labelpress/internal/app"
	"labelpress/internal/catalog"
	"labelpress/internal/model"
	"labelpress/ui/editor"
	"labelpress/ui/prefs"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	session  *app.Session
	prefs    *prefs.Prefs
	editor   *editor.Editor
	panel    *propertyPanel
	products []catalog.Product

	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Label Press")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.loadCatalog()
	mw.setupUI()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1100, 700))
	return mw
}

// loadCatalog reads the product list configured in the preferences, falling
// back to a small built-in demo set so the editor is usable standalone.
func (mw *MainWindow) loadCatalog() {
	if path := mw.prefs.String(prefs.KeyCatalog, ""); path != "" {
		products, err := catalog.Load(path)
		if err == nil {
			mw.products = products
			return
		}
		log.Printf("catalog %s: %v", path, err)
	}
	promo := 9.99
	mw.products = []catalog.Product{
		{ID: "demo-1", Name: "Café Torrado 500g", SalePrice: 18.9, URL: "https://example.com/p/demo-1"},
		{ID: "demo-2", Name: "Arroz Branco Tipo 1 5kg", SalePrice: 24.5, PromoPrice: &promo, URL: "https://example.com/p/demo-2"},
	}
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.editor = editor.New(mw.session)
	mw.editor.SetShowGrid(mw.prefs.Bool(prefs.KeyShowGrid, true))
	mw.editor.SetZoom(mw.prefs.Float(prefs.KeyZoom, 1.0))

	mw.panel = newPropertyPanel(mw.session)

	mw.statusBar = widget.NewLabel("")
	mw.updateStatus()

	mw.editor.OnZoomChanged = func(z float64) {
		mw.prefs.SetFloat(prefs.KeyZoom, z)
		mw.updateStatus()
	}

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil, nil, nil,
		mw.editor.Container(), // center
	)

	split := container.NewHSplit(canvasArea, mw.panel.Container())
	split.SetOffset(0.75)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		split,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) createToolbar() *widget.Toolbar {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), mw.saveLayout),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), mw.showPrintDialog),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentAddIcon(), func() { mw.session.AddText() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), mw.editor.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), mw.editor.Redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), mw.editor.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), mw.editor.ZoomOut),
		widget.NewToolbarAction(theme.GridIcon(), func() {
			mw.editor.SetShowGrid(!mw.editor.ShowGrid())
			mw.prefs.SetBool(prefs.KeyShowGrid, mw.editor.ShowGrid())
		}),
	)
}

// setupShortcuts wires the keyboard surface. Shortcuts are suppressed while
// any text input has focus; a focused entry consumes its own keys.
func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()

	shortcut := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) {
			if mw.suppressKeys() {
				return
			}
			fn()
		})
	}
	for _, mod := range []fyne.KeyModifier{fyne.KeyModifierControl, fyne.KeyModifierSuper} {
		shortcut(fyne.KeyC, mod, mw.editor.CopySelection)
		shortcut(fyne.KeyV, mod, mw.editor.Paste)
		shortcut(fyne.KeyD, mod, mw.editor.Duplicate)
		shortcut(fyne.KeyZ, mod, mw.editor.Undo)
		shortcut(fyne.KeyY, mod, mw.editor.Redo)
		shortcut(fyne.KeyZ, mod|fyne.KeyModifierShift, mw.editor.Redo)
	}

	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if mw.suppressKeys() {
			return
		}
		const step = 1.0
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			mw.editor.DeleteSelection()
		case fyne.KeyLeft:
			mw.editor.Nudge(-step, 0)
		case fyne.KeyRight:
			mw.editor.Nudge(step, 0)
		case fyne.KeyUp:
			mw.editor.Nudge(0, -step)
		case fyne.KeyDown:
			mw.editor.Nudge(0, step)
		case fyne.KeyEscape:
			mw.editor.Escape()
		}
	})

	// Coarse nudge with Shift held.
	const coarse = 5.0
	shortcut(fyne.KeyLeft, fyne.KeyModifierShift, func() { mw.editor.Nudge(-coarse, 0) })
	shortcut(fyne.KeyRight, fyne.KeyModifierShift, func() { mw.editor.Nudge(coarse, 0) })
	shortcut(fyne.KeyUp, fyne.KeyModifierShift, func() { mw.editor.Nudge(0, -coarse) })
	shortcut(fyne.KeyDown, fyne.KeyModifierShift, func() { mw.editor.Nudge(0, coarse) })
}

// suppressKeys reports whether canvas shortcuts must be ignored: either the
// inline editor is open or some text input holds focus.
func (mw *MainWindow) suppressKeys() bool {
	return mw.editor.Editing() || mw.Canvas().Focused() != nil
}

func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventLayoutChanged, func(interface{}) { mw.updateStatus() })
	mw.session.On(app.EventLayoutSaved, func(interface{}) { mw.updateStatus() })
	mw.session.On(app.EventSizeChanged, func(data interface{}) {
		if size, ok := data.(model.LabelSize); ok {
			mw.prefs.SetString(prefs.KeyLabelSize, size.ID)
		}
		mw.updateStatus()
	})
}

func (mw *MainWindow) updateStatus() {
	size := mw.session.Size()
	status := fmt.Sprintf("%s  |  zoom %.0f%%", size.ID, mw.editor.Zoom()*100)
	if mw.session.Modified {
		status += "  |  modified"
	}
	mw.statusBar.SetText(status)
}

func (mw *MainWindow) saveLayout() {
	if err := mw.session.Save(); err != nil {
		dialog.ShowError(fmt.Errorf("save layout: %w", err), mw.Window)
		return
	}
	mw.updateStatus()
}

// SavePreferences flushes preferences to disk, logging failures.
func (mw *MainWindow) SavePreferences() {
	if err := mw.prefs.Save(); err != nil {
		log.Printf("save preferences: %v", err)
	}
}

// SavePreferencesIfChanged writes preferences only when dirty.
func (mw *MainWindow) SavePreferencesIfChanged() {
	if err := mw.prefs.SaveIfDirty(); err != nil {
		log.Printf("save preferences: %v", err)
	}
}
