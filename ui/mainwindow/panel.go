package mainwindow

import (
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"labelpress/internal/app"
	"labelpress/internal/model"
)

// propertyPanel shows and edits the properties of the current selection,
// plus the label size selector and the element list with visibility and
// lock toggles.
type propertyPanel struct {
	session *app.Session

	sizeSelect *widget.Select
	elemList   *fyne.Container

	textEntry  *widget.Entry
	fontEntry  *widget.Entry
	boldCheck  *widget.Check
	fillEntry  *widget.Entry
	rotEntry   *widget.Entry
	opacity    *widget.Slider
	propsBox   *fyne.Container
	typeLabel  *widget.Label

	// updating guards against feedback loops while the panel itself writes
	// widget values.
	updating bool

	root fyne.CanvasObject
}

func newPropertyPanel(session *app.Session) *propertyPanel {
	p := &propertyPanel{session: session}

	sizeIDs := make([]string, len(model.Sizes))
	for i, s := range model.Sizes {
		sizeIDs[i] = s.ID
	}
	p.sizeSelect = widget.NewSelect(sizeIDs, func(id string) {
		if p.updating || id == session.Size().ID {
			return
		}
		if err := session.ChangeSize(id); err != nil {
			log.Printf("change label size: %v", err)
		}
	})
	p.sizeSelect.SetSelected(session.Size().ID)

	p.typeLabel = widget.NewLabel("")

	p.textEntry = widget.NewEntry()
	p.textEntry.OnSubmitted = func(text string) {
		if sel := session.Selected(); sel != nil && sel.Type.Editable() {
			session.SetText(sel.ID, text)
		}
	}

	p.fontEntry = widget.NewEntry()
	p.fontEntry.OnSubmitted = func(text string) {
		size, err := strconv.ParseFloat(text, 64)
		if err != nil || size < app.MinFontSize {
			p.refreshSelection()
			return
		}
		p.updateSelected(func(el *model.Element) { el.FontSize = size })
	}

	p.boldCheck = widget.NewCheck("Bold", func(on bool) {
		if p.updating {
			return
		}
		weight := "normal"
		if on {
			weight = "bold"
		}
		p.updateSelected(func(el *model.Element) { el.FontWeight = weight })
	})

	p.fillEntry = widget.NewEntry()
	p.fillEntry.OnSubmitted = func(hex string) {
		p.updateSelected(func(el *model.Element) { el.Fill = hex })
	}

	p.rotEntry = widget.NewEntry()
	p.rotEntry.OnSubmitted = func(text string) {
		deg, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.refreshSelection()
			return
		}
		p.updateSelected(func(el *model.Element) { el.Rotation = deg })
	}

	p.opacity = widget.NewSlider(0, 1)
	p.opacity.Step = 0.05
	p.opacity.OnChangeEnded = func(v float64) {
		if p.updating {
			return
		}
		p.updateSelected(func(el *model.Element) { el.Opacity = v })
	}

	p.propsBox = container.NewVBox(
		p.typeLabel,
		widget.NewForm(
			widget.NewFormItem("Text", p.textEntry),
			widget.NewFormItem("Font size", p.fontEntry),
			widget.NewFormItem("Fill", p.fillEntry),
			widget.NewFormItem("Rotation", p.rotEntry),
		),
		p.boldCheck,
		widget.NewLabel("Opacity"),
		p.opacity,
	)
	p.propsBox.Hide()

	p.elemList = container.NewVBox()

	p.root = container.NewVScroll(container.NewVBox(
		widget.NewLabel("Label size"),
		p.sizeSelect,
		widget.NewSeparator(),
		widget.NewLabel("Selection"),
		p.propsBox,
		widget.NewSeparator(),
		widget.NewLabel("Elements"),
		p.elemList,
	))

	session.On(app.EventSelectionChanged, func(interface{}) { p.refreshSelection() })
	session.On(app.EventLayoutChanged, func(interface{}) { p.refreshList() })
	session.On(app.EventSizeChanged, func(data interface{}) {
		if size, ok := data.(model.LabelSize); ok {
			p.updating = true
			p.sizeSelect.SetSelected(size.ID)
			p.updating = false
		}
		p.refreshList()
	})

	p.refreshList()
	return p
}

// Container returns the panel's root object.
func (p *propertyPanel) Container() fyne.CanvasObject {
	return p.root
}

func (p *propertyPanel) updateSelected(fn func(*model.Element)) {
	if sel := p.session.Selected(); sel != nil {
		p.session.UpdateElement(sel.ID, fn)
	}
}

// refreshSelection mirrors the selected element into the form widgets.
func (p *propertyPanel) refreshSelection() {
	sel := p.session.Selected()
	if sel == nil {
		p.propsBox.Hide()
		return
	}

	p.updating = true
	p.typeLabel.SetText(string(sel.Type))
	p.textEntry.SetText(sel.Text)
	p.fontEntry.SetText(strconv.FormatFloat(sel.FontSize, 'f', -1, 64))
	p.boldCheck.SetChecked(sel.FontWeight == "bold")
	p.fillEntry.SetText(sel.Fill)
	p.rotEntry.SetText(strconv.FormatFloat(sel.Rotation, 'f', -1, 64))
	p.opacity.SetValue(sel.Opacity)
	p.updating = false

	p.propsBox.Show()
}

// refreshList rebuilds the element rows. Each row selects on tap and
// exposes the visible and locked flags, so locked elements can still be
// unlocked from here even though canvas selection is blocked for them.
func (p *propertyPanel) refreshList() {
	rows := make([]fyne.CanvasObject, 0, len(p.session.Layout().Elements))

	for _, el := range p.session.Layout().Elements {
		el := el
		name := string(el.Type)
		if el.Type == model.TypeText && el.Text != "" {
			name = el.Text
		}

		selectBtn := widget.NewButton(name, func() {
			p.session.Select(el.ID)
		})

		// State is set before the handler is attached so rebuilding the
		// list does not feed back into the session.
		visCheck := widget.NewCheck("", nil)
		visCheck.SetChecked(el.Visible)
		visCheck.OnChanged = func(on bool) {
			p.session.UpdateElement(el.ID, func(e *model.Element) { e.Visible = on })
		}

		lockCheck := widget.NewCheck("", nil)
		lockCheck.SetChecked(el.Locked)
		lockCheck.OnChanged = func(on bool) {
			p.session.UpdateElement(el.ID, func(e *model.Element) { e.Locked = on })
		}

		rows = append(rows, container.NewBorder(nil, nil, nil,
			container.NewHBox(visCheck, lockCheck), selectBtn))
	}

	p.elemList.Objects = rows
	p.elemList.Refresh()
	p.refreshSelection()
}
