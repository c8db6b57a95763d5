package campus

import (
	"fmt"
	"strconv"
	"strings"
)

type UiModule struct{}

// Canvas is the 2D drawing surface in physical pixels, top-left origin.
type Canvas interface {
	DrawText(text string, x, y float32, scale float32, color [4]float32)
	DrawRect(x0, y0, x1, y1 float32, color [4]float32)
	MeasureText(text string, scale float32) (float32, float32)
}

// Screen is where the UI draws. PixelRatio maps window coordinates to
// canvas pixels.
type Screen struct {
	Canvas     Canvas
	PixelRatio float32
}

type UiButton struct {
	Label       string
	Position    [2]float32 // Window pixels, top-left
	Width       float32
	Height      float32
	Scale       float32 // Optional scale multiplier (default 1.0)
	Boxed       bool    // Drawn as an ASCII box three lines high
	Hidden      bool    // Hit area only
	Active      bool
	Highlighted bool
	OnClick     func()
}

func (b *UiButton) contains(x, y float64) bool {
	return x >= float64(b.Position[0]) && x <= float64(b.Position[0]+b.Width) &&
		y >= float64(b.Position[1]) && y <= float64(b.Position[1]+b.Height)
}

type UiTable struct {
	Headers  []string
	Rows     [][]string
	Position [2]float32
	Width    float32 // Optional fixed total width.
	Scale    float32 // Optional scale multiplier (default 1.0)
}

// UiToast is a short notice; pair it with a LifetimeComponent.
type UiToast struct {
	Text  string
	Error bool
}

// UiState is the 2D shell: log form, incident list and details modal.
// Buttons and panels are rebuilt every frame by the render system and hit
// tested by the input system of the next frame.
type UiState struct {
	Form IncidentForm

	// Modal holds the lines of the open details modal, empty when closed.
	Modal []string

	buttons []UiButton
	panels  [][4]float32
}

const (
	uiButtonPaddingX = 20.0
	uiMargin         = 16.0
	uiFormWidth      = 340.0
	uiListWidth      = 440.0
	uiModalWidth     = 380.0
	uiMaxListRows    = 14
	uiMinLineHeight  = 22.0
	toastSeconds     = 2.5
)

var (
	normalColor    = [4]float32{1, 1, 1, 1}
	highlightColor = [4]float32{1, 1, 0, 1}
	mutedColor     = [4]float32{0.75, 0.75, 0.75, 1}
	errorColor     = [4]float32{1, 0.35, 0.3, 1}
	panelColor     = [4]float32{0.08, 0.09, 0.12, 0.82}
	backdropColor  = [4]float32{0, 0, 0, 0.35}
)

func (UiModule) Install(app *App, cmd *Commands) {
	if Resource[Screen](app) == nil {
		app.addResources(&Screen{Canvas: NewHeadlessCanvas(), PixelRatio: 1})
	}
	reg := Resource[Registry](app)
	if reg == nil {
		panic("UiModule needs the campus registry; install CampusModule first")
	}
	app.addResources(&UiState{Form: NewIncidentForm(reg)})

	app.UseSystem(System(uiInputSystem).InStage(PreUpdate).RunAlways())
	app.UseSystem(System(uiRenderSystem).InStage(PostUpdate).RunAlways())
}

func uiInputSystem(cmd *Commands, input *Input, ui *UiState, store *IncidentStore, reg *Registry, metrics *Metrics) {
	mx, my := input.MouseX, input.MouseY

	for i := range ui.buttons {
		ui.buttons[i].Highlighted = ui.buttons[i].contains(mx, my)
	}

	if input.JustPressed[MouseButtonLeft] && !input.ClickConsumed {
		// Last drawn wins, so modal buttons beat the list underneath.
		for i := len(ui.buttons) - 1; i >= 0; i-- {
			btn := &ui.buttons[i]
			if btn.contains(mx, my) {
				input.ClickConsumed = true
				if btn.OnClick != nil {
					btn.OnClick()
				}
				break
			}
		}
		for _, p := range ui.panels {
			if mx >= float64(p[0]) && mx <= float64(p[2]) && my >= float64(p[1]) && my <= float64(p[3]) {
				input.ClickConsumed = true
			}
		}
	}

	form := &ui.Form
	if input.JustPressed[KeyTab] {
		form.NextField()
	}
	if form.Focus == FieldLocation {
		if input.JustPressed[KeyRight] || input.JustPressed[KeyDown] {
			form.CycleLocation(reg, 1)
		}
		if input.JustPressed[KeyLeft] || input.JustPressed[KeyUp] {
			form.CycleLocation(reg, -1)
		}
	}
	for _, r := range input.CharBuffer {
		form.Type(r)
	}
	if input.JustPressed[KeyBackspace] {
		form.Backspace()
	}
	if input.JustPressed[KeyEnter] {
		submitIncident(cmd, ui, store, reg, metrics)
	}
}

// submitIncident adds the form's incident to the store or reports why it
// was rejected. The store stays untouched on failure.
func submitIncident(cmd *Commands, ui *UiState, store *IncidentStore, reg *Registry, metrics *Metrics) (*Incident, error) {
	draft, err := ui.Form.Draft()
	var inc *Incident
	if err == nil {
		inc, err = store.Add(draft, reg)
	}
	if err != nil {
		ui.Form.Error = err.Error()
		cmd.Logger().Warnf("incident rejected: %v", err)
		cmd.AddEntity(UiToast{Text: err.Error(), Error: true}, LifetimeComponent{TimeLeft: toastSeconds})
		return nil, err
	}

	metrics.IncidentsLogged.WithLabelValues(inc.Location).Inc()
	cmd.Logger().Infof("incident %d logged: %s at %s, count %d", inc.ID, inc.DateString(), inc.Location, inc.Count)
	ui.Form.Reset(reg)
	cmd.AddEntity(UiToast{Text: "Incident logged"}, LifetimeComponent{TimeLeft: toastSeconds})
	return inc, nil
}

// painter draws in window coordinates onto a physical pixel canvas.
type painter struct {
	canvas Canvas
	ratio  float32
	scale  float32
}

func newPainter(screen *Screen) painter {
	ratio := screen.PixelRatio
	if ratio <= 0 {
		ratio = 1.0
	}
	return painter{canvas: screen.Canvas, ratio: ratio, scale: 1}
}

func (p painter) text(s string, x, y float32, color [4]float32) {
	p.canvas.DrawText(s, x*p.ratio, y*p.ratio, p.scale, color)
}

func (p painter) rect(x0, y0, x1, y1 float32, color [4]float32) {
	p.canvas.DrawRect(x0*p.ratio, y0*p.ratio, x1*p.ratio, y1*p.ratio, color)
}

func (p painter) measure(s string) (float32, float32) {
	w, h := p.canvas.MeasureText(s, p.scale)
	return w / p.ratio, h / p.ratio
}

func (p painter) lineHeight() float32 {
	_, h := p.measure("Mg")
	return max(h*1.4, uiMinLineHeight)
}

// Precise horizontal line by drawing corners and filling with dashes
func (p painter) boxHLine(x, y, w float32, color [4]float32) {
	plusW, _ := p.measure("+")
	dashW, _ := p.measure("-")
	if dashW <= 0 {
		dashW = 10 * p.scale
	}

	p.text("+", x, y, color)
	interiorW := w - 2.0*plusW
	if interiorW > 0 {
		count := int(interiorW / dashW)
		p.text(strings.Repeat("-", count), x+plusW, y, color)
	}
	p.text("+", x+w-plusW, y, color)
}

func uiRenderSystem(cmd *Commands, screen *Screen, ui *UiState, viewport *Viewport, store *IncidentStore,
	sel *Selection, tooltip *Tooltip, reg *Registry, metrics *Metrics) {
	if screen.Canvas == nil {
		return
	}
	if headless, ok := screen.Canvas.(*HeadlessCanvas); ok {
		headless.Reset()
	}
	p := newPainter(screen)
	lineH := p.lineHeight()

	ui.buttons = ui.buttons[:0]
	ui.panels = ui.panels[:0]
	ui.Modal = ui.Modal[:0]

	renderForm(cmd, p, lineH, ui, store, reg, metrics)
	renderList(cmd, p, lineH, ui, viewport, store, sel)
	if sel.ModalOpen && sel.Current != nil {
		renderModal(cmd, p, lineH, ui, viewport, sel)
	}
	if tooltip.Visible && !sel.ModalOpen {
		renderTooltip(p, lineH, tooltip)
	}
	renderToasts(cmd, p, lineH, viewport)

	for i := range ui.buttons {
		renderButton(p, lineH, &ui.buttons[i])
	}
}

func renderButton(p painter, lineH float32, btn *UiButton) {
	if btn.Hidden {
		if btn.Highlighted {
			p.rect(btn.Position[0], btn.Position[1], btn.Position[0]+btn.Width, btn.Position[1]+btn.Height,
				[4]float32{1, 1, 1, 0.08})
		}
		return
	}
	color := normalColor
	if btn.Highlighted || btn.Active {
		color = highlightColor
	}
	x, y := btn.Position[0], btn.Position[1]
	tw, _ := p.measure(btn.Label)

	if !btn.Boxed {
		p.text(btn.Label, x, y, color)
		return
	}

	pipeW, _ := p.measure("|")
	p.boxHLine(x, y, btn.Width, color)
	p.text("|", x, y+lineH, color)
	p.text(btn.Label, x+(btn.Width-tw)/2.0, y+lineH, normalColor)
	p.text("|", x+btn.Width-pipeW, y+lineH, color)
	p.boxHLine(x, y+2*lineH, btn.Width, color)
}

func boxedButton(p painter, lineH float32, label string, x, y float32, onClick func()) UiButton {
	tw, _ := p.measure(label)
	return UiButton{
		Label:    label,
		Position: [2]float32{x, y},
		Width:    tw + uiButtonPaddingX*2.0,
		Height:   3 * lineH,
		Boxed:    true,
		OnClick:  onClick,
	}
}

func renderForm(cmd *Commands, p painter, lineH float32, ui *UiState, store *IncidentStore, reg *Registry, metrics *Metrics) {
	x, y := float32(uiMargin), float32(uiMargin)
	form := &ui.Form
	top := y

	y += lineH * 0.5
	fieldsY := y + lineH*1.5

	caret := func(f FormField) string {
		if form.Focus == f {
			return "_"
		}
		return ""
	}
	fields := []struct {
		field FormField
		label string
	}{
		{FieldDate, "Date:     " + form.Date + caret(FieldDate)},
		{FieldLocation, "Location: < " + form.Location + " >"},
		{FieldCount, "Count:    " + form.Count + caret(FieldCount)},
		{FieldCause, "Cause:    " + form.Cause + caret(FieldCause)},
	}

	fy := fieldsY
	for _, f := range fields {
		field := f.field
		ui.buttons = append(ui.buttons, UiButton{
			Label:    f.label,
			Position: [2]float32{x + 8, fy},
			Width:    uiFormWidth - 16,
			Height:   lineH,
			Active:   form.Focus == field,
			OnClick: func() {
				if form.Focus == FieldLocation && field == FieldLocation {
					form.CycleLocation(reg, 1)
				}
				form.Focus = field
			},
		})
		fy += lineH
	}

	submit := boxedButton(p, lineH, "Submit", x+8, fy+lineH*0.25, func() {
		submitIncident(cmd, ui, store, reg, metrics)
	})
	ui.buttons = append(ui.buttons, submit)
	fy += submit.Height + lineH*0.25

	if form.Error != "" {
		fy += lineH
	}
	bottom := fy + lineH*0.5

	p.rect(x, top, x+uiFormWidth, bottom, panelColor)
	p.text("Log incident", x+8, y, highlightColor)
	if form.Error != "" {
		p.text(form.Error, x+8, fy-lineH, errorColor)
	}
	ui.panels = append(ui.panels, [4]float32{x, top, x + uiFormWidth, bottom})
}

func renderList(cmd *Commands, p painter, lineH float32, ui *UiState, viewport *Viewport, store *IncidentStore, sel *Selection) {
	x := float32(viewport.Width) - uiMargin - uiListWidth
	if x < uiFormWidth+2*uiMargin {
		x = uiFormWidth + 2*uiMargin
	}
	y := float32(uiMargin)
	top := y

	incidents := store.SortedByDate()
	y += lineH * 0.5
	p.text(fmt.Sprintf("== Incidents (%d) ==", len(incidents)), x+8, y, highlightColor)
	y += lineH * 1.2

	if len(incidents) == 0 {
		p.text("No incidents logged yet", x+8, y, mutedColor)
		y += lineH
	} else {
		shown := incidents
		if len(shown) > uiMaxListRows {
			shown = shown[:uiMaxListRows]
		}
		table := UiTable{
			Headers:  []string{"Date", "Location", "Count", "Cause"},
			Position: [2]float32{x + 8, y},
			Width:    uiListWidth - 16,
		}
		for _, inc := range shown {
			table.Rows = append(table.Rows, []string{inc.DateString(), inc.Location, strconv.Itoa(inc.Count), inc.Cause})
		}
		rowYs := renderTable(p, lineH, &table)

		for i, inc := range shown {
			active := sel.Current != nil && sel.Current.ID == inc.ID
			ui.buttons = append(ui.buttons, UiButton{
				Position: [2]float32{x + 8, rowYs[i]},
				Width:    uiListWidth - 16,
				Height:   lineH,
				Hidden:   true,
				Active:   active,
				OnClick:  func() { sel.Request(cmd, inc) },
			})
		}
		y = rowYs[len(rowYs)-1] + 2*lineH
		if more := len(incidents) - len(shown); more > 0 {
			p.text(fmt.Sprintf("... %d more", more), x+8, y, mutedColor)
			y += lineH
		}
	}
	bottom := y + lineH*0.5
	p.rect(x, top, x+uiListWidth, bottom, panelColor)
	ui.panels = append(ui.panels, [4]float32{x, top, x + uiListWidth, bottom})
}

// renderTable draws an ASCII table and returns the y of every body row.
func renderTable(p painter, lineH float32, table *UiTable) []float32 {
	pipeW, _ := p.measure("|")
	dashW, _ := p.measure("-")
	if dashW <= 0 {
		dashW = 10 * p.scale
	}

	// 1. Determine Column Widths
	colWidths := make([]float32, len(table.Headers))
	padding := float32(12.0)
	for i, h := range table.Headers {
		tw, _ := p.measure(h)
		colWidths[i] = tw + padding
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				tw, _ := p.measure(cell)
				colWidths[i] = max(colWidths[i], tw+padding)
			}
		}
	}

	// 2. Adjust for total width if specified
	if table.Width > 0 {
		sum := float32(0)
		for _, cw := range colWidths {
			sum += cw
		}
		extra := table.Width - sum - float32(len(table.Headers)+1)*pipeW
		if extra > 0 {
			added := extra / float32(len(table.Headers))
			for i := range colWidths {
				colWidths[i] += added
			}
		}
	}

	drawX, y := table.Position[0], table.Position[1]

	hline := func(y float32) {
		currX := drawX
		p.text("+", currX, y, normalColor)
		currX += pipeW
		for _, cw := range colWidths {
			p.text(strings.Repeat("-", int(cw/dashW)), currX, y, normalColor)
			currX += cw
			p.text("+", currX, y, normalColor)
			currX += pipeW
		}
	}
	row := func(items []string, y float32, color [4]float32) {
		currX := drawX
		p.text("|", currX, y, normalColor)
		currX += pipeW
		for i, item := range items {
			p.text(item, currX+padding/2, y, color)
			currX += colWidths[i]
			p.text("|", currX, y, normalColor)
			currX += pipeW
		}
	}

	hline(y)
	y += lineH
	row(table.Headers, y, highlightColor)
	y += lineH
	hline(y)
	y += lineH

	ys := make([]float32, 0, len(table.Rows))
	for _, r := range table.Rows {
		row(r, y, normalColor)
		ys = append(ys, y)
		y += lineH
	}
	hline(y)
	return ys
}

func renderModal(cmd *Commands, p painter, lineH float32, ui *UiState, viewport *Viewport, sel *Selection) {
	inc := sel.Current
	ui.Modal = append(ui.Modal,
		"Incident details",
		"Date:     "+inc.DateString(),
		"Location: "+inc.Location,
		"Count:    "+strconv.Itoa(inc.Count),
		"Cause:    "+inc.Cause,
	)

	h := float32(len(ui.Modal)+5) * lineH
	x := (float32(viewport.Width) - uiModalWidth) / 2
	y := (float32(viewport.Height) - h) / 2
	x, y = max(x, uiMargin), max(y, uiMargin)

	p.rect(0, 0, float32(viewport.Width), float32(viewport.Height), backdropColor)
	p.rect(x, y, x+uiModalWidth, y+h, panelColor)

	ly := y + lineH*0.5
	for i, line := range ui.Modal {
		color := normalColor
		if i == 0 {
			color = highlightColor
		}
		p.text(line, x+12, ly, color)
		ly += lineH
	}

	closeBtn := boxedButton(p, lineH, "Close", 0, ly+lineH*0.5, func() { sel.RequestClose(cmd) })
	closeBtn.Position[0] = x + (uiModalWidth-closeBtn.Width)/2
	ui.buttons = append(ui.buttons, closeBtn)
	ui.panels = append(ui.panels, [4]float32{x, y, x + uiModalWidth, y + h})
}

func renderTooltip(p painter, lineH float32, tooltip *Tooltip) {
	lines := []string{tooltip.Date, tooltip.Cause}
	w := float32(0)
	for _, l := range lines {
		tw, _ := p.measure(l)
		w = max(w, tw)
	}
	x, y := tooltip.X, tooltip.Y
	p.rect(x, y, x+w+12, y+float32(len(lines))*lineH+6, panelColor)
	for i, l := range lines {
		p.text(l, x+6, y+3+float32(i)*lineH, normalColor)
	}
}

func renderToasts(cmd *Commands, p painter, lineH float32, viewport *Viewport) {
	y := float32(viewport.Height) - uiMargin - lineH
	MakeQuery1[UiToast](cmd).Map(func(eid EntityId, toast *UiToast) bool {
		color := normalColor
		if toast.Error {
			color = errorColor
		}
		tw, _ := p.measure(toast.Text)
		x := (float32(viewport.Width) - tw) / 2
		p.rect(x-8, y-4, x+tw+8, y+lineH, panelColor)
		p.text(toast.Text, x, y, color)
		y -= lineH + 8
		return true
	})
}
