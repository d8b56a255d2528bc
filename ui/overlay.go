package ui

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/ggcrunchy/solar2d-boilerplate/common"
)

// autoFrames is how long an auto-dismissing overlay (the loading splash)
// stays up before it completes on its own.
const autoFrames = 20

// Presenter shows one blocking overlay at a time: a loading splash that
// dismisses itself, or an end-of-level panel with a Continue button. The
// completion callback fires exactly once per overlay.
type Presenter struct {
	ui   *ebitenui.UI
	root *widget.Container
	face ebtext.Face
	auto map[string]bool

	pending *overlay
}

type overlay struct {
	name   string
	onDone func(arg any)
	arg    any
	timer  int
	panel  *widget.Container
	fired  bool
}

// NewPresenter builds an empty overlay layer. autoNames are overlays that
// dismiss themselves after a short delay; "loading" always does.
func NewPresenter(autoNames ...string) *Presenter {
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	p := &Presenter{
		ui:   &ebitenui.UI{Container: root},
		root: root,
		face: goFace,
		auto: map[string]bool{"loading": true},
	}
	for _, n := range autoNames {
		p.auto[n] = true
	}
	return p
}

// ShowOverlay replaces any overlay still up (completing it first) and puts
// the named one on screen.
func (p *Presenter) ShowOverlay(name string, onDone func(arg any), arg any) {
	p.finish()
	ov := &overlay{name: name, onDone: onDone, arg: arg}
	if p.auto[name] {
		ov.timer = autoFrames
	}
	ov.panel = p.buildPanel(ov)
	p.root.AddChild(ov.panel)
	p.pending = ov
}

// Active reports whether an overlay is on screen.
func (p *Presenter) Active() bool { return p.pending != nil }

// Dismiss completes the current overlay early, as if Continue was pressed.
func (p *Presenter) Dismiss() { p.finish() }

// Update advances the auto-dismiss timer and the widget tree.
func (p *Presenter) Update() {
	p.ui.Update()
	if ov := p.pending; ov != nil && ov.timer > 0 {
		ov.timer--
		if ov.timer == 0 {
			p.finish()
		}
	}
}

// Draw renders the overlay layer on top of the scene.
func (p *Presenter) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}

func (p *Presenter) finish() {
	ov := p.pending
	if ov == nil || ov.fired {
		return
	}
	ov.fired = true
	p.pending = nil
	p.root.RemoveChild(ov.panel)
	if ov.onDone != nil {
		ov.onDone(ov.arg)
	}
}

func (p *Presenter) buildPanel(ov *overlay) *widget.Container {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnTextColor := &widget.ButtonTextColor{Idle: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

	title := widget.NewText(
		widget.TextOpts.Text(overlayTitle(ov.name), &p.face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/3, common.BaseHeight/4),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)

	if ov.timer == 0 {
		continueBtn := widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text("Continue", &p.face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				p.finish()
			}),
		)
		panel.AddChild(continueBtn)
	}

	return panel
}

func overlayTitle(name string) string {
	switch name {
	case "loading":
		return "Loading..."
	case "won":
		return "You Won!"
	case "lost":
		return "You Lost"
	}
	return name
}
