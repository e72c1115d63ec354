package ui

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

const boardRows = 5

// GameOverUI holds the ebitenui panel shown after a game ends
type GameOverUI struct {
	UI *ebitenui.UI

	// Callbacks
	OnSubmit func()
	OnRetry  func()

	// Widget references for updates
	scoreLabel    *widget.Label
	nicknameLabel *widget.Label
	statusLabel   *widget.Label
	weekLabel     *widget.Label
	rowLabels     [boardRows]*widget.Label
	submitButton  *widget.Button

	// Fonts (stored as interface for ebitenui compatibility)
	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

// NewGameOverUI creates the game over panel
func NewGameOverUI(onSubmit, onRetry func()) *GameOverUI {
	g := &GameOverUI{
		OnSubmit: onSubmit,
		OnRetry:  onRetry,
	}

	g.loadFonts()
	g.buildUI()

	return g
}

func (g *GameOverUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(err)
	}

	g.titleFace = &text.GoTextFace{
		Source: fontSource,
		Size:   40,
	}
	g.normalFace = &text.GoTextFace{
		Source: fontSource,
		Size:   26,
	}
	g.smallFace = &text.GoTextFace{
		Source: fontSource,
		Size:   20,
	}
}

func (g *GameOverUI) buildUI() {
	// Transparent root so the dimmed arena shows around the panel
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 235})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(24)),
			widget.RowLayoutOpts.Spacing(12),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(560, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	g.scoreLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &g.titleFace, &widget.LabelColor{
			Idle: cfg.Display.AccentColor,
		}),
	)
	contentContainer.AddChild(g.scoreLabel)

	g.nicknameLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &g.normalFace, &widget.LabelColor{
			Idle: cfg.GameOver.TextColorSelected,
		}),
	)
	contentContainer.AddChild(g.nicknameLabel)

	g.weekLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &g.smallFace, &widget.LabelColor{
			Idle: cfg.GameOver.TextColorNormal,
		}),
	)
	contentContainer.AddChild(g.weekLabel)

	for i := range g.rowLabels {
		g.rowLabels[i] = widget.NewLabel(
			widget.LabelOpts.Text("", &g.normalFace, &widget.LabelColor{
				Idle: cfg.GameOver.TextColorNormal,
			}),
		)
		contentContainer.AddChild(g.rowLabels[i])
	}

	contentContainer.AddChild(g.buildButtonsContainer())

	g.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &g.smallFace, &widget.LabelColor{
			Idle: cfg.GameOver.ErrorColor,
		}),
	)
	contentContainer.AddChild(g.statusLabel)

	rootContainer.AddChild(contentContainer)

	g.UI = &ebitenui.UI{
		Container: rootContainer,
	}
}

func (g *GameOverUI) buildButtonsContainer() *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(16),
		)),
	)

	g.submitButton = widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(200, 48),
		),
		widget.ButtonOpts.Image(g.buttonImage()),
		widget.ButtonOpts.Text("SUBMIT", &g.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{255, 255, 200, 255},
			Pressed:  color.RGBA{200, 200, 200, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if g.OnSubmit != nil {
				g.OnSubmit()
			}
		}),
	)
	container.AddChild(g.submitButton)

	retryButton := widget.NewButton(
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(200, 48),
		),
		widget.ButtonOpts.Image(g.buttonImage()),
		widget.ButtonOpts.Text("PLAY AGAIN", &g.normalFace, &widget.ButtonTextColor{
			Idle:    color.RGBA{255, 255, 255, 255},
			Hover:   color.RGBA{255, 255, 200, 255},
			Pressed: color.RGBA{200, 200, 200, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if g.OnRetry != nil {
				g.OnRetry()
			}
		}),
	)
	container.AddChild(retryButton)

	return container
}

func (g *GameOverUI) buttonImage() *widget.ButtonImage {
	idle := image.NewNineSliceColor(color.RGBA{60, 60, 80, 255})
	hover := image.NewNineSliceColor(color.RGBA{80, 80, 100, 255})
	pressed := image.NewNineSliceColor(color.RGBA{40, 40, 60, 255})
	disabled := image.NewNineSliceColor(color.RGBA{40, 40, 40, 255})

	return &widget.ButtonImage{
		Idle:     idle,
		Hover:    hover,
		Pressed:  pressed,
		Disabled: disabled,
	}
}

// UpdateUI copies the overlay state into the widgets. canSubmit enables the
// submit button.
func (g *GameOverUI) UpdateUI(data *components.GameOverData, canSubmit bool) {

	if g.scoreLabel != nil {
		best := ""
		if data.NewBest {
			best = "  NEW BEST!"
		}
		g.scoreLabel.Label = fmt.Sprintf("SCORE %d%s", data.FinalScore, best)
	}

	if g.nicknameLabel != nil {
		name := data.Nickname
		if name == "" {
			name = "type a nickname"
		}
		g.nicknameLabel.Label = "> " + name + "_"
	}

	if g.statusLabel != nil {
		g.statusLabel.Label = data.Status
	}

	board := data.Board
	if g.weekLabel != nil {
		g.weekLabel.Label = ""
		if board != nil {
			g.weekLabel.Label = "TOP SCORES " + board.ISOWeek
		}
	}
	for i, label := range g.rowLabels {
		if label == nil {
			continue
		}
		label.Label = ""
		if board != nil && i < len(board.Entries) {
			entry := board.Entries[i]
			label.Label = fmt.Sprintf("%d. %-24s %d", entry.Rank, entry.Nickname, entry.Score)
		}
	}

	if g.submitButton != nil {
		g.submitButton.GetWidget().Disabled = !canSubmit
	}
}
