package render

import (
	"image/color"
	"math"
	"strconv"

	"github.com/automoto/novadrop/assets"
	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/fonts"
	"github.com/automoto/novadrop/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

var pieceShaderOp = &ebiten.DrawRectShaderOptions{}

// withAlpha scales a color's alpha, keeping it non-premultiplied.
func withAlpha(c color.RGBA, a float32) color.RGBA {
	c.A = uint8(float32(c.A) * max(0, min(1, a)))
	return c
}

// drawCentered draws str horizontally centered on x with its baseline at y.
func drawCentered(screen *ebiten.Image, str string, face font.Face, x, y float64, clr color.Color) {
	w := font.MeasureString(face, str).Ceil()
	text.Draw(screen, str, face, int(x)-w/2, int(y), clr)
}

// DrawArena renders the background, walls and the danger line.
func DrawArena(e *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Display.BackgroundColor)

	tags.Boundary.Each(e.World, func(entry *donburi.Entry) {
		b := components.Bounds.Get(entry)
		vector.FillRect(screen,
			float32(b.X), float32(b.Y),
			float32(b.W), float32(b.H),
			cfg.Display.WallColor, false)
	})

	// The line is always faintly visible; the pulse brightens it while a
	// piece sits in the zone
	c := game
	alpha := max(0.2, DangerAlpha(e))
	y := float32(c.Danger.LineY)
	for x := float32(0); x < float32(c.Arena.Width); x += 24 {
		vector.StrokeLine(screen, x, y, x+12, y, 3, withAlpha(cfg.Display.DangerColor, alpha), false)
	}
}

// DrawPieces renders every live piece, shaded when the shader compiled.
func DrawPieces(e *ecs.ECS, screen *ebiten.Image) {
	small := fonts.Small.Get()

	tags.Piece.Each(e.World, func(entry *donburi.Entry) {
		body := components.Body.Get(entry)
		piece := components.Piece.Get(entry)
		drawPiece(screen, piece.TierID, body.Position.X, body.Position.Y, body.Radius, body.Angle, 1)
		drawCentered(screen, strconv.Itoa(piece.TierID), small, body.Position.X, body.Position.Y+6, color.Black)
	})
}

func drawPiece(screen *ebiten.Image, tierID int, x, y, r, angle float64, alpha float32) {
	clr := withAlpha(cfg.Display.TierColor(tierID), alpha)

	if assets.PieceShader != nil {
		size := int(math.Ceil(r*2)) + 2
		pieceShaderOp.GeoM.Reset()
		pieceShaderOp.GeoM.Translate(x-r-1, y-r-1)
		pieceShaderOp.Uniforms = map[string]any{
			"Color":  []float32{float32(clr.R) / 255, float32(clr.G) / 255, float32(clr.B) / 255, float32(clr.A) / 255},
			"Center": []float32{float32(x), float32(y)},
			"Radius": float32(r),
		}
		screen.DrawRectShader(size, size, assets.PieceShader, pieceShaderOp)
	} else {
		vector.FillCircle(screen, float32(x), float32(y), float32(r), clr, true)
	}

	// Spoke so rotation reads on screen
	sx := x + math.Cos(angle)*r*0.7
	sy := y + math.Sin(angle)*r*0.7
	vector.StrokeLine(screen, float32(x), float32(y), float32(sx), float32(sy), 2, withAlpha(color.RGBA{0, 0, 0, 90}, alpha), true)
}

// DrawAim renders the aiming guide and a ghost of the piece about to drop.
func DrawAim(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.HUD.First(e.World)
	if !ok || GetOrCreateGameOver(e).Active {
		return
	}
	hud := components.HUD.Get(entry)
	c := game
	tier, ok := c.Tiers.Tier(hud.CurrentTier)
	if !ok {
		return
	}

	x := math.Max(tier.Radius, math.Min(c.Arena.Width-tier.Radius, hud.AimX))
	vector.StrokeLine(screen, float32(x), float32(c.Arena.PreviewY), float32(x), float32(c.Arena.Height), 2, cfg.Display.AimColor, false)

	alpha := float32(0.9)
	if !hud.CanDrop {
		alpha = 0.35
	}
	drawPiece(screen, tier.ID, x, c.Arena.PreviewY+tier.Radius, tier.Radius, 0, alpha)
}

// DrawEffects renders merge rings and the combo banner.
func DrawEffects(e *ecs.ECS, screen *ebiten.Image) {
	components.Flash.Each(e.World, func(entry *donburi.Entry) {
		flash := components.Flash.Get(entry)
		a := flashAlpha(flash.Scale)
		vector.StrokeCircle(screen,
			float32(flash.X), float32(flash.Y),
			float32(flash.Radius)*flash.Scale, 4,
			withAlpha(cfg.Display.AccentColor, a), true)
	})

	if entry, ok := components.Banner.First(e.World); ok {
		banner := components.Banner.Get(entry)
		if banner.Alpha > 0 {
			c := game
			drawCentered(screen, banner.Text, fonts.Bold.Get(), c.Arena.Width/2, cfg.Display.BannerY, withAlpha(cfg.Display.AccentColor, banner.Alpha))
		}
	}
}
