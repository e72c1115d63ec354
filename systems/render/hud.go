package render

import (
	"fmt"

	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

const (
	cooldownBarWidth  = 160
	cooldownBarHeight = 8
	nextPreviewScale  = 0.6
)

// GetOrCreateHUD returns the singleton HUD component, creating if needed
func GetOrCreateHUD(e *ecs.ECS) *components.HUDData {
	if _, ok := components.HUD.First(e.World); !ok {
		e.World.Entry(e.World.Create(components.HUD))
	}
	entry, _ := components.HUD.First(e.World)
	return components.HUD.Get(entry)
}

// DrawHUD renders score, best, combo, the next piece and the drop cooldown.
func DrawHUD(e *ecs.ECS, screen *ebiten.Image) {
	hud := GetOrCreateHUD(e)
	c := game
	m := cfg.Display.HUDMargin
	bold := fonts.Bold.Get()
	regular := fonts.Regular.Get()

	text.Draw(screen, fmt.Sprintf("%d", hud.Score), bold, int(m), int(m)+28, cfg.Display.TextColor)
	text.Draw(screen, fmt.Sprintf("BEST %d", hud.BestScore), regular, int(m), int(m)+56, cfg.Display.TextColor)
	if hud.Combo >= 2 {
		text.Draw(screen, fmt.Sprintf("x%.1f COMBO %d", hud.Multiplier, hud.Combo), regular, int(m), int(m)+84, cfg.Display.AccentColor)
	}
	if hud.Muted {
		text.Draw(screen, "MUTED", fonts.Small.Get(), int(m), int(c.Arena.Height-m), cfg.Display.TextColor)
	}

	// Next piece preview in the top right
	if next, ok := c.Tiers.Tier(hud.NextTier); ok {
		r := next.Radius * nextPreviewScale
		x := c.Arena.Width - m - r
		drawCentered(screen, "NEXT", fonts.Small.Get(), x, m+16, cfg.Display.TextColor)
		drawPiece(screen, next.ID, x, m+28+r, r, 0, 1)
	}

	// Cooldown bar under the score
	x0 := float32(c.Arena.Width/2 - cooldownBarWidth/2)
	y0 := float32(m)
	vector.FillRect(screen, x0, y0, cooldownBarWidth, cooldownBarHeight, cfg.Display.WallColor, false)
	vector.FillRect(screen, x0, y0, cooldownBarWidth*float32(hud.Cooldown), cooldownBarHeight, cfg.Display.CooldownColor, false)
}
