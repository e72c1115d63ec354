package render

import (
	"github.com/automoto/novadrop/archetypes"
	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// game is the tuning the renderers read arena geometry and tiers from
var game = cfg.Default()

// Configure sets the tuning used by the renderers.
func Configure(c cfg.Config) {
	game = c
}

const (
	pulseLow   = 0.25
	pulseHigh  = 1.0
	flashScale = 1.8
)

// UpdateEffects advances every tween by dt seconds and removes finished ones.
func UpdateEffects(e *ecs.ECS, dt float32) {
	updatePulse(e, dt)
	updateBanner(e, dt)
	updateFlashes(e, dt)
}

func updatePulse(e *ecs.ECS, dt float32) {
	pulse := getOrCreatePulse(e)
	if pulse.Tween == nil {
		return
	}
	alpha, done := pulse.Tween.Update(dt)
	pulse.Alpha = alpha
	if done {
		// Bounce between the two levels while visible
		target := float32(pulseHigh)
		if alpha > (pulseLow+pulseHigh)/2 {
			target = pulseLow
		}
		pulse.Tween = gween.New(alpha, target, cfg.Display.PulseSeconds, ease.InOutSine)
	}
}

func updateBanner(e *ecs.ECS, dt float32) {
	entry, ok := components.Banner.First(e.World)
	if !ok {
		return
	}
	banner := components.Banner.Get(entry)
	if banner.Tween == nil {
		return
	}
	alpha, done := banner.Tween.Update(dt)
	banner.Alpha = alpha
	if done {
		banner.Tween = nil
		banner.Alpha = 0
	}
}

func updateFlashes(e *ecs.ECS, dt float32) {
	var toRemove []*donburi.Entry

	components.Flash.Each(e.World, func(entry *donburi.Entry) {
		flash := components.Flash.Get(entry)
		scale, done := flash.Tween.Update(dt)
		flash.Scale = scale
		if done {
			toRemove = append(toRemove, entry)
		}
	})

	for _, entry := range toRemove {
		entry.Remove()
	}
}

func getOrCreatePulse(e *ecs.ECS) *components.PulseData {
	if _, ok := components.Pulse.First(e.World); !ok {
		e.World.Entry(e.World.Create(components.Pulse))
	}
	entry, _ := components.Pulse.First(e.World)
	return components.Pulse.Get(entry)
}

// SetDangerPulse starts or stops the danger line pulse.
func SetDangerPulse(e *ecs.ECS, visible bool) {
	pulse := getOrCreatePulse(e)
	switch {
	case !visible:
		pulse.Tween = nil
		pulse.Alpha = 0
	case pulse.Tween == nil:
		pulse.Tween = gween.New(pulseLow, pulseHigh, cfg.Display.PulseSeconds, ease.InOutSine)
		pulse.Alpha = pulseLow
	}
}

// DangerAlpha returns the current pulse level, 0 while hidden.
func DangerAlpha(e *ecs.ECS) float32 {
	return getOrCreatePulse(e).Alpha
}

// ShowBanner replaces the current banner and fades it out.
func ShowBanner(e *ecs.ECS, text string) {
	entry, ok := components.Banner.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Banner))
	}
	components.Banner.SetValue(entry, components.BannerData{
		Text:  text,
		Tween: gween.New(1, 0, cfg.Display.BannerSeconds, ease.InQuad),
		Alpha: 1,
	})
}

// SpawnFlash adds an expanding ring at a merge or clear position.
func SpawnFlash(e *ecs.ECS, x, y, radius float64) {
	entry := archetypes.Flash.Spawn(e)
	components.Flash.SetValue(entry, components.FlashData{
		X:      x,
		Y:      y,
		Radius: radius,
		Tween:  gween.New(1, flashScale, cfg.Display.FlashSeconds, ease.OutQuad),
		Scale:  1,
	})
}

// ClearEffects removes every banner, flash and pulse.
func ClearEffects(e *ecs.ECS) {
	var toRemove []*donburi.Entry
	components.Flash.Each(e.World, func(entry *donburi.Entry) {
		toRemove = append(toRemove, entry)
	})
	for _, entry := range toRemove {
		entry.Remove()
	}
	if entry, ok := components.Banner.First(e.World); ok {
		entry.Remove()
	}
	SetDangerPulse(e, false)
}

// flashAlpha fades a ring out as it grows.
func flashAlpha(scale float32) float32 {
	a := (flashScale - scale) / (flashScale - 1)
	return max(0, min(1, a))
}
