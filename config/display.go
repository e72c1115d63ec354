package config

import "image/color"

// DisplayConfig contains host rendering values. The core never reads it.
type DisplayConfig struct {
	WindowScale float64 // Window size relative to the logical arena

	BackgroundColor color.RGBA
	WallColor       color.RGBA
	DangerColor     color.RGBA
	AimColor        color.RGBA
	TextColor       color.RGBA
	AccentColor     color.RGBA
	CooldownColor   color.RGBA

	// Indexed by tier ID - 1; wraps for larger catalogs
	TierColors []color.RGBA

	HUDMargin     float64
	BannerY       float64
	BannerSeconds float32
	FlashSeconds  float32
	PulseSeconds  float32
	AimSpeed      float64 // px per tick when steering with the keyboard
}

// GameOverConfig contains game over overlay values
type GameOverConfig struct {
	BackgroundColor   color.RGBA
	TitleColor        color.RGBA
	TextColorNormal   color.RGBA
	TextColorSelected color.RGBA
	ErrorColor        color.RGBA
	MaxNickname       int
}

var Display DisplayConfig
var GameOver GameOverConfig

func init() {
	Display = DisplayConfig{
		WindowScale:     0.6,
		BackgroundColor: color.RGBA{18, 18, 28, 255},
		WallColor:       color.RGBA{60, 60, 84, 255},
		DangerColor:     color.RGBA{230, 60, 60, 255},
		AimColor:        color.RGBA{255, 255, 255, 60},
		TextColor:       color.RGBA{235, 235, 245, 255},
		AccentColor:     color.RGBA{255, 210, 90, 255},
		CooldownColor:   color.RGBA{110, 200, 255, 255},
		TierColors: []color.RGBA{
			{245, 245, 245, 255},
			{255, 214, 102, 255},
			{255, 159, 67, 255},
			{238, 82, 83, 255},
			{243, 104, 224, 255},
			{156, 136, 255, 255},
			{72, 126, 255, 255},
			{46, 204, 255, 255},
			{29, 209, 161, 255},
			{16, 172, 132, 255},
			{200, 214, 229, 255},
			{255, 255, 180, 255},
		},
		HUDMargin:     24,
		BannerY:       320,
		BannerSeconds: 1.2,
		FlashSeconds:  0.35,
		PulseSeconds:  0.6,
		AimSpeed:      9,
	}

	GameOver = GameOverConfig{
		BackgroundColor:   color.RGBA{0, 0, 0, 200},
		TitleColor:        color.RGBA{255, 80, 80, 255},
		TextColorNormal:   color.RGBA{200, 200, 200, 255},
		TextColorSelected: color.RGBA{255, 255, 100, 255},
		ErrorColor:        color.RGBA{255, 100, 100, 255},
		MaxNickname:       24,
	}
}

// TierColor returns the fill color of a tier.
func (d DisplayConfig) TierColor(tierID int) color.RGBA {
	if len(d.TierColors) == 0 {
		return d.TextColor
	}
	i := (tierID - 1) % len(d.TierColors)
	if i < 0 {
		i += len(d.TierColors)
	}
	return d.TierColors[i]
}
