package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// PulseData drives the danger indicator alpha. Tween is nil while hidden.
type PulseData struct {
	Tween *gween.Tween
	Alpha float32
}

var Pulse = donburi.NewComponentType[PulseData]()

// BannerData is a fading text banner (combo and clear announcements)
type BannerData struct {
	Text  string
	Tween *gween.Tween
	Alpha float32
}

var Banner = donburi.NewComponentType[BannerData]()

// FlashData marks a short-lived merge ring at a world position
type FlashData struct {
	X, Y   float64
	Radius float64
	Tween  *gween.Tween
	Scale  float32
}

var Flash = donburi.NewComponentType[FlashData]()
