package components

import (
	cfg "github.com/automoto/novadrop/config"
	"github.com/yohamta/donburi"
)

// AudioData stores global audio state (singleton component). The host drains
// PendingSFX once per frame.
type AudioData struct {
	SFXVolume  float64 // 0.0 - 1.0
	Muted      bool
	PendingSFX []cfg.SoundID
}

var Audio = donburi.NewComponentType[AudioData]()
