// Package render draws the arena and plays queued cues. Everything here runs
// on the ebiten goroutine.
package render

import (
	"log"
	"sync"

	"github.com/automoto/novadrop/assets"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/systems"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi/ecs"
)

// Global audio state - created once and shared across all scenes
var (
	globalAudioContext *audio.Context
	globalAudioLoader  *assets.AudioLoader
	audioInitOnce      sync.Once
)

// initGlobalAudio initializes the global audio context (called once)
func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = audio.NewContext(cfg.Audio.SampleRate)
		globalAudioLoader = assets.NewAudioLoader(globalAudioContext)
	})
}

// PreloadAllSFX renders and decodes every cue at startup to avoid lag on
// first play.
func PreloadAllSFX() {
	initGlobalAudio()
	if err := globalAudioLoader.PreloadAll(); err != nil {
		log.Printf("[audio] preload failed: %v", err)
	}
}

// UpdateAudio plays the cues the session queued since the last frame.
func UpdateAudio(e *ecs.ECS) {
	initGlobalAudio()

	volume := systems.GetOrCreateAudio(e).SFXVolume
	for _, soundID := range systems.DrainSFX(e) {
		playSFX(soundID, volume)
	}
}

func playSFX(soundID cfg.SoundID, volume float64) {
	if volume <= 0 {
		return
	}

	player, err := globalAudioLoader.LoadSFX(soundID)
	if err != nil {
		return
	}

	if mult, ok := cfg.Sound.VolumeMultipliers[soundID]; ok {
		volume *= mult
	}

	player.SetVolume(min(volume, 1))
	player.Play()
}
