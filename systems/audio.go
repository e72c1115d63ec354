package systems

import (
	"github.com/automoto/novadrop/archetypes"
	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/messages"
	"github.com/yohamta/donburi/ecs"
)

// GetOrCreateAudio returns the singleton Audio component for this ECS, creating it if needed
func GetOrCreateAudio(e *ecs.ECS) *components.AudioData {
	entry, ok := components.Audio.First(e.World)
	if !ok {
		entry = archetypes.Audio.Spawn(e)
		components.Audio.SetValue(entry, components.AudioData{
			SFXVolume:  cfg.Audio.DefaultSFXVol,
			PendingSFX: make([]cfg.SoundID, 0, 8),
		})
	}
	return components.Audio.Get(entry)
}

// PlaySFX queues a sound effect to be played
func PlaySFX(e *ecs.ECS, sound cfg.SoundID) {
	if sound == cfg.SoundNone {
		return
	}
	audioData := GetOrCreateAudio(e)
	if audioData.Muted {
		return
	}
	audioData.PendingSFX = append(audioData.PendingSFX, sound)
}

// DrainSFX returns and clears the queued cues. Hosts call it once per frame.
func DrainSFX(e *ecs.ECS) []cfg.SoundID {
	audioData := GetOrCreateAudio(e)
	if len(audioData.PendingSFX) == 0 {
		return nil
	}
	out := append([]cfg.SoundID(nil), audioData.PendingSFX...)
	audioData.PendingSFX = audioData.PendingSFX[:0]
	return out
}

// SetMuted toggles cue queueing and drops anything pending when muting.
func SetMuted(e *ecs.ECS, muted bool) {
	audioData := GetOrCreateAudio(e)
	audioData.Muted = muted
	if muted {
		audioData.PendingSFX = audioData.PendingSFX[:0]
	}
}

// SetSFXVolume changes the SFX volume (0.0 - 1.0)
func SetSFXVolume(e *ecs.ECS, volume float64) {
	GetOrCreateAudio(e).SFXVolume = volume
}

// CueFor maps a core event to its audio cue. Events without a cue map to
// SoundNone.
func CueFor(ev messages.Event) cfg.SoundID {
	switch ev := ev.(type) {
	case messages.MergeComplete:
		return cfg.MergeSound(ev.PreviousTier + 1)
	case messages.BigClear:
		return cfg.SoundSpecialClear
	case messages.ComboUpdate:
		if ev.Count >= 2 {
			return cfg.SoundCombo
		}
	case messages.DangerVisible:
		if ev.Visible {
			return cfg.SoundDanger
		}
	case messages.GameOver:
		return cfg.SoundGameOver
	case messages.TurnAdvanced:
		return cfg.SoundDrop
	}
	return cfg.SoundNone
}
