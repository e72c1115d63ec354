package components

import "github.com/yohamta/donburi"

// HUDData mirrors the session values the overlay shows. The scene refreshes
// it every frame.
type HUDData struct {
	Score       int
	BestScore   int
	Turn        int
	CurrentTier int
	NextTier    int
	Combo       int
	Multiplier  float64
	Cooldown    float64 // 0 right after a burst, 1 when drops are free
	AimX        float64
	CanDrop     bool
	Muted       bool
}

var HUD = donburi.NewComponentType[HUDData]()
