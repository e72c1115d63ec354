package components

import (
	"github.com/automoto/novadrop/shared/scoreapi"
	"github.com/yohamta/donburi"
)

// GameOverData stores the current state of the game over overlay
type GameOverData struct {
	Active     bool
	FinalScore int
	NewBest    bool
	Nickname   string
	Status     string
	Board      *scoreapi.Leaderboard
}

// GameOver is the component type for game over overlay state
var GameOver = donburi.NewComponentType[GameOverData]()
