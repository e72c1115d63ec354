package components

import "github.com/yohamta/donburi"

// PieceData identifies a piece. ID is unique and monotonic per world.
type PieceData struct {
	ID     uint64
	TierID int
}

var Piece = donburi.NewComponentType[PieceData]()

// MaterialData holds a piece's own restitution and friction while a merge
// candidate overrides them.
type MaterialData struct {
	Restitution float64
	Friction    float64
	Sticky      int // number of pending candidates holding the override
}

var Material = donburi.NewComponentType[MaterialData]()
