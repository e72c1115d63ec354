package tags

import "github.com/yohamta/donburi"

var (
	Piece    = donburi.NewTag().SetName("Piece")
	Boundary = donburi.NewTag().SetName("Boundary")
)

// Resolv tags for broad-phase collision
const (
	ResolvSolid = "solid"
	ResolvPiece = "piece"
)
