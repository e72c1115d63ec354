package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ObjectData links an entity to its broad-phase collision object.
type ObjectData struct {
	*resolv.Object
}

var Object = donburi.NewComponentType[ObjectData]()

// SpaceData is the singleton broad-phase grid. Coordinates inside it are
// shifted by Offset so walls and pieces never sit at negative cells.
type SpaceData struct {
	*resolv.Space
	Offset float64
}

var Space = donburi.NewComponentType[SpaceData]()
