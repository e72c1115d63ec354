package factory

import (
	"github.com/automoto/novadrop/archetypes"
	"github.com/automoto/novadrop/components"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateSpace adds the broad-phase grid. offset shifts world coordinates into
// the grid so that walls outside the arena land on valid cells.
func CreateSpace(ecs *ecs.ECS, width, height, cellWidth, cellHeight int, offset float64) *donburi.Entry {
	space := archetypes.Space.Spawn(ecs)
	spaceData := resolv.NewSpace(width, height, cellWidth, cellHeight)
	components.Space.SetValue(space, components.SpaceData{Space: spaceData, Offset: offset})
	return space
}
