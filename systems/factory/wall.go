package factory

import (
	"github.com/automoto/novadrop/archetypes"
	"github.com/automoto/novadrop/components"
	"github.com/automoto/novadrop/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateWall adds a static boundary rectangle given in world coordinates.
// (nx, ny) is the unit normal of the face that pieces rest against.
func CreateWall(ecs *ecs.ECS, x, y, w, h, nx, ny float64) *donburi.Entry {
	wall := archetypes.Wall.Spawn(ecs)
	components.Bounds.SetValue(wall, components.BoundsData{
		X: x, Y: y, W: w, H: h,
		NormalX: nx, NormalY: ny,
	})

	offset := 0.0
	spaceEntry, hasSpace := components.Space.First(ecs.World)
	if hasSpace {
		offset = components.Space.Get(spaceEntry).Offset
	}

	// Create collision object
	obj := resolv.NewObject(x+offset, y+offset, w, h, tags.ResolvSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	obj.Data = wall // Link for O(1) lookup

	components.Object.SetValue(wall, components.ObjectData{Object: obj})

	if hasSpace {
		components.Space.Get(spaceEntry).Add(obj)
	}

	return wall
}
