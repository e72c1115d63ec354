package factory

import (
	"github.com/automoto/novadrop/archetypes"
	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/gamemath"
	"github.com/automoto/novadrop/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/math"
)

// BroadPhasePad grows each piece's broad-phase square on every side. resolv
// buckets an object into the cells its integer bounds cover, so two circles
// touching exactly on a cell edge would otherwise never share a cell.
const BroadPhasePad = 2.0

// CreatePiece spawns a dynamic circle of the given tier centred at (x, y).
func CreatePiece(ecs *ecs.ECS, id uint64, tier cfg.Tier, x, y float64, phys cfg.PhysicsConfig) *donburi.Entry {
	piece := archetypes.Piece.Spawn(ecs)

	mass := gamemath.CircleMass(tier.Radius, gamemath.Density(tier.Radius))
	components.Piece.SetValue(piece, components.PieceData{ID: id, TierID: tier.ID})
	components.Body.SetValue(piece, components.BodyData{
		Position:    math.Vec2{X: x, Y: y},
		Radius:      tier.Radius,
		Mass:        mass,
		InvMass:     1 / mass,
		InvI:        1 / gamemath.CircleInertia(mass, tier.Radius),
		Restitution: phys.Restitution,
		Friction:    phys.Friction,
		AirFriction: phys.AirFriction,
	})
	components.Material.SetValue(piece, components.MaterialData{
		Restitution: phys.Restitution,
		Friction:    phys.Friction,
	})

	offset := 0.0
	spaceEntry, hasSpace := components.Space.First(ecs.World)
	if hasSpace {
		offset = components.Space.Get(spaceEntry).Offset
	}

	// Broad phase uses the padded bounding square; narrow phase is exact.
	d := tier.Radius*2 + 2*BroadPhasePad
	corner := tier.Radius + BroadPhasePad
	obj := resolv.NewObject(x-corner+offset, y-corner+offset, d, d, tags.ResolvPiece)
	obj.SetShape(resolv.NewRectangle(0, 0, d, d))
	obj.Data = piece

	components.Object.SetValue(piece, components.ObjectData{Object: obj})

	if hasSpace {
		components.Space.Get(spaceEntry).Add(obj)
	}

	return piece
}
