package components

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// BodyData is the rigid-body state of a dynamic circle. Velocities are in px/s.
type BodyData struct {
	Position        math.Vec2
	Velocity        math.Vec2
	Angle           float64
	AngularVelocity float64

	Radius  float64
	Mass    float64
	InvMass float64
	InvI    float64 // inverse moment of inertia

	Restitution float64
	Friction    float64
	AirFriction float64
}

var Body = donburi.NewComponentType[BodyData]()

// BoundsData marks a static rectangle in world coordinates. The normal is the
// unit direction pointing back into the arena.
type BoundsData struct {
	X, Y, W, H       float64
	NormalX, NormalY float64
}

var Bounds = donburi.NewComponentType[BoundsData]()
