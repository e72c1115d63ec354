package systems

import (
	"math"

	"github.com/automoto/novadrop/components"
	"github.com/automoto/novadrop/shared/gamemath"
	"github.com/automoto/novadrop/systems/factory"
	"github.com/automoto/novadrop/tags"
	"github.com/yohamta/donburi"
)

const (
	// Pairs closer than this are still considered touching, so resting
	// contacts do not flicker between sub-steps.
	contactSlop = 0.5
	// Penetration tolerated before positional correction kicks in.
	linearSlop = 0.05
	// Share of the remaining penetration removed per solver pass.
	correctionPercent = 0.8
	// Normal speeds below this (px/s) bounce with zero restitution.
	restingSpeed = 60.0
)

// PairKey is an order-independent pair of piece IDs, Lo < Hi.
type PairKey struct {
	Lo, Hi uint64
}

// NewPairKey orders two IDs into a key.
func NewPairKey(a, b uint64) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

func comparePairKeys(a, b PairKey) int {
	if c := compareIDs(a.Lo, b.Lo); c != 0 {
		return c
	}
	return compareIDs(a.Hi, b.Hi)
}

func speed(vx, vy float64) float64 {
	return math.Hypot(vx, vy)
}

// integrate applies gravity, air damping and velocity for one sub-step.
func integrate(b *components.BodyData, gravity, dt float64) {
	b.Velocity.Y += gravity * dt

	damp := gamemath.AirDamping(b.AirFriction, dt)
	b.Velocity.X *= damp
	b.Velocity.Y *= damp
	b.AngularVelocity *= damp

	b.Position.X += b.Velocity.X * dt
	b.Position.Y += b.Velocity.Y * dt
	b.Angle += b.AngularVelocity * dt
}

// syncObject moves the broad-phase object to match the body.
func (pw *PhysicsWorld) syncObject(entry *donburi.Entry) {
	body := components.Body.Get(entry)
	obj := components.Object.Get(entry)
	corner := body.Radius + factory.BroadPhasePad
	obj.X = body.Position.X - corner + spaceMargin
	obj.Y = body.Position.Y - corner + spaceMargin
	obj.Update()
}

// solveContacts runs the solver passes and returns the set of touching piece
// pairs found on the first pass.
func (pw *PhysicsWorld) solveContacts(ids []uint64) map[PairKey]struct{} {
	touching := make(map[PairKey]struct{})

	for _, id := range ids {
		pw.syncObject(pw.entries[id])
	}

	for iter := 0; iter < pw.cfg.Physics.SolverIterations; iter++ {
		first := iter == 0
		for _, id := range ids {
			entry := pw.entries[id]
			pw.syncObject(entry)

			obj := components.Object.Get(entry)
			check := obj.Check(0, 0, tags.ResolvPiece, tags.ResolvSolid)
			if check == nil {
				continue
			}

			seen := make(map[*donburi.Entry]struct{}, len(check.Objects))
			for _, other := range check.Objects {
				otherEntry, ok := other.Data.(*donburi.Entry)
				if !ok || otherEntry == entry {
					continue
				}
				if _, dup := seen[otherEntry]; dup {
					continue
				}
				seen[otherEntry] = struct{}{}

				if other.HasTags(tags.ResolvSolid) {
					pw.solveWall(entry, components.Bounds.Get(otherEntry))
					continue
				}

				otherID := components.Piece.Get(otherEntry).ID
				if otherID <= id {
					// Each pair is solved once, from its lower ID.
					continue
				}
				if pw.solvePair(entry, otherEntry) && first {
					touching[PairKey{Lo: id, Hi: otherID}] = struct{}{}
				}
			}
		}
	}

	return touching
}

// solvePair resolves a piece-piece contact and reports whether they touch.
func (pw *PhysicsWorld) solvePair(ea, eb *donburi.Entry) bool {
	a := components.Body.Get(ea)
	b := components.Body.Get(eb)

	c, ok := gamemath.CircleCircle(a.Position.X, a.Position.Y, a.Radius, b.Position.X, b.Position.Y, b.Radius, contactSlop)
	if !ok {
		return false
	}
	if c.Depth > 0 {
		resolve(a, b, c, math.Max(a.Restitution, b.Restitution), math.Min(a.Friction, b.Friction))
	}
	return true
}

// solveWall resolves a piece against a static boundary. Boundaries only push
// inward, so a piece shoved past a wall's face is still returned to the arena.
func (pw *PhysicsWorld) solveWall(e *donburi.Entry, wall *components.BoundsData) {
	a := components.Body.Get(e)

	// The face is the side of the rectangle the normal points out of.
	px, py := wall.X, wall.Y
	if wall.NormalX > 0 {
		px += wall.W
	}
	if wall.NormalY > 0 {
		py += wall.H
	}
	c, ok := gamemath.CircleHalfPlane(a.Position.X, a.Position.Y, a.Radius, px, py, wall.NormalX, wall.NormalY, 0)
	if !ok || c.Depth <= 0 {
		return
	}
	phys := pw.cfg.Physics
	resolve(a, nil, c, math.Max(a.Restitution, phys.Restitution), math.Min(a.Friction, phys.Friction))
}

// resolve applies positional correction, a normal impulse and a Coulomb
// friction impulse. A nil b is a static body. The normal points from a to b.
func resolve(a, b *components.BodyData, c gamemath.Contact, restitution, friction float64) {
	nx, ny := c.NormalX, c.NormalY

	invA, invIA, rA := a.InvMass, a.InvI, a.Radius
	var invB, invIB, rB float64
	var vbx, vby, wb float64
	if b != nil {
		invB, invIB, rB = b.InvMass, b.InvI, b.Radius
		vbx, vby, wb = b.Velocity.X, b.Velocity.Y, b.AngularVelocity
	}
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	// Positional correction split by inverse mass
	corr := math.Max(c.Depth-linearSlop, 0) * correctionPercent / invSum
	a.Position.X -= nx * corr * invA
	a.Position.Y -= ny * corr * invA
	if b != nil {
		b.Position.X += nx * corr * invB
		b.Position.Y += ny * corr * invB
	}

	// Normal impulse
	rvx := vbx - a.Velocity.X
	rvy := vby - a.Velocity.Y
	vn := rvx*nx + rvy*ny
	if vn >= 0 {
		return
	}
	e := restitution
	if -vn < restingSpeed {
		e = 0
	}
	j := -(1 + e) * vn / invSum
	a.Velocity.X -= j * nx * invA
	a.Velocity.Y -= j * ny * invA
	if b != nil {
		b.Velocity.X += j * nx * invB
		b.Velocity.Y += j * ny * invB
	}

	// Friction impulse along the tangent, including surface spin
	tx, ty := -ny, nx
	vt := rvx*tx + rvy*ty - wb*rB - a.AngularVelocity*rA
	k := invSum + rA*rA*invIA + rB*rB*invIB
	jt := gamemath.Clamp(-vt/k, -friction*j, friction*j)

	a.Velocity.X -= jt * tx * invA
	a.Velocity.Y -= jt * ty * invA
	a.AngularVelocity -= jt * rA * invIA
	if b != nil {
		b.Velocity.X += jt * tx * invB
		b.Velocity.Y += jt * ty * invB
		b.AngularVelocity -= jt * rB * invIB
	}
}
