package systems

import (
	"log"
	"maps"
	"slices"
	"time"

	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/systems/factory"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/events"
)

// CollisionStartEvent is published when two pieces begin touching. Events are
// processed after every physics sub-step.
var CollisionStartEvent = events.NewEventType[messages.CollisionStart]()

// Piece is a read-only snapshot of a live piece.
type Piece struct {
	ID              uint64
	TierID          int
	Radius          float64
	X, Y            float64
	VX, VY          float64
	Angle           float64
	AngularVelocity float64
	Restitution     float64
	Friction        float64
}

// Speed returns the linear speed in px/s.
func (p Piece) Speed() float64 {
	return speed(p.VX, p.VY)
}

// PhysicsStats counts work done by the world since construction.
type PhysicsStats struct {
	Bodies     int
	SubSteps   uint64
	Collisions uint64
	Evictions  uint64
}

// PhysicsWorld owns every piece body. Other systems address pieces by ID.
type PhysicsWorld struct {
	cfg  cfg.Config
	ecs  *ecs.ECS
	sink messages.Sink

	nextID   uint64
	entries  map[uint64]*donburi.Entry
	contacts map[PairKey]struct{}

	accumulator time.Duration
	paused      bool
	stats       PhysicsStats
}

// spaceMargin pads the broad-phase grid around the arena so that walls and
// pieces pushed above the top edge still map to valid cells.
const spaceMargin = 512

// NewPhysicsWorld builds the arena: broad-phase space, left and right walls
// and the floor. The config must already be validated.
func NewPhysicsWorld(c cfg.Config, sink messages.Sink) *PhysicsWorld {
	if sink == nil {
		sink = messages.Discard
	}
	pw := &PhysicsWorld{
		cfg:      c,
		ecs:      ecs.NewECS(donburi.NewWorld()),
		sink:     sink,
		entries:  make(map[uint64]*donburi.Entry),
		contacts: make(map[PairKey]struct{}),
	}

	a := c.Arena
	factory.CreateSpace(pw.ecs,
		int(a.Width)+2*spaceMargin,
		int(a.Height+a.OutOfBoundsY)+2*spaceMargin,
		c.Physics.CellSize, c.Physics.CellSize,
		spaceMargin,
	)

	// Left wall, right wall, floor
	t := a.WallThickness
	factory.CreateWall(pw.ecs, -t, 0, t, a.Height, 1, 0)
	factory.CreateWall(pw.ecs, a.Width, 0, t, a.Height, -1, 0)
	factory.CreateWall(pw.ecs, -t, a.Height-t, a.Width+2*t, t, 0, -1)

	CollisionStartEvent.Subscribe(pw.ecs.World, pw.countCollision)

	return pw
}

// ECS exposes the entity world so hosts can attach renderers and other systems
// can subscribe to collision events.
func (pw *PhysicsWorld) ECS() *ecs.ECS {
	return pw.ecs
}

// World is shorthand for ECS().World.
func (pw *PhysicsWorld) World() donburi.World {
	return pw.ecs.World
}

func (pw *PhysicsWorld) countCollision(w donburi.World, e messages.CollisionStart) {
	pw.stats.Collisions++
}

// CreatePiece inserts a dynamic circle of the given tier. It never fails; the
// cap is enforced on the next Step.
func (pw *PhysicsWorld) CreatePiece(tier cfg.Tier, x, y float64) Piece {
	pw.nextID++
	id := pw.nextID
	entry := factory.CreatePiece(pw.ecs, id, tier, x, y, pw.cfg.Physics)
	pw.entries[id] = entry

	p := snapshot(entry)
	pw.sink.Emit(messages.PieceCreated{ID: id, TierID: tier.ID, X: x, Y: y})
	return p
}

// RemovePiece removes a piece. It is a no-op if the piece is gone.
func (pw *PhysicsWorld) RemovePiece(id uint64) {
	pw.Remove(id, messages.RemovedDirect)
}

// Remove removes a piece with an explicit reason and reports whether it existed.
func (pw *PhysicsWorld) Remove(id uint64, reason messages.RemoveReason) bool {
	entry, ok := pw.entries[id]
	if !ok {
		return false
	}
	delete(pw.entries, id)

	if spaceEntry, ok := components.Space.First(pw.ecs.World); ok {
		components.Space.Get(spaceEntry).Remove(components.Object.Get(entry).Object)
	}
	pw.ecs.World.Remove(entry.Entity())

	pw.sink.Emit(messages.PieceRemoved{ID: id, Reason: reason})
	return true
}

// Piece returns a snapshot of a live piece.
func (pw *PhysicsWorld) Piece(id uint64) (Piece, bool) {
	entry, ok := pw.entries[id]
	if !ok {
		return Piece{}, false
	}
	return snapshot(entry), true
}

// Pieces returns every live piece ordered by ID.
func (pw *PhysicsWorld) Pieces() []Piece {
	out := make([]Piece, 0, len(pw.entries))
	for _, id := range pw.sortedIDs() {
		out = append(out, snapshot(pw.entries[id]))
	}
	return out
}

// Count returns the number of live pieces.
func (pw *PhysicsWorld) Count() int {
	return len(pw.entries)
}

func (pw *PhysicsWorld) Pause()       { pw.paused = true }
func (pw *PhysicsWorld) Resume()      { pw.paused = false }
func (pw *PhysicsWorld) Paused() bool { return pw.paused }

// Stats returns counters since construction.
func (pw *PhysicsWorld) Stats() PhysicsStats {
	s := pw.stats
	s.Bodies = len(pw.entries)
	return s
}

// Reset removes every piece and clears integrator state. Walls stay.
func (pw *PhysicsWorld) Reset() {
	for _, id := range pw.sortedIDs() {
		pw.Remove(id, messages.RemovedReset)
	}
	clear(pw.contacts)
	pw.accumulator = 0
	pw.paused = false
}

// Step advances the simulation by dt in fixed sub-steps. Leftover time is
// carried to the next call; backlog beyond MaxSubSteps is dropped.
func (pw *PhysicsWorld) Step(dt time.Duration) {
	if pw.paused {
		return
	}

	h := pw.cfg.Physics.TimeStep
	pw.accumulator += dt
	steps := 0
	for pw.accumulator >= h && steps < pw.cfg.Physics.MaxSubSteps {
		pw.subStep(h.Seconds())
		pw.accumulator -= h
		steps++
	}
	if pw.accumulator >= h {
		pw.accumulator = 0
	}

	pw.cleanupOutOfBounds()
	pw.enforceBodyLimit()
}

func (pw *PhysicsWorld) subStep(dt float64) {
	pw.stats.SubSteps++
	ids := pw.sortedIDs()

	for _, id := range ids {
		integrate(components.Body.Get(pw.entries[id]), pw.cfg.Physics.Gravity*1000, dt)
	}

	touching := pw.solveContacts(ids)

	var started []PairKey
	for key := range touching {
		if _, ok := pw.contacts[key]; !ok {
			started = append(started, key)
		}
	}
	pw.contacts = touching

	slices.SortFunc(started, comparePairKeys)
	for _, key := range started {
		CollisionStartEvent.Publish(pw.ecs.World, messages.CollisionStart{A: key.Lo, B: key.Hi})
	}
	CollisionStartEvent.ProcessEvents(pw.ecs.World)
}

func (pw *PhysicsWorld) cleanupOutOfBounds() {
	limit := pw.cfg.Arena.Height + pw.cfg.Arena.OutOfBoundsY
	for _, id := range pw.sortedIDs() {
		body := components.Body.Get(pw.entries[id])
		if body.Position.Y > limit {
			pw.Remove(id, messages.RemovedOutOfBounds)
		}
	}
}

// enforceBodyLimit evicts the lowest (tier, creation order) pieces first.
func (pw *PhysicsWorld) enforceBodyLimit() {
	excess := len(pw.entries) - pw.cfg.Physics.MaxBodies
	if excess <= 0 {
		return
	}

	pieces := pw.Pieces()
	slices.SortFunc(pieces, func(a, b Piece) int {
		if a.TierID != b.TierID {
			return a.TierID - b.TierID
		}
		return compareIDs(a.ID, b.ID)
	})
	for _, p := range pieces[:excess] {
		pw.Remove(p.ID, messages.RemovedEvicted)
	}
	pw.stats.Evictions += uint64(excess)
	log.Printf("[physics] evicted %d pieces over cap %d", excess, pw.cfg.Physics.MaxBodies)
}

func (pw *PhysicsWorld) sortedIDs() []uint64 {
	return slices.Sorted(maps.Keys(pw.entries))
}

// MakeSticky damps a piece so a merge candidate is not bounced apart. The
// piece's own material is restored when the last holder releases it.
func (pw *PhysicsWorld) MakeSticky(id uint64, velocityScale, restitution, friction float64) bool {
	entry, ok := pw.entries[id]
	if !ok {
		return false
	}
	body := components.Body.Get(entry)
	mat := components.Material.Get(entry)

	body.Velocity.X *= velocityScale
	body.Velocity.Y *= velocityScale
	body.AngularVelocity *= velocityScale
	body.Restitution = restitution
	body.Friction = friction
	mat.Sticky++
	return true
}

// ReleaseSticky drops one hold on a piece's material override.
func (pw *PhysicsWorld) ReleaseSticky(id uint64) {
	entry, ok := pw.entries[id]
	if !ok {
		return
	}
	mat := components.Material.Get(entry)
	if mat.Sticky == 0 {
		return
	}
	mat.Sticky--
	if mat.Sticky == 0 {
		body := components.Body.Get(entry)
		body.Restitution = mat.Restitution
		body.Friction = mat.Friction
	}
}

// Accelerate applies a constant acceleration (px/s²) to a piece for dt.
func (pw *PhysicsWorld) Accelerate(id uint64, ax, ay float64, dt time.Duration) {
	entry, ok := pw.entries[id]
	if !ok {
		return
	}
	body := components.Body.Get(entry)
	s := dt.Seconds()
	body.Velocity.X += ax * s
	body.Velocity.Y += ay * s
}

func snapshot(entry *donburi.Entry) Piece {
	piece := components.Piece.Get(entry)
	body := components.Body.Get(entry)
	return Piece{
		ID:              piece.ID,
		TierID:          piece.TierID,
		Radius:          body.Radius,
		X:               body.Position.X,
		Y:               body.Position.Y,
		VX:              body.Velocity.X,
		VY:              body.Velocity.Y,
		Angle:           body.Angle,
		AngularVelocity: body.AngularVelocity,
		Restitution:     body.Restitution,
		Friction:        body.Friction,
	}
}

func compareIDs(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
