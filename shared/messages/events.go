// Package messages defines the events the simulation core emits. Every event
// is a concrete type implementing Event, delivered synchronously within the
// tick that produced it.
package messages

import "github.com/automoto/novadrop/shared/scoreapi"

// Event is implemented by every core event type
type Event interface {
	isEvent()
}

// RemoveReason explains why a piece left the world
type RemoveReason int

const (
	RemovedDirect RemoveReason = iota
	RemovedMerged
	RemovedCleared
	RemovedOutOfBounds
	RemovedEvicted
	RemovedReset
)

func (r RemoveReason) String() string {
	switch r {
	case RemovedMerged:
		return "merged"
	case RemovedCleared:
		return "cleared"
	case RemovedOutOfBounds:
		return "out-of-bounds"
	case RemovedEvicted:
		return "evicted"
	case RemovedReset:
		return "reset"
	default:
		return "removed"
	}
}

// CollisionStart is published when two pieces begin touching. Boundaries never appear.
type CollisionStart struct {
	A, B uint64 // A < B
}

// PieceCreated is emitted for drops and merge results
type PieceCreated struct {
	ID     uint64
	TierID int
	X, Y   float64
}

// PieceRemoved is emitted whenever a piece leaves the world
type PieceRemoved struct {
	ID     uint64
	Reason RemoveReason
}

// PieceMoved is emitted once per tick for every live piece
type PieceMoved struct {
	ID    uint64
	X, Y  float64
	Angle float64
}

// MergeComplete is emitted when a confirmed pair grows into the next tier
type MergeComplete struct {
	NewPieceID   uint64
	PreviousTier int
	Score        int
	Multiplier   float64
}

// BigClear is emitted when a terminal-tier pair is cleared
type BigClear struct {
	TierID     int
	X, Y       float64
	Score      int
	Multiplier float64
}

// ComboUpdate is emitted on every combo increment and when a combo decays
type ComboUpdate struct {
	Count      int
	Multiplier float64
}

// DangerVisible is emitted when the advisory danger indicator changes
type DangerVisible struct {
	Visible bool
}

// GameOver is emitted exactly once per session
type GameOver struct {
	FinalScore int
}

// TurnAdvanced is emitted after every accepted drop
type TurnAdvanced struct {
	Turn        int
	CurrentTier int
	NextTier    int
}

// ScoreChanged is emitted whenever the running score changes
type ScoreChanged struct {
	Score int
}

// ScoreSubmitted is emitted on the tick a submission result arrives
type ScoreSubmitted struct {
	Placement int
	ISOWeek   string
	EntryID   string
}

// ScoreSubmitFailed is emitted on the tick a submission error arrives
type ScoreSubmitFailed struct {
	Message string
}

// LeaderboardLoaded is emitted on the tick a leaderboard refresh arrives
type LeaderboardLoaded struct {
	Board scoreapi.Leaderboard
}

func (CollisionStart) isEvent()    {}
func (PieceCreated) isEvent()      {}
func (PieceRemoved) isEvent()      {}
func (PieceMoved) isEvent()        {}
func (MergeComplete) isEvent()     {}
func (BigClear) isEvent()          {}
func (ComboUpdate) isEvent()       {}
func (DangerVisible) isEvent()     {}
func (GameOver) isEvent()          {}
func (TurnAdvanced) isEvent()      {}
func (ScoreChanged) isEvent()      {}
func (ScoreSubmitted) isEvent()    {}
func (ScoreSubmitFailed) isEvent() {}
func (LeaderboardLoaded) isEvent() {}

// Sink receives events
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event
var Discard Sink = SinkFunc(func(Event) {})

// Recorder collects events in order. It is not safe for concurrent use; the
// core only emits from the tick goroutine.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Reset clears recorded events
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Of returns the recorded events of type T in emission order.
func Of[T Event](r *Recorder) []T {
	var out []T
	for _, e := range r.Events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
