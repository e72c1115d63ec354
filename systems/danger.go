package systems

import (
	"log"
	"maps"
	"slices"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/messages"
)

// PieceSource is the read side of the physics world.
type PieceSource interface {
	Piece(id uint64) (Piece, bool)
	Pieces() []Piece
}

// DangerTracker counts how many turns pieces linger above the danger line and
// decides game over.
type DangerTracker struct {
	cfg    cfg.DangerConfig
	pieces PieceSource
	sink   messages.Sink

	tracked  map[uint64]int // piece ID -> turn it entered the zone
	lastDrop time.Time
	dropped  bool
	visible  bool
	gameOver bool
}

func NewDangerTracker(c cfg.DangerConfig, pieces PieceSource, sink messages.Sink) *DangerTracker {
	if sink == nil {
		sink = messages.Discard
	}
	return &DangerTracker{
		cfg:     c,
		pieces:  pieces,
		sink:    sink,
		tracked: make(map[uint64]int),
	}
}

// inZone reports whether the piece's top edge is at or above the line.
func (d *DangerTracker) inZone(p Piece) bool {
	return p.Y-p.Radius <= d.cfg.LineY
}

func (d *DangerTracker) suppressed(now time.Time) bool {
	return d.dropped && now.Sub(d.lastDrop) < d.cfg.SuppressWindow
}

// NoteDrop restarts the post-drop suppression window.
func (d *DangerTracker) NoteDrop(now time.Time) {
	d.lastDrop = now
	d.dropped = true
}

// Update tracks pieces entering the zone once suppression has elapsed and
// untracks pieces that left it or no longer exist.
func (d *DangerTracker) Update(now time.Time, turn int) {
	if d.gameOver {
		return
	}
	suppressed := d.suppressed(now)

	live := make(map[uint64]struct{})
	anyInZone := false
	for _, p := range d.pieces.Pieces() {
		live[p.ID] = struct{}{}
		_, isTracked := d.tracked[p.ID]
		if !d.inZone(p) {
			if isTracked {
				delete(d.tracked, p.ID)
			}
			continue
		}
		anyInZone = true
		if !isTracked && !suppressed {
			d.tracked[p.ID] = turn
		}
	}
	for id := range d.tracked {
		if _, ok := live[id]; !ok {
			delete(d.tracked, id)
		}
	}

	visible := len(d.tracked) > 0 || (anyInZone && !suppressed)
	if visible != d.visible {
		d.visible = visible
		d.sink.Emit(messages.DangerVisible{Visible: visible})
	}
}

// CheckTurn runs after every drop. Pieces tracked for TurnLimit turns are
// re-verified; one still in the zone ends the game. It returns true exactly
// once per session.
func (d *DangerTracker) CheckTurn(turn int) bool {
	if d.gameOver {
		return false
	}
	for _, id := range slices.Sorted(maps.Keys(d.tracked)) {
		entered := d.tracked[id]
		if turn-entered < d.cfg.TurnLimit {
			continue
		}
		p, ok := d.pieces.Piece(id)
		if ok && d.inZone(p) {
			d.gameOver = true
			log.Printf("[danger] piece %d held the zone since turn %d, game over at turn %d", id, entered, turn)
			return true
		}
		// Settled below the line since it was flagged
		delete(d.tracked, id)
	}
	return false
}

// Visible is the advisory indicator state.
func (d *DangerTracker) Visible() bool { return d.visible }

// GameOver reports whether the game has ended.
func (d *DangerTracker) GameOver() bool { return d.gameOver }

// EnteredTurn returns the turn a tracked piece entered the zone.
func (d *DangerTracker) EnteredTurn(id uint64) (int, bool) {
	t, ok := d.tracked[id]
	return t, ok
}

// TrackedCount returns the number of tracked pieces.
func (d *DangerTracker) TrackedCount() int {
	return len(d.tracked)
}

// Reset clears tracking, suppression and game over.
func (d *DangerTracker) Reset() {
	clear(d.tracked)
	d.dropped = false
	d.lastDrop = time.Time{}
	d.visible = false
	d.gameOver = false
}
