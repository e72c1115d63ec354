package network

import (
	"fmt"

	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/shared/scoreapi"
)

type SubmitState int

const (
	SubmitIdle SubmitState = iota
	SubmitPending
	SubmitDone
	SubmitFailed
)

func (s SubmitState) String() string {
	switch s {
	case SubmitPending:
		return "pending"
	case SubmitDone:
		return "done"
	case SubmitFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Submitter tracks one game's score submission for display. It is fed the
// core's events and never blocks.
type Submitter struct {
	state     SubmitState
	lastError string
	placement int
	week      string
	board     *scoreapi.Leaderboard
}

// Begin marks a submission as started. It returns false while one is pending
// or after one succeeded.
func (s *Submitter) Begin() bool {
	if s.state == SubmitPending || s.state == SubmitDone {
		return false
	}
	s.state = SubmitPending
	s.lastError = ""
	return true
}

// Abort records a submission that could not be started.
func (s *Submitter) Abort(err error) {
	s.state = SubmitFailed
	s.lastError = err.Error()
}

// Observe updates state from submission and leaderboard events.
func (s *Submitter) Observe(ev messages.Event) {
	switch ev := ev.(type) {
	case messages.ScoreSubmitted:
		s.state = SubmitDone
		s.placement = ev.Placement
		s.week = ev.ISOWeek
	case messages.ScoreSubmitFailed:
		s.state = SubmitFailed
		s.lastError = ev.Message
	case messages.LeaderboardLoaded:
		board := ev.Board
		s.board = &board
	}
}

func (s *Submitter) State() SubmitState           { return s.state }
func (s *Submitter) Placement() int               { return s.placement }
func (s *Submitter) Board() *scoreapi.Leaderboard { return s.board }

// Status is a one-line description for the game-over screen.
func (s *Submitter) Status() string {
	switch s.state {
	case SubmitPending:
		return "Submitting..."
	case SubmitDone:
		return fmt.Sprintf("#%d this week (%s)", s.placement, s.week)
	case SubmitFailed:
		return s.lastError
	default:
		return ""
	}
}

// Reset forgets the previous game.
func (s *Submitter) Reset() {
	*s = Submitter{}
}
