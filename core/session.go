package core

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/shared/clock"
	"github.com/automoto/novadrop/shared/gamemath"
	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/shared/scoreapi"
	"github.com/automoto/novadrop/systems"
	"github.com/yohamta/donburi/ecs"
)

var (
	ErrGameOver       = errors.New("session: game over")
	ErrDropInProgress = errors.New("session: drop in progress")
	ErrRateLimited    = systems.ErrRateLimited
	ErrNotOver        = errors.New("session: game still running")
	ErrNoSubmitter    = errors.New("session: no score submitter configured")
)

// Options carries the session's collaborators. Zero values fall back to the
// system clock, a clock-seeded rand, a discarding sink and no score handler.
type Options struct {
	Clock    clock.Clock
	Rand     *rand.Rand
	Sink     messages.Sink
	GameOver *GameOverHandler
}

// Session orchestrates one game: physics, merges, spawning and danger, all
// advanced from the single tick goroutine.
type Session struct {
	cfg     cfg.Config
	clock   clock.Clock
	sink    messages.Sink
	handler *GameOverHandler

	world   *systems.PhysicsWorld
	merge   *systems.MergeSystem
	spawner *systems.Spawner
	danger  *systems.DangerTracker

	score      int
	lastDropAt time.Time
	dropped    bool
	gameOver   bool
}

// NewSession validates the config and wires the systems together.
func NewSession(c cfg.Config, opts Options) (*Session, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Sink == nil {
		opts.Sink = messages.Discard
	}

	s := &Session{
		cfg:     c,
		clock:   opts.Clock,
		sink:    opts.Sink,
		handler: opts.GameOver,
	}
	internal := messages.SinkFunc(s.emit)

	spawner, err := systems.NewSpawner(c, opts.Clock, opts.Rand)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.spawner = spawner
	s.world = systems.NewPhysicsWorld(c, internal)
	s.merge = systems.NewMergeSystem(c, s.world, opts.Clock, internal)
	s.danger = systems.NewDangerTracker(c.Danger, s.world, internal)

	return s, nil
}

// emit keeps the running score, queues audio cues and forwards to the host.
func (s *Session) emit(ev messages.Event) {
	scored := false
	switch ev := ev.(type) {
	case messages.MergeComplete:
		scored = s.addScore(ev.Score)
	case messages.BigClear:
		scored = s.addScore(ev.Score)
	}
	systems.PlaySFX(s.world.ECS(), systems.CueFor(ev))
	s.sink.Emit(ev)
	if scored {
		s.sink.Emit(messages.ScoreChanged{Score: s.score})
	}
}

func (s *Session) addScore(points int) bool {
	if points <= 0 {
		return false
	}
	s.score += points
	return true
}

// Tick advances physics, resolves merges, updates danger tracking and reports
// piece positions. Finished submissions are delivered here as well.
func (s *Session) Tick(dt time.Duration) {
	if !s.gameOver {
		now := s.clock.Now()
		s.world.Step(dt)
		s.merge.Update(now, dt)
		s.danger.Update(now, s.spawner.TurnCount())
		for _, p := range s.world.Pieces() {
			s.sink.Emit(messages.PieceMoved{ID: p.ID, X: p.X, Y: p.Y, Angle: p.Angle})
		}
	}
	if s.handler != nil {
		s.handler.Poll(messages.SinkFunc(s.emit))
	}
}

// Drop releases the current piece at x, clamped so it fits between the
// walls. Rejected drops leave every piece of state untouched.
func (s *Session) Drop(x float64) (systems.Piece, error) {
	if s.gameOver {
		return systems.Piece{}, ErrGameOver
	}
	now := s.clock.Now()
	if s.dropped && now.Sub(s.lastDropAt) < s.cfg.Arena.DropLockout {
		return systems.Piece{}, ErrDropInProgress
	}
	tier, err := s.spawner.ConsumePiece()
	if err != nil {
		return systems.Piece{}, err
	}

	x = gamemath.Clamp(x, tier.Radius, s.cfg.Arena.Width-tier.Radius)
	p := s.world.CreatePiece(tier, x, s.cfg.Arena.DropY)
	s.lastDropAt = now
	s.dropped = true
	s.danger.NoteDrop(now)

	turn := s.spawner.TurnCount()
	s.emit(messages.TurnAdvanced{
		Turn:        turn,
		CurrentTier: s.spawner.CurrentTier().ID,
		NextTier:    s.spawner.NextTier().ID,
	})
	if s.danger.CheckTurn(turn) {
		s.endGame()
	}
	return p, nil
}

func (s *Session) endGame() {
	s.gameOver = true
	s.world.Pause()
	log.Printf("[session] game over: score=%d turns=%d", s.score, s.spawner.TurnCount())
	s.emit(messages.GameOver{FinalScore: s.score})
}

// Reset starts a fresh game. In-flight submissions are cancelled and their
// results discarded.
func (s *Session) Reset() {
	if s.handler != nil {
		s.handler.Cancel()
	}
	wasVisible := s.danger.Visible()

	s.world.Reset()
	s.merge.Reset()
	s.danger.Reset()
	s.spawner.Reset()
	s.score = 0
	s.dropped = false
	s.lastDropAt = time.Time{}
	s.gameOver = false

	if wasVisible {
		s.sink.Emit(messages.DangerVisible{Visible: false})
	}
	s.sink.Emit(messages.ScoreChanged{Score: 0})
	s.sink.Emit(messages.TurnAdvanced{
		Turn:        0,
		CurrentTier: s.spawner.CurrentTier().ID,
		NextTier:    s.spawner.NextTier().ID,
	})
}

// SubmitScore sends the final score once the game is over. The result arrives
// as ScoreSubmitted or ScoreSubmitFailed on a later Tick.
func (s *Session) SubmitScore(nickname, email string) error {
	if !s.gameOver {
		return ErrNotOver
	}
	if s.handler == nil {
		return ErrNoSubmitter
	}
	return s.handler.Submit(scoreapi.SubmitRequest{
		Nickname: nickname,
		Score:    s.score,
		Email:    email,
	})
}

// RefreshLeaderboard requests the board for an ISO week, or the current week
// when week is empty.
func (s *Session) RefreshLeaderboard(week string) error {
	if s.handler == nil {
		return ErrNoSubmitter
	}
	s.handler.Refresh(week)
	return nil
}

func (s *Session) Config() cfg.Config          { return s.cfg }
func (s *Session) Score() int                  { return s.score }
func (s *Session) IsGameOver() bool            { return s.gameOver }
func (s *Session) Turn() int                   { return s.spawner.TurnCount() }
func (s *Session) CurrentTier() cfg.Tier       { return s.spawner.CurrentTier() }
func (s *Session) NextTier() cfg.Tier          { return s.spawner.NextTier() }
func (s *Session) Combo() systems.ComboState   { return s.merge.Combo() }
func (s *Session) DangerVisible() bool         { return s.danger.Visible() }
func (s *Session) CooldownProgress() float64   { return s.spawner.CooldownProgress() }
func (s *Session) Pieces() []systems.Piece     { return s.world.Pieces() }
func (s *Session) Stats() systems.PhysicsStats { return s.world.Stats() }
func (s *Session) ECS() *ecs.ECS               { return s.world.ECS() }

// Piece returns a snapshot of a live piece.
func (s *Session) Piece(id uint64) (systems.Piece, bool) {
	return s.world.Piece(id)
}

// CanDrop reports whether Drop would currently be accepted.
func (s *Session) CanDrop() bool {
	if s.gameOver || !s.spawner.CanDrop() {
		return false
	}
	return !s.dropped || s.clock.Now().Sub(s.lastDropAt) >= s.cfg.Arena.DropLockout
}
