package core

import (
	"errors"
	"log"
	"math"
	"math/rand"
)

// Bot plays a session by itself. Most drops aim at the highest piece of the
// same tier as the one in hand; the rest land at random.
type Bot struct {
	session *Session
	rng     *rand.Rand
	aim     float64 // Probability of aiming at a matching piece
	drops   int
}

func NewBot(session *Session, seed int64) *Bot {
	return &Bot{
		session: session,
		rng:     rand.New(rand.NewSource(seed)),
		aim:     0.7,
	}
}

// Act drops a piece if the session would accept one. It returns true on a
// drop.
func (b *Bot) Act() bool {
	if !b.session.CanDrop() {
		return false
	}
	if _, err := b.session.Drop(b.target()); err != nil {
		if !errors.Is(err, ErrRateLimited) && !errors.Is(err, ErrDropInProgress) {
			log.Printf("[bot] drop rejected: %v", err)
		}
		return false
	}
	b.drops++
	return true
}

// Drops returns how many pieces the bot has dropped.
func (b *Bot) Drops() int { return b.drops }

func (b *Bot) target() float64 {
	width := b.session.Config().Arena.Width
	if b.rng.Float64() < b.aim {
		tier := b.session.CurrentTier().ID
		bestY := math.Inf(1)
		x, found := 0.0, false
		for _, p := range b.session.Pieces() {
			if p.TierID == tier && p.Y < bestY {
				bestY, x, found = p.Y, p.X, true
			}
		}
		if found {
			return x
		}
	}
	return b.rng.Float64() * width
}
