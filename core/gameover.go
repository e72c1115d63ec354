package core

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/shared/scoreapi"
)

var ErrSubmitInFlight = errors.New("gameover: submission already in flight")

// SubmitFunc posts a final score.
type SubmitFunc func(ctx context.Context, req scoreapi.SubmitRequest) (scoreapi.SubmitResponse, error)

// RefreshFunc loads a weekly leaderboard. An empty week means the current one.
type RefreshFunc func(ctx context.Context, week string) (scoreapi.Leaderboard, error)

type result struct {
	gen uint64
	ev  messages.Event
}

// GameOverHandler runs score submission and leaderboard refreshes off the tick
// goroutine. Results are buffered until the next Poll; Cancel drops anything
// still pending from the previous game.
type GameOverHandler struct {
	submit  SubmitFunc
	refresh RefreshFunc

	results chan result

	mu       sync.Mutex
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	inFlight bool
	wg       sync.WaitGroup
}

func NewGameOverHandler(submit SubmitFunc, refresh RefreshFunc) *GameOverHandler {
	h := &GameOverHandler{
		submit:  submit,
		refresh: refresh,
		results: make(chan result, 8),
	}
	h.ctx, h.cancel = context.WithCancel(context.Background())
	return h
}

// Submit starts a submission. A successful one also refreshes the board for
// the week the entry landed in.
func (h *GameOverHandler) Submit(req scoreapi.SubmitRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inFlight {
		return ErrSubmitInFlight
	}
	h.inFlight = true
	gen, ctx := h.gen, h.ctx

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		resp, err := h.submit(ctx, req)
		h.mu.Lock()
		if h.gen == gen {
			h.inFlight = false
		}
		h.mu.Unlock()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("[gameover] score submission failed: %v", err)
			h.deliver(ctx, gen, messages.ScoreSubmitFailed{Message: err.Error()})
			return
		}
		h.deliver(ctx, gen, messages.ScoreSubmitted{
			Placement: resp.Placement,
			ISOWeek:   resp.ISOWeek,
			EntryID:   resp.Entry.ID,
		})
		h.load(ctx, gen, resp.ISOWeek)
	}()
	return nil
}

// Refresh loads a leaderboard in the background.
func (h *GameOverHandler) Refresh(week string) {
	h.mu.Lock()
	gen, ctx := h.gen, h.ctx
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		h.load(ctx, gen, week)
	}()
}

func (h *GameOverHandler) load(ctx context.Context, gen uint64, week string) {
	if h.refresh == nil {
		return
	}
	board, err := h.refresh(ctx, week)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("[gameover] leaderboard refresh failed: %v", err)
		}
		return
	}
	h.deliver(ctx, gen, messages.LeaderboardLoaded{Board: board})
}

func (h *GameOverHandler) deliver(ctx context.Context, gen uint64, ev messages.Event) {
	select {
	case h.results <- result{gen: gen, ev: ev}:
	case <-ctx.Done():
	}
}

// Poll forwards every buffered result from the current generation without
// blocking.
func (h *GameOverHandler) Poll(sink messages.Sink) {
	for {
		select {
		case r := <-h.results:
			h.mu.Lock()
			current := r.gen == h.gen
			h.mu.Unlock()
			if current {
				sink.Emit(r.ev)
			}
		default:
			return
		}
	}
}

// Cancel aborts in-flight requests and starts a new generation so late
// results are discarded.
func (h *GameOverHandler) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel()
	h.gen++
	h.inFlight = false
	h.ctx, h.cancel = context.WithCancel(context.Background())
}

// InFlight reports whether a submission is running.
func (h *GameOverHandler) InFlight() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inFlight
}

// Wait blocks until every background request has returned.
func (h *GameOverHandler) Wait() {
	h.wg.Wait()
}

// Close cancels outstanding work and waits for it.
func (h *GameOverHandler) Close() {
	h.Cancel()
	h.Wait()
}
