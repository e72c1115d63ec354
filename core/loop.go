package core

import (
	"log"
	"sync"
	"time"
)

// GameLoop drives a session at a fixed tick rate.
type GameLoop struct {
	session  *Session
	tickRate int
	running  bool
	stopChan chan struct{}
	stopOnce sync.Once
	onTick   []func()
}

func NewGameLoop(session *Session, tickRate int) *GameLoop {
	if tickRate < 1 {
		tickRate = 60
	}
	return &GameLoop{
		session:  session,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
	}
}

// OnTick registers a hook that runs after every tick.
func (g *GameLoop) OnTick(fn func()) {
	g.onTick = append(g.onTick, fn)
}

// Interval is the wall time between ticks.
func (g *GameLoop) Interval() time.Duration {
	return time.Second / time.Duration(g.tickRate)
}

// Run ticks in real time until Stop is called.
func (g *GameLoop) Run() {
	g.running = true
	ticker := time.NewTicker(g.Interval())
	defer ticker.Stop()

	log.Printf("[loop] started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			g.running = false
			log.Println("[loop] stopped")
			return
		case <-ticker.C:
			g.Step()
		}
	}
}

func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() { close(g.stopChan) })
}

// Step runs a single tick. Headless hosts with a manual clock call it
// directly instead of Run.
func (g *GameLoop) Step() {
	g.session.Tick(g.Interval())
	for _, fn := range g.onTick {
		fn()
	}
}
