// Command sim plays games headlessly with a bot and reports the results.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/core"
	"github.com/automoto/novadrop/shared/clock"
	"github.com/automoto/novadrop/shared/messages"
)

type tally struct {
	merges, clears, evictions, maxCombo int
}

func (t *tally) Emit(ev messages.Event) {
	switch ev := ev.(type) {
	case messages.MergeComplete:
		t.merges++
	case messages.BigClear:
		t.clears++
	case messages.PieceRemoved:
		if ev.Reason == messages.RemovedEvicted {
			t.evictions++
		}
	case messages.ComboUpdate:
		t.maxCombo = max(t.maxCombo, ev.Count)
	}
}

func main() {
	games := flag.Int("games", 5, "Number of games to play")
	seed := flag.Int64("seed", 42, "Random seed for the bag and the bot")
	tickRate := flag.Int("tickrate", 60, "Simulation ticks per second")
	maxTicks := flag.Int("maxticks", 60*60*30, "Give up on a game after this many ticks")
	realtime := flag.Bool("realtime", false, "Run one game at wall-clock speed")
	flag.Parse()

	c := config.Default()
	if *realtime {
		runRealtime(c, *seed, *tickRate)
		return
	}

	for g := 0; g < *games; g++ {
		clk := clock.NewManual(time.Unix(0, 0))
		var t tally
		session, err := core.NewSession(c, core.Options{
			Clock: clk,
			Rand:  rand.New(rand.NewSource(*seed + int64(g))),
			Sink:  &t,
		})
		if err != nil {
			log.Fatalf("[sim] fatal: %v", err)
		}
		loop := core.NewGameLoop(session, *tickRate)
		bot := core.NewBot(session, *seed+int64(g))
		loop.OnTick(func() { bot.Act() })

		ticks := 0
		for !session.IsGameOver() && ticks < *maxTicks {
			clk.Advance(loop.Interval())
			loop.Step()
			ticks++
		}
		stats := session.Stats()
		log.Printf("[sim] game %d: score=%d turns=%d merges=%d clears=%d maxCombo=%d evictions=%d bodies=%d over=%v (%s simulated)",
			g+1, session.Score(), session.Turn(), t.merges, t.clears, t.maxCombo, t.evictions,
			stats.Bodies, session.IsGameOver(), time.Duration(ticks)*loop.Interval())
	}
}

func runRealtime(c config.Config, seed int64, tickRate int) {
	session, err := core.NewSession(c, core.Options{Rand: rand.New(rand.NewSource(seed))})
	if err != nil {
		log.Fatalf("[sim] fatal: %v", err)
	}
	loop := core.NewGameLoop(session, tickRate)
	bot := core.NewBot(session, seed)
	loop.OnTick(func() {
		bot.Act()
		if session.IsGameOver() {
			log.Printf("[sim] game over: score=%d turns=%d", session.Score(), session.Turn())
			loop.Stop()
		}
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[sim] shutting down...")
		loop.Stop()
	}()

	loop.Run()
}
