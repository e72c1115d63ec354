package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/automoto/novadrop/leaderboard"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	appName := flag.String("app", "novadrop-leaderboard", "gdata application name for the score snapshot")
	memory := flag.Bool("memory", false, "Keep scores in memory only")
	flag.Parse()

	var backend leaderboard.Backend = &leaderboard.MemoryBackend{}
	if !*memory {
		b, err := leaderboard.OpenGdataBackend(*appName)
		if err != nil {
			log.Fatalf("[leaderboard] fatal: %v", err)
		}
		backend = b
	}

	store, err := leaderboard.NewStore(backend, nil)
	if err != nil {
		log.Fatalf("[leaderboard] fatal: %v", err)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[leaderboard] starting on %s (week %s, memory=%v)", addr, store.CurrentWeek(), *memory)
	if err := http.ListenAndServe(addr, leaderboard.NewMux(store)); err != nil {
		log.Fatalf("[leaderboard] fatal: %v", err)
	}
}
