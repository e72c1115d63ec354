package main

import (
	"context"
	"flag"
	"image"
	"log"
	"time"

	"github.com/automoto/novadrop/assets"
	"github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/fonts"
	"github.com/automoto/novadrop/network"
	"github.com/automoto/novadrop/scenes"
	"github.com/automoto/novadrop/shared/scoreapi"
	"github.com/automoto/novadrop/systems"
	"github.com/automoto/novadrop/systems/render"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds   image.Rectangle
	scene    Scene
	services *scenes.Services
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame(services *scenes.Services, skipMenu bool) *Game {
	fonts.LoadDefaults()

	g := &Game{
		bounds:   image.Rectangle{},
		services: services,
	}

	if skipMenu {
		g.scene = scenes.NewGameScene(g, services)
	} else {
		g.scene = scenes.NewMenuScene(g, services)
	}

	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	arena := g.services.Config.Arena
	g.bounds = image.Rect(0, 0, int(arena.Width), int(arena.Height))
	return int(arena.Width), int(arena.Height)
}

func main() {
	leaderboardURL := flag.String("leaderboard", "http://localhost:8080", "Leaderboard service URL, empty to play offline")
	appName := flag.String("app", "novadrop", "Application name for local saves")
	skipMenu := flag.Bool("play", false, "Skip the title screen")
	email := flag.String("email", "", "Contact email saved in the profile and sent with scores")
	flag.Parse()

	c := config.Default()
	if err := c.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	services := &scenes.Services{Config: c}
	if *leaderboardURL != "" {
		services.Scores = network.NewScoreClient(*leaderboardURL)
	}

	// A nil store keeps the game running without saves
	services.Profile, _ = systems.OpenProfileStore(*appName)
	if *email != "" {
		saveContact(services, *email)
	}

	if err := assets.LoadShaders(); err != nil {
		log.Printf("Warning: Could not compile shaders, using flat fill: %v", err)
	}
	render.PreloadAllSFX()

	scale := config.Display.WindowScale
	ebiten.SetWindowSize(int(c.Arena.Width*scale), int(c.Arena.Height*scale))
	ebiten.SetWindowTitle("Novadrop")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(NewGame(services, *skipMenu)); err != nil {
		log.Fatal(err)
	}
}

// saveContact stores the email locally and registers it with the leaderboard
// in the background.
func saveContact(services *scenes.Services, email string) {
	profile, err := services.Profile.Load()
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	profile.Email = email
	if err := services.Profile.Save(profile); err != nil {
		log.Printf("Warning: Could not save email: %v", err)
	}
	if services.Scores == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := services.Scores.SaveContact(ctx, scoreapi.UserRequest{
			Email:    email,
			Nickname: profile.Nickname,
		})
		if err != nil {
			log.Printf("[contact] %v", err)
		}
	}()
}
