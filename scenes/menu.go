package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/fonts"
	"github.com/automoto/novadrop/network"
	"github.com/automoto/novadrop/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

// Services are shared by every scene for the lifetime of the process
type Services struct {
	Config  cfg.Config
	Profile *systems.ProfileStore
	Scores  *network.ScoreClient // nil when playing offline
}

// MenuScene displays the title screen
type MenuScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	services     *Services
	once         sync.Once

	profile *systems.SavedProfile
	online  string
	health  chan error
}

// NewMenuScene creates a new menu scene
func NewMenuScene(sc SceneChanger, services *Services) *MenuScene {
	return &MenuScene{sceneChanger: sc, services: services}
}

func (ms *MenuScene) Update() {
	ms.once.Do(ms.configure)
	ms.ecs.Update()
}

func (ms *MenuScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(cfg.Display.BackgroundColor)

	if ms.ecs == nil {
		return
	}
	ms.ecs.Draw(screen)
}

func (ms *MenuScene) configure() {
	ms.ecs = ecs.NewECS(donburi.NewWorld())
	p, err := ms.services.Profile.Load()
	if err != nil {
		log.Printf("[menu] %v", err)
	}
	ms.profile = p

	if ms.services.Scores != nil {
		ms.online = "checking leaderboard..."
		ms.health = make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ms.health <- ms.services.Scores.Health(ctx)
		}()
	} else {
		ms.online = "offline"
	}

	ms.ecs.AddSystem(ms.updateMenu)
	ms.ecs.AddRenderer(cfg.LayerDefault, ms.drawMenu)
}

func (ms *MenuScene) updateMenu(e *ecs.ECS) {
	select {
	case err := <-ms.health:
		if err != nil {
			ms.online = "leaderboard unreachable"
		} else {
			ms.online = "leaderboard online"
		}
	default:
	}

	start := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	if start {
		ms.sceneChanger.ChangeScene(NewGameScene(ms.sceneChanger, ms.services))
	}
}

func (ms *MenuScene) drawMenu(e *ecs.ECS, screen *ebiten.Image) {
	width := ms.services.Config.Arena.Width
	height := ms.services.Config.Arena.Height

	centered(screen, "NOVADROP", fonts.Title.Get(), width/2, height*0.3, cfg.Display.AccentColor)
	centered(screen, "drop, match, merge", fonts.Regular.Get(), width/2, height*0.3+48, cfg.Display.TextColor)

	if ms.profile != nil && ms.profile.GamesPlayed > 0 {
		stats := fmt.Sprintf("BEST %d   GAMES %d", ms.profile.BestScore, ms.profile.GamesPlayed)
		centered(screen, stats, fonts.Regular.Get(), width/2, height*0.5, cfg.Display.TextColor)
	}

	centered(screen, "CLICK OR PRESS SPACE TO PLAY", fonts.Bold.Get(), width/2, height*0.65, cfg.Display.TextColor)
	centered(screen, ms.online, fonts.Small.Get(), width/2, height-cfg.Display.HUDMargin, cfg.GameOver.TextColorNormal)
}

func centered(screen *ebiten.Image, str string, face font.Face, x, y float64, clr color.Color) {
	w := font.MeasureString(face, str).Ceil()
	text.Draw(screen, str, face, int(x)-w/2, int(y), clr)
}
