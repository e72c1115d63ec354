package scenes

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/automoto/novadrop/components"
	cfg "github.com/automoto/novadrop/config"
	"github.com/automoto/novadrop/core"
	"github.com/automoto/novadrop/network"
	"github.com/automoto/novadrop/shared/messages"
	"github.com/automoto/novadrop/systems"
	"github.com/automoto/novadrop/systems/render"
	"github.com/automoto/novadrop/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// GameScene runs one session at a time and restarts it in place
type GameScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	services     *Services
	once         sync.Once

	session   *core.Session
	loop      *core.GameLoop
	handler   *core.GameOverHandler
	submitter network.Submitter
	profile   *systems.SavedProfile
	overlay   *ui.GameOverUI

	aimX       float64
	lastCursor int
	inputChars []rune
}

// NewGameScene creates a new game scene
func NewGameScene(sc SceneChanger, services *Services) *GameScene {
	return &GameScene{sceneChanger: sc, services: services}
}

func (gs *GameScene) Update() {
	gs.once.Do(gs.configure)

	if gs.session.IsGameOver() {
		gs.updateGameOver()
	} else {
		gs.updatePlaying()
	}

	gs.loop.Step()
	gs.ecs.Update()
}

func (gs *GameScene) Draw(screen *ebiten.Image) {
	if gs.ecs == nil {
		screen.Fill(cfg.Display.BackgroundColor)
		return
	}
	gs.ecs.Draw(screen)
	if render.GetOrCreateGameOver(gs.ecs).Active {
		gs.overlay.UI.Draw(screen)
	}
}

func (gs *GameScene) configure() {
	c := gs.services.Config
	if client := gs.services.Scores; client != nil {
		gs.handler = core.NewGameOverHandler(client.SubmitScore, client.Leaderboard)
	}

	session, err := core.NewSession(c, core.Options{
		Sink:     messages.SinkFunc(gs.onEvent),
		GameOver: gs.handler,
	})
	if err != nil {
		log.Fatalf("[game] fatal: %v", err)
	}
	gs.session = session
	gs.ecs = session.ECS()
	gs.loop = core.NewGameLoop(session, ebiten.TPS())
	gs.loop.OnTick(gs.syncHUD)

	p, err := gs.services.Profile.Load()
	if err != nil {
		log.Printf("[game] %v", err)
	}
	gs.profile = p
	systems.SetMuted(gs.ecs, gs.profile.Muted)
	gs.aimX = c.Arena.Width / 2
	gs.lastCursor, _ = ebiten.CursorPosition()

	render.Configure(c)
	gs.overlay = ui.NewGameOverUI(gs.submit, gs.restart)

	dt := float32(gs.loop.Interval().Seconds())
	gs.ecs.AddSystem(render.UpdateAudio)
	gs.ecs.AddSystem(func(e *ecs.ECS) { render.UpdateEffects(e, dt) })

	gs.ecs.AddRenderer(cfg.LayerDefault, render.DrawArena)
	gs.ecs.AddRenderer(cfg.LayerDefault, render.DrawPieces)
	gs.ecs.AddRenderer(cfg.LayerDefault, render.DrawAim)
	gs.ecs.AddRenderer(cfg.LayerHUD, render.DrawEffects)
	gs.ecs.AddRenderer(cfg.LayerHUD, render.DrawHUD)
	gs.ecs.AddRenderer(cfg.LayerHUD, render.DrawGameOver)

	gs.syncHUD()
}

func (gs *GameScene) updatePlaying() {
	c := gs.services.Config

	// Mouse aims only when it moves so the keyboard can take over
	if x, _ := ebiten.CursorPosition(); x != gs.lastCursor {
		gs.lastCursor = x
		gs.aimX = float64(x)
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		gs.aimX -= cfg.Display.AimSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		gs.aimX += cfg.Display.AimSpeed
	}
	gs.aimX = max(0, min(c.Arena.Width, gs.aimX))

	drop := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyDown)
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, _ := ebiten.TouchPosition(id)
		gs.aimX = float64(x)
		drop = true
	}
	if drop {
		gs.drop()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		gs.toggleMute()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		gs.restart()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		gs.leave()
	}
}

func (gs *GameScene) drop() {
	_, err := gs.session.Drop(gs.aimX)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrDropInProgress), errors.Is(err, core.ErrRateLimited):
		// The cooldown bar already shows why
	default:
		log.Printf("[game] drop rejected: %v", err)
	}
}

func (gs *GameScene) updateGameOver() {
	gameOver := render.GetOrCreateGameOver(gs.ecs)

	gs.inputChars = ebiten.AppendInputChars(gs.inputChars[:0])
	for _, r := range gs.inputChars {
		if !unicode.IsPrint(r) || utf8.RuneCountInString(gameOver.Nickname) >= cfg.GameOver.MaxNickname {
			continue
		}
		gameOver.Nickname += string(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && gameOver.Nickname != "" {
		_, size := utf8.DecodeLastRuneInString(gameOver.Nickname)
		gameOver.Nickname = gameOver.Nickname[:len(gameOver.Nickname)-size]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		gs.submit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		gs.leave()
		return
	}

	gs.overlay.UpdateUI(gameOver, gs.canSubmit())
	gs.overlay.UI.Update()
}

func (gs *GameScene) canSubmit() bool {
	if gs.handler == nil {
		return false
	}
	state := gs.submitter.State()
	nickname := strings.TrimSpace(render.GetOrCreateGameOver(gs.ecs).Nickname)
	return nickname != "" && state != network.SubmitPending && state != network.SubmitDone
}

func (gs *GameScene) submit() {
	if !gs.canSubmit() || !gs.submitter.Begin() {
		return
	}
	gameOver := render.GetOrCreateGameOver(gs.ecs)
	nickname := strings.TrimSpace(gameOver.Nickname)
	if err := gs.session.SubmitScore(nickname, gs.profile.Email); err != nil {
		gs.submitter.Abort(err)
	}
	gameOver.Status = gs.submitter.Status()
}

// restart resets the session in place. Pending submissions are discarded.
func (gs *GameScene) restart() {
	gs.session.Reset()
	gs.submitter.Reset()
	render.ClearEffects(gs.ecs)
	gameOver := render.GetOrCreateGameOver(gs.ecs)
	*gameOver = components.GameOverData{}
	gs.syncHUD()
}

func (gs *GameScene) leave() {
	if gs.handler != nil {
		gs.handler.Cancel()
	}
	gs.sceneChanger.ChangeScene(NewMenuScene(gs.sceneChanger, gs.services))
}

func (gs *GameScene) toggleMute() {
	gs.profile.Muted = !gs.profile.Muted
	systems.SetMuted(gs.ecs, gs.profile.Muted)
	if err := gs.services.Profile.Save(gs.profile); err != nil {
		log.Printf("[game] %v", err)
	}
}

// onEvent turns core events into effects and overlay state. It runs on the
// ebiten goroutine inside Tick, Drop and Reset.
func (gs *GameScene) onEvent(ev messages.Event) {
	switch ev := ev.(type) {
	case messages.MergeComplete:
		if p, ok := gs.session.Piece(ev.NewPieceID); ok {
			render.SpawnFlash(gs.ecs, p.X, p.Y, p.Radius)
		}
	case messages.BigClear:
		radius := 60.0
		if tier, ok := gs.services.Config.Tiers.Tier(ev.TierID); ok {
			radius = tier.Radius
		}
		render.SpawnFlash(gs.ecs, ev.X, ev.Y, radius)
		render.ShowBanner(gs.ecs, fmt.Sprintf("CLEAR +%d", ev.Score))
	case messages.ComboUpdate:
		if ev.Count >= 2 {
			render.ShowBanner(gs.ecs, fmt.Sprintf("COMBO x%.1f", ev.Multiplier))
		}
	case messages.DangerVisible:
		render.SetDangerPulse(gs.ecs, ev.Visible)
	case messages.GameOver:
		gs.onGameOver(ev.FinalScore)
	case messages.ScoreSubmitted, messages.ScoreSubmitFailed, messages.LeaderboardLoaded:
		gs.submitter.Observe(ev)
		gameOver := render.GetOrCreateGameOver(gs.ecs)
		gameOver.Status = gs.submitter.Status()
		gameOver.Board = gs.submitter.Board()
		if _, ok := ev.(messages.ScoreSubmitted); ok {
			gs.profile.Nickname = strings.TrimSpace(gameOver.Nickname)
			if err := gs.services.Profile.Save(gs.profile); err != nil {
				log.Printf("[game] %v", err)
			}
		}
	}
}

func (gs *GameScene) onGameOver(score int) {
	render.SetDangerPulse(gs.ecs, false)

	best, err := gs.services.Profile.RecordGame(score)
	if err != nil {
		log.Printf("[game] %v", err)
	}
	// RecordGame saved a fresh copy; keep ours in step
	if p, err := gs.services.Profile.Load(); err == nil {
		gs.profile = p
	}

	gameOver := render.GetOrCreateGameOver(gs.ecs)
	*gameOver = components.GameOverData{
		Active:     true,
		FinalScore: score,
		NewBest:    best,
		Nickname:   gs.profile.Nickname,
	}
	if gs.handler == nil {
		gameOver.Status = "Playing offline"
		return
	}
	if err := gs.session.RefreshLeaderboard(""); err != nil {
		log.Printf("[game] %v", err)
	}
}

// syncHUD copies session values into the HUD after every tick.
func (gs *GameScene) syncHUD() {
	hud := render.GetOrCreateHUD(gs.ecs)
	combo := gs.session.Combo()
	*hud = components.HUDData{
		Score:       gs.session.Score(),
		BestScore:   max(gs.profile.BestScore, gs.session.Score()),
		Turn:        gs.session.Turn(),
		CurrentTier: gs.session.CurrentTier().ID,
		NextTier:    gs.session.NextTier().ID,
		Combo:       combo.Count,
		Multiplier:  combo.Multiplier,
		Cooldown:    gs.session.CooldownProgress(),
		AimX:        gs.aimX,
		CanDrop:     gs.session.CanDrop(),
		Muted:       gs.profile.Muted,
	}
}
