package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/insect2d/insect2d/ecs/entity"
	"github.com/insect2d/insect2d/ecs/system"
	"github.com/insect2d/insect2d/prefabs"
	"golang.org/x/image/colornames"
)

type Game struct {
	frames int
	debug  bool
	paused bool

	world      *ecs.World
	render     *system.RenderSystem
	physics    *system.PhysicsSystem
	locomotion *system.LocomotionSystem
	eventLog   *system.EventLogSystem

	player     ecs.Entity
	camera     ecs.Entity
	levelName  string
	blocks     []ecs.Entity
	background color.Color

	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher
}

func NewGame(levelName string, debug, watch bool) (*Game, error) {
	g := &Game{
		debug:      debug,
		world:      ecs.NewWorld(),
		render:     system.NewRenderSystem(),
		physics:    system.NewPhysicsSystem(),
		locomotion: system.NewLocomotionSystem(debug),
		eventLog:   system.NewEventLogSystem(0),
		levelName:  levelName,
		background: colornames.Black,
	}

	g.world.AddSystem(system.NewInputSystem())
	g.world.AddSystem(system.NewPlayerControllerSystem())
	g.world.AddSystem(g.physics)
	g.world.AddSystem(g.locomotion)
	g.world.AddSystem(system.NewAnimationSystem())
	g.world.AddSystem(system.NewCameraSystem())
	g.world.AddSystem(g.eventLog)

	if err := g.loadLevel(); err != nil {
		return nil, err
	}

	player, err := entity.NewPlayer(g.world)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g.player = player

	camera, err := entity.NewCamera(g.world)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g.camera = camera

	if watch {
		dirs := []string{prefabs.Dir()}
		if levelDir := filepath.Dir(prefabs.DiskPath(levelName)); levelDir != filepath.Clean(prefabs.Dir()) {
			dirs = append(dirs, levelDir)
		}
		w, err := prefabs.NewWatcher(dirs...)
		if err != nil {
			log.Printf("prefabs: watch %s disabled: %v", prefabs.Dir(), err)
		} else {
			g.watcher = w
		}
	}

	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("prefabs: close watcher: %v", err)
		}
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.paused {
		g.pauseUI.Update()
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.paused = false
		}
		return nil
	}

	g.applyReloads()
	g.world.Update()

	if input, ok := ecs.Get(g.world, g.player, component.InputComponent); ok && input.PausePressed {
		g.paused = true
		g.pauseUI = NewPauseUI(g)
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	g.render.Draw(g.world, screen)

	if g.debug {
		system.DrawPhysicsDebug(g.physics.Space(), g.world, screen)
		ebitenutil.DebugPrint(screen, g.debugText())
	}

	if g.paused && g.pauseUI != nil {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// locomotionReadout describes the player's locomotion state in one line.
func (g *Game) locomotionReadout() string {
	loco, ok := ecs.Get(g.world, g.player, component.LocomotionComponent)
	if !ok || loco.Machine == nil {
		return "locomotion: not started"
	}
	clip := ""
	if anim, ok := ecs.Get(g.world, g.player, component.AnimationComponent); ok {
		clip = anim.Current
	}
	return fmt.Sprintf("status: %s  run: %s  clip: %s  recheck pending: %v",
		loco.Machine.Status(), loco.Machine.RunPhase(), clip, loco.Machine.Pending())
}

func (g *Game) debugText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Frames: %d    FPS: %.2f\n", g.frames, ebiten.ActualFPS())
	b.WriteString(g.locomotionReadout())
	b.WriteString("\n")
	if body, ok := ecs.Get(g.world, g.player, component.PhysicsBodyComponent); ok && body.Body != nil {
		v := body.Body.Velocity()
		fmt.Fprintf(&b, "velocity: (%.1f, %.1f)  grounded: %v\n", v.X, v.Y, body.Grounded)
	}
	fmt.Fprintf(&b, "timers: %d\n", g.locomotion.Timers().Len())
	for _, line := range g.eventLog.Lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Game) loadLevel() error {
	lvl, err := prefabs.LoadLevelSpec(g.levelName)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	for _, e := range g.blocks {
		g.world.DestroyEntity(e)
	}
	blocks, err := entity.LoadLevelToWorld(g.world, lvl)
	g.blocks = blocks
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.background = lvl.Background.Or(colornames.Black)
	return nil
}

// applyReloads rebuilds whatever the prefab watcher reported since the last
// frame. A broken edit is logged and the previous state kept.
func (g *Game) applyReloads() {
	for _, name := range g.watcher.Poll() {
		var err error
		switch {
		case prefabs.IsPrefab(name, "player.yaml"):
			var spec *prefabs.PlayerSpec
			if spec, err = prefabs.LoadPlayerSpec(); err == nil {
				err = entity.ReloadPlayer(g.world, g.player, spec)
			}
		case prefabs.IsPrefab(name, "camera.yaml"):
			var spec *prefabs.CameraSpec
			if spec, err = prefabs.LoadCameraSpec(); err == nil {
				err = entity.ReloadCamera(g.world, g.camera, spec)
			}
		case prefabs.IsPrefab(name, g.levelName):
			err = g.loadLevel()
		default:
			continue
		}
		if err != nil {
			log.Printf("prefabs: reload %s: %v", name, err)
			continue
		}
		log.Printf("prefabs: reloaded %s", name)
		g.world.Events().Push(ecs.Event{Type: ecs.EventPrefabReloaded, Data: name})
	}
}
