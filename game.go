package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/rengine/assets"
	"github.com/milk9111/rengine/config"
	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/milk9111/rengine/ecs/entity"
	"github.com/milk9111/rengine/ecs/render"
	"github.com/milk9111/rengine/ecs/render/ebitengfx"
	"github.com/milk9111/rengine/ecs/system"
	"github.com/milk9111/rengine/input"
	"github.com/milk9111/rengine/input/ebiteninput"
	"github.com/milk9111/rengine/prefabs"
	"go.uber.org/zap"
)

const (
	actionCancel = "cancel"
	actionPause  = "pause"
	actionBlink  = "blink"
)

var blinkColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

const (
	blinkAmplitude = 1
	blinkSeconds   = 0.75
)

type Game struct {
	cfg    *config.Config
	logger *zap.Logger
	debug  bool

	world  *ecs.World
	camera ecs.Entity
	vp     render.Viewport

	actions  *input.ActionMap
	textures *system.TextureSystem
	input    *system.InputSystem
	logic    *ecs.Scheduler
	renderer *system.RenderSystem

	backend *ebitengfx.Backend
	cache   *render.Cache
	queue   *render.LoadQueue
	watcher *render.Watcher

	pauseUI *ebitenui.UI
	paused  bool
	quit    bool

	drawErr     error
	errorStreak int
}

func NewGame(ctx context.Context, cfg *config.Config, logger *zap.Logger, debug bool) (*Game, error) {
	vp := render.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	if err := vp.Validate(); err != nil {
		return nil, err
	}

	bindings, err := bindingsFromConfig(cfg.Input.Bindings)
	if err != nil {
		return nil, err
	}
	actions, err := input.NewActionMap(cfg.HoldPolicy(), bindings...)
	if err != nil {
		return nil, err
	}
	if err := actions.Require(actionCancel, actionPause, actionBlink); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		debug:   debug,
		world:   ecs.NewWorld(),
		vp:      vp,
		actions: actions,
		backend: ebitengfx.New(),
	}

	loader := render.FileLoader{Root: cfg.Textures.Root, Fallback: assets.Textures}
	g.queue = render.NewLoadQueue(ctx, loader, cfg.Textures.Workers, cfg.Textures.QueueDepth, logger.Named("loader"))
	g.cache = render.NewCache(g.queue,
		render.WithRetryAfter(cfg.Textures.RetryAfter),
		render.WithCacheLogger(logger.Named("cache")),
	)

	var changes <-chan render.Handle
	if cfg.Textures.Watch {
		w, err := render.NewWatcher(cfg.Textures.Root)
		if err != nil {
			logger.Warn("texture hot reload disabled", zap.String("root", cfg.Textures.Root), zap.Error(err))
		} else {
			g.watcher = w
			changes = w.Events
		}
	}
	g.textures = system.NewTextureSystem(g.cache, g.queue.Results(), changes, g.backend.NewTexture, cfg.Textures.MaxUploadsPerFrame, logger)
	g.input = system.NewInputSystem(actions, ebiteninput.NewSource())

	controllers, err := system.NewControllerSystem(actions, prefabs.LoadScript, logger.Named("controller"))
	if err != nil {
		g.Close()
		return nil, err
	}
	g.logic = ecs.NewScheduler(controllers, system.NewBlinkSystem(1/float32(ebiten.TPS())))

	fragment := assets.SpriteShader
	if cfg.Render.FragmentShader != "" {
		src, err := os.ReadFile(cfg.Render.FragmentShader)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("read fragment shader: %w", err)
		}
		fragment = string(src)
	}
	g.renderer, err = system.NewRenderSystem(g.backend, "", fragment,
		system.WithLogger(logger.Named("render")),
		system.WithClearColor(cfg.ClearColor.NRGBA()),
	)
	if err != nil {
		g.Close()
		return nil, err
	}

	scene, err := prefabs.LoadSceneSpec(cfg.Scene)
	if err != nil {
		g.Close()
		return nil, err
	}
	camera, spawned, err := entity.BuildScene(g.world, scene)
	if err != nil {
		if camera == 0 {
			g.Close()
			return nil, err
		}
		logger.Warn("scene spawned with errors", zap.Error(err))
	}
	g.camera = camera
	logger.Info("scene ready", zap.String("scene", scene.Name), zap.Int("entities", len(spawned)))

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func bindingsFromConfig(specs []config.BindingSpec) ([]input.Binding, error) {
	out := make([]input.Binding, 0, len(specs))
	for _, s := range specs {
		if s.Mouse != "" {
			b, err := ebiteninput.ParseMouseButton(s.Mouse)
			if err != nil {
				return nil, fmt.Errorf("binding %q: %w", s.Action, err)
			}
			out = append(out, input.Mouse(s.Action, b))
			continue
		}
		k, err := ebiteninput.ParseKey(s.Key)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", s.Action, err)
		}
		out = append(out, input.Key(s.Action, k))
	}
	return out, nil
}

func (g *Game) Update() error {
	if err := g.checkDrawError(); err != nil {
		return err
	}
	g.drainWatchErrors()

	g.textures.Update(g.world)
	g.input.Update(g.world)

	if g.quit || g.justReleased(actionCancel) {
		return ebiten.Termination
	}
	if g.justPressed(actionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.justPressed(actionBlink) {
		g.startBlink()
	}
	g.logic.Update(g.world)
	return nil
}

// checkDrawError applies the outcome of the previous Draw. Surface loss ends
// the loop at once; other render errors end it only after a streak.
func (g *Game) checkDrawError() error {
	err := g.drawErr
	g.drawErr = nil
	if err == nil {
		g.errorStreak = 0
		return nil
	}
	if render.IsFatal(err) {
		return err
	}
	g.errorStreak++
	g.logger.Error("frame skipped", zap.Int("streak", g.errorStreak), zap.Error(err))
	if limit := g.cfg.Render.MaxConsecutiveErrors; limit > 0 && g.errorStreak >= limit {
		return fmt.Errorf("%d consecutive render failures: %w", g.errorStreak, err)
	}
	return nil
}

func (g *Game) drainWatchErrors() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			g.logger.Warn("texture watcher", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) justPressed(action string) bool {
	ok, _ := g.actions.IsJustPressed(action)
	return ok
}

func (g *Game) justReleased(action string) bool {
	ok, _ := g.actions.IsJustReleased(action)
	return ok
}

func (g *Game) startBlink() {
	for _, e := range g.world.Query(component.ControllerComponent.Kind()) {
		_ = ecs.Add(g.world, e, component.BlinkComponent, component.Blink{
			Color:     blinkColor,
			Amplitude: blinkAmplitude,
			Duration:  blinkSeconds,
		})
	}
}

func (g *Game) view() render.Affine {
	cam, ok := ecs.Get(g.world, g.camera, component.CameraComponent)
	if !ok {
		return render.Identity
	}
	return render.View(cam.X, cam.Y, cam.Zoom)
}

func (g *Game) Draw(screen *ebiten.Image) {
	err := g.renderer.RenderFrame(ebitengfx.NewSurface(screen), render.Ortho(g.vp), g.view(), g.world, g.cache)
	if err != nil {
		g.drawErr = err
	}

	if g.paused {
		g.pauseUI.Draw(screen)
	}

	if g.debug {
		fs, cs := g.renderer.Stats(), g.cache.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.2f    drawn: %d skipped: %d\ntextures: %d loaded, %d requests, %d failures, %d stale",
			ebiten.ActualFPS(), fs.Drawn, fs.Skipped, cs.Loaded, cs.Requests, cs.Failures, cs.Stale,
		))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.vp.Width, g.vp.Height
}

// Close stops the loader workers and the watcher.
func (g *Game) Close() {
	var errs []error
	if g.watcher != nil {
		errs = append(errs, g.watcher.Close())
	}
	if g.queue != nil {
		errs = append(errs, g.queue.Close())
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if err := errors.Join(errs...); err != nil {
		g.logger.Warn("shutdown", zap.Error(err))
	}
}
