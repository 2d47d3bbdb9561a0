package system

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/milk9111/rengine/input"
	"go.uber.org/zap"
)

// Movement actions every controller relies on.
const (
	ActionUp    = "up"
	ActionDown  = "down"
	ActionLeft  = "left"
	ActionRight = "right"
)

var errScriptBroken = errors.New("script failed to load earlier")

// ScriptSource returns the source of a named controller script.
type ScriptSource func(name string) ([]byte, error)

// ControllerSystem moves entities carrying a Controller from the current
// action states. Scripts are compiled once per name and shared.
type ControllerSystem struct {
	actions *input.ActionMap
	scripts ScriptSource
	logger  *zap.Logger

	compiled map[string]*tengo.Compiled
	broken   map[string]bool
}

func NewControllerSystem(actions *input.ActionMap, scripts ScriptSource, logger *zap.Logger) (*ControllerSystem, error) {
	if actions == nil {
		return nil, fmt.Errorf("controller system: nil action map")
	}
	if err := actions.Require(ActionUp, ActionDown, ActionLeft, ActionRight); err != nil {
		return nil, fmt.Errorf("controller system: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ControllerSystem{
		actions:  actions,
		scripts:  scripts,
		logger:   logger,
		compiled: make(map[string]*tengo.Compiled),
		broken:   make(map[string]bool),
	}, nil
}

func (s *ControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var snapshot map[string]any
	for _, e := range w.Query(component.ControllerComponent.Kind(), component.TransformComponent.Kind()) {
		c, _ := ecs.Get(w, e, component.ControllerComponent)
		t, _ := ecs.Get(w, e, component.TransformComponent)

		var dx, dy int
		if c.Script == "" {
			dx, dy = s.builtin(c.Speed)
		} else {
			if snapshot == nil {
				snapshot = s.snapshot()
			}
			var err error
			dx, dy, err = s.run(c, t, snapshot)
			if errors.Is(err, errScriptBroken) {
				continue
			}
			if err != nil {
				s.logger.Warn("controller script failed", zap.Stringer("entity", e), zap.String("script", c.Script), zap.Error(err))
				continue
			}
		}
		if dx == 0 && dy == 0 {
			continue
		}
		t.X += dx
		t.Y += dy
		_ = ecs.Add(w, e, component.TransformComponent, t)
	}
}

func (s *ControllerSystem) builtin(speed int) (int, int) {
	var dx, dy int
	if s.held(ActionUp) {
		dy -= speed
	}
	if s.held(ActionDown) {
		dy += speed
	}
	if s.held(ActionLeft) {
		dx -= speed
	}
	if s.held(ActionRight) {
		dx += speed
	}
	return dx, dy
}

func (s *ControllerSystem) held(name string) bool {
	ok, _ := s.actions.IsHeld(name)
	return ok
}

// snapshot exposes every action to scripts as
// {held, just_pressed, just_released}.
func (s *ControllerSystem) snapshot() map[string]any {
	out := make(map[string]any, len(s.actions.Names()))
	for _, name := range s.actions.Names() {
		st, _ := s.actions.State(name)
		out[name] = map[string]any{
			"held":          st.Held(),
			"just_pressed":  st == input.JustPressed,
			"just_released": st == input.JustReleased,
		}
	}
	return out
}

func (s *ControllerSystem) run(c component.Controller, t component.Transform, actions map[string]any) (int, int, error) {
	compiled, err := s.script(c.Script)
	if err != nil {
		return 0, 0, err
	}
	for name, v := range map[string]any{"actions": actions, "x": t.X, "y": t.Y, "speed": c.Speed} {
		if err := compiled.Set(name, v); err != nil {
			return 0, 0, fmt.Errorf("set %s: %w", name, err)
		}
	}
	if err := compiled.Run(); err != nil {
		return 0, 0, err
	}
	return compiled.Get("dx").Int(), compiled.Get("dy").Int(), nil
}

func (s *ControllerSystem) script(name string) (*tengo.Compiled, error) {
	if c, ok := s.compiled[name]; ok {
		return c, nil
	}
	if s.broken[name] {
		return nil, errScriptBroken
	}
	if s.scripts == nil {
		s.broken[name] = true
		return nil, fmt.Errorf("no script source for %q", name)
	}

	src, err := s.scripts(name)
	if err != nil {
		s.broken[name] = true
		return nil, fmt.Errorf("load script %q: %w", name, err)
	}

	script := tengo.NewScript(src)
	_ = script.Add("actions", map[string]any{})
	_ = script.Add("x", 0)
	_ = script.Add("y", 0)
	_ = script.Add("speed", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		s.broken[name] = true
		return nil, fmt.Errorf("compile script %q: %w", name, err)
	}
	s.compiled[name] = compiled
	return compiled, nil
}
