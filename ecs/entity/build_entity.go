package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/milk9111/rengine/ecs/render"
	"github.com/milk9111/rengine/prefabs"
)

type componentBuildFn func(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error

// componentBuildOrder lists the builders in the order components are added.
var componentBuildOrder = []componentBuildFn{
	addName,
	addTransform,
	addSprite,
	addBlink,
	addTint,
	addController,
}

// BuildEntity spawns one entity from spec. Nothing is left in the world if
// a component is rejected.
func BuildEntity(w *ecs.World, spec prefabs.EntitySpec) (ecs.Entity, error) {
	e := w.CreateEntity()
	for _, build := range componentBuildOrder {
		if err := build(w, e, spec); err != nil {
			w.DestroyEntity(e)
			return 0, fmt.Errorf("entity %q: %w", spec.Name, err)
		}
	}
	return e, nil
}

// BuildScene spawns the camera and every entity of spec in listed order,
// which is also the draw order. All entity errors are reported together;
// the valid entities are still spawned.
func BuildScene(w *ecs.World, spec *prefabs.SceneSpec) (ecs.Entity, []ecs.Entity, error) {
	if spec == nil {
		return 0, nil, errors.New("scene: nil spec")
	}
	camera, err := NewCamera(w, spec.Camera)
	if err != nil {
		return 0, nil, err
	}

	var errs []error
	spawned := make([]ecs.Entity, 0, len(spec.Entities))
	for _, es := range spec.Entities {
		e, err := BuildEntity(w, es)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		spawned = append(spawned, e)
	}
	if len(errs) > 0 {
		return camera, spawned, fmt.Errorf("scene %q: %w", spec.Name, errors.Join(errs...))
	}
	return camera, spawned, nil
}

func addName(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error {
	if spec.Name == "" {
		return nil
	}
	return ecs.Add(w, e, component.NameComponent, component.Name{Value: spec.Name})
}

func addTransform(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error {
	return ecs.Add(w, e, component.TransformComponent, component.Transform{
		X: spec.Transform.X,
		Y: spec.Transform.Y,
	})
}

func addSprite(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error {
	sprite := component.Sprite{
		Texture: render.Handle(spec.Sprite.Texture),
		Width:   spec.Sprite.Width,
		Height:  spec.Sprite.Height,
	}
	if err := sprite.Validate(); err != nil {
		return err
	}
	return ecs.Add(w, e, component.SpriteComponent, sprite)
}

func addBlink(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error {
	if spec.Blink == nil {
		return nil
	}
	return ecs.Add(w, e, component.BlinkComponent, component.Blink{
		Color:     spec.Blink.Color.NRGBA(),
		Amplitude: spec.Blink.Amplitude,
		Duration:  spec.Blink.Duration,
	})
}

func addTint(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error {
	if spec.Tint == nil {
		return nil
	}
	return ecs.Add(w, e, component.TintComponent, component.Tint{Color: spec.Tint.Color.NRGBA()})
}

func addController(w *ecs.World, e ecs.Entity, spec prefabs.EntitySpec) error {
	if spec.Controller == nil {
		return nil
	}
	if spec.Controller.Speed < 0 {
		return fmt.Errorf("controller: negative speed %d", spec.Controller.Speed)
	}
	return ecs.Add(w, e, component.ControllerComponent, component.Controller{
		Speed:  spec.Controller.Speed,
		Script: spec.Controller.Script,
	})
}

// Handles returns the distinct texture handles the scene references, in
// first-use order.
func Handles(spec *prefabs.SceneSpec) []render.Handle {
	if spec == nil {
		return nil
	}
	seen := make(map[render.Handle]bool, len(spec.Entities))
	out := make([]render.Handle, 0, len(spec.Entities))
	for _, es := range spec.Entities {
		h := render.Handle(es.Sprite.Texture)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return out
}
