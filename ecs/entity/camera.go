package entity

import (
	"fmt"

	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/ecs/component"
	"github.com/milk9111/rengine/prefabs"
)

func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, error) {
	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.NameComponent, component.Name{Value: "camera"}); err != nil {
		return 0, fmt.Errorf("camera: add name: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraComponent, component.Camera{
		X:    spec.X,
		Y:    spec.Y,
		Zoom: zoom,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}
	return camera, nil
}
