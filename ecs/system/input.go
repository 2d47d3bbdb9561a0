package system

import (
	"github.com/milk9111/rengine/ecs"
	"github.com/milk9111/rengine/input"
)

// InputSystem advances the action map once per frame. It must run before
// any system that queries actions.
type InputSystem struct {
	actions *input.ActionMap
	source  input.SignalSource
}

func NewInputSystem(actions *input.ActionMap, source input.SignalSource) *InputSystem {
	return &InputSystem{actions: actions, source: source}
}

func (i *InputSystem) Update(_ *ecs.World) {
	if i == nil || i.actions == nil || i.source == nil {
		return
	}
	i.actions.Poll(i.source)
}

func (i *InputSystem) Actions() *input.ActionMap {
	return i.actions
}
