package component

// Controller moves an entity from bound input actions. With an empty Script
// the held up/down/left/right actions move it by Speed pixels per frame;
// otherwise the named tengo script decides the step.
type Controller struct {
	Speed  int
	Script string
}

var ControllerComponent = NewComponent[Controller]()
