package component

// Camera selects the view transform: the world point (X, Y) maps to the
// viewport's top-left corner and Zoom scales around it. Zoom <= 0 means 1.
type Camera struct {
	X    int
	Y    int
	Zoom float64
}

var CameraComponent = NewComponent[Camera]()
