package component

// Transform is the pixel-space position of an entity's top-left corner.
// Pixel y grows downward.
type Transform struct {
	X int
	Y int
}

var TransformComponent = NewComponent[Transform]()
