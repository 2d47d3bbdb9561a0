package component

import (
	"errors"
	"fmt"

	"github.com/milk9111/rengine/ecs/render"
)

var ErrZeroSizedSprite = errors.New("sprite: width and height must be positive")

// Sprite is a drawable textured rectangle. Texture is a stable cache handle,
// never the GPU object itself.
type Sprite struct {
	Texture render.Handle
	Width   int
	Height  int
}

// Validate rejects sprites that could never produce a visible quad.
func (s Sprite) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %q is %dx%d", ErrZeroSizedSprite, s.Texture, s.Width, s.Height)
	}
	if s.Texture == "" {
		return fmt.Errorf("sprite: empty texture handle")
	}
	return nil
}

var SpriteComponent = NewComponent[Sprite]()
