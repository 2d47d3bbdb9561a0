package component

import "image/color"

// Tint multiplies the sprite's texels by Color.
type Tint struct {
	Color color.NRGBA
}

var TintComponent = NewComponent[Tint]()
