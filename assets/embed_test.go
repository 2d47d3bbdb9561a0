package assets

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpriteShaderUniforms(t *testing.T) {
	for _, decl := range []string{
		"var Time float",
		"var ShouldBlink float",
		"var BlinkColor vec4",
		"var BlinkAmplitude float",
		"var ShouldTint float",
		"var TintColor vec4",
	} {
		assert.Contains(t, SpriteShader, decl)
	}
}

func TestSpriteShaderReturnsStraightAlpha(t *testing.T) {
	unpremultiply := strings.Index(SpriteShader, "c = vec4(c.rgb/c.a, c.a)")
	tint := strings.Index(SpriteShader, "c *= TintColor")
	require.NotEqual(t, -1, unpremultiply, "texels must be un-premultiplied for the SrcAlpha blend")
	require.NotEqual(t, -1, tint)
	assert.Less(t, unpremultiply, tint, "tint applies to straight color")
	assert.NotContains(t, SpriteShader, "TintColor.rgb*TintColor.a")
}

func TestTexturesAreRooted(t *testing.T) {
	for _, name := range []string{"checker.png", "ring.png"} {
		_, err := fs.Stat(Textures, name)
		assert.NoError(t, err, name)
	}
}
