package assets

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed sprite.kage textures
var assetsFS embed.FS

// SpriteShader is the Kage fragment program used for every sprite draw.
var SpriteShader string

// Textures holds the built-in textures, rooted so handles such as
// "checker.png" resolve directly.
var Textures fs.FS

func init() {
	b, err := assetsFS.ReadFile("sprite.kage")
	if err != nil {
		log.Fatalf("embed: read sprite.kage: %v", err)
	}
	SpriteShader = string(b)

	sub, err := fs.Sub(assetsFS, "textures")
	if err != nil {
		log.Fatalf("embed: textures: %v", err)
	}
	Textures = sub
}
