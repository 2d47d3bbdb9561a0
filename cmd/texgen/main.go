// Command texgen writes procedural test textures.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/rengine/common"
	"golang.org/x/image/bmp"
)

func main() {
	kind := flag.String("kind", "checker", "texture kind: checker, ring, gradient")
	size := flag.Int("size", 64, "edge length in pixels")
	tile := flag.Int("tile", 8, "checker tile size in pixels")
	thickness := flag.Int("thickness", 3, "ring outline thickness in pixels")
	out := flag.String("out", "", "output file (.png or .bmp)")
	flag.Parse()

	if *size <= 0 {
		log.Fatalf("size must be positive, got %d", *size)
	}
	if *out == "" {
		*out = *kind + ".png"
	}

	var img image.Image
	switch *kind {
	case "checker":
		img = Checker(*size, *tile, color.RGBA{0xff, 0xff, 0xff, 0xff}, color.RGBA{0x40, 0x40, 0x40, 0xff})
	case "ring":
		img = GenerateOutlineFromRGBA(Disc(*size, color.RGBA{0xff, 0xff, 0xff, 0xff}), *thickness, color.RGBA{0xff, 0xff, 0xff, 0xff})
	case "gradient":
		img = Gradient(*size, color.RGBA{0x20, 0x40, 0xff, 0xff}, color.RGBA{0xff, 0x60, 0x20, 0xff})
	default:
		log.Fatalf("unknown kind %q", *kind)
	}

	if err := write(*out, img); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%dx%d)", *out, *size, *size)
}

func write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	case ".bmp":
		err = bmp.Encode(f, img)
	default:
		err = fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Checker fills alternating tiles of a and b.
func Checker(size, tile int, a, b color.RGBA) *image.RGBA {
	if tile <= 0 {
		tile = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for ty := 0; ty*tile < size; ty++ {
		for tx := 0; tx*tile < size; tx++ {
			c := a
			if (tx+ty)%2 == 1 {
				c = b
			}
			r := image.Rect(tx*tile, ty*tile, tx*tile+tile, ty*tile+tile)
			draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
		}
	}
	return img
}

// Disc draws a filled circle inset by a quarter of the size.
func Disc(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size) / 2
	radius := float64(size) / 4
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

// Gradient blends from top to bottom, so a flipped upload is easy to spot.
func Gradient(size int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		t := float32(y) / float32(max(size-1, 1))
		c := color.RGBA{
			R: uint8(common.Lerp(float32(top.R), float32(bottom.R), t)),
			G: uint8(common.Lerp(float32(top.G), float32(bottom.G), t)),
			B: uint8(common.Lerp(float32(top.B), float32(bottom.B), t)),
			A: 0xff,
		}
		draw.Draw(img, image.Rect(0, y, size, y+1), &image.Uniform{c}, image.Point{}, draw.Src)
	}
	return img
}

// GenerateOutlineFromRGBA returns an RGBA image containing outline pixels (outlineCol)
// around the opaque areas of src. Thickness is in pixels.
func GenerateOutlineFromRGBA(src *image.RGBA, thickness int, outlineCol color.RGBA) *image.RGBA {
	b := src.Bounds()
	w := b.Dx()
	h := b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	isOpaque := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return src.RGBAAt(x+b.Min.X, y+b.Min.Y).A != 0
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isOpaque(x, y) {
				continue
			}
			found := false
			for yy := max(y-thickness, 0); yy <= min(y+thickness, h-1) && !found; yy++ {
				for xx := max(x-thickness, 0); xx <= min(x+thickness, w-1); xx++ {
					if isOpaque(xx, yy) {
						found = true
						break
					}
				}
			}
			if found {
				out.Set(x+b.Min.X, y+b.Min.Y, outlineCol)
			}
		}
	}
	return out
}
