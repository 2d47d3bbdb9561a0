package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SceneSpec lists the entities spawned at startup.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Camera   CameraSpec   `yaml:"camera"`
	Entities []EntitySpec `yaml:"entities"`
}

type CameraSpec struct {
	X    int     `yaml:"x"`
	Y    int     `yaml:"y"`
	Zoom float64 `yaml:"zoom"`
}

type EntitySpec struct {
	Name       string          `yaml:"name"`
	Transform  TransformSpec   `yaml:"transform"`
	Sprite     SpriteSpec      `yaml:"sprite"`
	Blink      *BlinkSpec      `yaml:"blink"`
	Tint       *TintSpec       `yaml:"tint"`
	Controller *ControllerSpec `yaml:"controller"`
}

type TransformSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type SpriteSpec struct {
	Texture string `yaml:"texture"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

type BlinkSpec struct {
	Color     YAMLColor `yaml:"color"`
	Amplitude float32   `yaml:"amplitude"`
	Duration  float32   `yaml:"duration"`
}

type TintSpec struct {
	Color YAMLColor `yaml:"color"`
}

type ControllerSpec struct {
	Speed  int    `yaml:"speed"`
	Script string `yaml:"script"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa".
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// NRGBA returns the color, opaque white when unset.
func (c YAMLColor) NRGBA() color.NRGBA {
	if c.Color == nil {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}

func ParseColor(v string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")

	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", v)
	}

	parse := func(start int) (uint8, error) {
		n, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(n), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
