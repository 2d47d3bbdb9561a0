package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/milk9111/rengine/input"
	"github.com/milk9111/rengine/prefabs"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Window     WindowConfig      `yaml:"window"`
	Viewport   ViewportConfig    `yaml:"viewport"`
	ClearColor prefabs.YAMLColor `yaml:"clear_color"`
	Textures   TexturesConfig    `yaml:"textures"`
	Input      InputConfig       `yaml:"input"`
	Render     RenderConfig      `yaml:"render"`
	// Scene names the prefab scene file to spawn.
	Scene string `yaml:"scene"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type TexturesConfig struct {
	Root       string        `yaml:"root"`
	Workers    int           `yaml:"workers"`
	QueueDepth int           `yaml:"queue_depth"`
	RetryAfter time.Duration `yaml:"retry_after"`
	Watch      bool          `yaml:"watch"`
	// MaxUploadsPerFrame bounds how many finished loads are turned into
	// textures in one frame.
	MaxUploadsPerFrame int `yaml:"max_uploads_per_frame"`
}

type InputConfig struct {
	HoldPolicy string        `yaml:"hold_policy"`
	Bindings   []BindingSpec `yaml:"bindings"`
}

// BindingSpec binds Action to either a key name or a mouse button name.
type BindingSpec struct {
	Action string `yaml:"action"`
	Key    string `yaml:"key"`
	Mouse  string `yaml:"mouse"`
}

type RenderConfig struct {
	MaxConsecutiveErrors int `yaml:"max_consecutive_errors"`
	// FragmentShader optionally replaces the built-in sprite program with a
	// Kage file from disk.
	FragmentShader string `yaml:"fragment_shader"`
}

// Load reads path from disk, or the embedded defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(defaultYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal defaults: %w", err)
	}
	// Sequences in data replace the default sequences wholesale.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height))
	}
	if c.Textures.Workers < 1 {
		errs = append(errs, fmt.Errorf("textures.workers must be >= 1"))
	}
	if c.Textures.QueueDepth < 1 {
		errs = append(errs, fmt.Errorf("textures.queue_depth must be >= 1"))
	}
	if c.Textures.RetryAfter < 0 {
		errs = append(errs, fmt.Errorf("textures.retry_after must not be negative"))
	}
	if _, err := input.ParseHoldPolicy(c.Input.HoldPolicy); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool, len(c.Input.Bindings))
	for i, b := range c.Input.Bindings {
		switch {
		case strings.TrimSpace(b.Action) == "":
			errs = append(errs, fmt.Errorf("input.bindings[%d]: empty action", i))
		case seen[b.Action]:
			errs = append(errs, fmt.Errorf("input.bindings[%d]: %w: %q", i, input.ErrDuplicateAction, b.Action))
		case (b.Key == "") == (b.Mouse == ""):
			errs = append(errs, fmt.Errorf("input.bindings[%d]: %q needs exactly one of key or mouse", i, b.Action))
		}
		seen[b.Action] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// HoldPolicy returns the validated input hold policy.
func (c *Config) HoldPolicy() input.HoldPolicy {
	p, err := input.ParseHoldPolicy(c.Input.HoldPolicy)
	if err != nil {
		return input.DefaultHoldPolicy
	}
	return p
}
