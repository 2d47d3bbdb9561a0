package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/rengine/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Viewport.Width)
	assert.Equal(t, 720, cfg.Viewport.Height)
	assert.Equal(t, color.NRGBA{A: 0xff}, cfg.ClearColor.NRGBA())
	assert.Equal(t, 2*time.Second, cfg.Textures.RetryAfter)
	assert.Equal(t, input.ReleaseWhenSilent, cfg.HoldPolicy())
	assert.Equal(t, "scene.yaml", cfg.Scene)

	actions := make([]string, 0, len(cfg.Input.Bindings))
	for _, b := range cfg.Input.Bindings {
		actions = append(actions, b.Action)
	}
	assert.Subset(t, actions, []string{"up", "down", "left", "right", "cancel", "pause", "blink"})
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
viewport: { width: 640, height: 480 }
clear_color: "#102030"
textures:
  workers: 4
input:
  hold_policy: hold
  bindings:
    - { action: fire, mouse: left }
`))
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Viewport.Width)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, cfg.ClearColor.NRGBA())
	assert.Equal(t, 4, cfg.Textures.Workers)
	assert.Equal(t, 64, cfg.Textures.QueueDepth, "unset keys keep their defaults")
	assert.Equal(t, input.HoldWhenSilent, cfg.HoldPolicy())
	assert.Equal(t, []BindingSpec{{Action: "fire", Mouse: "left"}}, cfg.Input.Bindings)
}

func TestParseRetryAfter(t *testing.T) {
	cfg, err := Parse([]byte("textures: { retry_after: 0s }"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Textures.RetryAfter)

	_, err = Parse([]byte("textures: { retry_after: -1s }"))
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"zero_viewport", "viewport: { width: 0, height: 720 }"},
		{"no_workers", "textures: { workers: 0 }"},
		{"bad_policy", "input: { hold_policy: sticky }"},
		{"duplicate_action", "input: { bindings: [ { action: a, key: A }, { action: a, key: B } ] }"},
		{"key_and_mouse", "input: { bindings: [ { action: a, key: A, mouse: left } ] }"},
		{"neither", "input: { bindings: [ { action: a } ] }"},
		{"bad_color", `clear_color: "#12"`},
		{"not_yaml", "viewport: ["},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseDuplicateActionIsTyped(t *testing.T) {
	_, err := Parse([]byte("input: { bindings: [ { action: a, key: A }, { action: a, key: B } ] }"))
	assert.ErrorIs(t, err, input.ErrDuplicateAction)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: { title: demo }\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
