package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyW KeyCode = iota + 1
	keyS
)

const mouseLeft MouseButton = 0

// scriptedSource replays one signal per key and button per frame.
type scriptedSource struct {
	keys  map[KeyCode]Signal
	mouse map[MouseButton]Signal
}

func newSource() *scriptedSource {
	return &scriptedSource{keys: map[KeyCode]Signal{}, mouse: map[MouseButton]Signal{}}
}

func (s *scriptedSource) KeySignal(k KeyCode) Signal         { return s.keys[k] }
func (s *scriptedSource) MouseSignal(b MouseButton) Signal   { return s.mouse[b] }
func (s *scriptedSource) set(k KeyCode, sig Signal)          { s.keys[k] = sig }
func (s *scriptedSource) setMouse(b MouseButton, sig Signal) { s.mouse[b] = sig }

func TestAdvanceEdgeSequence(t *testing.T) {
	signals := []Signal{SignalDown, SignalRepeat, SignalRepeat, SignalUp, SignalNone}
	want := []State{JustPressed, Pressed, Pressed, JustReleased, Released}

	for _, policy := range []HoldPolicy{ReleaseWhenSilent, HoldWhenSilent} {
		t.Run(policy.String(), func(t *testing.T) {
			src := newSource()
			m, err := NewActionMap(policy, Key("up", keyW))
			require.NoError(t, err)

			for i, sig := range signals {
				src.set(keyW, sig)
				m.Poll(src)
				got, err := m.State("up")
				require.NoError(t, err)
				assert.Equal(t, want[i], got, "frame %d (%s)", i, sig)
			}
		})
	}
}

func TestAdvanceSilentWhileHeld(t *testing.T) {
	cases := []struct {
		name   string
		policy HoldPolicy
		want   []State
	}{
		{"release", ReleaseWhenSilent, []State{JustPressed, JustReleased, Released}},
		{"hold", HoldWhenSilent, []State{JustPressed, Pressed, Pressed}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := make([]State, 0, 3)
			s := Released
			for _, sig := range []Signal{SignalDown, SignalNone, SignalNone} {
				s = Advance(s, sig, c.policy)
				got = append(got, s)
			}
			assert.Equal(t, c.want, got)
		})
	}
}

func TestAdvanceTable(t *testing.T) {
	cases := []struct {
		prev State
		sig  Signal
		want State
	}{
		{Released, SignalDown, JustPressed},
		{JustReleased, SignalDown, JustPressed},
		{Pressed, SignalDown, Pressed},
		{Released, SignalRepeat, Pressed},
		{Released, SignalUp, Released},
		{JustReleased, SignalUp, Released},
		{JustPressed, SignalUp, JustReleased},
		{JustReleased, SignalNone, Released},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Advance(c.prev, c.sig, ReleaseWhenSilent), "%s + %s", c.prev, c.sig)
	}
}

func TestQueriesArePure(t *testing.T) {
	src := newSource()
	m, err := NewActionMap(DefaultHoldPolicy, Key("up", keyW))
	require.NoError(t, err)

	src.set(keyW, SignalDown)
	m.Poll(src)
	for i := 0; i < 3; i++ {
		pressed, err := m.IsJustPressed("up")
		require.NoError(t, err)
		assert.True(t, pressed, "query %d", i)
		held, _ := m.IsHeld("up")
		assert.True(t, held)
		released, _ := m.IsJustReleased("up")
		assert.False(t, released)
	}
}

func TestUnknownAction(t *testing.T) {
	m, err := NewActionMap(DefaultHoldPolicy, Key("up", keyW))
	require.NoError(t, err)

	_, err = m.IsJustPressed("jump")
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = m.IsHeld("jump")
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = m.State("jump")
	assert.ErrorIs(t, err, ErrUnknownAction)

	assert.ErrorIs(t, m.Require("up", "jump"), ErrUnknownAction)
	assert.NoError(t, m.Require("up"))
}

func TestNewActionMapRejectsBadBindings(t *testing.T) {
	_, err := NewActionMap(DefaultHoldPolicy, Key("up", keyW), Key("up", keyS))
	assert.ErrorIs(t, err, ErrDuplicateAction)

	_, err = NewActionMap(DefaultHoldPolicy, Binding{Name: "x", Device: Device(9)})
	assert.ErrorIs(t, err, ErrUnknownDevice)

	_, err = NewActionMap(DefaultHoldPolicy, Key("", keyW))
	assert.Error(t, err)
}

func TestMouseBindingsAndIndependentActions(t *testing.T) {
	src := newSource()
	m, err := NewActionMap(DefaultHoldPolicy, Key("up", keyW), Key("down", keyS), Mouse("fire", mouseLeft))
	require.NoError(t, err)
	assert.Equal(t, []string{"up", "down", "fire"}, m.Names())

	src.set(keyW, SignalDown)
	src.setMouse(mouseLeft, SignalDown)
	m.Poll(src)

	fire, _ := m.IsJustPressed("fire")
	assert.True(t, fire)
	down, _ := m.IsHeld("down")
	assert.False(t, down)

	src.setMouse(mouseLeft, SignalUp)
	src.set(keyW, SignalRepeat)
	m.Poll(src)
	fireUp, _ := m.IsJustReleased("fire")
	assert.True(t, fireUp)
	up, _ := m.State("up")
	assert.Equal(t, Pressed, up)
}

func TestParseHoldPolicy(t *testing.T) {
	p, err := ParseHoldPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultHoldPolicy, p)

	p, err = ParseHoldPolicy(" Hold ")
	require.NoError(t, err)
	assert.Equal(t, HoldWhenSilent, p)

	_, err = ParseHoldPolicy("sticky")
	assert.Error(t, err)
}
