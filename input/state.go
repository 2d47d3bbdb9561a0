// Package input turns raw per-frame device signals into named, edge-triggered
// actions.
//
// Each frame the owner calls ActionMap.Poll exactly once, which advances
// every binding's state machine. The Is* queries afterwards are pure reads,
// so any number of them may be issued in any order within the frame.
package input

import (
	"fmt"
	"strings"
)

// Signal is the instantaneous hardware report for one key in one frame.
type Signal uint8

const (
	SignalNone Signal = iota
	SignalDown
	SignalRepeat
	SignalUp
)

func (s Signal) String() string {
	switch s {
	case SignalDown:
		return "down"
	case SignalRepeat:
		return "repeat"
	case SignalUp:
		return "up"
	default:
		return "none"
	}
}

// State is the edge state of an action.
type State uint8

const (
	Released State = iota
	JustPressed
	Pressed
	JustReleased
)

func (s State) String() string {
	switch s {
	case JustPressed:
		return "just_pressed"
	case Pressed:
		return "pressed"
	case JustReleased:
		return "just_released"
	default:
		return "released"
	}
}

// Held reports whether the state counts as held down.
func (s State) Held() bool {
	return s == Pressed || s == JustPressed
}

// HoldPolicy decides what a frame without any signal means for a key that
// was held.
type HoldPolicy uint8

const (
	// ReleaseWhenSilent treats a missing signal as an implicit "up". Use it
	// with sources that do not report every held key every frame.
	ReleaseWhenSilent HoldPolicy = iota
	// HoldWhenSilent keeps a held key held until an explicit "up".
	HoldWhenSilent
)

// DefaultHoldPolicy is used when no policy is configured.
const DefaultHoldPolicy = ReleaseWhenSilent

func (p HoldPolicy) String() string {
	if p == HoldWhenSilent {
		return "hold"
	}
	return "release"
}

// ParseHoldPolicy accepts "release" or "hold"; empty selects the default.
func ParseHoldPolicy(s string) (HoldPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultHoldPolicy, nil
	case "release":
		return ReleaseWhenSilent, nil
	case "hold":
		return HoldWhenSilent, nil
	default:
		return 0, fmt.Errorf("input: unknown hold policy %q", s)
	}
}

// Advance is the transition function of the per-action state machine.
func Advance(prev State, sig Signal, policy HoldPolicy) State {
	switch sig {
	case SignalDown:
		if prev == Released || prev == JustReleased {
			return JustPressed
		}
		return Pressed
	case SignalRepeat:
		return Pressed
	case SignalUp:
		if prev.Held() {
			return JustReleased
		}
		return Released
	default:
		if prev.Held() {
			if policy == HoldWhenSilent {
				return Pressed
			}
			return JustReleased
		}
		return Released
	}
}
