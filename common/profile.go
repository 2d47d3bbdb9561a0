package common

import (
	"fmt"

	"github.com/pkg/profile"
)

// StartProfile starts a "cpu" or "mem" profile written to dir and returns
// the function that flushes it. An empty mode profiles nothing.
func StartProfile(mode, dir string) (stop func(), err error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfileAllocs
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet).Stop, nil
}
