package render

import (
	"errors"
	"fmt"
)

var (
	// ErrSurfaceLost marks the loss of the render target. It is not
	// recoverable; the frame loop should stop.
	ErrSurfaceLost = errors.New("render: surface lost")

	ErrQueueFull   = errors.New("render: load queue full")
	ErrQueueClosed = errors.New("render: load queue closed")
	ErrStaleResult = errors.New("render: stale load result")
)

// RenderError is a fatal failure of one frame's draw pass. Entity is zero
// when the failure is not tied to an entity.
type RenderError struct {
	Op     string
	Entity uint64
	Err    error
}

func (e *RenderError) Error() string {
	if e.Entity != 0 {
		return fmt.Sprintf("render: %s (entity %d): %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err should end the render loop rather than skip a
// frame.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSurfaceLost)
}
