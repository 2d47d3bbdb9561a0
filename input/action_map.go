package input

import "fmt"

type action struct {
	binding Binding
	state   State
}

// ActionMap holds a fixed set of named actions. The set is decided at
// construction; only the per-action states change afterwards.
type ActionMap struct {
	actions map[string]*action
	order   []string
	policy  HoldPolicy
}

// NewActionMap validates bindings and builds the map. Every action starts
// Released.
func NewActionMap(policy HoldPolicy, bindings ...Binding) (*ActionMap, error) {
	m := &ActionMap{
		actions: make(map[string]*action, len(bindings)),
		order:   make([]string, 0, len(bindings)),
		policy:  policy,
	}
	for _, b := range bindings {
		if b.Name == "" {
			return nil, fmt.Errorf("input: binding with empty action name")
		}
		if b.Device != DeviceKeyboard && b.Device != DeviceMouseButton {
			return nil, fmt.Errorf("%w: %s for %q", ErrUnknownDevice, b.Device, b.Name)
		}
		if _, ok := m.actions[b.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAction, b.Name)
		}
		m.actions[b.Name] = &action{binding: b, state: Released}
		m.order = append(m.order, b.Name)
	}
	return m, nil
}

// Poll advances every action once from this frame's signals.
func (m *ActionMap) Poll(src SignalSource) {
	for _, name := range m.order {
		a := m.actions[name]
		a.state = Advance(a.state, a.binding.signal(src), m.policy)
	}
}

// State returns the current state of the named action.
func (m *ActionMap) State(name string) (State, error) {
	a, ok := m.actions[name]
	if !ok {
		return Released, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return a.state, nil
}

// IsJustPressed is true only in the frame the press edge fired.
func (m *ActionMap) IsJustPressed(name string) (bool, error) {
	s, err := m.State(name)
	return s == JustPressed, err
}

// IsHeld is true while the action is Pressed or JustPressed.
func (m *ActionMap) IsHeld(name string) (bool, error) {
	s, err := m.State(name)
	return s.Held(), err
}

// IsJustReleased is true only in the frame the release edge fired.
func (m *ActionMap) IsJustReleased(name string) (bool, error) {
	s, err := m.State(name)
	return s == JustReleased, err
}

// Has reports whether name is bound.
func (m *ActionMap) Has(name string) bool {
	_, ok := m.actions[name]
	return ok
}

// Require returns an error naming the first action that is not bound.
func (m *ActionMap) Require(names ...string) error {
	for _, n := range names {
		if !m.Has(n) {
			return fmt.Errorf("%w: %q", ErrUnknownAction, n)
		}
	}
	return nil
}

// Names returns the action names in binding order.
func (m *ActionMap) Names() []string {
	return append([]string(nil), m.order...)
}

func (m *ActionMap) Policy() HoldPolicy {
	return m.policy
}
