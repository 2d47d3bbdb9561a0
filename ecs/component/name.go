package component

// Name is a human readable label used in logs and the debug overlay.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
