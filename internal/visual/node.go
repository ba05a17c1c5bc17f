package visual

// Layout is the two-pass measurement and arrangement capability.
//
// Measure computes the size the node would like to occupy given the space
// available to it; available dimensions may be +Inf. Arrange assigns the node
// its final rectangle in its parent's coordinate space. UpdateLayout
// re-runs any pass invalidated since it last ran and finalizes the positions
// of all descendants.
type Layout interface {
	Measure(available Size)
	DesiredSize() Size
	Arrange(final Rect)
	UpdateLayout()

	// RenderSize is the size assigned by the last Arrange.
	RenderSize() Size
}

// Node is the root capability of a renderable template: a positionable,
// sizeable element with a data context slot and an unload signal.
type Node interface {
	Layout

	// SetDataContext replaces the node's data context. Passing nil clears it.
	SetDataContext(data any)

	// DataContext returns the value set on this node, or nil.
	DataContext() any

	// RaiseUnloaded signals the node and its descendants that they have been
	// detached and will not be rendered again.
	RaiseUnloaded()
}
