package hierarchy

// EventKind identifies a structural change notification.
type EventKind int

const (
	// EventCollapsed fires when a record's children stop being shown.
	EventCollapsed EventKind = iota
	// EventUncollapsed fires when a record's direct children are revealed,
	// either by a user toggle or by search ancestor expansion.
	EventUncollapsed
	// EventFlatView fires when the controller enters flat (full path) mode.
	EventFlatView
	// EventTreeView fires when the controller enters tree (segment) mode.
	EventTreeView
)

func (k EventKind) String() string {
	switch k {
	case EventCollapsed:
		return "collapsed"
	case EventUncollapsed:
		return "uncollapsed"
	case EventFlatView:
		return "flat-view"
	case EventTreeView:
		return "tree-view"
	default:
		return "unknown"
	}
}

// Event is a structural change notification. RecordID identifies the
// source record for collapse/uncollapse events and is empty for the
// view-mode events, which concern the whole table.
type Event struct {
	Kind     EventKind
	RecordID string
}

// Observer consumes structural change notifications, e.g. to resize
// dependent UI when a subtree opens.
type Observer interface {
	HierarchyEvent(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) HierarchyEvent(e Event) { f(e) }

// Subscribe registers an observer for all subsequent events. Observers
// are invoked synchronously, in registration order, on the caller's
// goroutine.
func (c *Controller) Subscribe(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

func (c *Controller) emit(e Event) {
	for _, o := range c.observers {
		o.HierarchyEvent(e)
	}
}
