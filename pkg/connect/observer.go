package connect

// Group names a derived props group.
type Group string

const (
	GroupState    Group = "state"
	GroupDispatch Group = "dispatch"
	GroupMerged   Group = "merged"
)

// Observer receives events from connected instances. Calls happen on the
// goroutine driving the tree; implementations must not block.
type Observer interface {
	// Rendered is called after each wrapper render. reused is true when the
	// previous element was returned unchanged.
	Rendered(component string, reused bool)

	// Recomputed is called after a props group was recomputed. changed is
	// false when the result was shallow-equal to the cached group.
	Recomputed(component string, group Group, changed bool)

	// Subscribed and Unsubscribed track store subscriptions.
	Subscribed(component string)
	Unsubscribed(component string)

	// Reloaded is called when an instance picks up a new generation.
	Reloaded(component string, generation uint64)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) Rendered(string, bool)          {}
func (NopObserver) Recomputed(string, Group, bool) {}
func (NopObserver) Subscribed(string)              {}
func (NopObserver) Unsubscribed(string)            {}
func (NopObserver) Reloaded(string, uint64)        {}
