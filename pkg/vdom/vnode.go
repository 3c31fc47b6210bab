package vdom

import (
	"context"
	"sync"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component
	KindRaw                    // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// ChildrenKey is the prop under which a component receives the child
// elements it was created with.
const ChildrenKey = "children"

// VNode is the virtual DOM node.
//
// A VNode is immutable once handed to a host. Hosts compare component
// elements by pointer: returning the same *VNode from Render tells the host
// that the subtree is unchanged.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Attributes, or component props for KindComponent
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key
	Text     string    // For KindText and KindRaw
	Type     Component // For KindComponent
	Ref      *Ref      // Receives the component instance once mounted
}

// Props holds attributes and component props.
type Props map[string]any

// Clone returns a shallow copy of the props. A nil receiver yields an empty
// map.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is a component type. Hosts call New once per mounted instance.
type Component interface {
	// Name is the display name used in errors and tooling.
	Name() string

	// New constructs an instance for the given props. ctx carries values
	// provided by ancestor components.
	New(ctx context.Context, props Props, u Updater) (Instance, error)
}

// Instance is a mounted component.
type Instance interface {
	Render() (*VNode, error)
}

// Updater lets an instance ask its host for a re-render.
type Updater interface {
	Invalidate()
}

// Ref holds the instance mounted for an element.
// Ref is safe for concurrent access.
type Ref struct {
	mu    sync.RWMutex
	value Instance
}

// NewRef creates an empty Ref.
func NewRef() *Ref {
	return &Ref{}
}

// Current returns the attached instance, or nil when nothing is mounted.
func (r *Ref) Current() Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set attaches an instance. Hosts call Set(nil) on unmount.
func (r *Ref) Set(inst Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = inst
}

// IsSet returns true if an instance is attached.
func (r *Ref) IsSet() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value != nil
}
