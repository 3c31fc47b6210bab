package host

import (
	"context"

	"github.com/vango-dev/connect/pkg/vdom"
)

// PropsReceiver is notified before an update with the props of the new
// element. Instances keep their own copy of the current props.
type PropsReceiver interface {
	ReceiveProps(next vdom.Props)
}

// ShouldUpdater can veto an update. Returning false keeps the previously
// rendered subtree.
type ShouldUpdater interface {
	ShouldUpdate(next vdom.Props) bool
}

// WillUpdater runs right before an update renders.
type WillUpdater interface {
	WillUpdate(next vdom.Props) error
}

// Mounter runs once the instance and its subtree are mounted.
type Mounter interface {
	DidMount() error
}

// Unmounter runs before the instance is removed.
type Unmounter interface {
	WillUnmount()
}

// ContextProvider derives the context handed to the instance's subtree.
type ContextProvider interface {
	ChildContext(ctx context.Context) context.Context
}

// FuncComponent is a stateless component rendered from its props.
type FuncComponent struct {
	name   string
	render func(props vdom.Props) *vdom.VNode
}

// Func creates a component from a render function.
func Func(name string, render func(props vdom.Props) *vdom.VNode) *FuncComponent {
	return &FuncComponent{name: name, render: render}
}

// Name implements vdom.Component.
func (f *FuncComponent) Name() string {
	return f.name
}

// New implements vdom.Component.
func (f *FuncComponent) New(ctx context.Context, props vdom.Props, u vdom.Updater) (vdom.Instance, error) {
	return &FuncInstance{comp: f, props: props}, nil
}

// FuncInstance is a mounted FuncComponent.
type FuncInstance struct {
	comp  *FuncComponent
	props vdom.Props
}

// Props returns the props of the last received element.
func (i *FuncInstance) Props() vdom.Props {
	return i.props
}

// ReceiveProps implements PropsReceiver.
func (i *FuncInstance) ReceiveProps(next vdom.Props) {
	i.props = next
}

// Render implements vdom.Instance.
func (i *FuncInstance) Render() (*vdom.VNode, error) {
	return i.comp.render(i.props), nil
}
