package vtest

import (
	"context"
	"sync"

	"github.com/vango-dev/connect/pkg/vdom"
)

// Recorder is a presentational component that records every render.
// It is meant to be wrapped by connect and inspected afterwards.
type Recorder struct {
	name string
	view func(props vdom.Props) *vdom.VNode

	mu        sync.Mutex
	history   []vdom.Props
	instances []*RecorderInstance
}

// NewRecorder creates a Recorder. A nil view renders an empty span.
func NewRecorder(name string, view func(props vdom.Props) *vdom.VNode) *Recorder {
	if view == nil {
		view = func(vdom.Props) *vdom.VNode { return vdom.Span() }
	}
	return &Recorder{name: name, view: view}
}

// Name implements vdom.Component.
func (r *Recorder) Name() string {
	return r.name
}

// New implements vdom.Component.
func (r *Recorder) New(ctx context.Context, props vdom.Props, u vdom.Updater) (vdom.Instance, error) {
	inst := &RecorderInstance{rec: r, ctx: ctx, props: props, updater: u}
	r.mu.Lock()
	r.instances = append(r.instances, inst)
	r.mu.Unlock()
	return inst, nil
}

// Renders returns how many times any instance rendered.
func (r *Recorder) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history)
}

// LastProps returns the props of the latest render, or nil.
func (r *Recorder) LastProps() vdom.Props {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return nil
	}
	return r.history[len(r.history)-1]
}

// History returns the props of every render in order.
func (r *Recorder) History() []vdom.Props {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]vdom.Props, len(r.history))
	copy(out, r.history)
	return out
}

// Instance returns the most recently created instance, or nil.
func (r *Recorder) Instance() *RecorderInstance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.instances) == 0 {
		return nil
	}
	return r.instances[len(r.instances)-1]
}

// Reset forgets recorded renders.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}

func (r *Recorder) record(props vdom.Props) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, props)
}

// RecorderInstance is a mounted Recorder.
type RecorderInstance struct {
	rec     *Recorder
	ctx     context.Context
	props   vdom.Props
	updater vdom.Updater
}

// Props returns the current props.
func (i *RecorderInstance) Props() vdom.Props {
	return i.props
}

// Context returns the context the instance was mounted with.
func (i *RecorderInstance) Context() context.Context {
	return i.ctx
}

// Invalidate asks the host for a re-render.
func (i *RecorderInstance) Invalidate() {
	i.updater.Invalidate()
}

// ReceiveProps implements host.PropsReceiver.
func (i *RecorderInstance) ReceiveProps(next vdom.Props) {
	i.props = next
}

// Render implements vdom.Instance.
func (i *RecorderInstance) Render() (*vdom.VNode, error) {
	i.rec.record(i.props)
	return i.rec.view(i.props), nil
}
