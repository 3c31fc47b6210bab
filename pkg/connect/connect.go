package connect

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/connect/pkg/vdom"
)

// nextGeneration is shared by every connector in the process so a reloaded
// connector never reuses a generation.
var nextGeneration atomic.Uint64

// definition is an immutable set of mapping functions stamped with the
// generation it was installed at.
type definition struct {
	mapState          *StateMapper
	mapDispatch       *DispatchMapper
	merge             MergeFunc
	checkMergedEquals bool
	shouldSubscribe   bool
	generation        uint64
}

func newDefinition(mapState *StateMapper, mapDispatch *DispatchMapper, merge MergeFunc) *definition {
	d := &definition{
		mapState:          mapState,
		mapDispatch:       mapDispatch,
		merge:             merge,
		checkMergedEquals: merge != nil,
		shouldSubscribe:   mapState != nil,
		generation:        nextGeneration.Add(1),
	}
	if d.mapState == nil {
		d.mapState = emptyState
	}
	if d.mapDispatch == nil {
		d.mapDispatch = defaultDispatch
	}
	if d.merge == nil {
		d.merge = DefaultMerge
	}
	return d
}

// Connector produces wrapper components that feed store-derived props to a
// presentational component.
type Connector struct {
	def  atomic.Pointer[definition]
	opts options
	site callSite
}

// Connect creates a Connector. Every argument may be nil:
//
//   - a nil mapState never subscribes and contributes no props;
//   - a nil mapDispatch contributes {"dispatch": store.Dispatch};
//   - a nil merge yields own props overridden by state props overridden by
//     dispatch props.
//
// Only a non-nil merge has its output compared against the previous merged
// props; the default merge is trusted to change only when its inputs do.
func Connect(mapState *StateMapper, mapDispatch *DispatchMapper, merge MergeFunc, opts ...Option) *Connector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	c := &Connector{opts: o}
	if _, file, line, ok := runtime.Caller(1); ok {
		c.site = callSite{file: file, line: line}
	}
	c.def.Store(newDefinition(mapState, mapDispatch, merge))
	return c
}

// Generation returns the generation of the current mapping functions.
func (c *Connector) Generation() uint64 {
	return c.def.Load().generation
}

// Reload installs new mapping functions under a new generation. Mounted
// instances clear their caches and re-subscribe before their next update.
// Reload is safe to call from any goroutine.
func (c *Connector) Reload(mapState *StateMapper, mapDispatch *DispatchMapper, merge MergeFunc) uint64 {
	d := newDefinition(mapState, mapDispatch, merge)
	c.def.Store(d)
	c.opts.logger.Debug("connector reloaded", "generation", d.generation)
	return d.generation
}

// Refresh keeps the mapping functions but stamps a new generation, which
// forces mounted instances to recompute everything.
func (c *Connector) Refresh() uint64 {
	for {
		cur := c.def.Load()
		next := *cur
		next.generation = nextGeneration.Add(1)
		if c.def.CompareAndSwap(cur, &next) {
			c.opts.logger.Debug("connector refreshed", "generation", next.generation)
			return next.generation
		}
	}
}

// Wrap returns the wrapper component type for wrapped.
func (c *Connector) Wrap(wrapped vdom.Component) *Wrapper {
	w := &Wrapper{
		conn:    c,
		wrapped: wrapped,
		name:    fmt.Sprintf("Connect(%s)", displayName(wrapped)),
		live:    make(map[string]struct{}),
	}
	if c.opts.registry != nil {
		c.opts.registry.Register(w)
	}
	return w
}

func displayName(c vdom.Component) string {
	if c == nil {
		return "Component"
	}
	if name := c.Name(); name != "" {
		return name
	}
	return "Component"
}

// Wrapper is a connected component type.
type Wrapper struct {
	conn    *Connector
	wrapped vdom.Component
	name    string

	mu   sync.Mutex
	live map[string]struct{}
}

// Name implements vdom.Component.
func (w *Wrapper) Name() string {
	return w.name
}

// DisplayName returns "Connect(<wrapped name>)".
func (w *Wrapper) DisplayName() string {
	return w.name
}

// WrappedComponent returns the presentational component.
func (w *Wrapper) WrappedComponent() vdom.Component {
	return w.wrapped
}

// Connector returns the connector that produced w.
func (w *Wrapper) Connector() *Connector {
	return w.conn
}

// New implements vdom.Component.
func (w *Wrapper) New(ctx context.Context, props vdom.Props, u vdom.Updater) (vdom.Instance, error) {
	inst, err := newInstance(ctx, w, props, u)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// Info describes a wrapper for tooling.
type Info struct {
	Name       string   `json:"name"`
	Generation uint64   `json:"generation"`
	Pure       bool     `json:"pure"`
	Subscribes bool     `json:"subscribes"`
	Instances  []string `json:"instances"`
}

// Info returns a snapshot of the wrapper's state. It is safe to call from
// any goroutine.
func (w *Wrapper) Info() Info {
	d := w.conn.def.Load()

	w.mu.Lock()
	ids := make([]string, 0, len(w.live))
	for id := range w.live {
		ids = append(ids, id)
	}
	w.mu.Unlock()
	sort.Strings(ids)

	return Info{
		Name:       w.name,
		Generation: d.generation,
		Pure:       w.conn.opts.pure,
		Subscribes: d.shouldSubscribe,
		Instances:  ids,
	}
}

func (w *Wrapper) track(id string) {
	w.mu.Lock()
	w.live[id] = struct{}{}
	w.mu.Unlock()
}

func (w *Wrapper) untrack(id string) {
	w.mu.Lock()
	delete(w.live, id)
	w.mu.Unlock()
}
