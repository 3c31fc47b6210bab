package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/internal/shallow"
	"github.com/vango-dev/connect/pkg/vdom"
)

// ErrReentrantRender is returned when Render or Unmount is called from
// inside a render pass.
var ErrReentrantRender = errors.New("host: render called during a render pass")

// ErrRenderFailed matches errors returned by a component's Render. The
// component's own error stays reachable through errors.Is and errors.As.
var ErrRenderFailed = cerrors.New("E106")

// Stats counts lifecycle work done by a Root.
type Stats struct {
	Mounts   int // component instances constructed
	Renders  int // component Render calls
	Bailouts int // identical elements whose subtree was skipped
	Vetoed   int // updates rejected by ShouldUpdate
	Unmounts int // component instances removed
}

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger used for lifecycle debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Root) {
		r.logger = logger
	}
}

// WithErrorHandler sets the function receiving errors raised while flushing
// invalidations outside Render, for example from a store notification.
// The default logs the error.
func WithErrorHandler(fn func(error)) Option {
	return func(r *Root) {
		r.onError = fn
	}
}

// Root owns a mounted tree. A Root is not safe for concurrent use; all calls,
// including Updater.Invalidate, must happen on one goroutine.
type Root struct {
	ctx     context.Context
	logger  *slog.Logger
	onError func(error)

	tree      *node
	queue     []*node
	mounted   []*node
	rendering bool
	lastErr   error
	stats     Stats
}

// NewRoot creates an empty Root. ctx is the context handed to top-level
// components.
func NewRoot(ctx context.Context, opts ...Option) *Root {
	if ctx == nil {
		ctx = context.Background()
	}
	r := &Root{ctx: ctx}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.onError == nil {
		r.onError = func(err error) {
			r.logger.Error("host update failed", "error", err)
		}
	}
	return r
}

// node is a mounted element.
type node struct {
	root     *Root
	parent   *node
	depth    int
	elem     *vdom.VNode
	ctx      context.Context
	childCtx context.Context

	inst     vdom.Instance
	child    *node   // component output
	children []*node // element and fragment children

	queued    bool
	unmounted bool
}

// Invalidate implements vdom.Updater.
func (n *node) Invalidate() {
	n.root.enqueue(n)
}

// Render mounts elem on the first call and reconciles the tree against it
// afterwards. Errors abort the pass; the tree keeps whatever was reconciled
// before the failure.
func (r *Root) Render(elem *vdom.VNode) error {
	if r.rendering {
		return ErrReentrantRender
	}
	return r.pass(func() error {
		tree, err := r.reconcile(nil, r.tree, elem, r.ctx)
		r.tree = tree
		return err
	})
}

// Unmount removes the whole tree. Pending invalidations are dropped.
func (r *Root) Unmount() error {
	if r.rendering {
		return ErrReentrantRender
	}
	r.unmount(r.tree)
	r.tree = nil
	r.queue = nil
	return nil
}

// Tree returns the host elements currently mounted, with component nodes
// replaced by their output.
func (r *Root) Tree() *vdom.VNode {
	return resolve(r.tree)
}

// Stats returns lifecycle counters.
func (r *Root) Stats() Stats {
	return r.stats
}

// Err returns the last error raised while flushing invalidations outside
// Render.
func (r *Root) Err() error {
	return r.lastErr
}

// pass runs fn as a render pass: DidMount hooks and queued invalidations
// run before it returns.
func (r *Root) pass(fn func() error) error {
	r.rendering = true
	defer func() {
		r.rendering = false
	}()

	if err := fn(); err != nil {
		r.mounted = nil
		r.queue = nil
		return err
	}
	if err := r.didMount(); err != nil {
		r.queue = nil
		return err
	}
	return r.drain()
}

// didMount runs DidMount for instances mounted during the pass, in mount
// completion order (children before parents).
func (r *Root) didMount() error {
	for len(r.mounted) > 0 {
		pending := r.mounted
		r.mounted = nil
		for _, n := range pending {
			if n.unmounted {
				continue
			}
			if m, ok := n.inst.(Mounter); ok {
				if err := m.DidMount(); err != nil {
					r.mounted = nil
					return fmt.Errorf("%s: did mount: %w", n.elem.Type.Name(), err)
				}
			}
		}
	}
	return nil
}

// drain processes queued invalidations, shallowest first.
func (r *Root) drain() error {
	for len(r.queue) > 0 {
		sort.SliceStable(r.queue, func(i, j int) bool {
			return r.queue[i].depth < r.queue[j].depth
		})
		n := r.queue[0]
		r.queue = r.queue[1:]

		if n.unmounted || !n.queued {
			continue
		}
		if err := r.update(n, n.elem); err != nil {
			r.queue = nil
			return err
		}
		if err := r.didMount(); err != nil {
			r.queue = nil
			return err
		}
	}
	return nil
}

func (r *Root) enqueue(n *node) {
	if n.unmounted || n.queued {
		return
	}
	n.queued = true
	r.queue = append(r.queue, n)

	if r.rendering {
		return
	}
	if err := r.pass(func() error { return nil }); err != nil {
		r.lastErr = err
		r.onError(err)
	}
}

// reconcile updates old to match elem and returns the node now standing in
// its place.
func (r *Root) reconcile(parent *node, old *node, elem *vdom.VNode, ctx context.Context) (*node, error) {
	if old == nil {
		return r.mount(parent, elem, ctx)
	}
	if elem == nil {
		r.unmount(old)
		return nil, nil
	}
	if old.elem == elem {
		r.stats.Bailouts++
		return old, nil
	}
	if !sameType(old.elem, elem) {
		r.unmount(old)
		return r.mount(parent, elem, ctx)
	}

	switch elem.Kind {
	case vdom.KindComponent:
		if err := r.update(old, elem); err != nil {
			return old, err
		}
	case vdom.KindElement, vdom.KindFragment:
		old.elem = elem
		if err := r.reconcileChildren(old, elem.Children); err != nil {
			return old, err
		}
	default:
		old.elem = elem
	}
	return old, nil
}

// mount creates the node for elem and its subtree.
func (r *Root) mount(parent *node, elem *vdom.VNode, ctx context.Context) (*node, error) {
	if elem == nil {
		return nil, nil
	}

	n := &node{root: r, parent: parent, elem: elem, ctx: ctx, childCtx: ctx}
	if parent != nil {
		n.depth = parent.depth + 1
	}

	switch elem.Kind {
	case vdom.KindComponent:
		if elem.Type == nil {
			return nil, fmt.Errorf("host: component element without type")
		}
		inst, err := elem.Type.New(ctx, componentProps(elem), n)
		if err != nil {
			return nil, err
		}
		n.inst = inst
		r.stats.Mounts++

		if cp, ok := inst.(ContextProvider); ok {
			n.childCtx = cp.ChildContext(ctx)
		}

		out, err := r.render(n)
		if err != nil {
			return nil, err
		}
		child, err := r.mount(n, out, n.childCtx)
		if err != nil {
			return nil, err
		}
		n.child = child

		if elem.Ref != nil {
			elem.Ref.Set(inst)
		}
		r.mounted = append(r.mounted, n)

	case vdom.KindElement, vdom.KindFragment:
		for _, c := range elem.Children {
			child, err := r.mount(n, c, ctx)
			if err != nil {
				return nil, err
			}
			if child != nil {
				n.children = append(n.children, child)
			}
		}
	}

	return n, nil
}

// update re-renders a component node for elem, which may be its current
// element when the node was invalidated.
func (r *Root) update(n *node, elem *vdom.VNode) error {
	n.queued = false
	next := componentProps(elem)

	if elem != n.elem {
		if pr, ok := n.inst.(PropsReceiver); ok {
			pr.ReceiveProps(next)
		}
		if n.elem.Ref != elem.Ref {
			if n.elem.Ref != nil {
				n.elem.Ref.Set(nil)
			}
			if elem.Ref != nil {
				elem.Ref.Set(n.inst)
			}
		}
	}
	n.elem = elem

	if su, ok := n.inst.(ShouldUpdater); ok && !su.ShouldUpdate(next) {
		r.stats.Vetoed++
		return nil
	}
	if wu, ok := n.inst.(WillUpdater); ok {
		if err := wu.WillUpdate(next); err != nil {
			return err
		}
	}

	out, err := r.render(n)
	if err != nil {
		return err
	}
	child, err := r.reconcile(n, n.child, out, n.childCtx)
	n.child = child
	return err
}

func (r *Root) render(n *node) (*vdom.VNode, error) {
	r.stats.Renders++
	out, err := n.inst.Render()
	if err != nil {
		var ce *cerrors.Error
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, cerrors.New("E106").
			WithMessage("%s failed to render", n.elem.Type.Name()).
			Wrap(err)
	}
	return out, nil
}

// reconcileChildren matches children by key when any side is keyed and by
// position otherwise.
func (r *Root) reconcileChildren(n *node, elems []*vdom.VNode) error {
	old := n.children
	next := make([]*node, 0, len(elems))
	used := make([]bool, len(old))

	keyed := make(map[string]int)
	if hasKeys(old) || hasElemKeys(elems) {
		for i, c := range old {
			if c.elem.Key != "" {
				keyed[c.elem.Key] = i
			}
		}
	}

	pos := 0
	var firstErr error
	for _, elem := range elems {
		if elem == nil {
			continue
		}

		match := -1
		if elem.Key != "" {
			if i, ok := keyed[elem.Key]; ok && !used[i] {
				match = i
			}
		} else {
			for pos < len(old) && (used[pos] || old[pos].elem.Key != "") {
				pos++
			}
			if pos < len(old) {
				match = pos
				pos++
			}
		}

		var prev *node
		if match >= 0 {
			used[match] = true
			prev = old[match]
		}

		child, err := r.reconcile(n, prev, elem, n.ctx)
		if child != nil {
			next = append(next, child)
		}
		if err != nil && firstErr == nil {
			firstErr = err
			break
		}
	}

	for i, c := range old {
		if !used[i] && firstErr == nil {
			r.unmount(c)
		} else if !used[i] {
			next = append(next, c)
		}
	}
	n.children = next
	return firstErr
}

// unmount removes n and its subtree, parents first.
func (r *Root) unmount(n *node) {
	if n == nil || n.unmounted {
		return
	}
	n.unmounted = true
	n.queued = false

	if n.inst != nil {
		if u, ok := n.inst.(Unmounter); ok {
			u.WillUnmount()
		}
		if n.elem.Ref != nil {
			n.elem.Ref.Set(nil)
		}
		r.stats.Unmounts++
	}

	r.unmount(n.child)
	for _, c := range n.children {
		r.unmount(c)
	}
}

func sameType(a, b *vdom.VNode) bool {
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case vdom.KindElement:
		return a.Tag == b.Tag
	case vdom.KindComponent:
		return shallow.Identical(a.Type, b.Type)
	}
	return true
}

func hasKeys(nodes []*node) bool {
	for _, n := range nodes {
		if n.elem.Key != "" {
			return true
		}
	}
	return false
}

func hasElemKeys(elems []*vdom.VNode) bool {
	for _, e := range elems {
		if e != nil && e.Key != "" {
			return true
		}
	}
	return false
}

// componentProps returns the props an instance receives for elem. Element
// children are delivered under vdom.ChildrenKey.
func componentProps(elem *vdom.VNode) vdom.Props {
	if len(elem.Children) == 0 {
		if elem.Props == nil {
			return vdom.Props{}
		}
		return elem.Props
	}
	props := elem.Props.Clone()
	props[vdom.ChildrenKey] = elem.Children
	return props
}

// resolve flattens component nodes into the host elements they produced.
func resolve(n *node) *vdom.VNode {
	if n == nil {
		return nil
	}
	switch n.elem.Kind {
	case vdom.KindComponent:
		return resolve(n.child)
	case vdom.KindElement, vdom.KindFragment:
		out := &vdom.VNode{
			Kind:     n.elem.Kind,
			Tag:      n.elem.Tag,
			Props:    n.elem.Props,
			Key:      n.elem.Key,
			Children: make([]*vdom.VNode, 0, len(n.children)),
		}
		for _, c := range n.children {
			if rc := resolve(c); rc != nil {
				out.Children = append(out.Children, rc)
			}
		}
		return out
	default:
		return n.elem
	}
}
