package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/vdom"
)

// fake is a configurable component that records its lifecycle calls.
type fake struct {
	name     string
	log      *[]string
	render   func(p *fakeInstance) (*vdom.VNode, error)
	should   func(next vdom.Props) bool
	ctxKey   any
	ctxValue any
	newErr   error
}

func (f *fake) Name() string { return f.name }

func (f *fake) New(ctx context.Context, props vdom.Props, u vdom.Updater) (vdom.Instance, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.record("new")
	return &fakeInstance{comp: f, ctx: ctx, props: props, updater: u}, nil
}

func (f *fake) record(event string) {
	if f.log != nil {
		*f.log = append(*f.log, f.name+":"+event)
	}
}

type fakeInstance struct {
	comp    *fake
	ctx     context.Context
	props   vdom.Props
	updater vdom.Updater
	renders int
}

func (i *fakeInstance) Render() (*vdom.VNode, error) {
	i.renders++
	i.comp.record("render")
	if i.comp.render != nil {
		return i.comp.render(i)
	}
	return vdom.Text(i.comp.name), nil
}

func (i *fakeInstance) ReceiveProps(next vdom.Props) {
	i.comp.record("receive")
	i.props = next
}

func (i *fakeInstance) ShouldUpdate(next vdom.Props) bool {
	if i.comp.should != nil {
		return i.comp.should(next)
	}
	return true
}

func (i *fakeInstance) DidMount() error {
	i.comp.record("mount")
	return nil
}

func (i *fakeInstance) WillUnmount() {
	i.comp.record("unmount")
}

func (i *fakeInstance) ChildContext(ctx context.Context) context.Context {
	if i.comp.ctxKey == nil {
		return ctx
	}
	return context.WithValue(ctx, i.comp.ctxKey, i.comp.ctxValue)
}

func TestRenderResolvesHostTree(t *testing.T) {
	label := Func("Label", func(p vdom.Props) *vdom.VNode {
		return vdom.Span(vdom.Textf("%v", p["text"]))
	})

	root := NewRoot(context.Background())
	err := root.Render(vdom.Div(
		vdom.ID("app"),
		vdom.Create(label, vdom.Props{"text": "hello"}),
		"tail",
	))
	require.NoError(t, err)

	tree := root.Tree()
	require.NotNil(t, tree)
	assert.Equal(t, "div", tree.Tag)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "span", tree.Children[0].Tag)
	assert.Equal(t, "hello", tree.Children[0].Children[0].Text)
	assert.Equal(t, "tail", tree.Children[1].Text)
}

func TestLifecycleOrder(t *testing.T) {
	var log []string
	child := &fake{name: "child", log: &log}
	parent := &fake{name: "parent", log: &log}
	parent.render = func(p *fakeInstance) (*vdom.VNode, error) {
		return vdom.Create(child, nil), nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(parent, nil)))
	require.NoError(t, root.Unmount())

	assert.Equal(t, []string{
		"parent:new", "parent:render",
		"child:new", "child:render",
		"child:mount", "parent:mount",
		"parent:unmount", "child:unmount",
	}, log)
	assert.Equal(t, 2, root.Stats().Mounts)
	assert.Equal(t, 2, root.Stats().Unmounts)
}

func TestIdenticalElementBailsOut(t *testing.T) {
	var log []string
	leaf := &fake{name: "leaf", log: &log}
	cached := vdom.Create(leaf, vdom.Props{"n": 1})

	parent := &fake{name: "parent"}
	parent.render = func(p *fakeInstance) (*vdom.VNode, error) {
		return cached, nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(parent, vdom.Props{"v": 1})))
	log = nil

	require.NoError(t, root.Render(vdom.Create(parent, vdom.Props{"v": 2})))

	assert.Empty(t, log, "leaf must not be touched when the parent returns the same element")
	assert.Equal(t, 1, root.Stats().Bailouts)
}

func TestShouldUpdateVeto(t *testing.T) {
	var log []string
	comp := &fake{name: "c", log: &log, should: func(next vdom.Props) bool {
		return next["v"] != 2
	}}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(comp, vdom.Props{"v": 1})))
	log = nil

	require.NoError(t, root.Render(vdom.Create(comp, vdom.Props{"v": 2})))
	assert.Equal(t, []string{"c:receive"}, log)
	assert.Equal(t, 1, root.Stats().Vetoed)

	log = nil
	require.NoError(t, root.Render(vdom.Create(comp, vdom.Props{"v": 3})))
	assert.Equal(t, []string{"c:receive", "c:render"}, log)
}

func TestInvalidateOutsidePassFlushesImmediately(t *testing.T) {
	comp := &fake{name: "c"}
	var inst *fakeInstance
	comp.render = func(p *fakeInstance) (*vdom.VNode, error) {
		inst = p
		return vdom.Textf("render %d", p.renders), nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(comp, nil)))
	require.Equal(t, 1, inst.renders)

	inst.updater.Invalidate()

	assert.Equal(t, 2, inst.renders)
	assert.Equal(t, "render 2", root.Tree().Text)
}

func TestInvalidateDuringPassIsQueued(t *testing.T) {
	comp := &fake{name: "c"}
	comp.render = func(p *fakeInstance) (*vdom.VNode, error) {
		if p.renders == 1 {
			// Asking for a re-render from inside Render must not recurse.
			p.updater.Invalidate()
		}
		return vdom.Textf("render %d", p.renders), nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(comp, nil)))

	assert.Equal(t, "render 2", root.Tree().Text)
}

func TestQueuedNodesProcessParentsFirst(t *testing.T) {
	var order []string
	var parentInst, childInst *fakeInstance

	child := &fake{name: "child"}
	child.render = func(p *fakeInstance) (*vdom.VNode, error) {
		childInst = p
		order = append(order, "child")
		return nil, nil
	}
	parent := &fake{name: "parent"}
	parent.render = func(p *fakeInstance) (*vdom.VNode, error) {
		parentInst = p
		order = append(order, "parent")
		return vdom.Create(child, vdom.Props{"n": p.renders}), nil
	}
	trigger := &fake{name: "trigger"}
	trigger.render = func(p *fakeInstance) (*vdom.VNode, error) {
		if p.renders == 2 {
			childInst.updater.Invalidate()
			parentInst.updater.Invalidate()
		}
		return nil, nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Div(vdom.Create(parent, nil), vdom.Create(trigger, vdom.Props{"v": 1}))))
	order = nil

	require.NoError(t, root.Render(vdom.Div(vdom.Create(parent, nil), vdom.Create(trigger, vdom.Props{"v": 2}))))

	// The div re-rendered the parent (new element) which re-rendered the
	// child; the queued parent then renders again and the child follows as
	// part of that render, so the child is never rendered on its own.
	assert.Equal(t, []string{"parent", "child", "parent", "child"}, order)
}

type ctxKey struct{}

func TestChildContextReachesDescendants(t *testing.T) {
	var seen any
	reader := &fake{name: "reader"}
	reader.render = func(p *fakeInstance) (*vdom.VNode, error) {
		seen = p.ctx.Value(ctxKey{})
		return nil, nil
	}
	provider := &fake{name: "provider", ctxKey: ctxKey{}, ctxValue: "injected"}
	provider.render = func(p *fakeInstance) (*vdom.VNode, error) {
		return vdom.Div(vdom.Create(reader, nil)), nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(provider, nil)))

	assert.Equal(t, "injected", seen)
}

func TestChildrenDeliveredAsProps(t *testing.T) {
	var got any
	comp := &fake{name: "c"}
	comp.render = func(p *fakeInstance) (*vdom.VNode, error) {
		got = p.props[vdom.ChildrenKey]
		return nil, nil
	}
	kid := vdom.Span("kid")

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(comp, vdom.Props{"a": 1}, kid)))

	children, ok := got.([]*vdom.VNode)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Same(t, kid, children[0])
}

func TestKeyedChildrenKeepInstances(t *testing.T) {
	var log []string
	item := &fake{name: "item", log: &log}

	list := func(keys ...string) *vdom.VNode {
		var items []*vdom.VNode
		for _, k := range keys {
			items = append(items, vdom.Create(item, vdom.Props{"key": k}))
		}
		return vdom.Ul(items)
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(list("a", "b", "c")))
	log = nil

	require.NoError(t, root.Render(list("c", "a")))

	assert.NotContains(t, log, "item:new")
	assert.Contains(t, log, "item:unmount")
	assert.Equal(t, 3, root.Stats().Mounts)
	assert.Equal(t, 1, root.Stats().Unmounts)
}

func TestTypeChangeRemounts(t *testing.T) {
	var log []string
	a := &fake{name: "a", log: &log}
	b := &fake{name: "b", log: &log}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(a, nil)))
	require.NoError(t, root.Render(vdom.Create(b, nil)))

	assert.Equal(t, []string{"a:new", "a:render", "a:mount", "a:unmount", "b:new", "b:render", "b:mount"}, log)
}

func TestRefAttachedAndCleared(t *testing.T) {
	comp := &fake{name: "c"}
	ref := vdom.NewRef()

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.WithRef(vdom.Create(comp, nil), ref)))

	require.True(t, ref.IsSet())
	_, ok := ref.Current().(*fakeInstance)
	assert.True(t, ok)

	require.NoError(t, root.Unmount())
	assert.False(t, ref.IsSet())
}

func TestConstructionErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	comp := &fake{name: "c", newErr: boom}

	root := NewRoot(context.Background())
	err := root.Render(vdom.Div(vdom.Create(comp, nil)))

	assert.ErrorIs(t, err, boom)
}

func TestRenderErrorDuringFlushGoesToHandler(t *testing.T) {
	boom := errors.New("render failed")
	var handled error

	comp := &fake{name: "c"}
	var inst *fakeInstance
	comp.render = func(p *fakeInstance) (*vdom.VNode, error) {
		inst = p
		if p.renders > 1 {
			return nil, boom
		}
		return nil, nil
	}

	root := NewRoot(context.Background(), WithErrorHandler(func(err error) { handled = err }))
	require.NoError(t, root.Render(vdom.Create(comp, nil)))

	inst.updater.Invalidate()

	assert.ErrorIs(t, handled, boom)
	assert.ErrorIs(t, handled, ErrRenderFailed)
	assert.Contains(t, handled.Error(), "c failed to render")
	assert.ErrorIs(t, root.Err(), boom)
}

func TestRenderErrorKeepsStructuredErrors(t *testing.T) {
	structured := cerrors.New("E104").WithMessage("mapper returned nil")
	comp := &fake{name: "c", render: func(*fakeInstance) (*vdom.VNode, error) {
		return nil, structured
	}}

	err := NewRoot(context.Background()).Render(vdom.Create(comp, nil))

	assert.Same(t, structured, err)
	assert.NotErrorIs(t, err, ErrRenderFailed)
}

func TestReentrantRender(t *testing.T) {
	var root *Root
	var inner error
	comp := &fake{name: "c"}
	comp.render = func(p *fakeInstance) (*vdom.VNode, error) {
		inner = root.Render(nil)
		return nil, nil
	}

	root = NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(comp, nil)))

	assert.ErrorIs(t, inner, ErrReentrantRender)
}

func TestUnmountedNodeIgnoresInvalidate(t *testing.T) {
	comp := &fake{name: "c"}
	var inst *fakeInstance
	comp.render = func(p *fakeInstance) (*vdom.VNode, error) {
		inst = p
		return nil, nil
	}

	root := NewRoot(context.Background())
	require.NoError(t, root.Render(vdom.Create(comp, nil)))
	require.NoError(t, root.Unmount())

	inst.updater.Invalidate()
	assert.Equal(t, 1, inst.renders)
}
