package vtest

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/connect/pkg/host"
	"github.com/vango-dev/connect/pkg/provider"
	"github.com/vango-dev/connect/pkg/render"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/vdom"
)

// TreeBuilder allows fluent construction of mounted test trees.
type TreeBuilder struct {
	ctx    context.Context
	store  store.Store
	logger *slog.Logger
}

// NewTree creates a new tree builder for testing.
//
// Example:
//
//	tree := vtest.NewTree().
//	    WithStore(s).
//	    Mount(t, vdom.Create(ConnectedCounter, nil))
func NewTree() *TreeBuilder {
	return &TreeBuilder{ctx: context.Background()}
}

// WithStore wraps the mounted element in a Provider serving s.
func (b *TreeBuilder) WithStore(s store.Store) *TreeBuilder {
	b.store = s
	return b
}

// WithContext sets the context handed to the top-level component.
func (b *TreeBuilder) WithContext(ctx context.Context) *TreeBuilder {
	b.ctx = ctx
	return b
}

// WithLogger sets the logger of the host root.
func (b *TreeBuilder) WithLogger(logger *slog.Logger) *TreeBuilder {
	b.logger = logger
	return b
}

// Mount renders elem into a new root and fails the test on error. The tree
// is unmounted when the test ends.
func (b *TreeBuilder) Mount(t testing.TB, elem *vdom.VNode) *Tree {
	t.Helper()
	tree, err := b.TryMount(elem)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	t.Cleanup(func() { _ = tree.root.Unmount() })
	return tree
}

// TryMount renders elem into a new root and returns the mount error.
func (b *TreeBuilder) TryMount(elem *vdom.VNode) (*Tree, error) {
	var opts []host.Option
	if b.logger != nil {
		opts = append(opts, host.WithLogger(b.logger))
	}
	tree := &Tree{root: host.NewRoot(b.ctx, opts...), store: b.store}
	return tree, tree.Update(elem)
}

// Tree is a mounted test tree.
type Tree struct {
	root  *host.Root
	store store.Store
}

// Root returns the underlying host root.
func (t *Tree) Root() *host.Root {
	return t.root
}

// Update re-renders the tree with a new top-level element.
func (t *Tree) Update(elem *vdom.VNode) error {
	if t.store != nil {
		elem = provider.New(t.store, elem)
	}
	return t.root.Render(elem)
}

// HTML renders the mounted host elements.
func (t *Tree) HTML() string {
	return RenderToString(t.root.Tree())
}

// Node returns the mounted host elements.
func (t *Tree) Node() *vdom.VNode {
	return t.root.Tree()
}

// RenderToString renders a VNode and returns the HTML string. Render errors
// yield an empty string.
func RenderToString(node *vdom.VNode) string {
	r := render.NewRenderer(render.RendererConfig{})
	html, err := r.RenderToString(node)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, tree.Node(), "count: 3")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(node)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
//
// Example:
//
//	vtest.ExpectAttribute(t, tree.Node(), "data-count", "3")
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
