package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vango-dev/connect/internal/devlog"
	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/internal/shallow"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/vdom"
)

// StoreKey is the prop carrying the store.
const StoreKey = "store"

var (
	// ErrSingleChild is returned when a Provider has zero or several children.
	ErrSingleChild = errors.New("E102")

	// ErrInvalidStore is returned when the store prop is missing or does not
	// implement store.Store.
	ErrInvalidStore = errors.New("E103")
)

// storeKey is the unexported context key; only this package writes it.
type storeKey struct{}

// StoreFromContext returns the store provided by the nearest Provider.
func StoreFromContext(ctx context.Context) (store.Store, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(storeKey{}).(store.Store)
	return s, ok && s != nil
}

// Option configures a Provider component.
type Option func(*Component)

// WithWarnings sets the deduplicating logger used for the store swap
// warning. Defaults to devlog.Default().
func WithWarnings(w *devlog.Once) Option {
	return func(c *Component) {
		c.warnings = w
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		c.logger = logger
	}
}

// Component is the Provider component type.
type Component struct {
	warnings *devlog.Once
	logger   *slog.Logger
}

// Provider is the default Provider component type.
var Provider = NewComponent()

// NewComponent creates a Provider component type. Most callers use the
// package-level Provider; a dedicated type is useful to scope warnings.
func NewComponent(opts ...Option) *Component {
	c := &Component{}
	for _, opt := range opts {
		opt(c)
	}
	if c.warnings == nil {
		c.warnings = devlog.Default()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// New creates a Provider element for s wrapping child.
func New(s store.Store, child *vdom.VNode) *vdom.VNode {
	return vdom.Create(Provider, vdom.Props{StoreKey: s}, child)
}

// Name implements vdom.Component.
func (c *Component) Name() string {
	return "Provider"
}

// New implements vdom.Component.
func (c *Component) New(ctx context.Context, props vdom.Props, u vdom.Updater) (vdom.Instance, error) {
	s, err := storeProp(props)
	if err != nil {
		return nil, err
	}
	if _, err := onlyChild(props); err != nil {
		return nil, err
	}
	c.logger.Debug("provider mounted", "store", fmt.Sprintf("%T", s))
	return &Instance{comp: c, store: s, props: props}, nil
}

// Instance is a mounted Provider.
type Instance struct {
	comp  *Component
	store store.Store
	props vdom.Props
}

// Store returns the store served to the subtree.
func (p *Instance) Store() store.Store {
	return p.store
}

// ChildContext implements host.ContextProvider.
func (p *Instance) ChildContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, storeKey{}, p.store)
}

// ReceiveProps implements host.PropsReceiver. A different store is only
// reported; the subtree keeps the original one.
func (p *Instance) ReceiveProps(next vdom.Props) {
	if !shallow.Identical(next[StoreKey], p.store) {
		p.comp.warnings.Warn("provider-store-swap",
			"Provider does not support changing the store on the fly; the original store stays in use",
			"component", p.comp.Name())
	}
	p.props = next
}

// Render implements vdom.Instance.
func (p *Instance) Render() (*vdom.VNode, error) {
	return onlyChild(p.props)
}

func storeProp(props vdom.Props) (store.Store, error) {
	raw, ok := props[StoreKey]
	if !ok || raw == nil {
		return nil, errors.New("E103").
			WithMessage("Provider requires a \"store\" prop")
	}
	s, ok := raw.(store.Store)
	if !ok {
		return nil, errors.New("E103").
			WithMessage("Provider \"store\" prop of type %T does not implement GetState, Dispatch and Subscribe", raw)
	}
	return s, nil
}

func onlyChild(props vdom.Props) (*vdom.VNode, error) {
	children, _ := props[vdom.ChildrenKey].([]*vdom.VNode)
	if len(children) != 1 {
		return nil, errors.New("E102").
			WithMessage("Provider expects exactly one child element, got %d", len(children))
	}
	return children[0], nil
}
