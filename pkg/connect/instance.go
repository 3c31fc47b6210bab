package connect

import (
	"context"
	"log/slog"

	"github.com/rs/xid"

	"github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/internal/shallow"
	"github.com/vango-dev/connect/pkg/provider"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/vdom"
)

// instanceState is the memoization state of a mounted wrapper.
type instanceState struct {
	state    pipeline[any]
	dispatch pipeline[store.DispatchFunc]
	merged   vdom.Props
	rendered *vdom.VNode

	haveOwnPropsChanged  bool
	hasStoreStateChanged bool
	storeState           any

	unsubscribe func()
}

// clear drops every cached group and the resolved mappers. The next render
// recomputes everything.
func (s *instanceState) clear(d *definition) {
	s.state.reset(d.mapState)
	s.dispatch.reset(d.mapDispatch)
	s.merged = nil
	s.rendered = nil
	s.haveOwnPropsChanged = true
	s.hasStoreStateChanged = true
}

// capture returns the change flags and the cached element, resetting the
// flags for the next cycle.
func (s *instanceState) capture() (ownChanged, storeChanged bool, rendered *vdom.VNode) {
	ownChanged, storeChanged, rendered = s.haveOwnPropsChanged, s.hasStoreStateChanged, s.rendered
	s.haveOwnPropsChanged = false
	s.hasStoreStateChanged = false
	return
}

// Instance is a mounted wrapper.
type Instance struct {
	w        *Wrapper
	id       string
	def      *definition
	store    store.Store
	dispatch store.DispatchFunc
	props    vdom.Props
	updater  vdom.Updater
	ref      *vdom.Ref
	logger   *slog.Logger

	st instanceState
}

func newInstance(ctx context.Context, w *Wrapper, props vdom.Props, u vdom.Updater) (*Instance, error) {
	s, err := resolveStore(ctx, w, props)
	if err != nil {
		return nil, err
	}

	i := &Instance{
		w:        w,
		id:       xid.New().String(),
		def:      w.conn.def.Load(),
		store:    s,
		dispatch: s.Dispatch,
		props:    props,
		updater:  u,
	}
	i.logger = w.conn.opts.logger.With("component", w.name, "instance", i.id)
	if w.conn.opts.withRef {
		i.ref = vdom.NewRef()
	}
	i.st.state.name = "mapStateToProps"
	i.st.dispatch.name = "mapDispatchToProps"
	i.st.storeState = s.GetState()
	i.st.clear(i.def)
	return i, nil
}

// resolveStore prefers an explicit "store" prop over the enclosing Provider.
func resolveStore(ctx context.Context, w *Wrapper, props vdom.Props) (store.Store, error) {
	if raw, ok := props[provider.StoreKey]; ok && raw != nil {
		s, ok := raw.(store.Store)
		if !ok {
			return nil, w.conn.site.attach(errors.New("E103").
				WithMessage("\"store\" prop of %q has type %T, which does not implement GetState, Dispatch and Subscribe", w.name, raw))
		}
		return s, nil
	}
	if s, ok := provider.StoreFromContext(ctx); ok {
		return s, nil
	}
	return nil, w.conn.site.attach(errors.New("E101").
		WithMessage("Could not find \"store\" in either the context or props of %q. "+
			"Either wrap the root component in a Provider, or explicitly pass \"store\" as a prop to %q.",
			w.name, w.name).
		WithExample(providerExample))
}

// ID returns the unique instance ID.
func (i *Instance) ID() string {
	return i.id
}

// Store returns the store the instance is bound to.
func (i *Instance) Store() store.Store {
	return i.store
}

// WrappedInstance returns the mounted wrapped instance. It fails unless the
// connector was created with WithRef.
func (i *Instance) WrappedInstance() (vdom.Instance, error) {
	if i.ref == nil {
		return nil, i.w.conn.site.attach(errors.New("E105").
			WithMessage("To access the wrapped instance of %q, pass connect.WithRef() to connect.Connect", i.w.name).
			WithExample(withRefExample))
	}
	return i.ref.Current(), nil
}

// ReceiveProps implements host.PropsReceiver.
func (i *Instance) ReceiveProps(next vdom.Props) {
	if !i.w.conn.opts.pure || !shallow.Equal(next, i.props) {
		i.st.haveOwnPropsChanged = true
	}
	i.props = next
}

// ShouldUpdate implements host.ShouldUpdater.
func (i *Instance) ShouldUpdate(vdom.Props) bool {
	return !i.w.conn.opts.pure ||
		i.st.haveOwnPropsChanged ||
		i.st.hasStoreStateChanged ||
		i.stale()
}

// WillUpdate implements host.WillUpdater. An instance built from an older
// generation re-subscribes and starts over with empty caches.
func (i *Instance) WillUpdate(vdom.Props) error {
	if !i.stale() {
		return nil
	}
	i.def = i.w.conn.def.Load()
	i.logger.Debug("generation changed", "generation", i.def.generation)
	i.w.conn.opts.observer.Reloaded(i.w.name, i.def.generation)
	i.trySubscribe()
	i.st.clear(i.def)
	return nil
}

func (i *Instance) stale() bool {
	return i.w.conn.opts.devMode && i.def != i.w.conn.def.Load()
}

// DidMount implements host.Mounter.
func (i *Instance) DidMount() error {
	i.w.track(i.id)
	i.trySubscribe()
	return nil
}

// WillUnmount implements host.Unmounter.
func (i *Instance) WillUnmount() {
	i.tryUnsubscribe()
	i.st.clear(i.def)
	i.w.untrack(i.id)
}

func (i *Instance) trySubscribe() {
	if !i.def.shouldSubscribe || i.st.unsubscribe != nil {
		return
	}
	i.st.unsubscribe = i.store.Subscribe(i.handleChange)
	i.logger.Debug("subscribed")
	i.w.conn.opts.observer.Subscribed(i.w.name)
	i.handleChange()
}

func (i *Instance) tryUnsubscribe() {
	if i.st.unsubscribe == nil {
		return
	}
	i.st.unsubscribe()
	i.st.unsubscribe = nil
	i.logger.Debug("unsubscribed")
	i.w.conn.opts.observer.Unsubscribed(i.w.name)
}

// handleChange is the store listener.
func (i *Instance) handleChange() {
	if i.st.unsubscribe == nil {
		return
	}

	next := i.store.GetState()
	if i.w.conn.opts.pure && shallow.Identical(i.st.storeState, next) {
		return
	}
	i.st.storeState = next
	i.st.hasStoreStateChanged = true
	i.updater.Invalidate()
}

// Render implements vdom.Instance. It recomputes only the stale props
// groups and returns the previous element when the merged props did not
// change.
func (i *Instance) Render() (*vdom.VNode, error) {
	opts := &i.w.conn.opts
	ownChanged, storeChanged, rendered := i.st.capture()

	updateState, updateDispatch := true, true
	if opts.pure && rendered != nil {
		updateState = storeChanged || (ownChanged && i.st.state.dependsOnOwnProps())
		updateDispatch = ownChanged && i.st.dispatch.dependsOnOwnProps()
	}

	var stateChanged, dispatchChanged bool
	var err error
	if updateState {
		stateChanged, err = i.st.state.update(i.store.GetState(), i.props, i.invalidProps)
		if err != nil {
			return nil, err
		}
		opts.observer.Recomputed(i.w.name, GroupState, stateChanged)
	}
	if updateDispatch {
		dispatchChanged, err = i.st.dispatch.update(i.dispatch, i.props, i.invalidProps)
		if err != nil {
			return nil, err
		}
		opts.observer.Recomputed(i.w.name, GroupDispatch, dispatchChanged)
	}

	mergedChanged := false
	if stateChanged || dispatchChanged || ownChanged {
		mergedChanged, err = i.updateMerged()
		if err != nil {
			return nil, err
		}
		opts.observer.Recomputed(i.w.name, GroupMerged, mergedChanged)
	}

	if !mergedChanged && rendered != nil {
		opts.observer.Rendered(i.w.name, true)
		return rendered, nil
	}

	elem := vdom.Create(i.w.wrapped, i.st.merged)
	if i.ref != nil {
		elem = vdom.WithRef(elem, i.ref)
	}
	i.st.rendered = elem
	opts.observer.Rendered(i.w.name, false)
	return elem, nil
}

func (i *Instance) updateMerged() (bool, error) {
	next := i.def.merge(i.st.state.props, i.st.dispatch.props, i.props)
	if next == nil {
		return false, i.invalidProps("mergeProps")
	}
	if i.st.merged != nil && i.def.checkMergedEquals && shallow.Equal(next, i.st.merged) {
		return false, nil
	}
	i.st.merged = next
	return true, nil
}

func (i *Instance) invalidProps(mapper string) error {
	return i.w.conn.site.attach(errors.New("E104").
		WithMessage("`%s` of %q must return props. Instead received nil.", mapper, i.w.name))
}
