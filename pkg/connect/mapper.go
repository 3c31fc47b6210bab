package connect

import (
	"github.com/vango-dev/connect/internal/shallow"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/vdom"
)

// Mapper derives a props group from an argument (the store state or the
// dispatch function) and, optionally, the wrapper's own props.
//
// Whether a mapper reads own props is fixed by the constructor that built
// it. Mappers that ignore own props are not re-run when only own props
// change.
type Mapper[A any] struct {
	fn      func(arg A, own vdom.Props) vdom.Props
	factory func(arg A, own vdom.Props) *Mapper[A]
	usesOwn bool
}

// StateMapper maps store state to props.
type StateMapper = Mapper[any]

// DispatchMapper maps the dispatch function to props.
type DispatchMapper = Mapper[store.DispatchFunc]

// UsesOwnProps reports whether the mapper is called with own props.
func (m *Mapper[A]) UsesOwnProps() bool {
	return m.usesOwn
}

// IsFactory reports whether the mapper produces a per-instance mapper on
// first use.
func (m *Mapper[A]) IsFactory() bool {
	return m.factory != nil
}

func (m *Mapper[A]) call(arg A, own vdom.Props) vdom.Props {
	if !m.usesOwn {
		own = nil
	}
	return m.fn(arg, own)
}

// MapState builds a state mapper that ignores own props.
func MapState(fn func(state any) vdom.Props) *StateMapper {
	return &StateMapper{fn: func(state any, _ vdom.Props) vdom.Props { return fn(state) }}
}

// MapStateWithProps builds a state mapper that reads own props.
func MapStateWithProps(fn func(state any, own vdom.Props) vdom.Props) *StateMapper {
	return &StateMapper{fn: fn, usesOwn: true}
}

// MapStateFactory builds a state mapper whose first call, made once per
// instance, returns the mapper used from then on. The returned mapper is
// invoked right away for the first props.
//
//	connect.MapStateFactory(func(state any, own vdom.Props) *connect.StateMapper {
//	    selector := newSelector(own["id"])
//	    return connect.MapState(selector)
//	})
func MapStateFactory(fn func(state any, own vdom.Props) *StateMapper) *StateMapper {
	return &StateMapper{factory: fn, usesOwn: true}
}

// MapDispatch builds a dispatch mapper that ignores own props.
func MapDispatch(fn func(dispatch store.DispatchFunc) vdom.Props) *DispatchMapper {
	return &DispatchMapper{fn: func(d store.DispatchFunc, _ vdom.Props) vdom.Props { return fn(d) }}
}

// MapDispatchWithProps builds a dispatch mapper that reads own props.
func MapDispatchWithProps(fn func(dispatch store.DispatchFunc, own vdom.Props) vdom.Props) *DispatchMapper {
	return &DispatchMapper{fn: fn, usesOwn: true}
}

// MapDispatchFactory is the dispatch counterpart of MapStateFactory.
func MapDispatchFactory(fn func(dispatch store.DispatchFunc, own vdom.Props) *DispatchMapper) *DispatchMapper {
	return &DispatchMapper{factory: fn, usesOwn: true}
}

// ActionCreator builds an action. Bound creators produced by
// BindActionCreators have the same type and dispatch what they build.
type ActionCreator func(args ...any) store.Action

// BindActionCreators maps each creator to a prop of the same name that
// creates the action and dispatches it.
func BindActionCreators(creators map[string]ActionCreator) *DispatchMapper {
	return MapDispatch(func(dispatch store.DispatchFunc) vdom.Props {
		props := make(vdom.Props, len(creators))
		for name, create := range creators {
			props[name] = ActionCreator(func(args ...any) store.Action {
				return dispatch(create(args...))
			})
		}
		return props
	})
}

// MergeFunc combines the three props groups into the wrapped component's
// props.
type MergeFunc func(stateProps, dispatchProps, ownProps vdom.Props) vdom.Props

// DefaultMerge returns own props overridden by state props overridden by
// dispatch props.
func DefaultMerge(stateProps, dispatchProps, ownProps vdom.Props) vdom.Props {
	return vdom.Props(shallow.Merge(ownProps, stateProps, dispatchProps))
}

var (
	emptyState      = MapState(func(any) vdom.Props { return vdom.Props{} })
	defaultDispatch = MapDispatch(func(dispatch store.DispatchFunc) vdom.Props {
		return vdom.Props{"dispatch": dispatch}
	})
)
