// Package connect binds presentational components to a store.
//
// A Connector is built from up to three functions: a state mapper, a
// dispatch mapper and a merge function. Wrapping a component with it yields
// a new component type that reads the store from an enclosing Provider (or
// an explicit "store" prop), subscribes while mounted and passes the merged
// props down:
//
//	counter := connect.Connect(
//	    connect.MapState(func(state any) vdom.Props {
//	        return vdom.Props{"count": state.(CounterState).Count}
//	    }),
//	    connect.BindActionCreators(map[string]connect.ActionCreator{
//	        "increment": func(...any) store.Action { return store.Action{Type: "INC"} },
//	    }),
//	    nil,
//	).Wrap(CounterView)
//
// # Memoization
//
// Each instance caches the state props, the dispatch props, the merged props
// and the element it last rendered. A store notification only recomputes
// the state props; a new parent element only recomputes groups whose mapper
// reads own props. Groups that come out shallow-equal keep their previous
// reference, and when the merged props are unchanged Render returns the
// previous element so the host skips the subtree.
//
// # Generations
//
// Every Connect call and every Reload or Refresh stamps a new generation.
// With dev mode on, an instance from an older generation clears its caches
// and re-subscribes before its next update. Registry.ReloadAll refreshes
// every registered connector and is what the devtools reload endpoint calls.
package connect
