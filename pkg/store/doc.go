// Package store defines the store contract consumed by the bindings and a
// reference reducer-based implementation.
//
// The contract is deliberately small:
//
//	type Store interface {
//	    GetState() any
//	    Dispatch(action Action) Action
//	    Subscribe(listener func()) (unsubscribe func())
//	}
//
// Any type satisfying it can be handed to a Provider. The reference store
// created by New runs a Reducer on every dispatch and notifies listeners
// synchronously:
//
//	counter := store.New(func(state any, a store.Action) any {
//	    n := state.(int)
//	    switch a.Type {
//	    case "INC":
//	        return n + 1
//	    }
//	    return state
//	}, 0)
//
//	unsubscribe := counter.Subscribe(func() {
//	    fmt.Println(counter.GetState())
//	})
//	defer unsubscribe()
//
//	counter.Dispatch(store.Action{Type: "INC"}) // prints 1
//
// A reducer that returns its input state unchanged leaves the state
// reference untouched; bindings rely on this to skip work.
package store
