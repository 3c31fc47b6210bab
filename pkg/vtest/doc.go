// Package vtest provides testing helpers for connected components.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    s := store.New(counterReducer, 0)
//	    rec := vtest.NewRecorder("Counter", counterView)
//	    tree := vtest.NewTree().
//	        WithStore(s).
//	        Mount(t, vdom.Create(connector.Wrap(rec), nil))
//
//	    s.Dispatch(store.Action{Type: "inc"})
//	    vtest.ExpectContains(t, tree.Node(), "count: 1")
//	    if rec.Renders() != 2 {
//	        t.Errorf("expected 2 renders, got %d", rec.Renders())
//	    }
//	}
//
// # Fluent Tree Builder
//
// NewTree mounts an element into a fresh host root. WithStore wraps the
// element in a Provider so connected descendants find the store.
//
// # Recorder
//
// Recorder is a presentational component that keeps the props of every
// render, which makes render counts and prop identity easy to assert on.
//
// # Render Assertions
//
// Assert on rendered HTML output:
//
//	vtest.ExpectContains(t, tree.Node(), "count: 1")
//	vtest.ExpectNotContains(t, tree.Node(), "error")
package vtest
