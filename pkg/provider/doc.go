// Package provider makes a store reachable by every component below it.
//
// The Provider renders its single child unchanged and hands the store to
// the subtree through the context the host threads into every component
// constructor:
//
//	app := provider.New(s, vdom.Create(App, nil))
//	root := host.NewRoot(context.Background())
//	root.Render(app)
//
// Components read the store with StoreFromContext. Only the Provider writes
// it, so the context is the single ambient channel for the store.
//
// Swapping the store of a mounted Provider is not supported: the original
// store keeps being served and a warning is logged once per process.
package provider
