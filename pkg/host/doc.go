// Package host mounts component trees and drives their lifecycle.
//
// A Root owns one mounted tree. Render mounts it on the first call and
// reconciles it on later calls; Unmount tears it down. Everything runs
// synchronously on the caller's goroutine:
//
//	root := host.NewRoot(context.Background())
//	if err := root.Render(app); err != nil {
//	    return err
//	}
//	defer root.Unmount()
//
// # Lifecycle
//
// Instances may implement any of the optional hooks below; the host calls
// them in this order:
//
//   - New (construction, once)
//   - ContextProvider.ChildContext (once, after construction)
//   - Render
//   - Mounter.DidMount (after the whole pass, children before parents)
//   - PropsReceiver.ReceiveProps (parent rendered a different element)
//   - ShouldUpdater.ShouldUpdate (before every update)
//   - WillUpdater.WillUpdate (before every update that renders)
//   - Unmounter.WillUnmount (parents before children)
//
// # Bailout
//
// An instance that returns the same *vdom.VNode pointer it returned last
// time tells the host the subtree is unchanged; the host does not descend
// into it. Updaters queued inside that subtree are still processed.
//
// # Invalidation
//
// Updater.Invalidate queues the instance for re-render. Outside a render
// pass the queue is flushed immediately; during a pass it is flushed before
// the pass returns, parents first.
package host
