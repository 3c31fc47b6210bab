// Package vdom provides the element model shared by hosts and components.
//
// # Core Types
//
// VNode is the fundamental building block representing elements, text,
// fragments, components, and raw HTML. Props holds attributes for elements
// and props for components.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	)
//
// Component elements are created with Create:
//
//	vdom.Create(Counter, vdom.Props{"label": "clicks"})
//
// # Components
//
// A Component is a type: hosts call New once per mounted instance and then
// Render on every update. Instances that want to re-render on their own
// (for example after a store notification) call Updater.Invalidate.
package vdom
