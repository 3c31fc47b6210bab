// Package render writes mounted host trees as HTML.
//
// The renderer is used by tests and the inspector to show what a connected
// tree currently displays:
//
//	root := host.NewRoot(ctx)
//	_ = root.Render(app)
//	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(root.Tree())
//
// Attributes are written in sorted order so output is deterministic.
// Function-valued props such as event callbacks are never written.
package render
