// Package devtools serves a development inspector for a store and the
// components connected to it.
//
// Routes:
//
//	GET  /            HTML overview
//	GET  /state       current state as JSON
//	GET  /connectors  connected components, generations and live instances
//	GET  /ws          state pushed after every dispatch
//	POST /reload      refresh every registered connector
//	GET  /metrics     Prometheus metrics
//
// The inspector only reads state and bumps connector generations; it never
// dispatches or renders components.
package devtools
