// Package telemetry exposes Prometheus metrics and OpenTelemetry spans for
// connected trees.
//
//	metrics := telemetry.NewMetrics(telemetry.WithNamespace("myapp"))
//	s := telemetry.Instrument(store.New(reducer, nil), telemetry.WithMetrics(metrics))
//	counter := connect.Connect(mapState, nil, nil, connect.WithObserver(metrics))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
package telemetry
