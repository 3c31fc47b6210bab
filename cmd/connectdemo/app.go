package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/connect/internal/config"
	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/host"
	"github.com/vango-dev/connect/pkg/provider"
	"github.com/vango-dev/connect/pkg/render"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/telemetry"
	"github.com/vango-dev/connect/pkg/vdom"
)

const (
	actionIncrement = "counter/increment"
	actionDecrement = "counter/decrement"
	actionRename    = "counter/rename"
	actionTouch     = "counter/touch"
)

type counterState struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

func reduce(state any, action store.Action) any {
	s, _ := state.(*counterState)
	if s == nil {
		s = &counterState{Label: "Count"}
	}
	switch action.Type {
	case actionIncrement:
		return &counterState{Count: s.Count + step(action), Label: s.Label}
	case actionDecrement:
		return &counterState{Count: s.Count - step(action), Label: s.Label}
	case actionRename:
		label, _ := action.Payload.(string)
		return &counterState{Count: s.Count, Label: label}
	case actionTouch:
		// New reference, same values.
		next := *s
		return &next
	}
	return s
}

func step(action store.Action) int {
	if n, ok := action.Payload.(int); ok {
		return n
	}
	return 1
}

func increment(args ...any) store.Action {
	if len(args) > 0 {
		return store.Action{Type: actionIncrement, Payload: args[0]}
	}
	return store.Action{Type: actionIncrement}
}

func decrement(args ...any) store.Action {
	return store.Action{Type: actionDecrement}
}

// script is the sequence of actions the run and snapshot commands dispatch.
var script = []store.Action{
	{Type: actionIncrement},
	{Type: actionIncrement, Payload: 5},
	{Type: actionTouch},
	{Type: actionRename, Payload: "Total"},
	{Type: actionDecrement},
}

// demo is a mounted counter application.
type demo struct {
	cfg      *config.Config
	store    *telemetry.Store
	registry *connect.Registry
	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	root     *host.Root
	logger   *slog.Logger

	// onError additionally receives render errors raised by dispatches.
	onError func(error)
}

func newDemo(ctx context.Context, cfg *config.Config, logger *slog.Logger) *demo {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(
		telemetry.WithNamespace(cfg.Metrics.Namespace),
		telemetry.WithSubsystem(cfg.Metrics.Subsystem),
		telemetry.WithRegistry(reg),
	)

	d := &demo{
		cfg:      cfg,
		registry: connect.NewRegistry(),
		metrics:  metrics,
		gatherer: reg,
		logger:   logger,
	}
	d.store = telemetry.Instrument(
		store.New(reduce, nil, store.WithLogger(logger)),
		telemetry.WithTracerName(cfg.Tracing.TracerName),
		telemetry.WithMetrics(metrics),
	)
	d.root = host.NewRoot(ctx, host.WithLogger(logger), host.WithErrorHandler(d.handleError))
	return d
}

// handleError logs a render error raised outside Render.
func (d *demo) handleError(err error) {
	text := err.Error()
	var ce *cerrors.Error
	if errors.As(err, &ce) {
		text = ce.FormatCompact()
	}
	d.logger.Error("render failed", "error", text)
	if d.onError != nil {
		d.onError(err)
	}
}

func (d *demo) connectOptions() []connect.Option {
	return []connect.Option{
		connect.WithPure(d.cfg.Pure),
		connect.WithDevMode(d.cfg.DevMode),
		connect.WithLogger(d.logger),
		connect.WithObserver(d.metrics),
		connect.WithRegistry(d.registry),
	}
}

// element builds the application tree: a header showing the label and a
// counter showing the count with its bound actions.
func (d *demo) element() *vdom.VNode {
	header := connect.Connect(
		connect.MapState(func(state any) vdom.Props {
			return vdom.Props{"title": state.(*counterState).Label}
		}),
		nil, nil, d.connectOptions()...,
	).Wrap(host.Func("Header", func(props vdom.Props) *vdom.VNode {
		return vdom.H1(vdom.Textf("%v", props["title"]))
	}))

	counter := connect.Connect(
		connect.MapState(func(state any) vdom.Props {
			s := state.(*counterState)
			return vdom.Props{"count": s.Count, "label": s.Label}
		}),
		connect.BindActionCreators(map[string]connect.ActionCreator{
			"increment": increment,
			"decrement": decrement,
		}),
		nil, d.connectOptions()...,
	).Wrap(host.Func("Counter", func(props vdom.Props) *vdom.VNode {
		return vdom.Div(vdom.Class("counter"),
			vdom.Span(vdom.Data("count", fmt.Sprint(props["count"])),
				vdom.Textf("%v: %v", props["label"], props["count"])),
			vdom.Button(vdom.Data("action", "decrement"), "-"),
			vdom.Button(vdom.Data("action", "increment"), "+"),
		)
	}))

	return provider.New(d.store, vdom.Div(vdom.Class("app"),
		vdom.Create(header, nil),
		vdom.Create(counter, nil),
	))
}

func (d *demo) mount() error {
	return d.root.Render(d.element())
}

func (d *demo) unmount() error {
	return d.root.Unmount()
}

func (d *demo) html(pretty bool) (string, error) {
	return render.NewRenderer(render.RendererConfig{Pretty: pretty}).RenderToString(d.root.Tree())
}
