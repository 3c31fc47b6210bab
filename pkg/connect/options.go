package connect

import "log/slog"

type options struct {
	pure     bool
	withRef  bool
	devMode  bool
	logger   *slog.Logger
	observer Observer
	registry *Registry
}

func defaultOptions() options {
	return options{
		pure:     true,
		devMode:  true,
		observer: NopObserver{},
	}
}

// Option configures a Connector.
type Option func(*options)

// WithPure toggles memoization. Impure connectors recompute every props
// group and re-render on every parent render and store notification.
// Defaults to true.
func WithPure(pure bool) Option {
	return func(o *options) {
		o.pure = pure
	}
}

// WithRef attaches a ref to the wrapped element so Instance.WrappedInstance
// can return the mounted wrapped instance.
func WithRef() Option {
	return func(o *options) {
		o.withRef = true
	}
}

// WithDevMode toggles generation checks. When enabled, instances notice
// Reload and Refresh before their next update. Defaults to true.
func WithDevMode(enabled bool) Option {
	return func(o *options) {
		o.devMode = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver reports render and subscription events to obs.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs == nil {
			obs = NopObserver{}
		}
		o.observer = obs
	}
}

// WithRegistry registers every component wrapped by the connector in r.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}
