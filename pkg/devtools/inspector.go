package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cerrors "github.com/vango-dev/connect/internal/errors"
	"github.com/vango-dev/connect/pkg/connect"
	"github.com/vango-dev/connect/pkg/render"
	"github.com/vango-dev/connect/pkg/store"
	"github.com/vango-dev/connect/pkg/vdom"
)

// DefaultAddr is the address the inspector listens on when none is set.
const DefaultAddr = "127.0.0.1:7331"

// Config configures an Inspector.
type Config struct {
	// Addr is the listen address for Start.
	Addr string

	// Gatherer serves /metrics. Nil uses prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger receives lifecycle messages. Nil uses slog.Default().
	Logger *slog.Logger
}

// Inspector serves a read-only view of a store and its connected
// components, plus a reload trigger.
type Inspector struct {
	config   Config
	store    store.Store
	registry *connect.Registry
	router   chi.Router
	hub      *hub
	logger   *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	unwatch    func()
}

// New creates an inspector for s. The registry may be nil, in which case
// /connectors is empty and /reload reloads nothing.
func New(s store.Store, registry *connect.Registry, config Config) *Inspector {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if registry == nil {
		registry = connect.NewRegistry()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	i := &Inspector{
		config:   config,
		store:    s,
		registry: registry,
		hub:      newHub(),
		logger:   logger.With("component", "inspector"),
	}
	i.router = i.routes()
	return i
}

func (i *Inspector) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/", i.handleIndex)
	r.Get("/state", i.handleState)
	r.Get("/connectors", i.handleConnectors)
	r.Get("/ws", i.handleWebSocket)
	r.Post("/reload", i.handleReload)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(i.config.Gatherer, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the inspector's HTTP handler.
func (i *Inspector) Handler() http.Handler {
	return i.router
}

// Addr returns the configured listen address.
func (i *Inspector) Addr() string {
	return i.config.Addr
}

// Watch subscribes to the store and pushes the new state to WebSocket
// clients after every dispatch. Calling Watch twice is a no-op.
func (i *Inspector) Watch() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.unwatch != nil {
		return
	}
	i.unwatch = i.store.Subscribe(func() {
		i.hub.broadcast(Message{Type: MessageState, State: i.store.GetState()})
	})
}

// ReportError pushes err to WebSocket clients. Structured errors carry
// their code, location and cause in the message detail.
func (i *Inspector) ReportError(err error) {
	if err == nil {
		return
	}
	msg := Message{Type: MessageError, Error: err.Error()}
	var ce *cerrors.Error
	if errors.As(err, &ce) {
		msg.Error = ce.FormatCompact()
		msg.Detail = json.RawMessage(ce.FormatJSON())
	}
	i.logger.Warn("reporting error", "error", msg.Error)
	i.hub.broadcast(msg)
}

// ClientCount returns the number of connected WebSocket clients.
func (i *Inspector) ClientCount() int {
	return i.hub.count()
}

// Start watches the store and serves until ctx is cancelled or Stop is
// called.
func (i *Inspector) Start(ctx context.Context) error {
	i.Watch()

	i.mu.Lock()
	i.httpServer = &http.Server{
		Addr:              i.config.Addr,
		Handler:           i.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := i.httpServer
	i.mu.Unlock()

	i.logger.Info("inspector listening", "addr", "http://"+i.config.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		i.Stop()
		return nil
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("inspector: %w", err)
		}
		return nil
	}
}

// Stop closes client connections and shuts the server down.
func (i *Inspector) Stop() {
	i.mu.Lock()
	srv := i.httpServer
	i.httpServer = nil
	unwatch := i.unwatch
	i.unwatch = nil
	i.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}
	i.hub.close()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			i.logger.Warn("inspector shutdown", "error", err)
		}
		i.logger.Info("inspector stopped")
	}
}

func (i *Inspector) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"state": i.store.GetState()})
}

func (i *Inspector) handleConnectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, i.registry.Infos())
}

func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	i.hub.serve(w, r, func() Message {
		return Message{Type: MessageState, State: i.store.GetState()}
	})
}

func (i *Inspector) handleReload(w http.ResponseWriter, r *http.Request) {
	n := i.registry.ReloadAll()
	i.logger.Info("connectors reloaded", "count", n)
	i.hub.broadcast(Message{Type: MessageReload, Reloaded: n})
	writeJSON(w, http.StatusOK, map[string]int{"reloaded": n})
}

func (i *Inspector) handleIndex(w http.ResponseWriter, r *http.Request) {
	infos := i.registry.Infos()
	items := make([]*vdom.VNode, 0, len(infos))
	for _, info := range infos {
		items = append(items, vdom.Li(
			vdom.Data("generation", fmt.Sprint(info.Generation)),
			vdom.Textf("%s (generation %d, %d mounted)", info.Name, info.Generation, len(info.Instances)),
		))
	}

	page := vdom.Div(vdom.Class("inspector"),
		vdom.H1("Connect inspector"),
		vdom.H2("Connectors"),
		vdom.Ul(items),
		vdom.H2("State"),
		vdom.Pre(vdom.ID("state"), stateText(i.store.GetState())),
	)

	html, err := render.NewRenderer(render.RendererConfig{Pretty: true}).RenderToString(page)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func stateText(state any) string {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", state)
	}
	return string(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
