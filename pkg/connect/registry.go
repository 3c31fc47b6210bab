package connect

import "sync"

// Registry collects wrappers so tooling can list and reload them.
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	wrappers []*Wrapper
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds w. Registering the same wrapper twice is a no-op.
func (r *Registry) Register(w *Wrapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wrappers {
		if existing == w {
			return
		}
	}
	r.wrappers = append(r.wrappers, w)
}

// Wrappers returns the registered wrappers in registration order.
func (r *Registry) Wrappers() []*Wrapper {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Wrapper, len(r.wrappers))
	copy(out, r.wrappers)
	return out
}

// Infos returns Info for every registered wrapper.
func (r *Registry) Infos() []Info {
	wrappers := r.Wrappers()
	out := make([]Info, 0, len(wrappers))
	for _, w := range wrappers {
		out = append(out, w.Info())
	}
	return out
}

// ReloadAll refreshes every connector behind a registered wrapper and
// returns how many connectors were refreshed. Connectors shared by several
// wrappers are refreshed once.
func (r *Registry) ReloadAll() int {
	seen := make(map[*Connector]bool)
	for _, w := range r.Wrappers() {
		if seen[w.conn] {
			continue
		}
		seen[w.conn] = true
		w.conn.Refresh()
	}
	return len(seen)
}
