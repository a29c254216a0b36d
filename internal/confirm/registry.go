package confirm

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/agenthands/confirm/internal/authapi"
)

type entry struct {
	control *Control
	refs    int
}

// Registry hands out one Control per token while that token has a
// trigger pending, so concurrent submissions share the loading flag.
type Registry struct {
	confirmer authapi.Confirmer
	logger    *zap.SugaredLogger

	mu       sync.Mutex
	controls map[string]*entry

	// NewControl builds the control for a token on first use.
	NewControl func(token string) *Control
}

func NewRegistry(confirmer authapi.Confirmer, logger *zap.SugaredLogger) *Registry {
	r := &Registry{
		confirmer: confirmer,
		logger:    logger,
		controls:  make(map[string]*entry),
	}
	r.NewControl = func(token string) *Control {
		return NewControl(token, r.confirmer, r.logger)
	}
	return r
}

// Trigger triggers the control for token. ok is false when a
// confirmation for the same token is already in flight.
func (r *Registry) Trigger(ctx context.Context, token string) (Route, bool) {
	c := r.acquire(token)
	defer r.release(token)
	return c.Trigger(ctx)
}

// Loading reports whether a confirmation for token is in flight.
func (r *Registry) Loading(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.controls[token]
	return ok && e.control.Loading()
}

// Len returns the number of live controls.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controls)
}

func (r *Registry) acquire(token string) *Control {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.controls[token]
	if !ok {
		e = &entry{control: r.NewControl(token)}
		r.controls[token] = e
	}
	e.refs++
	return e.control
}

func (r *Registry) release(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.controls[token]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.controls, token)
	}
}
