// internal/api/registry.go
package api

import (
	"context"
	"sync"
	"time"

	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/common/metrics"
	"listing-wizard/internal/models"

	"github.com/google/uuid"
)

// IdentityLookup resolves the profile of a user known only by id.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, userID string) (models.Identity, error)
}

type sessionKey struct {
	flow   string
	userID string
}

type sessionEntry struct {
	wizard   Wizard
	lastUsed time.Time
}

// Registry holds at most one session per (user, flow). Sessions live in
// memory with their attachments; Sweep unmounts the idle ones.
type Registry struct {
	mu         sync.Mutex
	flows      map[string]FlowSpec
	sessions   map[sessionKey]*sessionEntry
	env        SessionEnv
	identities IdentityLookup
	logger     logger.Logger
	now        func() time.Time
}

// NewRegistry registers flows; identities may be nil.
func NewRegistry(env SessionEnv, identities IdentityLookup, flows ...FlowSpec) *Registry {
	if env.Logger == nil {
		env.Logger = logger.NewNoOpLogger()
	}
	r := &Registry{
		flows:      make(map[string]FlowSpec, len(flows)),
		sessions:   make(map[sessionKey]*sessionEntry),
		env:        env,
		identities: identities,
		logger:     env.Logger,
		now:        time.Now,
	}
	for _, f := range flows {
		r.flows[f.Name] = f
	}
	return r
}

// Open returns the user's session for flow, mounting it on first use: the
// identity is resolved and prefilled, then the stored draft is loaded.
// An identity without an email is completed through the lookup.
func (r *Registry) Open(ctx context.Context, flow string, id models.Identity) (Wizard, bool, error) {
	spec, ok := r.flows[flow]
	if !ok {
		return nil, false, apperrors.NewUnknownFlowError(flow)
	}

	key := sessionKey{flow: flow, userID: id.UserID}
	r.mu.Lock()
	if e, ok := r.sessions[key]; ok {
		e.lastUsed = r.now()
		r.mu.Unlock()
		return e.wizard, false, nil
	}
	r.mu.Unlock()

	if id.Email == "" && r.identities != nil {
		full, err := r.identities.LookupIdentity(ctx, id.UserID)
		if err != nil {
			return nil, false, err
		}
		id = full
	}

	w := spec.open(r.env, id.UserID, uuid.NewString())
	w.SetIdentity(id)
	resumed := w.Resume(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have mounted the same session meanwhile.
	if existing, ok := r.sessions[key]; ok {
		existing.lastUsed = r.now()
		return existing.wizard, false, nil
	}
	r.sessions[key] = &sessionEntry{wizard: w, lastUsed: r.now()}
	metrics.WizardSessionsActive.WithLabelValues(flow).Inc()
	r.logger.Info("session opened", map[string]interface{}{
		"flow":      flow,
		"userId":    id.UserID,
		"sessionId": w.ID(),
		"resumed":   resumed,
	})
	return w, resumed, nil
}

// Get returns an already opened session.
func (r *Registry) Get(flow, userID string) (Wizard, error) {
	if _, ok := r.flows[flow]; !ok {
		return nil, apperrors.NewUnknownFlowError(flow)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionKey{flow: flow, userID: userID}]
	if !ok {
		return nil, apperrors.NewSessionNotFoundError(flow, userID)
	}
	e.lastUsed = r.now()
	return e.wizard, nil
}

// Close cancels the session and unmounts it. The draft is kept.
func (r *Registry) Close(ctx context.Context, flow, userID string) error {
	w, err := r.Get(flow, userID)
	if err != nil {
		return err
	}
	w.Cancel(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	key := sessionKey{flow: flow, userID: userID}
	if e, ok := r.sessions[key]; ok && e.wizard == w {
		delete(r.sessions, key)
		metrics.WizardSessionsActive.WithLabelValues(flow).Dec()
	}
	return nil
}

// Sweep cancels and unmounts sessions unused for longer than idle, which
// releases their attachments. Drafts are kept, so the next Open resumes.
// It returns the number of sessions removed.
func (r *Registry) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []Wizard
	for key, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, e.wizard)
			delete(r.sessions, key)
			metrics.WizardSessionsActive.WithLabelValues(key.flow).Dec()
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.Cancel(ctx)
		r.logger.Info("idle session unmounted", map[string]interface{}{
			"flow":      w.FlowName(),
			"sessionId": w.ID(),
		})
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(ctx, idle); n > 0 {
				r.logger.Debug("session sweep", map[string]interface{}{"removed": n})
			}
		}
	}
}

// Flows lists the registered flow names.
func (r *Registry) Flows() []string {
	names := make([]string, 0, len(r.flows))
	for name := range r.flows {
		names = append(names, name)
	}
	return names
}
