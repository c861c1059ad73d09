package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"wallpaper-planner/internal/common/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// ============================================================
// Session Manager
// ============================================================

// Manager keeps the in-memory workspaces keyed by session ID.
type Manager struct {
	mu          sync.Mutex
	workspaces  map[string]*Workspace
	referenceCm float64
	apiKey      string
	now         func() time.Time
}

// NewManager creates workspaces with the given default reference length and
// default compositing credential (may be empty).
func NewManager(referenceCm float64, apiKey string) *Manager {
	return &Manager{
		workspaces:  make(map[string]*Workspace),
		referenceCm: referenceCm,
		apiKey:      apiKey,
		now:         time.Now,
	}
}

// Create registers a new workspace with the manager defaults.
func (m *Manager) Create() *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws := newWorkspace(uuid.NewString(), m.referenceCm, m.apiKey, m.now())
	m.workspaces[ws.id] = ws
	return ws
}

// Get returns the workspace and marks it as used.
func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.Lock()
	ws, ok := m.workspaces[id]
	m.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	ws.touch(m.now())
	return ws, nil
}

// Delete removes the workspace or returns ErrNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workspaces[id]; !ok {
		return ErrNotFound
	}
	delete(m.workspaces, id)
	return nil
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}

// Sweep drops workspaces idle for longer than ttl. Workspaces with a render
// in flight are kept.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, ws := range m.workspaces {
		if ws.idleSince(cutoff) {
			delete(m.workspaces, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 || ttl <= 0 {
		return
	}
	log := logging.Named("session")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(ttl); n > 0 {
				log.Info("expired sessions removed", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}
