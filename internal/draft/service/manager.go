package service

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	catalog "github.com/smallbiznis/mystore/internal/catalog/domain"
	"github.com/smallbiznis/mystore/internal/catalog/schema"
	"github.com/smallbiznis/mystore/internal/clock"
	"github.com/smallbiznis/mystore/internal/config"
	"github.com/smallbiznis/mystore/internal/draft/domain"
	"github.com/smallbiznis/mystore/internal/media"
	"github.com/smallbiznis/mystore/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Creator    catalog.Creator
	Uploader   media.Uploader
	Clock      clock.Clock
	GenID      *snowflake.Node
	Categories *config.CategoryHolder
	Metrics    *metrics.SubmissionMetrics `optional:"true"`
	Navigator  domain.Navigator           `optional:"true"`
}

// Manager is the registry of open authoring sessions. Sessions share
// collaborators but never state. With a positive idle TTL, sessions that
// nobody looked up for that long are closed and forgotten.
type Manager struct {
	deps    Deps
	next    domain.Navigator
	log     *zap.Logger
	idleTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	sweep    clock.Timer
	stopped  bool
}

func NewManager(p Params) *Manager {
	return newManager(Deps{
		Log:        p.Log,
		Creator:    p.Creator,
		Uploader:   p.Uploader,
		Clock:      p.Clock,
		IDs:        domain.NewSnowflakeIDs(p.GenID),
		Categories: p.Categories,
		Navigator:  p.Navigator,
		Metrics:    p.Metrics,
		Schema:     schema.New(),
	}, p.Cfg.Drafts.IdleTTL)
}

func newManager(deps Deps, idleTTL time.Duration) *Manager {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	m := &Manager{
		next:     deps.Navigator,
		log:      deps.Log.Named("draft.manager"),
		idleTTL:  idleTTL,
		sessions: map[string]*Session{},
	}
	deps.Navigator = m
	m.deps = deps
	if idleTTL > 0 {
		m.sweep = deps.Clock.AfterFunc(m.sweepInterval(), m.evictIdle)
	}
	return m
}

func (m *Manager) sweepInterval() time.Duration {
	return m.idleTTL / 2
}

// evictIdle closes sessions idle for at least the TTL, then schedules the
// next sweep.
func (m *Manager) evictIdle() {
	now := m.deps.Clock.Now()

	m.mu.RLock()
	candidates := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		candidates = append(candidates, s)
	}
	m.mu.RUnlock()

	for _, s := range candidates {
		if !s.idle(now, m.idleTTL) {
			continue
		}
		m.mu.Lock()
		current, ok := m.sessions[s.ID()]
		if ok && current == s {
			delete(m.sessions, s.ID())
		}
		m.mu.Unlock()
		if !ok || current != s {
			continue
		}
		s.Close()
		m.log.Info("draft evicted", zap.String("draft_id", s.ID()), zap.Duration("idle_ttl", m.idleTTL))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stopped {
		m.sweep = m.deps.Clock.AfterFunc(m.sweepInterval(), m.evictIdle)
	}
}

// Open mounts a new authoring session with an empty draft.
func (m *Manager) Open() *Session {
	s := NewSession(m.deps)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.log.Debug("draft opened", zap.String("draft_id", s.ID()))
	return s
}

// Get looks a session up and counts the lookup as use.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.markUsed()
	return s, nil
}

// Close tears a session down and forgets it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Close()
	m.log.Debug("draft closed", zap.String("draft_id", id))
	return nil
}

// Leave forgets a session that left the authoring view and forwards the
// hand-off.
func (m *Manager) Leave(ctx context.Context, sessionID string, created *catalog.Product) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	if m.next != nil {
		m.next.Leave(ctx, sessionID, created)
	}
}

// Shutdown stops the idle sweep and closes every open session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.stopped = true
	if m.sweep != nil {
		m.sweep.Stop()
		m.sweep = nil
	}
	sessions := m.sessions
	m.sessions = map[string]*Session{}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
