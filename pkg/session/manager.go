// Package session runs independent off-path tracking sessions side by side.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"trailsense/pkg/geo"
	"trailsense/pkg/logging"
	"trailsense/pkg/model"
	"trailsense/pkg/offpath"
	"trailsense/pkg/stats"
)

// ErrUnknownSession is returned for IDs that were never started or already ended.
var ErrUnknownSession = errors.New("unknown session")

// session is one observer following one trail. Its mutex serializes updates,
// which the tracker requires.
type session struct {
	mu      sync.Mutex
	path    geo.Path
	tracker *offpath.Tracker
	offPath bool
	events  []model.TrailEvent
}

// Manager owns the active sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	cfg      offpath.Config
	stats    *stats.Stats
	logger   *slog.Logger
}

// NewManager creates a session manager. Every session gets a tracker built from cfg.
// A nil st gets a private Stats.
func NewManager(cfg offpath.Config, st *stats.Stats, logger *slog.Logger) *Manager {
	if st == nil {
		st = stats.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*session),
		cfg:      cfg,
		stats:    st,
		logger:   logger,
	}
}

// Stats returns the manager's counters.
func (m *Manager) Stats() *stats.Stats {
	return m.stats
}

// Start opens a session for path and returns its ID.
func (m *Manager) Start(path geo.Path) string {
	id := uuid.New().String()
	s := &session{
		path:    slices.Clone(path),
		tracker: offpath.New(m.cfg),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	m.addEvent(id, s, model.EventSessionStart, "Tracking started",
		fmt.Sprintf("%d points, %.0f m", len(path), path.Length()))
	m.logger.Info("Session started", "session", id, "points", len(path))
	return id
}

func (m *Manager) get(id string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return s, nil
}

// Update feeds a location sample into the session's tracker.
// An off_path event is recorded when the observer leaves the trail and an
// on_path event when they return.
func (m *Manager) Update(id string, loc geo.Point, offPathThreshold float64) (offpath.Result, error) {
	s, err := m.get(id)
	if err != nil {
		return offpath.Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.tracker.Update(s.path, loc, offPathThreshold)
	m.stats.Record(id, res, len(s.path))

	switch {
	case res.ToPath && !s.offPath:
		m.addEvent(id, s, model.EventOffPath, "Left the trail",
			fmt.Sprintf("%.0f m, head %s (%.0f°)", res.DistanceToPath, res.Direction(), res.BearingToPath))
	case !res.ToPath && s.offPath:
		s.tracker.Clear()
		m.addEvent(id, s, model.EventOnPath, "Back on the trail", "")
	}
	s.offPath = res.ToPath

	logging.Trace(m.logger, "Session update", "session", id, "to_path", res.ToPath)
	return res, nil
}

// SetPath replaces the trail of a session. The tracker and its anchor are kept.
func (m *Manager) SetPath(id string, path geo.Path) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = slices.Clone(path)
	m.addEvent(id, s, model.EventPathChanged, "Trail changed", fmt.Sprintf("%d points", len(path)))
	return nil
}

// Clear drops the session's displayed off-path figures. The anchor survives.
func (m *Manager) Clear(id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Clear()
	s.offPath = false
	return nil
}

// End closes a session and forgets its counters.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m.addEvent(id, s, model.EventSessionEnd, "Tracking ended", "")
	m.stats.Forget(id)
	m.logger.Info("Session ended", "session", id)
	return nil
}

// IDs returns the IDs of all active sessions, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Events returns a copy of the session's event history.
func (m *Manager) Events(id string) ([]model.TrailEvent, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events), nil
}

// addEvent records an event for the session. The caller holds s.mu.
func (m *Manager) addEvent(id string, s *session, typ, title, summary string) {
	ev := model.TrailEvent{
		Timestamp: time.Now(),
		SessionID: id,
		Type:      typ,
		Title:     title,
		Summary:   summary,
	}
	s.events = append(s.events, ev)
	logging.LogEvent(&ev)
}
