// Package stats counts tracking outcomes per session.
package stats

import (
	"sync"
	"sync/atomic"

	"trailsense/pkg/offpath"
)

// Stats tracks update outcomes per session.
type Stats struct {
	mu       sync.RWMutex
	sessions map[string]*SessionStats
}

// SessionStats holds the counters for one session.
// Fields are accessed atomically.
type SessionStats struct {
	Updates     int64
	OffPath     int64
	RefLines    int64
	AnchorMoves int64
	EmptyPath   int64
}

// New creates an empty Stats.
func New() *Stats {
	return &Stats{
		sessions: make(map[string]*SessionStats),
	}
}

// get returns the counters for a session, creating them if needed.
func (s *Stats) get(id string) *SessionStats {
	s.mu.RLock()
	st, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double check
	if st, ok = s.sessions[id]; ok {
		return st
	}
	st = &SessionStats{}
	s.sessions[id] = st
	return st
}

// Record counts one update result for the session.
func (s *Stats) Record(id string, res offpath.Result, pathLen int) {
	st := s.get(id)
	atomic.AddInt64(&st.Updates, 1)
	if res.ToPath {
		atomic.AddInt64(&st.OffPath, 1)
	}
	if res.RefLine {
		atomic.AddInt64(&st.RefLines, 1)
	}
	if res.AnchorMoved {
		atomic.AddInt64(&st.AnchorMoves, 1)
	}
	if pathLen == 0 {
		atomic.AddInt64(&st.EmptyPath, 1)
	}
}

// Forget drops a session's counters.
func (s *Stats) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() map[string]SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]SessionStats, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = SessionStats{
			Updates:     atomic.LoadInt64(&v.Updates),
			OffPath:     atomic.LoadInt64(&v.OffPath),
			RefLines:    atomic.LoadInt64(&v.RefLines),
			AnchorMoves: atomic.LoadInt64(&v.AnchorMoves),
			EmptyPath:   atomic.LoadInt64(&v.EmptyPath),
		}
	}
	return result
}

// Reset zeroes all counters but keeps the known sessions.
func (s *Stats) Reset() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.sessions {
		atomic.StoreInt64(&v.Updates, 0)
		atomic.StoreInt64(&v.OffPath, 0)
		atomic.StoreInt64(&v.RefLines, 0)
		atomic.StoreInt64(&v.AnchorMoves, 0)
		atomic.StoreInt64(&v.EmptyPath, 0)
	}
}
