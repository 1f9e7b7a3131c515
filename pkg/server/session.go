// pkg/server/session.go
package server

import (
	"sync"
	"time"

	"github.com/abhaysharma000/Money-Muling/pkg/engine"
)

// Session is the explicit handle to the engine state of the most recent
// upload. Each upload installs a fresh engine instance; the previous one is
// simply dropped (last-write-wins). Deep-dive lookups against the handle are
// only valid until the next upload completes, which callers must accept as
// part of the contract.
type Session struct {
	mu        sync.RWMutex
	engine    engine.Engine
	uploadID  string
	updatedAt time.Time
}

// NewSession creates an empty session with no engine installed
func NewSession() *Session {
	return &Session{}
}

// Swap installs the engine of a new upload, replacing any previous one
func (s *Session) Swap(uploadID string, eng engine.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = eng
	s.uploadID = uploadID
	s.updatedAt = time.Now()
}

// Current returns the installed engine and its upload ID, or ok=false when
// no upload has happened yet
func (s *Session) Current() (engine.Engine, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return nil, "", false
	}
	return s.engine, s.uploadID, true
}
