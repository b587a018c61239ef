// Package memory provides an in-process session storage for development and
// tests. Sessions are lost on restart.
package memory

import (
	"context"
	"sync"
)

type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{sessions: make(map[string]map[string]string)}
}

func (s *SessionStorage) Get(_ context.Context, sid, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sessions[sid][key]
	return v, ok, nil
}

func (s *SessionStorage) Set(_ context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.sessions[sid]
	if !ok {
		values = make(map[string]string)
		s.sessions[sid] = values
	}
	values[key] = value
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, sid string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.sessions[sid], k)
	}
	return nil
}

func (s *SessionStorage) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

func (s *SessionStorage) Ping(context.Context) error { return nil }

// Len reports the number of keys stored for sid.
func (s *SessionStorage) Len(sid string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sid])
}
