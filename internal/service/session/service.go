// Package session keeps per-session bookkeeping for the process lifetime.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	model "github.com/propertypilot/backend/internal/model/session"
)

// DefaultMaxSessions is the soft cap before the store starts warning.
const DefaultMaxSessions = 10000

// Update carries the per-request deltas merged into a session record.
type Update struct {
	AnalysisEntry    *model.AnalysisEntry
	ResearchEntry    *model.ResearchEntry
	PropertyAnalyzed string
	User             *model.UserProfile
	Preferences      map[string]string
}

// Service is a concurrency-safe in-memory session store. Records live until
// process restart; there is no eviction or persistence.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*model.Record
	maxSize  int
	warned   bool
}

// NewService bootstraps an empty store. maxSize <= 0 selects the default cap.
func NewService(maxSize int) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSessions
	}
	return &Service{
		sessions: make(map[string]*model.Record),
		maxSize:  maxSize,
	}
}

// GetOrCreate returns a copy of the record for id, creating it on first use.
func (s *Service) GetOrCreate(_ context.Context, id string) model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.locked(id)
}

// Touch merges update into the record for id, increments the request counter
// and refreshes the last-updated timestamp, returning the updated copy.
func (s *Service) Touch(_ context.Context, id string, update Update) model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.locked(id)
	record.RequestCount++
	record.LastUpdated = time.Now().UTC()

	if update.AnalysisEntry != nil {
		record.AnalysisHistory = append(record.AnalysisHistory, *update.AnalysisEntry)
	}
	if update.ResearchEntry != nil {
		record.ResearchHistory = append(record.ResearchHistory, *update.ResearchEntry)
	}
	if update.PropertyAnalyzed != "" {
		record.PropertiesAnalyzed = append(record.PropertiesAnalyzed, update.PropertyAnalyzed)
	}
	if update.User != nil {
		record.User = update.User
	}
	if len(update.Preferences) > 0 {
		if record.Preferences == nil {
			record.Preferences = make(map[string]string, len(update.Preferences))
		}
		for k, v := range update.Preferences {
			record.Preferences[k] = v
		}
	}

	return *record
}

// Len reports the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// locked returns the live record for id; caller must hold the write lock.
func (s *Service) locked(id string) *model.Record {
	if record, ok := s.sessions[id]; ok {
		return record
	}

	if len(s.sessions) >= s.maxSize && !s.warned {
		log.Printf("[session] store exceeded soft cap of %d sessions", s.maxSize)
		s.warned = true
	}

	record := &model.Record{
		ID:                 id,
		CreatedAt:          time.Now().UTC(),
		PropertiesAnalyzed: []string{},
		AnalysisHistory:    []model.AnalysisEntry{},
		ResearchHistory:    []model.ResearchEntry{},
	}
	s.sessions[id] = record
	return record
}
