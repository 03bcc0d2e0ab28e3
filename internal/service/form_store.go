package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/motorpool-trip-tickets/internal/metrics"
)

// FormStore keeps form sessions in memory. Sessions idle for longer than ttl are dropped.
type FormStore struct {
	mu    sync.RWMutex
	forms map[uuid.UUID]*Form
	ttl   time.Duration
	now   func() time.Time
}

func NewFormStore(ttl time.Duration) *FormStore {
	return &FormStore{
		forms: make(map[uuid.UUID]*Form),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *FormStore) Create(defaultOfficer string) *Form {
	form := newForm(uuid.New(), defaultOfficer, s.now())

	s.mu.Lock()
	s.forms[form.id] = form
	count := len(s.forms)
	s.mu.Unlock()

	metrics.ActiveForms.Set(float64(count))
	return form
}

func (s *FormStore) Get(id uuid.UUID) (*Form, error) {
	s.mu.RLock()
	form, ok := s.forms[id]
	s.mu.RUnlock()
	if !ok || s.expired(form) {
		return nil, ErrNotFound
	}
	return form, nil
}

func (s *FormStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.forms[id]
	delete(s.forms, id)
	count := len(s.forms)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	metrics.ActiveForms.Set(float64(count))
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *FormStore) Sweep() int {
	s.mu.Lock()
	removed := 0
	for id, form := range s.forms {
		if s.expired(form) {
			delete(s.forms, id)
			removed++
		}
	}
	count := len(s.forms)
	s.mu.Unlock()

	metrics.ActiveForms.Set(float64(count))
	return removed
}

// Run sweeps on every interval until ctx is cancelled.
func (s *FormStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *FormStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forms)
}

// expired never holds for a session with a submission in flight.
func (s *FormStore) expired(form *Form) bool {
	if s.ttl <= 0 || form.submitting() {
		return false
	}
	return s.now().Sub(form.lastTouched()) > s.ttl
}
