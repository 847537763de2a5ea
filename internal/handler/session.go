package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/storefront"
	"go.uber.org/zap"
)

type session struct {
	id      string
	mu      sync.Mutex
	app     *storefront.App
	surface *pageSurface
	history *redirectHistory
	seen    time.Time
	closed  bool
}

// AppFactory builds the controller of a new session around its surface and
// history.
type AppFactory func(sessionID string, surface port.Surface, history port.History) (*storefront.App, error)

type sessions struct {
	newApp AppFactory
	now    func() time.Time
	logger *zap.Logger
	opened func()
	closed func()

	mu   sync.Mutex
	byID map[string]*session
}

func (s *sessions) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if ok {
		sess.seen = s.now()
	}
	return sess, ok
}

// open starts a session under id, or under a fresh id when id is empty,
// showing the page named by fragment. Reopening the id of a swept session
// reads its persisted cart back. The returned session is locked.
func (s *sessions) open(ctx context.Context, id, fragment string) (*session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	sess := &session{
		id:      id,
		surface: newPageSurface(),
		history: &redirectHistory{},
		seen:    s.now(),
	}
	sess.mu.Lock()

	// A concurrent request may have reopened the same id first.
	for {
		s.mu.Lock()
		existing, ok := s.byID[id]
		if !ok {
			s.byID[id] = sess
			s.mu.Unlock()
			break
		}
		existing.seen = s.now()
		s.mu.Unlock()

		existing.mu.Lock()
		if !existing.closed {
			sess.mu.Unlock()
			return existing, nil
		}
		existing.mu.Unlock()
	}

	if err := s.start(ctx, sess, fragment); err != nil {
		s.mu.Lock()
		delete(s.byID, id)
		s.mu.Unlock()

		sess.closed = true
		sess.mu.Unlock()
		return nil, err
	}

	s.opened()
	s.logger.Debug("session opened", zap.String("session", sess.id))

	return sess, nil
}

func (s *sessions) start(ctx context.Context, sess *session, fragment string) error {
	app, err := s.newApp(sess.id, sess.surface, sess.history)
	if err != nil {
		return fmt.Errorf("newApp: %w", err)
	}

	if err := app.Start(ctx, fragment); err != nil {
		app.Close()
		return fmt.Errorf("app.Start: %w", err)
	}

	sess.app = app
	return nil
}

// sweep closes sessions idle since before cutoff and reports how many.
func (s *sessions) sweep(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*session
	for id, sess := range s.byID {
		if sess.seen.Before(cutoff) {
			stale = append(stale, sess)
			delete(s.byID, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.mu.Lock()
		if sess.app != nil {
			sess.app.Close()
		}
		sess.closed = true
		sess.mu.Unlock()
		s.closed()
	}

	return len(stale)
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
