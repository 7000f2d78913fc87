// Package session holds the client-side belief about the authenticated
// user. Each browser session owns one Store; the Store owns the background
// poller that keeps the unread-notification counter and active-status
// fresh.
package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sivitasdev/sivitas/core"
	"github.com/sivitasdev/sivitas/core/user"
)

// Status makes "no record" unambiguous: Unknown means the session has not
// been checked against the remote API yet, Anonymous means it has and there
// is none.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

// API is the slice of the remote client the Store needs.
type API interface {
	Login(ctx context.Context, creds user.Credentials) (user.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (user.User, error)
}

type Store struct {
	api    API
	logger core.Logger

	pollInterval time.Duration
	nowFunc      func() time.Time // mockable

	mu          sync.Mutex
	status      Status
	usr         *user.User
	stopPolling context.CancelFunc
	lastSeen    time.Time

	checks singleflight.Group
}

func NewStore(api API, logger core.Logger, pollInterval time.Duration) *Store {
	return &Store{
		api:          api,
		logger:       logger,
		pollInterval: pollInterval,
		nowFunc:      time.Now,
		status:       StatusUnknown,
		lastSeen:     time.Now(),
	}
}

// Status returns the tri-state session status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns a copy of the current user record, if authenticated.
func (s *Store) User() (user.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usr == nil {
		return user.User{}, false
	}
	return *s.usr, true
}

// Touch records activity for idle-session eviction.
func (s *Store) Touch() {
	s.mu.Lock()
	s.lastSeen = s.nowFunc()
	s.mu.Unlock()
}

func (s *Store) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// CheckAuth resolves the session against the remote API. It never reports
// an error: a failed check just leaves the session anonymous. Concurrent
// calls share a single in-flight fetch.
func (s *Store) CheckAuth(ctx context.Context) {
	_, _, _ = s.checks.Do("me", func() (interface{}, error) {
		me, err := s.api.Me(ctx)
		if err != nil {
			s.mu.Lock()
			s.clear()
			s.mu.Unlock()
			return nil, nil
		}
		if !me.IsActive {
			// a just-fetched deactivated account counts as unauthenticated
			s.Logout(ctx)
			return nil, nil
		}

		s.mu.Lock()
		s.usr = &me
		s.status = StatusAuthenticated
		s.startPolling()
		s.mu.Unlock()
		return nil, nil
	})
}

// Login authenticates against the remote API. This is the one operation
// whose failures reach the caller: the login form needs them.
func (s *Store) Login(ctx context.Context, creds user.Credentials) (user.User, error) {
	usr, err := s.api.Login(ctx, creds)
	if err != nil {
		return user.User{}, err
	}

	s.mu.Lock()
	s.usr = &usr
	s.status = StatusAuthenticated
	s.startPolling()
	s.mu.Unlock()
	return usr, nil
}

// Logout ends the session. The remote call is best effort; local state is
// cleared and polling stopped no matter what. Safe to call repeatedly.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("session: remote logout failed", err)
	}
	s.mu.Lock()
	s.clear()
	s.mu.Unlock()
}

// clear is the single funnel for every path that drops the session; it
// resets state and invalidates the polling handle together so a poller can
// never outlive its session. Callers hold s.mu.
func (s *Store) clear() {
	s.usr = nil
	s.status = StatusAnonymous
	if s.stopPolling != nil {
		s.stopPolling()
		s.stopPolling = nil
	}
}

// Close stops background work without touching the remote session; used on
// registry eviction and app shutdown.
func (s *Store) Close() {
	s.mu.Lock()
	s.clear()
	s.mu.Unlock()
}

// startPolling begins the recurring refresh; a no-op when already running.
// Callers hold s.mu.
func (s *Store) startPolling() {
	if s.stopPolling != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopPolling = cancel
	go s.poll(ctx)
}

func (s *Store) poll(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollTick(ctx)
		}
	}
}

// pollTick refreshes the user record. A failed fetch is skipped silently so
// a flaky network never logs anyone out. A deactivated account ends the
// session. Otherwise only the unread counter is touched, leaving the rest
// of the record (and anything rendered from it) alone.
func (s *Store) pollTick(ctx context.Context) {
	me, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Debug("session: poll tick skipped", err)
		return
	}
	if !me.IsActive {
		s.Logout(ctx)
		return
	}

	s.mu.Lock()
	if s.usr != nil {
		s.usr.UnreadNotifications = me.UnreadNotifications
	}
	s.mu.Unlock()
}

// DecrementNotificationCount marks one notification locally read; clamps
// at zero.
func (s *Store) DecrementNotificationCount() {
	s.mu.Lock()
	if s.usr != nil && s.usr.UnreadNotifications > 0 {
		s.usr.UnreadNotifications--
	}
	s.mu.Unlock()
}

// ResetNotificationCount zeroes the counter ("mark all read").
func (s *Store) ResetNotificationCount() {
	s.mu.Lock()
	if s.usr != nil {
		s.usr.UnreadNotifications = 0
	}
	s.mu.Unlock()
}

// SyncNotificationCount force-sets the counter to a server-reported value.
func (s *Store) SyncNotificationCount(n int) {
	s.mu.Lock()
	if s.usr != nil {
		s.usr.UnreadNotifications = n
	}
	s.mu.Unlock()
}
