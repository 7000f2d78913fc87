package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivitasdev/sivitas/core/user"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeAPI struct {
	mu          sync.Mutex
	meCalls     int
	logoutCalls int

	loginFn  func() (user.User, error)
	logoutFn func() error
	meFn     func() (user.User, error)
}

func (f *fakeAPI) Login(_ context.Context, _ user.Credentials) (user.User, error) {
	return f.loginFn()
}

func (f *fakeAPI) Logout(context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	f.mu.Unlock()
	if f.logoutFn != nil {
		return f.logoutFn()
	}
	return nil
}

func (f *fakeAPI) Me(context.Context) (user.User, error) {
	f.mu.Lock()
	f.meCalls++
	f.mu.Unlock()
	return f.meFn()
}

func (f *fakeAPI) counts() (me, logout int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meCalls, f.logoutCalls
}

func activeUser(unread int) user.User {
	return user.User{
		ID:                  1,
		Username:            "siti",
		Email:               "siti@kampus.ac.id",
		Role:                user.RoleMahasiswa,
		IsActive:            true,
		UnreadNotifications: unread,
	}
}

func newTestStore(api *fakeAPI) *Store {
	return NewStore(api, nopLogger{}, time.Hour)
}

func (s *Store) polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopPolling != nil
}

func Test_store_CheckAuth(t *testing.T) {
	tests := []struct {
		name        string
		me          func() (user.User, error)
		wantStatus  Status
		wantUser    bool
		wantPolling bool
		wantLogout  int
	}{
		{
			name:       "remote failure leaves session anonymous",
			me:         func() (user.User, error) { return user.User{}, errors.New("boom") },
			wantStatus: StatusAnonymous,
		},
		{
			name:       "deactivated account is logged out",
			me:         func() (user.User, error) { u := activeUser(0); u.IsActive = false; return u, nil },
			wantStatus: StatusAnonymous,
			wantLogout: 1,
		},
		{
			name:        "active account authenticates and starts polling",
			me:          func() (user.User, error) { return activeUser(3), nil },
			wantStatus:  StatusAuthenticated,
			wantUser:    true,
			wantPolling: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{meFn: tt.me}
			s := newTestStore(api)
			defer s.Close()

			require.Equal(t, StatusUnknown, s.Status())
			s.CheckAuth(context.Background())

			assert.Equal(t, tt.wantStatus, s.Status())
			usr, ok := s.User()
			assert.Equal(t, tt.wantUser, ok)
			if tt.wantUser {
				assert.Equal(t, 3, usr.UnreadNotifications)
			}
			assert.Equal(t, tt.wantPolling, s.polling())
			_, logouts := api.counts()
			assert.Equal(t, tt.wantLogout, logouts)
		})
	}
}

func Test_store_CheckAuth_deduplicated(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{
		meFn: func() (user.User, error) {
			<-release
			return activeUser(0), nil
		},
	}
	s := newTestStore(api)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CheckAuth(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond) // let all callers join the flight
	close(release)
	wg.Wait()

	me, _ := api.counts()
	assert.Equal(t, 1, me, "overlapping checks must share one fetch")
	assert.Equal(t, StatusAuthenticated, s.Status())
}

func Test_store_Login(t *testing.T) {
	t.Run("failure propagates and leaves no session", func(t *testing.T) {
		api := &fakeAPI{loginFn: func() (user.User, error) { return user.User{}, errors.New("kredensial salah") }}
		s := newTestStore(api)
		defer s.Close()

		_, err := s.Login(context.Background(), user.Credentials{})
		require.Error(t, err)
		_, ok := s.User()
		assert.False(t, ok)
		assert.False(t, s.polling())
	})

	t.Run("success authenticates and starts polling", func(t *testing.T) {
		api := &fakeAPI{loginFn: func() (user.User, error) { return activeUser(2), nil }}
		s := newTestStore(api)
		defer s.Close()

		usr, err := s.Login(context.Background(), user.Credentials{Email: "siti@kampus.ac.id"})
		require.NoError(t, err)
		assert.Equal(t, "siti", usr.Username)
		assert.Equal(t, StatusAuthenticated, s.Status())
		assert.True(t, s.polling())
	})
}

func Test_store_Logout(t *testing.T) {
	api := &fakeAPI{
		loginFn:  func() (user.User, error) { return activeUser(0), nil },
		logoutFn: func() error { return errors.New("network down") },
	}
	s := newTestStore(api)
	defer s.Close()

	_, err := s.Login(context.Background(), user.Credentials{})
	require.NoError(t, err)
	require.True(t, s.polling())

	// remote failure must not keep the session alive
	s.Logout(context.Background())
	assert.Equal(t, StatusAnonymous, s.Status())
	_, ok := s.User()
	assert.False(t, ok)
	assert.False(t, s.polling(), "logout stops the poller")

	// idempotent
	s.Logout(context.Background())
	assert.Equal(t, StatusAnonymous, s.Status())
	_, logouts := api.counts()
	assert.Equal(t, 2, logouts)
}

func Test_store_pollTick(t *testing.T) {
	t.Run("failed tick keeps the session", func(t *testing.T) {
		api := &fakeAPI{loginFn: func() (user.User, error) { return activeUser(5), nil }}
		s := newTestStore(api)
		defer s.Close()
		_, err := s.Login(context.Background(), user.Credentials{})
		require.NoError(t, err)

		api.meFn = func() (user.User, error) { return user.User{}, errors.New("timeout") }
		s.pollTick(context.Background())

		assert.Equal(t, StatusAuthenticated, s.Status())
		usr, ok := s.User()
		require.True(t, ok)
		assert.Equal(t, 5, usr.UnreadNotifications)
	})

	t.Run("successful tick only refreshes the unread counter", func(t *testing.T) {
		api := &fakeAPI{loginFn: func() (user.User, error) { return activeUser(5), nil }}
		s := newTestStore(api)
		defer s.Close()
		_, err := s.Login(context.Background(), user.Credentials{})
		require.NoError(t, err)

		api.meFn = func() (user.User, error) {
			u := activeUser(9)
			u.Name = "renamed remotely"
			return u, nil
		}
		s.pollTick(context.Background())

		usr, ok := s.User()
		require.True(t, ok)
		assert.Equal(t, 9, usr.UnreadNotifications)
		assert.Empty(t, usr.Name, "tick must not rewrite the rest of the record")
	})

	t.Run("deactivation ends the session", func(t *testing.T) {
		api := &fakeAPI{loginFn: func() (user.User, error) { return activeUser(0), nil }}
		s := newTestStore(api)
		defer s.Close()
		_, err := s.Login(context.Background(), user.Credentials{})
		require.NoError(t, err)

		api.meFn = func() (user.User, error) { u := activeUser(0); u.IsActive = false; return u, nil }
		s.pollTick(context.Background())

		assert.Equal(t, StatusAnonymous, s.Status())
		assert.False(t, s.polling())
	})
}

func Test_store_notificationCounters(t *testing.T) {
	api := &fakeAPI{loginFn: func() (user.User, error) { return activeUser(2), nil }}
	s := newTestStore(api)
	defer s.Close()
	_, err := s.Login(context.Background(), user.Credentials{})
	require.NoError(t, err)

	unread := func() int {
		usr, ok := s.User()
		require.True(t, ok)
		return usr.UnreadNotifications
	}

	s.DecrementNotificationCount()
	assert.Equal(t, 1, unread())
	s.DecrementNotificationCount()
	s.DecrementNotificationCount() // clamps at zero
	assert.Equal(t, 0, unread())

	s.SyncNotificationCount(7)
	assert.Equal(t, 7, unread())

	s.ResetNotificationCount()
	assert.Equal(t, 0, unread())
}

func Test_store_Close_stopsPolling(t *testing.T) {
	api := &fakeAPI{loginFn: func() (user.User, error) { return activeUser(0), nil }}
	s := newTestStore(api)

	_, err := s.Login(context.Background(), user.Credentials{})
	require.NoError(t, err)
	require.True(t, s.polling())

	s.Close()
	assert.False(t, s.polling())
	_, logouts := api.counts()
	assert.Zero(t, logouts, "eviction must not end the remote session")
}
