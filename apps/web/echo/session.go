package echoweb

import (
	"net/http"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sivitasdev/sivitas/core"
	"github.com/sivitasdev/sivitas/core/session"
	"github.com/sivitasdev/sivitas/services/api"
)

const contextSessionKey = "session"

// Registry maps browser session IDs to their session stores. Each entry
// also owns the API client carrying that user's backend cookies. Idle
// entries are evicted by a janitor so pollers never outlive their users.
type Registry struct {
	conf   *core.Config
	logger core.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry

	stopJanitor chan struct{}
	janitorDone chan struct{}
}

type registryEntry struct {
	store  *session.Store
	client *api.Client
}

func NewRegistry(conf *core.Config, logger core.Logger) *Registry {
	r := &Registry{
		conf:        conf,
		logger:      logger,
		entries:     make(map[string]*registryEntry),
		stopJanitor: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Get returns the session store and API client for sid, if present.
func (r *Registry) Get(sid string) (*session.Store, *api.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[sid]
	if !ok {
		return nil, nil, false
	}
	return entry.store, entry.client, true
}

// Create makes a fresh anonymous session and returns its ID.
func (r *Registry) Create() (string, *session.Store, *api.Client, error) {
	client, err := api.NewClient(r.conf)
	if err != nil {
		return "", nil, nil, errors.Wrap(err, "creating API client")
	}
	sid := uuid.NewString()
	store := session.NewStore(client, r.logger, r.conf.Session.PollInterval)

	r.mu.Lock()
	r.entries[sid] = &registryEntry{store: store, client: client}
	r.mu.Unlock()
	return sid, store, client, nil
}

// Evict drops a session and stops its background work.
func (r *Registry) Evict(sid string) {
	r.mu.Lock()
	entry, ok := r.entries[sid]
	delete(r.entries, sid)
	r.mu.Unlock()
	if ok {
		entry.store.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close stops the janitor and every session poller.
func (r *Registry) Close() {
	close(r.stopJanitor)
	<-r.janitorDone

	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()
	for _, entry := range entries {
		entry.store.Close()
	}
}

func (r *Registry) janitor() {
	defer close(r.janitorDone)
	ticker := time.NewTicker(r.conf.Session.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopJanitor:
			return
		case <-ticker.C:
			r.evictIdle(time.Now())
		}
	}
}

func (r *Registry) evictIdle(now time.Time) {
	cutoff := now.Add(-r.conf.Session.IdleTimeout)

	r.mu.Lock()
	var idle []*registryEntry
	for sid, entry := range r.entries {
		if entry.store.LastSeen().Before(cutoff) {
			idle = append(idle, entry)
			delete(r.entries, sid)
		}
	}
	r.mu.Unlock()

	for _, entry := range idle {
		entry.store.Close()
	}
}

// sidClaims is the signed content of the browser session cookie.
type sidClaims struct {
	jwt.StandardClaims
}

func (s *server) encodeSID(sid string) (string, error) {
	claims := &sidClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        sid,
			Issuer:    s.deps.Conf.AppName,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(s.deps.Conf.Session.CookieMaxAge).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(s.deps.Conf.SecretKey))
	return ss, errors.Wrap(err, "signing session cookie")
}

func (s *server) decodeSID(value string) (string, bool) {
	claims := new(sidClaims)
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(s.deps.Conf.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.Id == "" {
		return "", false
	}
	return claims.Id, true
}

// sessionMiddleware resolves (or creates) the per-browser session store and
// hangs it on the request context for the guard and handlers.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var (
			store  *session.Store
			client *api.Client
			found  bool
		)

		if cookie, err := ctx.Cookie(s.deps.Conf.Session.CookieName); err == nil {
			if sid, ok := s.decodeSID(cookie.Value); ok {
				store, client, found = s.deps.Sessions.Get(sid)
			}
		}

		if !found {
			sid, st, cl, err := s.deps.Sessions.Create()
			if err != nil {
				// a registry that cannot mint sessions cannot serve anyone
				return core.NewShutdownError("creating session: " + err.Error())
			}
			signed, err := s.encodeSID(sid)
			if err != nil {
				return err
			}
			ctx.SetCookie(&http.Cookie{
				Name:     s.deps.Conf.Session.CookieName,
				Value:    signed,
				Path:     "/",
				MaxAge:   int(s.deps.Conf.Session.CookieMaxAge / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			store, client = st, cl
		}

		store.Touch()
		ctx.Set(contextSessionKey, &sessionContext{store: store, api: client})
		return next(ctx)
	}
}

// sessionContext is what handlers reach for: the store plus the API client
// bound to the same backend session.
type sessionContext struct {
	store *session.Store
	api   *api.Client
}

func currentSession(ctx echo.Context) *sessionContext {
	sess, _ := ctx.Get(contextSessionKey).(*sessionContext)
	return sess
}
