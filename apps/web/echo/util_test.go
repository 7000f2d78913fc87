package echoweb

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sivitasdev/sivitas/core"
	"github.com/sivitasdev/sivitas/core/user"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// fakeRemote stands in for the remote REST API. /me and /login answer
// from the current user; every other endpoint is recorded and replies
// with an empty envelope, which decodes to zero values on the client side.
type fakeRemote struct {
	mu    sync.Mutex
	me    *user.User // nil means no backend session
	calls []remoteCall
}

// remoteCall is one request the fake backend served, minus /me noise.
type remoteCall struct {
	method string
	path   string
	form   url.Values
	body   []byte
}

func (f *fakeRemote) setMe(usr *user.User) {
	f.mu.Lock()
	f.me = usr
	f.mu.Unlock()
}

func (f *fakeRemote) record(r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := remoteCall{method: r.Method, path: r.URL.Path, body: raw}
	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		call.form, _ = url.ParseQuery(string(raw))
	case "multipart/form-data":
		if form, err := multipart.NewReader(bytes.NewReader(raw), params["boundary"]).ReadForm(32 << 20); err == nil {
			call.form = url.Values(form.Value)
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

// callTo returns the most recent request the backend saw on path.
func (f *fakeRemote) callTo(path string) (remoteCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].path == path {
			return f.calls[i], true
		}
	}
	return remoteCall{}, false
}

func (f *fakeRemote) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		me := f.me
		f.mu.Unlock()
		if me == nil {
			writeEnvelope(w, http.StatusUnauthorized, nil, "sesi tidak ditemukan")
			return
		}
		writeEnvelope(w, http.StatusOK, me, "")
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		f.mu.Lock()
		me := f.me
		f.mu.Unlock()
		if me == nil {
			writeEnvelope(w, http.StatusUnauthorized, nil, "email atau kata sandi salah")
			return
		}
		writeEnvelope(w, http.StatusOK, me, "")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		writeEnvelope(w, http.StatusOK, nil, "")
	})
	return mux
}

func writeEnvelope(w http.ResponseWriter, code int, data interface{}, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data, "message": msg})
}

type webTest struct {
	remote *fakeRemote
	srv    *server
	reg    *Registry
}

func newWebTest(t *testing.T) *webTest {
	t.Helper()

	remote := &fakeRemote{}
	backend := httptest.NewServer(remote.handler())
	t.Cleanup(backend.Close)

	conf := &core.Config{
		AppName:   "sivitas",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
		API:       core.APIConfig{BaseURL: backend.URL, Timeout: time.Second},
		Session: core.SessionConfig{
			CookieName:      "sivitas_session",
			CookieMaxAge:    time.Hour,
			IdleTimeout:     time.Hour,
			PollInterval:    time.Hour,
			JanitorInterval: time.Hour,
		},
	}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	reg := NewRegistry(conf, nopLogger{})
	t.Cleanup(reg.Close)

	srv := NewServer(":0", &Deps{
		Conf:           conf,
		Logger:         nopLogger{},
		Sessions:       reg,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	}).(*server)

	return &webTest{remote: remote, srv: srv, reg: reg}
}

// get performs a GET through the full middleware chain, carrying any
// session cookies from a previous response.
func (wt *webTest) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	wt.srv.ServeHTTP(rec, req)
	return rec
}

// postForm performs a form-encoded POST through the full middleware chain.
func (wt *webTest) postForm(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	wt.srv.ServeHTTP(rec, req)
	return rec
}

func testUser(role string) *user.User {
	return &user.User{
		ID:       1,
		Name:     "Siti Rahma",
		Username: "siti",
		Email:    "siti@kampus.ac.id",
		Role:     role,
		IsActive: true,
	}
}
