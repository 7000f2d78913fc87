package echoweb

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/sivitasdev/sivitas/core/user"
)

func Test_guard_anonymousRedirectsToLogin(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"home", "/home", "/login?redirect=%2Fhome"},
		{"joined communities", "/communities/joined", "/login?redirect=%2Fcommunities%2Fjoined"},
		{"query preserved", "/notifications?page=2", "/login?redirect=%2Fnotifications%3Fpage%3D2"},
		{"admin", "/admin/dashboard", "/login?redirect=%2Fadmin%2Fdashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wt := newWebTest(t)
			rec := wt.get(tt.target)
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func Test_guard_anonymousPublicPages(t *testing.T) {
	wt := newWebTest(t)
	for _, target := range []string{"/", "/login", "/register", "/activate-account", "/403"} {
		rec := wt.get(target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func Test_guard_roleRouting(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		target   string
		wantCode int
		wantLoc  string
	}{
		// public-only pages bounce to the role's landing
		{"mahasiswa on login", user.RoleMahasiswa, "/login", http.StatusFound, "/home"},
		{"admin on login", user.RoleAdmin, "/login", http.StatusFound, "/admin/dashboard"},
		{"alumni on landing", user.RoleAlumni, "/", http.StatusFound, "/home"},
		// role landing redirects
		{"admin on home", user.RoleAdmin, "/home", http.StatusFound, "/admin/dashboard"},
		{"alumni on home", user.RoleAlumni, "/home", http.StatusFound, "/communities/joined"},
		{"mitra on communities", user.RoleMitra, "/communities", http.StatusFound, "/communities/joined"},
		// role checks
		{"mahasiswa on admin page", user.RoleMahasiswa, "/admin/dashboard", http.StatusFound, "/403"},
		{"pakar on admin page", user.RolePakar, "/admin/users", http.StatusFound, "/403"},
		// allowed through
		{"dosen on home", user.RoleDosen, "/home", http.StatusOK, ""},
		{"mahasiswa on notifications", user.RoleMahasiswa, "/notifications", http.StatusOK, ""},
		{"admin on dashboard", user.RoleAdmin, "/admin/dashboard", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wt := newWebTest(t)
			wt.remote.setMe(testUser(tt.role))

			rec := wt.get(tt.target)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func Test_guard_graduationExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	expired := testUser(user.RoleMahasiswa)
	expired.EstimatedGraduationYear = null.IntFrom(2024)

	current := testUser(user.RoleMahasiswa)
	current.EstimatedGraduationYear = null.IntFrom(2027)

	tests := []struct {
		name     string
		usr      *user.User
		target   string
		wantCode int
		wantLoc  string
	}{
		{"expired is pinned to status page", expired, "/home", http.StatusFound, "/account/status"},
		{"expired reaches status page", expired, "/account/status", http.StatusOK, ""},
		{"expired cannot reach login either", expired, "/login", http.StatusFound, "/account/status"},
		{"current is kept off the status page", current, "/account/status", http.StatusFound, "/home"},
		{"current browses normally", current, "/home", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wt := newWebTest(t)
			wt.srv.nowFunc = func() time.Time { return now }
			wt.remote.setMe(tt.usr)

			rec := wt.get(tt.target)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func Test_guard_checkAuthOnceTurnsPollingOn(t *testing.T) {
	wt := newWebTest(t)
	wt.remote.setMe(testUser(user.RoleDosen))

	rec := wt.get("/home")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, wt.reg.Len())

	// the session resolved once and stays authenticated on later requests
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	wt.remote.setMe(nil) // backend session gone, but no new check happens
	rec = wt.get("/home", cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, wt.reg.Len(), "cookie reuse must not mint a new session")
}

func Test_guard_ignoresFormActions(t *testing.T) {
	wt := newWebTest(t)
	wt.remote.setMe(testUser(user.RoleAlumni))

	// authenticate the session via a guarded navigation
	rec := wt.get("/home")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/communities/joined", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// an action sharing its path with a guarded page must reach its
	// handler instead of the landing redirect
	form := url.Values{}
	form.Set("name", "Komunitas Riset")
	form.Set("description", "Wadah diskusi riset lintas kampus")
	rec = wt.postForm("/communities", form, cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.NotEqual(t, "/communities/joined", rec.Header().Get("Location"))

	call, ok := wt.remote.callTo("/communities")
	require.True(t, ok, "backend never received the create request")
	assert.Equal(t, http.MethodPost, call.method)
}

func Test_guard_ignoresLoginAction(t *testing.T) {
	wt := newWebTest(t)
	wt.remote.setMe(testUser(user.RoleDosen))

	rec := wt.get("/home")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// re-submitting login from an authenticated session still runs the
	// login handler rather than the public-only bounce
	rec = wt.postForm("/login", loginForm(""), cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	_, ok := wt.remote.callTo("/login")
	assert.True(t, ok, "login handler did not reach the backend")
}
