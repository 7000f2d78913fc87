package echoweb

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivitasdev/sivitas/core/user"
)

func loginForm(redirect string) url.Values {
	form := url.Values{}
	form.Set("email", "siti@kampus.ac.id")
	form.Set("password", "rahasia123")
	form.Set("captcha_code", "1234")
	if redirect != "" {
		form.Set("redirect", redirect)
	}
	return form
}

func Test_login_landing(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		redirect string
		want     string
	}{
		{"redirect honored", user.RoleDosen, "/communities/riset", "/communities/riset"},
		{"scheme-relative rejected", user.RoleDosen, "//evil.example/phish", "/home"},
		{"admin default", user.RoleAdmin, "", "/admin/dashboard"},
		{"external default", user.RoleMitra, "", "/communities/joined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wt := newWebTest(t)
			wt.remote.setMe(testUser(tt.role))
			rec := wt.postForm("/login", loginForm(tt.redirect))
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func Test_login_redirectRoundTrip(t *testing.T) {
	wt := newWebTest(t)

	// anonymous navigation is bounced to login with the target preserved
	rec := wt.get("/notifications")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/login", loc.Path)
	target := loc.Query().Get("redirect")
	require.Equal(t, "/notifications", target)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// logging in sends the user back to where they were headed
	wt.remote.setMe(testUser(user.RoleDosen))
	rec = wt.postForm("/login", loginForm(target), cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/notifications", rec.Header().Get("Location"))
}
