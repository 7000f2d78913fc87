package echoweb

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivitasdev/sivitas/core/user"
)

func adminSession(t *testing.T, wt *webTest) []*http.Cookie {
	t.Helper()
	wt.remote.setMe(testUser(user.RoleAdmin))
	rec := wt.get("/admin/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func Test_adminCreateUser_graduationYear(t *testing.T) {
	wt := newWebTest(t)
	cookies := adminSession(t, wt)

	form := url.Values{}
	form.Set("name", "Budi Santoso")
	form.Set("username", "budi_santoso")
	form.Set("email", "budi@kampus.ac.id")
	form.Set("role", user.RoleMahasiswa)
	form.Set("estimated_graduation_year", "2029")
	rec := wt.postForm("/admin/users", form, cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/users", rec.Header().Get("Location"))

	call, ok := wt.remote.callTo("/admin/users")
	require.True(t, ok, "backend never received the create request")
	assert.Equal(t, "2029", call.form.Get("estimated_graduation_year"))
}

func Test_adminPromoteToAlumni_batchYear(t *testing.T) {
	wt := newWebTest(t)
	cookies := adminSession(t, wt)

	form := url.Values{}
	form.Set("user_ids", "3, 4")
	form.Set("tahun_lulus", "2026")
	rec := wt.postForm("/admin/users/promote-to-alumni", form, cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/users", rec.Header().Get("Location"))

	call, ok := wt.remote.callTo("/admin/users/promote-to-alumni")
	require.True(t, ok, "backend never received the promote request")
	var got struct {
		UserIDs      []int `json:"user_ids"`
		UseEstimated bool  `json:"use_estimated"`
		TahunLulus   int   `json:"tahun_lulus"`
	}
	require.NoError(t, json.Unmarshal(call.body, &got))
	assert.Equal(t, []int{3, 4}, got.UserIDs)
	assert.False(t, got.UseEstimated)
	assert.Equal(t, 2026, got.TahunLulus)
}
