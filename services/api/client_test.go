package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivitasdev/sivitas/core"
	"github.com/sivitasdev/sivitas/core/user"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	client, err := NewClient(&core.Config{
		API: core.APIConfig{BaseURL: backend.URL, Timeout: time.Second},
	})
	require.NoError(t, err)
	return client
}

func respond(t *testing.T, w http.ResponseWriter, code int, data interface{}, msg string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"data": data, "message": msg}))
}

func Test_client_envelopeDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		respond(t, w, http.StatusOK, map[string]interface{}{
			"id": 7, "username": "budi", "role": user.RoleDosen, "is_active": true,
			"unread_notifications_count": 4,
		}, "")
	})

	usr, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, usr.ID)
	assert.Equal(t, "budi", usr.Username)
	assert.Equal(t, 4, usr.UnreadNotifications)
	assert.True(t, usr.IsActive)
}

func Test_client_errorMapping(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		msg      string
		wantMsg  string
		wantAuth bool
	}{
		{"message passthrough", http.StatusUnauthorized, "sesi berakhir", "sesi berakhir", true},
		{"forbidden counts as unauthenticated", http.StatusForbidden, "dilarang", "dilarang", true},
		{"blank message falls back to status text", http.StatusBadGateway, "", "Bad Gateway", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				respond(t, w, tt.code, nil, tt.msg)
			})

			_, err := client.Me(context.Background())
			require.Error(t, err)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.wantAuth, IsUnauthenticated(err))
		})
	}
}

func Test_client_loginSendsForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "budi@kampus.ac.id", r.PostFormValue("email"))
		assert.Equal(t, "rahasia", r.PostFormValue("password"))
		assert.Equal(t, "XY12", r.PostFormValue("captcha_code"))
		respond(t, w, http.StatusOK, map[string]interface{}{"id": 7, "username": "budi"}, "")
	})

	usr, err := client.Login(context.Background(), user.Credentials{
		Email:       "budi@kampus.ac.id",
		Password:    "rahasia",
		CaptchaCode: "XY12",
	})
	require.NoError(t, err)
	assert.Equal(t, "budi", usr.Username)
}

func Test_client_cookieJarPersistsSession(t *testing.T) {
	var sawCookie bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "backend_session", Value: "s3cr3t", Path: "/"})
			respond(t, w, http.StatusOK, map[string]interface{}{"id": 7}, "")
		case "/me":
			if c, err := r.Cookie("backend_session"); err == nil && c.Value == "s3cr3t" {
				sawCookie = true
				respond(t, w, http.StatusOK, map[string]interface{}{"id": 7, "is_active": true}, "")
				return
			}
			respond(t, w, http.StatusUnauthorized, nil, "sesi tidak ditemukan")
		}
	})

	_, err := client.Login(context.Background(), user.Credentials{})
	require.NoError(t, err)
	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, sawCookie, "backend session cookie must ride along on later calls")
}

func Test_client_multipartUpload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Komunitas Robotika", r.PostFormValue("name"))

		file, header, err := r.FormFile("banner")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "banner.png", header.Filename)
		respond(t, w, http.StatusCreated, map[string]interface{}{"slug": "komunitas-robotika"}, "")
	})

	community, err := client.CreateCommunity(context.Background(), CommunityInput{
		Name:        "Komunitas Robotika",
		Description: "Wadah penggemar robotika kampus",
		Banner:      &Upload{Filename: "banner.png", Content: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "komunitas-robotika", community.Slug)
}

func Test_client_emptyBodyTolerated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, client.Logout(context.Background()))
}

func Test_client_fieldErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{
			"data": null,
			"message": "data tidak valid",
			"errors": {"username": "username sudah terpakai", "email": "email tidak dikenal"}
		}`))
	})

	_, err := client.Login(context.Background(), user.Credentials{
		Email: "budi@kampus.ac.id", Password: "rahasia", CaptchaCode: "1234",
	})
	require.Error(t, err)

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "data tidak valid", vErr.Error())
	assert.Equal(t, []core.FieldError{
		{Field: "email", Error: "email tidak dikenal"},
		{Field: "username", Error: "username sudah terpakai"},
	}, vErr.Fields)
}
