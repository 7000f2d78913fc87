package echoweb

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivitasdev/sivitas/core"
)

func Test_errorHandler_remoteFieldErrors(t *testing.T) {
	wt := newWebTest(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := wt.srv.app.NewContext(req, rec)

	vErr := core.NewValidationError(
		errors.New("data tidak valid"),
		core.FieldError{Field: "username", Error: "username sudah terpakai"},
	)
	wt.srv.newHTTPErrorHandler()(errors.Wrap(vErr, "creating user"), ctx)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username sudah terpakai")
}

func Test_errorHandler_shutdownSignal(t *testing.T) {
	wt := newWebTest(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := wt.srv.app.NewContext(req, rec)

	wt.srv.newHTTPErrorHandler()(core.NewShutdownError("session registry unusable"), ctx)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	select {
	case <-wt.srv.shutdownCh:
	default:
		t.Fatal("graceful stop was not signaled")
	}
}
