package echoweb

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sivitasdev/sivitas/core"
	"github.com/sivitasdev/sivitas/services/api"
)

// newHTTPErrorHandler renders our error taxonomy as pages: validation
// problems become a 400 with field messages, remote API errors keep their
// status, anything else is a logged 500. Shutdown errors additionally
// signal a graceful stop.
func (s *server) newHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code   = http.StatusInternalServerError
			detail string
			fields map[string]string
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				detail = msg
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			fields = make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fields[vErr.Field()] = vErr.Translate(s.deps.Translator)
			}
		case *core.ValidationError:
			code = http.StatusBadRequest
			detail = origErr.Error()
			if origErr.Fields != nil {
				fields = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fields[fErr.Field] = fErr.Error
				}
			}
		case *api.Error:
			code = origErr.StatusCode
			detail = origErr.Message
		default: // any other error is a server error
			detail = http.StatusText(code)
			s.deps.Logger.Error(detail, err)

			// shutting down...
			if core.IsShutdown(err) {
				s.shutdownCh <- nil
			}
		}

		if ctx.Echo().Debug {
			detail = err.Error()
		}

		if !ctx.Response().Committed {
			rErr := s.render(ctx, code, "error", echo.Map{
				"Status": code,
				"Detail": detail,
				"Fields": fields,
			})
			if rErr != nil {
				ctx.Echo().Logger.Error(rErr)
			}
		}
	}
}
