package echoweb

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sivitasdev/sivitas/core/user"
	"github.com/sivitasdev/sivitas/services/api"
)

func (s *server) loginPage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "login", echo.Map{
		"Redirect": ctx.QueryParam("redirect"),
	})
}

func (s *server) login(ctx echo.Context) error {
	var creds user.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := creds.Validate(s.deps.Validate); err != nil {
		return err
	}

	sess := currentSession(ctx)
	usr, err := sess.store.Login(ctx.Request().Context(), creds)
	if err != nil {
		// login failures are user-visible; re-render the form
		msg := "login failed"
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			msg = apiErr.Message
		}
		return s.render(ctx, http.StatusBadRequest, "login", echo.Map{
			"Error":    msg,
			"Redirect": ctx.FormValue("redirect"),
		})
	}

	return ctx.Redirect(http.StatusFound, loginLanding(usr, ctx.FormValue("redirect")))
}

// loginLanding picks the post-login destination: the preserved redirect
// target when it is a safe in-app path, otherwise the role's landing page.
func loginLanding(usr user.User, redirect string) string {
	if strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
		return redirect
	}
	switch {
	case usr.IsAdmin():
		return pathAdminDashboard
	case usr.IsExternal():
		return pathJoined
	default:
		return pathHome
	}
}

func (s *server) logout(ctx echo.Context) error {
	currentSession(ctx).store.Logout(ctx.Request().Context())
	return ctx.Redirect(http.StatusFound, pathLanding)
}

func (s *server) registerPage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "register", nil)
}

func (s *server) register(ctx echo.Context) error {
	var reg user.RegistrationRequest
	if err := ctx.Bind(&reg); err != nil {
		return errors.Wrap(err, "binding to RegistrationRequest")
	}
	if err := reg.Validate(s.deps.Validate); err != nil {
		return err
	}
	if err := currentSession(ctx).api.RequestRegistrationOTP(ctx.Request().Context(), reg); err != nil {
		return errors.Wrap(err, "requesting registration OTP")
	}
	return s.render(ctx, http.StatusOK, "register", echo.Map{
		"AwaitingOTP": true,
		"Email":       reg.Email,
	})
}

func (s *server) verifyRegistration(ctx echo.Context) error {
	var otp user.OTPVerification
	if err := ctx.Bind(&otp); err != nil {
		return errors.Wrap(err, "binding to OTPVerification")
	}
	if err := otp.Validate(s.deps.Validate); err != nil {
		return err
	}
	if _, err := currentSession(ctx).api.VerifyRegistrationOTP(ctx.Request().Context(), otp); err != nil {
		return errors.Wrap(err, "verifying registration OTP")
	}
	return ctx.Redirect(http.StatusFound, pathLogin)
}

func (s *server) activatePage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "activate", echo.Map{
		"Token": ctx.QueryParam("token"),
	})
}

func (s *server) activate(ctx echo.Context) error {
	var act user.ExternalActivation
	if err := ctx.Bind(&act); err != nil {
		return errors.Wrap(err, "binding to ExternalActivation")
	}
	if err := act.Validate(s.deps.Validate); err != nil {
		return err
	}
	if err := currentSession(ctx).api.ActivateExternalAccount(ctx.Request().Context(), act); err != nil {
		return errors.Wrap(err, "activating account")
	}
	return ctx.Redirect(http.StatusFound, pathLogin)
}

// Forgot-password flow: three phases on one page (request, verify, reset),
// driven by query params so each step survives a full page load.

func (s *server) forgotPasswordPage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "forgot_password", echo.Map{
		"Phase": ctx.QueryParam("phase"),
		"Email": ctx.QueryParam("email"),
		"OTP":   ctx.QueryParam("otp"),
	})
}

func (s *server) requestPasswordReset(ctx echo.Context) error {
	email := ctx.FormValue("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email wajib diisi")
	}
	if err := currentSession(ctx).api.RequestPasswordResetOTP(ctx.Request().Context(), email); err != nil {
		return errors.Wrap(err, "requesting password reset OTP")
	}
	return ctx.Redirect(http.StatusFound,
		pathForgotPassword+"?phase=verify&email="+url.QueryEscape(email))
}

func (s *server) verifyPasswordReset(ctx echo.Context) error {
	email, otp := ctx.FormValue("email"), ctx.FormValue("otp")
	if err := currentSession(ctx).api.VerifyPasswordResetOTP(ctx.Request().Context(), email, otp); err != nil {
		return errors.Wrap(err, "verifying password reset OTP")
	}
	return ctx.Redirect(http.StatusFound,
		pathForgotPassword+"?phase=reset&email="+url.QueryEscape(email)+"&otp="+url.QueryEscape(otp))
}

func (s *server) resetPassword(ctx echo.Context) error {
	err := currentSession(ctx).api.ResetPassword(ctx.Request().Context(),
		ctx.FormValue("email"), ctx.FormValue("otp"), ctx.FormValue("password"))
	if err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.Redirect(http.StatusFound, pathLogin)
}

func (s *server) accountStatusPage(ctx echo.Context) error {
	return s.render(ctx, http.StatusOK, "account_status", echo.Map{
		"Type":     ctx.QueryParam("type"),
		"NewEmail": ctx.QueryParam("new_email"),
		"Info":     ctx.QueryParam("info"),
	})
}

func (s *server) requestLifecycleOTP(ctx echo.Context) error {
	req := user.LifecycleRequest{Type: ctx.FormValue("type")}
	if email := ctx.FormValue("new_email"); email != "" {
		req.NewEmail = null.StringFrom(email)
	}
	if err := req.Validate(s.deps.Validate); err != nil {
		return err
	}
	if err := currentSession(ctx).api.RequestLifecycleOTP(ctx.Request().Context(), req); err != nil {
		return errors.Wrap(err, "requesting lifecycle OTP")
	}
	q := "?type=" + req.Type + "&info=OTP+terkirim"
	if req.NewEmail.Valid {
		q += "&new_email=" + req.NewEmail.String
	}
	return ctx.Redirect(http.StatusFound, pathAccountStatus+q)
}

func (s *server) verifyLifecycleOTP(ctx echo.Context) error {
	ver := user.LifecycleVerification{
		Type: ctx.FormValue("type"),
		OTP:  ctx.FormValue("otp"),
	}
	if email := ctx.FormValue("new_email"); email != "" {
		ver.NewEmail = null.StringFrom(email)
	}
	if err := ver.Validate(s.deps.Validate); err != nil {
		return err
	}

	sess := currentSession(ctx)
	if _, err := sess.api.VerifyLifecycleOTP(ctx.Request().Context(), ver); err != nil {
		return errors.Wrap(err, "verifying lifecycle OTP")
	}

	// the account's role or graduation year just changed; refresh the
	// session before the guard looks at it again
	sess.store.CheckAuth(ctx.Request().Context())
	return ctx.Redirect(http.StatusFound, pathHome)
}
