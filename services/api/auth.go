package api

import (
	"context"
	"net/url"

	"github.com/sivitasdev/sivitas/core/user"
)

// Login exchanges credentials for a backend session. The backend sets its
// session cookie on this client's jar and returns the user record.
func (c *Client) Login(ctx context.Context, creds user.Credentials) (user.User, error) {
	form := url.Values{}
	form.Set("email", creds.Email)
	form.Set("password", creds.Password)
	form.Set("captcha_code", creds.CaptchaCode)

	var usr user.User
	err := c.postForm(ctx, "/login", form, &usr)
	return usr, err
}

// Logout terminates the backend session. Callers are expected to discard
// local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.postForm(ctx, "/logout", nil, nil)
}

// Me fetches the current session's user record, including is_active and
// unread_notifications_count.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.get(ctx, "/me", nil, &usr)
	return usr, err
}

// RequestRegistrationOTP starts self-registration (campus email only).
func (c *Client) RequestRegistrationOTP(ctx context.Context, reg user.RegistrationRequest) error {
	return c.postJSON(ctx, "/register/request", reg, nil)
}

// VerifyRegistrationOTP completes self-registration.
func (c *Client) VerifyRegistrationOTP(ctx context.Context, otp user.OTPVerification) (user.User, error) {
	var usr user.User
	err := c.postJSON(ctx, "/register/verify", otp, &usr)
	return usr, err
}

// ActivateExternalAccount activates an invited Alumni/Mitra/Pakar account.
func (c *Client) ActivateExternalAccount(ctx context.Context, act user.ExternalActivation) error {
	return c.postJSON(ctx, "/activate-account", act, nil)
}

// Forgot-password flow.

func (c *Client) RequestPasswordResetOTP(ctx context.Context, email string) error {
	form := url.Values{}
	form.Set("email", email)
	return c.postForm(ctx, "/forgot-password/request", form, nil)
}

func (c *Client) VerifyPasswordResetOTP(ctx context.Context, email, otp string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("otp", otp)
	return c.postForm(ctx, "/forgot-password/verify", form, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, password string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("otp", otp)
	form.Set("password", password)
	return c.postForm(ctx, "/forgot-password/reset", form, nil)
}

// Account-lifecycle flow for Mahasiswa past their estimated graduation
// year: extend the student account or convert it to Alumni.

func (c *Client) RequestLifecycleOTP(ctx context.Context, req user.LifecycleRequest) error {
	return c.postJSON(ctx, "/auth/lifecycle/request-otp", req, nil)
}

func (c *Client) VerifyLifecycleOTP(ctx context.Context, ver user.LifecycleVerification) (user.User, error) {
	var usr user.User
	err := c.postJSON(ctx, "/auth/lifecycle/verify-otp", ver, &usr)
	return usr, err
}
