package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sivitasdev/sivitas/services/api"
)

func (s *server) profilePage(ctx echo.Context) error {
	username := ctx.Param("username")
	profile, err := currentSession(ctx).api.Profile(ctx.Request().Context(), username)
	if err != nil {
		return errors.Wrap(err, "fetching profile")
	}
	own := false
	if usr, ok := currentSession(ctx).store.User(); ok {
		own = usr.Username == username
	}
	return s.render(ctx, http.StatusOK, "profile", echo.Map{
		"Profile": profile,
		"Own":     own,
	})
}

func (s *server) updateProfile(ctx echo.Context) error {
	in := api.ProfileInput{Name: ctx.FormValue("name")}
	for field, dst := range map[string]*null.String{
		"bio":         &in.Bio,
		"faculty":     &in.Faculty,
		"study_field": &in.StudyField,
	} {
		if v := ctx.FormValue(field); v != "" {
			*dst = null.StringFrom(v)
		}
	}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	avatar, err := formUpload(ctx, "avatar")
	if err != nil {
		return err
	}
	in.Avatar = avatar

	sess := currentSession(ctx)
	if _, err := sess.api.UpdateProfile(ctx.Request().Context(), in); err != nil {
		return errors.Wrap(err, "updating profile")
	}
	// name and avatar live on the session user too
	sess.store.CheckAuth(ctx.Request().Context())

	if usr, ok := sess.store.User(); ok {
		return ctx.Redirect(http.StatusFound, "/profile/"+usr.Username)
	}
	return ctx.Redirect(http.StatusFound, pathHome)
}

// completeProfile fills in the extended profile fields a fresh account is
// asked for on first login; same payload as updateProfile, different
// backend endpoint.
func (s *server) completeProfile(ctx echo.Context) error {
	in := api.ProfileInput{Name: ctx.FormValue("name")}
	for field, dst := range map[string]*null.String{
		"bio":         &in.Bio,
		"faculty":     &in.Faculty,
		"study_field": &in.StudyField,
	} {
		if v := ctx.FormValue(field); v != "" {
			*dst = null.StringFrom(v)
		}
	}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	if _, err := currentSession(ctx).api.CompleteProfileData(ctx.Request().Context(), in); err != nil {
		return errors.Wrap(err, "completing profile data")
	}
	return ctx.Redirect(http.StatusFound, pathHome)
}

func (s *server) submitReport(ctx echo.Context) error {
	targetID, err := strconv.Atoi(ctx.FormValue("target_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "target laporan tidak valid")
	}
	in := api.ReportInput{
		TargetType: ctx.FormValue("target_type"),
		TargetID:   targetID,
		Reason:     ctx.FormValue("reason"),
	}
	if err := s.deps.Validate.Struct(in); err != nil {
		return err
	}
	evidence, err := formUpload(ctx, "evidence")
	if err != nil {
		return err
	}
	in.Evidence = evidence
	if err := currentSession(ctx).api.SubmitReport(ctx.Request().Context(), in); err != nil {
		return errors.Wrap(err, "submitting report")
	}
	return redirectBack(ctx, pathHome)
}
