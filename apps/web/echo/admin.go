package echoweb

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sivitasdev/sivitas/services/api"
)

const (
	pathAdminUsers    = "/admin/users"
	pathAdminAccounts = "/admin/accounts"
	pathAdminReports  = "/admin/reports"
)

func (s *server) adminDashboardPage(ctx echo.Context) error {
	sess := currentSession(ctx)
	reqCtx := ctx.Request().Context()

	period := ctx.QueryParam("period")
	if period == "" {
		period = "weekly"
	}
	contentType := ctx.QueryParam("type")
	if contentType == "" {
		contentType = "post"
	}

	overview, err := sess.api.DashboardOverview(reqCtx, period, contentType)
	if err != nil {
		return errors.Wrap(err, "fetching dashboard overview")
	}
	leaderboard, err := sess.api.GlobalLeaderboard(reqCtx, period)
	if err != nil {
		return errors.Wrap(err, "fetching leaderboard")
	}
	return s.render(ctx, http.StatusOK, "admin_dashboard", echo.Map{
		"Overview":    overview,
		"Leaderboard": leaderboard,
		"Period":      period,
		"ContentType": contentType,
	})
}

func (s *server) adminUsersPage(ctx echo.Context) error {
	q := api.UserQuery{
		Page:    pageQuery(ctx),
		Role:    ctx.QueryParam("role"),
		Search:  ctx.QueryParam("q"),
		SortBy:  ctx.QueryParam("sort_by"),
		SortDir: ctx.QueryParam("sort_dir"),
	}
	users, err := currentSession(ctx).api.Users(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "fetching users")
	}
	return s.render(ctx, http.StatusOK, "admin_users", echo.Map{
		"Users":      users.Users,
		"Pagination": users.Pagination,
		"Query":      q,
	})
}

func (s *server) adminAccountsPage(ctx echo.Context) error {
	status := ctx.QueryParam("status")
	if status == "" {
		status = "pending"
	}
	requests, err := currentSession(ctx).api.AccountRequests(ctx.Request().Context(), status)
	if err != nil {
		return errors.Wrap(err, "fetching account requests")
	}
	return s.render(ctx, http.StatusOK, "admin_accounts", echo.Map{
		"Requests": requests,
		"Status":   status,
	})
}

func (s *server) adminReportsPage(ctx echo.Context) error {
	sess := currentSession(ctx)
	reqCtx := ctx.Request().Context()

	status := ctx.QueryParam("status")
	reports, err := sess.api.ReportSummaries(reqCtx, status, pageQuery(ctx))
	if err != nil {
		return errors.Wrap(err, "fetching reports")
	}

	// ?type=&id= expands one target's individual reports
	var detail *api.ReportDetail
	if targetType := ctx.QueryParam("type"); targetType != "" {
		targetID, err := strconv.Atoi(ctx.QueryParam("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		d, err := sess.api.ReportDetail(reqCtx, targetType, targetID)
		if err != nil {
			return errors.Wrap(err, "fetching report detail")
		}
		detail = &d
	}

	return s.render(ctx, http.StatusOK, "admin_reports", echo.Map{
		"Summaries": reports,
		"Status":    status,
		"Detail":    detail,
	})
}

func bindAdminUser(ctx echo.Context) (api.AdminNewUser, error) {
	nu := api.AdminNewUser{
		Name:     ctx.FormValue("name"),
		Username: ctx.FormValue("username"),
		Email:    ctx.FormValue("email"),
		Role:     ctx.FormValue("role"),
	}
	if v := ctx.FormValue("estimated_graduation_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nu, echo.NewHTTPError(http.StatusBadRequest, "tahun kelulusan tidak valid")
		}
		nu.EstimatedGraduationYear = null.IntFrom(year)
	}
	return nu, nil
}

func (s *server) adminCreateUser(ctx echo.Context) error {
	nu, err := bindAdminUser(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(nu); err != nil {
		return err
	}
	if _, err := currentSession(ctx).api.CreateUser(ctx.Request().Context(), nu); err != nil {
		return errors.Wrap(err, "creating user")
	}
	return redirectBack(ctx, pathAdminUsers)
}

func (s *server) adminUpdateUser(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	nu, err := bindAdminUser(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.Validate.Struct(nu); err != nil {
		return err
	}
	if _, err := currentSession(ctx).api.UpdateUser(ctx.Request().Context(), id, nu); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return redirectBack(ctx, pathAdminUsers)
}

func (s *server) adminToggleUserActive(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.ToggleUserActive(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "toggling user active")
	}
	return redirectBack(ctx, pathAdminUsers)
}

func (s *server) adminDeleteUser(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.DeleteUser(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return redirectBack(ctx, pathAdminUsers)
}

func (s *server) adminPromoteToAlumni(ctx echo.Context) error {
	batch := api.PromoteToAlumni{
		UseEstimated: ctx.FormValue("use_estimated") == "true",
	}
	for _, raw := range strings.Split(ctx.FormValue("user_ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "daftar pengguna tidak valid")
		}
		batch.UserIDs = append(batch.UserIDs, id)
	}
	if len(batch.UserIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "pilih minimal satu mahasiswa")
	}
	if !batch.UseEstimated {
		year, err := strconv.Atoi(ctx.FormValue("tahun_lulus"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "tahun kelulusan tidak valid")
		}
		batch.GraduationYear = null.IntFrom(year)
	}
	if err := currentSession(ctx).api.PromoteUsersToAlumni(ctx.Request().Context(), batch); err != nil {
		return errors.Wrap(err, "promoting users to alumni")
	}
	return redirectBack(ctx, pathAdminUsers)
}

func (s *server) adminApproveAccountRequest(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.ApproveAccountRequest(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "approving account request")
	}
	return redirectBack(ctx, pathAdminAccounts)
}

func (s *server) adminRejectAccountRequest(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.RejectAccountRequest(ctx.Request().Context(), id, ctx.FormValue("reason")); err != nil {
		return errors.Wrap(err, "rejecting account request")
	}
	return redirectBack(ctx, pathAdminAccounts)
}

func (s *server) adminUpdateReportStatus(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	err = currentSession(ctx).api.UpdateReportStatus(
		ctx.Request().Context(), ctx.Param("type"), id, ctx.FormValue("status"))
	if err != nil {
		return errors.Wrap(err, "updating report status")
	}
	return redirectBack(ctx, pathAdminReports)
}

func (s *server) adminDeleteReportTarget(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.DeleteReportTarget(ctx.Request().Context(), ctx.Param("type"), id); err != nil {
		return errors.Wrap(err, "deleting report target")
	}
	return redirectBack(ctx, pathAdminReports)
}
