package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/sivitasdev/sivitas/core/user"
)

// Admin dashboard & user management. The guard keeps non-Admins out of
// these routes; the backend enforces the same server-side.

type DashboardOverview struct {
	UserCount      int `json:"user_count"`
	CommunityCount int `json:"community_count"`
	PostCount      int `json:"post_count"`
	ForumCount     int `json:"forum_count"`
	ReportCount    int `json:"report_count"`
	Series         []struct {
		Label string `json:"label"`
		Value int    `json:"value"`
	} `json:"series"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   int    `json:"user_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type AccountRequest struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	Status      string      `json:"status"` // PENDING, APPROVED, REJECTED
	Reason      null.String `json:"reason"`
	RequestedAt time.Time   `json:"requested_at"`
}

type UserList struct {
	Users      []user.User `json:"users"`
	Pagination Pagination  `json:"pagination"`
}

// UserQuery filters the admin user list.
type UserQuery struct {
	Page    int
	PerPage int
	Role    string
	Search  string
	SortBy  string
	SortDir string
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
		v.Set("sort_dir", q.SortDir)
	}
	return v
}

// AdminNewUser is the admin user-creation form.
type AdminNewUser struct {
	Name                    string   `form:"name" validate:"required"`
	Username                string   `form:"username" validate:"required,min=6,alphanum_"`
	Email                   string   `form:"email" validate:"required,email"`
	Role                    string   `form:"role" validate:"required,role"`
	EstimatedGraduationYear null.Int `form:"estimated_graduation_year" validate:"omitempty"`
}

func (nu AdminNewUser) fields() url.Values {
	fields := url.Values{}
	fields.Set("name", nu.Name)
	fields.Set("username", nu.Username)
	fields.Set("email", nu.Email)
	fields.Set("role", nu.Role)
	if nu.EstimatedGraduationYear.Valid {
		fields.Set("estimated_graduation_year", strconv.Itoa(int(nu.EstimatedGraduationYear.Int)))
	}
	return fields
}

// PromoteToAlumni graduates a batch of Mahasiswa accounts; when
// UseEstimated is set the backend relies on each account's recorded year,
// otherwise GraduationYear applies to the whole batch.
type PromoteToAlumni struct {
	UserIDs        []int    `json:"user_ids"`
	UseEstimated   bool     `json:"use_estimated"`
	GraduationYear null.Int `json:"tahun_lulus,omitempty"`
}

func (c *Client) DashboardOverview(ctx context.Context, period, contentType string) (DashboardOverview, error) {
	q := url.Values{}
	q.Set("period", period)
	q.Set("type", contentType)
	var out DashboardOverview
	err := c.get(ctx, "/admin/dashboard/overview", q, &out)
	return out, err
}

func (c *Client) GlobalLeaderboard(ctx context.Context, period string) ([]LeaderboardEntry, error) {
	q := url.Values{}
	q.Set("period", period)
	var out []LeaderboardEntry
	err := c.get(ctx, "/admin/leaderboard", q, &out)
	return out, err
}

func (c *Client) AccountRequests(ctx context.Context, status string) ([]AccountRequest, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var out []AccountRequest
	err := c.get(ctx, "/admin/account-requests", q, &out)
	return out, err
}

// ApproveAccountRequest turns an account request into a live user account.
func (c *Client) ApproveAccountRequest(ctx context.Context, requestID int) error {
	return c.postForm(ctx, fmt.Sprintf("/admin/account-requests/%d/approve", requestID), nil, nil)
}

func (c *Client) RejectAccountRequest(ctx context.Context, requestID int, reason string) error {
	return c.postJSON(ctx, fmt.Sprintf("/admin/account-requests/%d/reject", requestID), map[string]string{"reason": reason}, nil)
}

func (c *Client) Users(ctx context.Context, q UserQuery) (UserList, error) {
	var out UserList
	err := c.get(ctx, "/admin/users", q.values(), &out)
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, nu AdminNewUser) (user.User, error) {
	var out user.User
	err := c.postMultipart(ctx, "/admin/users", nu.fields(), nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id int, nu AdminNewUser) (user.User, error) {
	var out user.User
	err := c.postForm(ctx, fmt.Sprintf("/admin/users/%d/update", id), nu.fields(), &out)
	return out, err
}

// ToggleUserActive flips is_active; the affected user's next poll tick will
// notice a deactivation and end their session.
func (c *Client) ToggleUserActive(ctx context.Context, id int) error {
	return c.postForm(ctx, fmt.Sprintf("/admin/users/%d/toggle-active", id), nil, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.postForm(ctx, fmt.Sprintf("/admin/users/%d/delete", id), nil, nil)
}

func (c *Client) PromoteUsersToAlumni(ctx context.Context, batch PromoteToAlumni) error {
	return c.postJSON(ctx, "/admin/users/promote-to-alumni", batch, nil)
}
