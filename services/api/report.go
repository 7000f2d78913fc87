package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Reportable target types accepted by the moderation endpoints.
const (
	ReportTypePost    = "post"
	ReportTypeComment = "comment"
	ReportTypeForum   = "forum"
	ReportTypeUser    = "user"
)

// Report statuses.
const (
	ReportStatusPending  = "PENDING"
	ReportStatusReviewed = "REVIEWED"
	ReportStatusRejected = "REJECTED"
)

type ReportInput struct {
	TargetType string `form:"target_type" validate:"required,oneof=post comment forum user"`
	TargetID   int    `form:"target_id" validate:"required"`
	Reason     string `form:"reason" validate:"required,min=10"`
	Evidence   *Upload
}

type ReportSummary struct {
	TargetType  string    `json:"target_type"`
	TargetID    int       `json:"target_id"`
	ReportCount int       `json:"report_count"`
	Status      string    `json:"status"`
	LastReport  time.Time `json:"last_report_at"`
}

type ReportDetail struct {
	Summary ReportSummary `json:"summary"`
	Reports []struct {
		ID         int       `json:"id"`
		ReporterID int       `json:"reporter_id"`
		Reporter   string    `json:"reporter"`
		Reason     string    `json:"reason"`
		CreatedAt  time.Time `json:"created_at"`
	} `json:"reports"`
}

// SubmitReport flags content or a user for moderation.
func (c *Client) SubmitReport(ctx context.Context, in ReportInput) error {
	fields := url.Values{}
	fields.Set("target_type", in.TargetType)
	fields.Set("target_id", strconv.Itoa(in.TargetID))
	fields.Set("reason", in.Reason)
	var uploads []Upload
	if in.Evidence != nil {
		up := *in.Evidence
		up.Field = "evidence"
		uploads = append(uploads, up)
	}
	return c.postMultipart(ctx, "/reports", fields, uploads, nil)
}

// Admin moderation views.

func (c *Client) ReportSummaries(ctx context.Context, status string, page int) ([]ReportSummary, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("page", strconv.Itoa(page))
	var out []ReportSummary
	err := c.get(ctx, "/admin/reports/summary", q, &out)
	return out, err
}

func (c *Client) ReportDetail(ctx context.Context, targetType string, targetID int) (ReportDetail, error) {
	var out ReportDetail
	err := c.get(ctx, fmt.Sprintf("/admin/reports/%s/%d", url.PathEscape(targetType), targetID), nil, &out)
	return out, err
}

func (c *Client) UpdateReportStatus(ctx context.Context, targetType string, targetID int, status string) error {
	form := url.Values{}
	form.Set("status", status)
	return c.postForm(ctx, fmt.Sprintf("/admin/reports/%s/%d/status", url.PathEscape(targetType), targetID), form, nil)
}

// DeleteReportTarget removes the reported content itself.
func (c *Client) DeleteReportTarget(ctx context.Context, targetType string, targetID int) error {
	return c.postForm(ctx, fmt.Sprintf("/admin/reports/%s/%d/delete-target", url.PathEscape(targetType), targetID), nil, nil)
}
