package api

import (
	"context"
	"net/url"
	"strconv"
)

// Community membership moderation (owner/moderator actions).

func (c *Client) KickMember(ctx context.Context, slug string, userID int) error {
	form := url.Values{}
	form.Set("user_id", strconv.Itoa(userID))
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/members/kick", form, nil)
}

// ChangeMemberRole sets a member's community role (owner, moderator, member).
func (c *Client) ChangeMemberRole(ctx context.Context, slug string, userID int, role string) error {
	form := url.Values{}
	form.Set("user_id", strconv.Itoa(userID))
	form.Set("role", role)
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/members/role", form, nil)
}

func (c *Client) JoinRequests(ctx context.Context, slug string) ([]JoinRequest, error) {
	var out []JoinRequest
	err := c.get(ctx, "/communities/"+url.PathEscape(slug)+"/requests", nil, &out)
	return out, err
}

func (c *Client) ApproveJoinRequest(ctx context.Context, slug string, userID int) error {
	form := url.Values{}
	form.Set("user_id", strconv.Itoa(userID))
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/requests/approve", form, nil)
}

func (c *Client) DeclineJoinRequest(ctx context.Context, slug string, userID int) error {
	form := url.Values{}
	form.Set("user_id", strconv.Itoa(userID))
	return c.postForm(ctx, "/communities/"+url.PathEscape(slug)+"/requests/decline", form, nil)
}
