package api

import (
	"context"
	"fmt"
)

// Notifications returns all notifications plus the authoritative unread
// count; callers should sync the session counter with it.
func (c *Client) Notifications(ctx context.Context) (NotificationList, error) {
	var out NotificationList
	err := c.get(ctx, "/notifications", nil, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.postForm(ctx, fmt.Sprintf("/notifications/%d/markasread", id), nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.postForm(ctx, "/notifications/readall", nil, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id int) error {
	return c.postForm(ctx, fmt.Sprintf("/notifications/%d/delete", id), nil, nil)
}
