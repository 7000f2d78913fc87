package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const pathNotifications = "/notifications"

func (s *server) notificationsPage(ctx echo.Context) error {
	sess := currentSession(ctx)
	list, err := sess.api.Notifications(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "fetching notifications")
	}
	// the list response carries the authoritative unread count; realign the
	// session badge with it
	sess.store.SyncNotificationCount(list.UnreadCount)
	return s.render(ctx, http.StatusOK, "notifications", echo.Map{
		"Notifications": list.Notifications,
	})
}

func (s *server) markNotificationRead(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	sess := currentSession(ctx)
	if err := sess.api.MarkNotificationRead(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	sess.store.DecrementNotificationCount()
	if target := ctx.FormValue("target"); target != "" {
		return redirectBack(ctx, target)
	}
	return redirectBack(ctx, pathNotifications)
}

func (s *server) markAllNotificationsRead(ctx echo.Context) error {
	sess := currentSession(ctx)
	if err := sess.api.MarkAllNotificationsRead(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "marking all notifications read")
	}
	sess.store.ResetNotificationCount()
	return redirectBack(ctx, pathNotifications)
}

func (s *server) deleteNotification(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := currentSession(ctx).api.DeleteNotification(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting notification")
	}
	return redirectBack(ctx, pathNotifications)
}
