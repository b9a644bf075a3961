package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrahimmurtaza/neurolearn-scheduler/internal/core/domain"
)

type notificationListResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	Count         int                    `json:"count"`
}

func (s *Server) listNotifications(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user_id query parameter is required")
	}

	notifications, err := s.opts.Notifications.ListByUser(c.Context(), userID, c.QueryBool("unread", false))
	if err != nil {
		return err
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return c.JSON(notificationListResponse{Notifications: notifications, Count: len(notifications)})
}

func (s *Server) markNotificationRead(c *fiber.Ctx) error {
	if err := s.opts.Notifications.MarkRead(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "read"})
}
