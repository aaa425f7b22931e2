package server

import "github.com/gofiber/fiber/v2"

// ListNotifications handles GET /api/notifications. Anonymous callers get
// an empty list.
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	user, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	list, err := s.notificationService.List(c.UserContext(), user)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(list)
}

// MarkNotificationsRead handles POST /api/notifications/read
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	n, err := s.notificationService.MarkAllRead(c.UserContext(), user)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// ClearNotifications handles DELETE /api/notifications
func (s *Server) ClearNotifications(c *fiber.Ctx) error {
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	n, err := s.notificationService.ClearAll(c.UserContext(), user)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}
