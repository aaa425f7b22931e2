package server

import (
	"inkspace/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	res, err := s.engagementService.ToggleFollow(c.UserContext(), user, targetID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.engagementService.ListFollowing(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	users, err := s.engagementService.ListFollowers(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}

// GetProfile handles GET /api/profiles/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	viewer, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	profile, err := s.feedService.GetProfile(c.UserContext(), viewer, c.Params("username"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(profile)
}

// GetFeed handles GET /api/feed?username=&limit=&offset=
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewer, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	page := parsePagination(c, 20)
	items, err := s.feedService.GetFeed(c.UserContext(), viewer, service.FeedQuery{
		Username: c.Query("username"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(items)
}
