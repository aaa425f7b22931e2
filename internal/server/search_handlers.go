package server

import (
	"inkspace/internal/models"

	"github.com/gofiber/fiber/v2"
)

type recordSearchRequest struct {
	Query string `json:"query"`
}

// RecordSearch handles POST /api/search/history. Anonymous searches are
// accepted and not stored.
func (s *Server) RecordSearch(c *fiber.Ctx) error {
	user, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	var req recordSearchRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	if err := s.searchService.Record(c.UserContext(), user, req.Query); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListRecentSearches handles GET /api/search/history
func (s *Server) ListRecentSearches(c *fiber.Ctx) error {
	user, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	items, err := s.searchService.ListRecent(c.UserContext(), user)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(items)
}

// DeleteSearchEntry handles DELETE /api/search/history/:id
func (s *Server) DeleteSearchEntry(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	if err := s.searchService.Delete(c.UserContext(), user, id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SearchUsers handles GET /api/search/users?q=
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return respond(c, models.NewValidationError("Query parameter q is required"))
	}
	user, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	res, err := s.searchService.SearchUsers(c.UserContext(), user, q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}
