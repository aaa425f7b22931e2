package server

import (
	"inkspace/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	Slug      string `json:"slug"`
	Published *bool  `json:"published"`
}

type updatePostRequest struct {
	Content string `json:"content"`
}

type batchDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	var req createPostRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), user, service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Slug:      req.Slug,
		Published: req.Published,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	var req updatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), user, id, req.Content)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	if err := s.postService.DeletePost(c.UserContext(), user, id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BatchDeletePosts handles POST /api/posts/batch-delete
func (s *Server) BatchDeletePosts(c *fiber.Ctx) error {
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	var req batchDeleteRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	deleted, err := s.postService.BatchDeletePosts(c.UserContext(), user, req.IDs)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// ListPublishedPosts handles GET /api/blog
func (s *Server) ListPublishedPosts(c *fiber.Ctx) error {
	viewer, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	page := parsePagination(c, 20)
	items, err := s.postService.ListPublished(c.UserContext(), viewer, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(items)
}

// GetPostBySlug handles GET /api/blog/:slug
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	viewer, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	item, err := s.postService.GetBySlug(c.UserContext(), viewer, c.Params("slug"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(item)
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	res, err := s.engagementService.ToggleLike(c.UserContext(), user, id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}
