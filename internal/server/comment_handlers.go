package server

import (
	"inkspace/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
	Source   string `json:"source"`
}

// CreateComment handles POST /api/posts/:id/comments. Anonymous callers
// comment as guests.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	var req createCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), user, service.CreateCommentInput{
		PostID:   postID,
		Content:  req.Content,
		Nickname: req.Nickname,
		Source:   service.CommentSource(req.Source),
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments?approved=true. Pending
// comments are listed for the post author only.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.caller(c)
	if err != nil {
		return respond(c, err)
	}
	comments, err := s.commentService.ListComments(c.UserContext(), user, postID, c.QueryBool("approved", false))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	if err := s.commentService.DeleteComment(c.UserContext(), user, id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApproveComment handles POST /api/comments/:id/approve
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.requireCaller(c)
	if err != nil {
		return respond(c, err)
	}
	comment, err := s.commentService.ApproveComment(c.UserContext(), user, id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comment)
}
