package server

import (
	"auroric/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/pins/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	pinID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	page, err := s.commentService.ByPin(c.UserContext(), pinID, s.viewerID(c), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// CreateComment handles POST /api/pins/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	pinID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Add(c.UserContext(), pinID, userID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.commentService.ToggleLike(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}
