package server

import (
	"auroric/internal/models"
	"auroric/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBoards handles GET /api/boards
func (s *Server) GetBoards(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.boardService.List(c.UserContext(), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// SearchBoards handles GET /api/boards/search
func (s *Server) SearchBoards(c *fiber.Ctx) error {
	p := parsePagination(c)
	boards, err := s.boardService.Search(c.UserContext(), c.Query("q"), p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"boards": boards})
}

// GetBoard handles GET /api/boards/:id
func (s *Server) GetBoard(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	board, err := s.boardService.Get(c.UserContext(), id, s.viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}

// GetBoardPins handles GET /api/boards/:id/pins
func (s *Server) GetBoardPins(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c)
	page, err := s.boardService.Pins(c.UserContext(), id, s.viewerID(c), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// CreateBoard handles POST /api/boards
func (s *Server) CreateBoard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req service.CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	board, err := s.boardService.Create(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// UpdateBoard handles PUT /api/boards/:id
func (s *Server) UpdateBoard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	board, err := s.boardService.Update(c.UserContext(), id, userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}

// DeleteBoard handles DELETE /api/boards/:id
func (s *Server) DeleteBoard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.boardService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Board deleted"})
}

// ToggleBoardFollow handles POST /api/boards/:id/follow
func (s *Server) ToggleBoardFollow(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.boardService.ToggleFollow(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// InviteCollaborator handles POST /api/boards/:id/collaborators
func (s *Server) InviteCollaborator(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	boardID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	if err := s.boardService.InviteCollaborator(c.UserContext(), boardID, userID, req.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collaborator invited"})
}

// RemoveCollaborator handles DELETE /api/boards/:id/collaborators/:userId
func (s *Server) RemoveCollaborator(c *fiber.Ctx) error {
	callerID := c.Locals("userID").(uint)
	boardID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.boardService.RemoveCollaborator(c.UserContext(), boardID, callerID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collaborator removed"})
}

// SavePinToBoard handles POST /api/boards/:id/pins/:pinId
func (s *Server) SavePinToBoard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	boardID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pinID, err := s.parseID(c, "pinId")
	if err != nil {
		return nil
	}

	if err := s.boardService.SavePinToBoard(c.UserContext(), boardID, pinID, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pin saved to board"})
}
