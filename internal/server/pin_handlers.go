package server

import (
	"auroric/internal/models"
	"auroric/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPins handles GET /api/pins
func (s *Server) GetPins(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.pinService.List(c.UserContext(), s.viewerID(c), c.Query("category"), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetPin handles GET /api/pins/:id
func (s *Server) GetPin(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	pin, err := s.pinService.Get(c.UserContext(), id, s.viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pin)
}

// CreatePin handles POST /api/pins
func (s *Server) CreatePin(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req service.CreatePinRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pin, err := s.pinService.Create(c.UserContext(), userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pin)
}

// UpdatePin handles PUT /api/pins/:id
func (s *Server) UpdatePin(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePinRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pin, err := s.pinService.Update(c.UserContext(), id, userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pin)
}

// DeletePin handles DELETE /api/pins/:id
func (s *Server) DeletePin(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.pinService.Delete(c.UserContext(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pin deleted"})
}

// TogglePinLike handles POST /api/pins/:id/like
func (s *Server) TogglePinLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.pinService.ToggleLike(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// TogglePinSave handles POST /api/pins/:id/save
func (s *Server) TogglePinSave(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	saved, err := s.pinService.ToggleSave(c.UserContext(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"saved": saved})
}

// SearchPins handles GET /api/pins/search
func (s *Server) SearchPins(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.pinService.Search(c.UserContext(), c.Query("q"), s.viewerID(c), p.Page, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetTrendingPins handles GET /api/pins/trending
func (s *Server) GetTrendingPins(c *fiber.Ctx) error {
	p := parsePagination(c)
	pins, err := s.pinService.Trending(c.UserContext(), s.viewerID(c), p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"pins": pins})
}
