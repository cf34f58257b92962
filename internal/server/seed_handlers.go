package server

import (
	"auroric/internal/models"
	"auroric/internal/seed"

	"github.com/gofiber/fiber/v2"
)

// SeedDatabase handles POST /api/seed. It is a development convenience:
// refused outright in production, and a no-op when data already exists.
func (s *Server) SeedDatabase(c *fiber.Ctx) error {
	if s.config.IsProduction() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Seeding is disabled in production"))
	}

	seeded, err := seed.SeedIfEmpty(s.db, seed.DefaultOptions())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if !seeded {
		return c.JSON(fiber.Map{"seeded": false, "message": "Database already has data"})
	}
	return c.JSON(fiber.Map{"seeded": true})
}
