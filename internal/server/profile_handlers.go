package server

import (
	"errors"

	"instawinx/internal/models"
	"instawinx/internal/service"

	"github.com/gofiber/fiber/v2"
)

type profileResponse struct {
	*service.ProfileView
	Flashes []Flash `json:"flashes"`
}

// Profile handles GET /profile/:username
func (s *Server) Profile(c *fiber.Ctx) error {
	view, err := s.profileService.Profile(c.UserContext(), currentUserID(c), c.Params("username"))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return s.redirectWithFlash(c, "/", flashDanger, models.UserMessage(err))
		}
		return err
	}

	flashes, err := s.takeFlashes(c)
	if err != nil {
		return err
	}
	return c.JSON(profileResponse{ProfileView: view, Flashes: flashes})
}
