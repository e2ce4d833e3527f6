package server

import (
	"instawinx/internal/service"

	"github.com/gofiber/fiber/v2"
)

type feedResponse struct {
	*service.FeedView
	Flashes []Flash `json:"flashes"`
}

// Feed handles GET /
func (s *Server) Feed(c *fiber.Ctx) error {
	view, err := s.feedService.Feed(c.UserContext(), currentUserID(c))
	if err != nil {
		return err
	}
	flashes, err := s.takeFlashes(c)
	if err != nil {
		return err
	}
	return c.JSON(feedResponse{FeedView: view, Flashes: flashes})
}
