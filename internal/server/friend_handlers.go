package server

import (
	"github.com/gofiber/fiber/v2"
)

// AddFriend handles POST /add_friend/:friend_id
func (s *Server) AddFriend(c *fiber.Ctx) error {
	friendID, err := parseID(c, "friend_id")
	if err != nil {
		return nil
	}

	action, err := s.friendService.AddFriend(c.UserContext(), currentUserID(c), friendID)
	if err != nil {
		return respondFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"action":  action,
	})
}
