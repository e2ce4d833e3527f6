package server

import (
	"errors"

	"instawinx/internal/models"
	"instawinx/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /add_comment/:post_id
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "post_id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   c.FormValue("comment"),
	})
	if err != nil {
		if errors.Is(err, models.ErrEmptyComment) {
			return c.JSON(fiber.Map{"success": false})
		}
		return respondFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"comment": comment,
	})
}
