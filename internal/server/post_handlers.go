package server

import (
	"errors"
	"mime/multipart"

	"instawinx/internal/models"
	"instawinx/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /create_post
func (s *Server) CreatePost(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" {
		return s.redirectWithFlash(c, "/", flashDanger, models.UserMessage(models.ErrNoImage))
	}

	file, err := fh.Open()
	if err != nil {
		return models.NewInternalError(err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	_, err = s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      currentUserID(c),
		Filename:    fh.Filename,
		File:        file,
		Size:        fh.Size,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Caption:     c.FormValue("caption"),
	})
	if err != nil {
		if errors.Is(err, models.ErrNoImage) {
			return s.redirectWithFlash(c, "/", flashDanger, models.UserMessage(err))
		}
		return err
	}
	return s.redirectWithFlash(c, "/", flashSuccess, "Post criado com sucesso!")
}

// LikePost handles POST /like_post/:post_id
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "post_id")
	if err != nil {
		return nil
	}

	res, err := s.postService.ToggleLike(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return respondFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"likes_count": res.LikesCount,
		"liked":       res.Liked,
	})
}
