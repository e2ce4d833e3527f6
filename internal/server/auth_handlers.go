package server

import (
	"errors"

	"instawinx/internal/models"
	"instawinx/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginPage handles GET /login
func (s *Server) LoginPage(c *fiber.Ctx) error {
	flashes, err := s.takeFlashes(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"flashes": flashes})
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	user, err := s.authService.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return s.redirectWithFlash(c, "/login", flashDanger, models.UserMessage(err))
		}
		return err
	}

	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	// New id on privilege change.
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, user.ID)
	addFlash(sess, flashSuccess, "Login realizado com sucesso!")
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// RegisterPage handles GET /register
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	flashes, err := s.takeFlashes(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"fairy_types": models.FairyTypes,
		"flashes":     flashes,
	})
}

// Register handles POST /register
func (s *Server) Register(c *fiber.Ctx) error {
	_, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username:  c.FormValue("username"),
		Password:  c.FormValue("password"),
		FairyType: c.FormValue("fairy_type"),
	})
	if err != nil {
		if models.StatusFor(err) < fiber.StatusInternalServerError {
			return s.redirectWithFlash(c, "/register", flashDanger, models.UserMessage(err))
		}
		return err
	}
	return s.redirectWithFlash(c, "/login", flashSuccess, "Conta criada com sucesso! Faça login.")
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Delete(sessionUserKey)
	addFlash(sess, flashInfo, "Você saiu da sua conta")
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}
