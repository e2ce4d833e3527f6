package server

import (
	"encoding/json"
	"errors"
	"time"

	"instawinx/internal/cache"
	"instawinx/internal/config"
	"instawinx/internal/middleware"
	"instawinx/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionCookieName = "instawinx_session"
	sessionUserKey    = "user_id"
	sessionFlashKey   = "_flashes"
	defaultSessionTTL = 7 * 24 * time.Hour
)

// Flash categories.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

// Flash is a one-time message shown on the next page the user loads.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

func newSessionStore(cfg *config.Config, rdb *redis.Client) *session.Store {
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	sc := session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + sessionCookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.IsProduction(),
		KeyGenerator:   uuid.NewString,
	}
	if rdb != nil {
		sc.Storage = cache.NewStorage(rdb, "session:")
	}
	return session.New(sc)
}

// Flashes are kept as a JSON string so the session codec needs no type registration.
func readFlashes(sess *session.Session) []Flash {
	flashes := []Flash{}
	if raw, ok := sess.Get(sessionFlashKey).(string); ok && raw != "" {
		_ = json.Unmarshal([]byte(raw), &flashes)
	}
	return flashes
}

func addFlash(sess *session.Session, category, message string) {
	flashes := append(readFlashes(sess), Flash{Category: category, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	sess.Set(sessionFlashKey, string(raw))
}

// takeFlashes returns and clears the pending flashes.
func (s *Server) takeFlashes(c *fiber.Ctx) ([]Flash, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return nil, err
	}
	flashes := readFlashes(sess)
	if len(flashes) == 0 {
		return flashes, nil
	}
	sess.Delete(sessionFlashKey)
	return flashes, sess.Save()
}

// redirectWithFlash queues a flash and answers with 303 to location.
func (s *Server) redirectWithFlash(c *fiber.Ctx, location, category, message string) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return err
	}
	addFlash(sess, category, message)
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

// AuthRequired resolves the session user. Anonymous requests, and sessions
// whose user no longer exists, are sent to the login page.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := s.sessions.Get(c)
		if err != nil {
			return err
		}

		userID, ok := sess.Get(sessionUserKey).(uint)
		if !ok || userID == 0 {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}

		if _, err := s.authService.CurrentUser(c.UserContext(), userID); err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				sess.Delete(sessionUserKey)
				if err := sess.Save(); err != nil {
					return err
				}
				return c.Redirect("/login", fiber.StatusSeeOther)
			}
			return err
		}

		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		middleware.SyncUserContext(c)
		return c.Next()
	}
}

// currentUserID reads the id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
