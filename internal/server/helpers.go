package server

import (
	"errors"
	"strings"

	"instawinx/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "post_id" -> "Invalid post ID").
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "post_id" -> "post ID", "friend_id" -> "friend ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if prefix, ok := strings.CutSuffix(param, "_id"); ok {
		return strings.ReplaceAll(prefix, "_", " ") + " ID"
	}
	return param
}

// respondFailure answers an AJAX endpoint with {success:false, error}.
// Refused actions (validation, conflict) keep 200 so clients branch on the
// success flag; missing resources and internal errors keep their status.
func respondFailure(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	switch status {
	case fiber.StatusBadRequest, fiber.StatusConflict:
		status = fiber.StatusOK
	case fiber.StatusInternalServerError:
		return err
	}
	return models.RespondWithError(c, status, err)
}
