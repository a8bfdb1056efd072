// Package server contains the HTTP handlers for the Even API.
package server

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"even/internal/middleware"
	"even/internal/models"
	"even/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	localsUserID = "userID"
	localsClaims = "accessClaims"
)

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "postId" -> "Invalid post ID", "commentId" -> "Invalid comment ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "postId" -> "post ID", "techHubId" -> "tech hub ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// parsePage reads the page and limit query parameters. Out-of-range values
// are normalized by the services.
func parsePage(c *fiber.Ctx) (page, limit int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 0)
}

// actorFrom builds the service actor from the auth middleware's locals.
// Anonymous requests yield the zero Actor.
func actorFrom(c *fiber.Ctx) service.Actor {
	if uid, ok := c.Locals(localsUserID).(uint); ok {
		return service.Actor{ID: uid}
	}
	return service.Actor{}
}

func accessClaimsFrom(c *fiber.Ctx) *service.AccessClaims {
	claims, _ := c.Locals(localsClaims).(*service.AccessClaims)
	return claims
}

// respondError writes the error envelope with the status the error maps to.
// Server-side failures are logged with their cause.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, err)
}

// bodyError is returned for bodies the parser rejects.
func bodyError(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}
