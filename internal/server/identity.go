package server

import (
	"marketplace/internal/middleware"
	"marketplace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UserIDHeader carries the caller's id when header identity is enabled.
const UserIDHeader = "user-id"

// UserRequired resolves the caller from a Bearer token or, when
// AUTH_ALLOW_USER_ID_HEADER is set, the user-id header. The user must exist.
func (s *Server) UserRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID uint

		if token := bearerToken(c); token != "" {
			id, err := s.authService.ParseToken(token)
			if err != nil {
				return respondError(c, err)
			}
			userID = id
		} else if s.config.AllowUserIDHeader {
			raw := c.Get(UserIDHeader)
			if raw == "" {
				return respondError(c, models.NewUnauthorizedError("User not authenticated"))
			}
			id, ok := parseUserIDHeader(raw)
			if !ok {
				return respondError(c, models.NewUnauthorizedError("Invalid user ID"))
			}
			userID = id
		} else {
			return respondError(c, models.NewUnauthorizedError("User not authenticated"))
		}

		if _, err := s.userRepo.GetByID(c.UserContext(), userID); err != nil {
			return respondError(c, err)
		}

		c.Locals("userID", userID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// optionalUserID identifies the caller on public routes without enforcing it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	if token := bearerToken(c); token != "" {
		id, err := s.authService.ParseToken(token)
		return id, err == nil
	}
	if s.config.AllowUserIDHeader {
		return parseUserIDHeader(c.Get(UserIDHeader))
	}
	return 0, false
}
