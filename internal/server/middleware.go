package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"forcealign/internal/logging"
	"forcealign/internal/services"
)

// requestContext assigns a request id, attaches it to the request context,
// and logs the request once it completes.
func (s *Server) requestContext(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.SetUserContext(services.WithRequestID(c.UserContext(), id))

	started := time.Now()
	err := c.Next()
	if err != nil {
		if handlerErr := s.handleError(c, err); handlerErr != nil {
			return handlerErr
		}
	}
	logging.WithContext(c.UserContext(), s.logger).Debug("request served",
		logging.String("method", c.Method()),
		logging.String("path", c.Path()),
		logging.Int("status", c.Response().StatusCode()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// bearerAuth requires "Authorization: Bearer <token>" when token is set.
func bearerAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}
		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}
