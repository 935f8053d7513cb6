package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/fathima-sithara/aichat-service/internal/middleware"
	"github.com/fathima-sithara/aichat-service/internal/service"
)

// TokenValidator resolves a bearer token to a user id. Production wires
// the RS256 validator from internal/auth; tests substitute a stub.
type TokenValidator interface {
	Validate(token string) (string, error)
}

func NewServer(svc *service.ChatService, tv TokenValidator, rl *middleware.RateLimiter) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())
	h := NewHandlers(svc)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/v1")

	api.Use(func(c *fiber.Ctx) error {
		hdr := c.Get("Authorization")
		if hdr == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing auth"})
		}
		const pref = "Bearer "
		if len(hdr) <= len(pref) || hdr[:len(pref)] != pref {
			return c.Status(401).JSON(fiber.Map{"error": "invalid auth"})
		}
		sub, err := tv.Validate(hdr[len(pref):])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}
		c.Locals("user_id", sub)
		return c.Next()
	})

	if rl != nil {
		api.Use(rl.MiddlewareByKey(func(c *fiber.Ctx) string {
			return c.Locals("user_id").(string)
		}))
	}

	api.Post("/chats", h.createChat)
	api.Post("/chats/:chat_id/messages", h.appendMessage)
	api.Get("/chats/:chat_id/messages", h.historyPage)
	api.Patch("/chats/:chat_id", h.renameChat)
	api.Delete("/chats/:chat_id", h.deleteChat)
	api.Get("/userchats", h.userChats)
	api.Post("/media/upload-url", h.mediaUploadURL)

	return app
}
