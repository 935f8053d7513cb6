package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/aichat-service/internal/domain"
	"github.com/fathima-sithara/aichat-service/internal/service"
)

type Handlers struct {
	svc *service.ChatService
}

func NewHandlers(svc *service.ChatService) *Handlers {
	return &Handlers{svc: svc}
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTitle),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrEmptyMessage):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func parseRole(s string) domain.Role {
	if s == "" {
		return domain.RoleUser
	}
	return domain.Role(s)
}

func (h *Handlers) createChat(c *fiber.Ctx) error {
	var req struct {
		Text  string `json:"text"`
		Role  string `json:"role"`
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	user := c.Locals("user_id").(string)
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()
	chat, err := h.svc.CreateAndAppend(ctx, user, req.Text, parseRole(req.Role), req.Title)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"status": "ok", "data": chat})
}

func (h *Handlers) appendMessage(c *fiber.Ctx) error {
	chatID := c.Params("chat_id")
	var req struct {
		Text string `json:"text"`
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	user := c.Locals("user_id").(string)
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()
	chat, err := h.svc.AppendToExisting(ctx, chatID, user, req.Text, parseRole(req.Role))
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"status": "ok", "data": chat})
}

func (h *Handlers) historyPage(c *fiber.Ctx) error {
	chatID := c.Params("chat_id")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 50)
	user := c.Locals("user_id").(string)

	msgs, pg, err := h.svc.GetHistoryPage(c.Context(), chatID, user, page, pageSize)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "history": msgs, "pagination": pg})
}

func (h *Handlers) renameChat(c *fiber.Ctx) error {
	chatID := c.Params("chat_id")
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	user := c.Locals("user_id").(string)
	title, err := h.svc.Rename(c.Context(), user, chatID, req.Title)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "chat": fiber.Map{"id": chatID, "title": title}})
}

func (h *Handlers) deleteChat(c *fiber.Ctx) error {
	chatID := c.Params("chat_id")
	user := c.Locals("user_id").(string)
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()
	if err := h.svc.Delete(ctx, user, chatID); err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handlers) userChats(c *fiber.Ctx) error {
	user := c.Locals("user_id").(string)
	uc, err := h.svc.GetUserChats(c.Context(), user)
	if err != nil {
		return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok", "chats": uc.Chats})
}

func (h *Handlers) mediaUploadURL(c *fiber.Ctx) error {
	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.Filename == "" {
		return c.Status(400).JSON(fiber.Map{"error": "filename required"})
	}
	uploadURL := "https://fake-s3.local/upload/" + req.Filename + "?signature=stub"
	fileURL := "https://cdn.local/" + req.Filename
	return c.JSON(fiber.Map{"upload_url": uploadURL, "file_url": fileURL})
}
