package controller

import (
	"github.com/gofiber/fiber/v2"

	"mortgage-rag-be/internal/dto"
	"mortgage-rag-be/internal/pkg/serverutils"
	"mortgage-rag-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", serverutils.JwtMiddleware)
	h.Post("/", c.Ask)
	h.Get("/sessions", c.Sessions)
	h.Get("/sessions/:id/messages", c.Messages)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.InvalidInputf("malformed request body")
	}

	res, err := c.service.Ask(ctx.Context(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, "OK", res)
}

func (c *chatController) Sessions(ctx *fiber.Ctx) error {
	res, err := c.service.Sessions(ctx.Context(), serverutils.UserID(ctx))
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, "OK", res)
}

func (c *chatController) Messages(ctx *fiber.Ctx) error {
	res, err := c.service.Messages(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, "OK", res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.service.DeleteSession(ctx.Context(), serverutils.UserID(ctx), ctx.Params("id")); err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, "Session deleted", nil)
}
