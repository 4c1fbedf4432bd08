package controller

import (
	"github.com/gofiber/fiber/v2"

	"mortgage-rag-be/internal/dto"
	"mortgage-rag-be/internal/pkg/serverutils"
	"mortgage-rag-be/internal/service"
)

type IWebSearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type webSearchController struct {
	service service.IWebSearchService
}

func NewWebSearchController(service service.IWebSearchService) IWebSearchController {
	return &webSearchController{service: service}
}

func (c *webSearchController) RegisterRoutes(r fiber.Router) {
	r.Post("/websearch", serverutils.JwtMiddleware, c.Search)
}

func (c *webSearchController) Search(ctx *fiber.Ctx) error {
	var req dto.WebSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.InvalidInputf("malformed request body")
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return serverutils.SuccessResponse(ctx, "OK", res)
}
