package controller

import (
	"github.com/gofiber/fiber/v2"

	"ideabot-be/internal/pkg/serverutils"
	"ideabot-be/internal/service"
)

type IIdeaController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type ideaController struct {
	ideaService service.IIdeaService
}

func NewIdeaController(ideaService service.IIdeaService) IIdeaController {
	return &ideaController{
		ideaService: ideaService,
	}
}

func (c *ideaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/idea/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Get(":ideaId", c.Show)
}

func (c *ideaController) List(ctx *fiber.Ctx) error {
	connectionID := ctx.Query("connection_id")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.ideaService.List(ctx.Context(), connectionID, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list ideas", res))
}

func (c *ideaController) Show(ctx *fiber.Ctx) error {
	ideaID := ctx.Params("ideaId")

	res, err := c.ideaService.Get(ctx.Context(), ideaID)
	if err != nil {
		return err
	}
	if res == nil {
		return serverutils.NotFound("idea not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show idea", res))
}
