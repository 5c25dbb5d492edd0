package controller

import (
	"vc-intel-be/internal/dto"
	"vc-intel-be/internal/pkg/serverutils"
	"vc-intel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	ListLayers(ctx *fiber.Ctx) error
}

type queryController struct {
	queryService service.IQueryService
}

func NewQueryController(queryService service.IQueryService) IQueryController {
	return &queryController{
		queryService: queryService,
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/query")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Query)

	l := r.Group("/layers")
	l.Use(serverutils.JwtMiddleware)
	l.Get("", c.ListLayers)
}

func (c *queryController) ListLayers(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success list layers", c.queryService.ListLayers()))
}

func (c *queryController) Query(ctx *fiber.Ctx) error {
	var req dto.MultiLayerQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.Query(ctx.UserContext(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success query layers", res))
}
