package controller

import (
	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/serverutils"
	"clinical-eval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChecklistController interface {
	RegisterRoutes(r fiber.Router)
	Assess(ctx *fiber.Ctx) error
	Catalog(ctx *fiber.Ctx) error
}

type checklistController struct {
	checklistService service.IChecklistService
}

func NewChecklistController(checklistService service.IChecklistService) IChecklistController {
	return &checklistController{
		checklistService: checklistService,
	}
}

func (c *checklistController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/checklist/v1")
	h.Post("assess", c.Assess)
	h.Get("catalog", c.Catalog)
}

func (c *checklistController) Assess(ctx *fiber.Ctx) error {
	var req dto.AssessChecklistRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.checklistService.Assess(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success assess checklist", res))
}

func (c *checklistController) Catalog(ctx *fiber.Ctx) error {
	res, err := c.checklistService.Catalog(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show catalog", res))
}
