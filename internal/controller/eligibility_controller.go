package controller

import (
	"clinical-eval-be/internal/dto"
	"clinical-eval-be/internal/pkg/serverutils"
	"clinical-eval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEligibilityController interface {
	RegisterRoutes(r fiber.Router)
	Evaluate(ctx *fiber.Ctx) error
}

type eligibilityController struct {
	eligibilityService service.IEligibilityService
}

func NewEligibilityController(eligibilityService service.IEligibilityService) IEligibilityController {
	return &eligibilityController{
		eligibilityService: eligibilityService,
	}
}

func (c *eligibilityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/eligibility/v1")
	h.Post("evaluate", c.Evaluate)
}

func (c *eligibilityController) Evaluate(ctx *fiber.Ctx) error {
	var req dto.EvaluateEligibilityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.eligibilityService.Evaluate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success evaluate eligibility", res))
}
