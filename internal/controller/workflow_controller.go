package controller

import (
	"errors"

	"vc-intel-be/internal/dto"
	"vc-intel-be/internal/pkg/serverutils"
	"vc-intel-be/internal/service"
	"vc-intel-be/pkg/auth"
	"vc-intel-be/pkg/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkflowController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Trigger(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type workflowController struct {
	workflowService service.IWorkflowService
}

func NewWorkflowController(workflowService service.IWorkflowService) IWorkflowController {
	return &workflowController{
		workflowService: workflowService,
	}
}

func (c *workflowController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflows")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("trigger", c.Trigger)
	h.Get("sessions/:id", c.Status)
	h.Delete("sessions/:id", c.Cancel)
}

func (c *workflowController) List(ctx *fiber.Ctx) error {
	role := roleFromLocals(ctx)

	res, err := c.workflowService.ListWorkflows(role)
	if err != nil {
		return mapWorkflowError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list workflows", res))
}

func (c *workflowController) Trigger(ctx *fiber.Ctx) error {
	subscriberID, err := subscriberFromLocals(ctx)
	if err != nil {
		return err
	}
	role := roleFromLocals(ctx)

	var req dto.TriggerWorkflowRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.workflowService.Trigger(ctx.UserContext(), subscriberID, role, &req)
	if err != nil {
		return mapWorkflowError(err)
	}

	// 202: the session exists but the external engine call happens
	// asynchronously after this response.
	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse("Workflow trigger accepted", res))
}

func (c *workflowController) Status(ctx *fiber.Ctx) error {
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.workflowService.GetStatus(ctx.UserContext(), sessionID)
	if err != nil {
		return mapWorkflowError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session status", res))
}

func (c *workflowController) Cancel(ctx *fiber.Ctx) error {
	sessionID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	role := roleFromLocals(ctx)

	if err := c.workflowService.Cancel(ctx.UserContext(), sessionID, role); err != nil {
		return mapWorkflowError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Workflow cancelled", fiber.Map{
		"session_id": sessionID,
	}))
}

func roleFromLocals(ctx *fiber.Ctx) auth.Role {
	roleStr, _ := ctx.Locals("role").(string)
	return auth.ParseRole(roleStr)
}

func subscriberFromLocals(ctx *fiber.Ctx) (uuid.UUID, error) {
	idStr, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid subscriber id in token")
	}
	return id, nil
}

func mapWorkflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrPermissionDenied):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, workflow.ErrUnknownWorkflow),
		errors.Is(err, workflow.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
