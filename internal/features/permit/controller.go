package permit

import (
	"time"

	"go-busline/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type PermitController struct {
	PermitService PermitService
}

func NewPermitController(permitService PermitService) *PermitController {
	return &PermitController{PermitService: permitService}
}

type IssuePermitRequest struct {
	PermitNumber string    `json:"permitNumber"`
	BusNumber    string    `json:"busNumber"`
	RouteID      string    `json:"routeId"`
	ValidFrom    time.Time `json:"validFrom"`
	ValidTo      time.Time `json:"validTo"`
}

func (ctrl *PermitController) IssuePermit(c *fiber.Ctx) error {
	var req IssuePermitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	p, err := ctrl.PermitService.IssuePermit(c.Context(), &Permit{
		PermitNumber: req.PermitNumber,
		BusNumber:    req.BusNumber,
		RouteID:      req.RouteID,
		ValidFrom:    req.ValidFrom,
		ValidTo:      req.ValidTo,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (ctrl *PermitController) UpdatePermit(c *fiber.Ctx) error {
	var upd PermitUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	p, err := ctrl.PermitService.UpdatePermit(c.Context(), c.Params("permitNumber"), &upd)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

func (ctrl *PermitController) GetPermits(c *fiber.Ctx) error {
	permits, err := ctrl.PermitService.GetPermits(c.Context(),
		c.Query("routeId"), c.Query("busNumber"), c.Query("isActive"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(permits)
}

func (ctrl *PermitController) GetPermit(c *fiber.Ctx) error {
	p, err := ctrl.PermitService.GetPermit(c.Context(), c.Params("permitNumber"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

func (ctrl *PermitController) DeactivatePermit(c *fiber.Ctx) error {
	p, err := ctrl.PermitService.DeactivatePermit(c.Context(), c.Params("permitNumber"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Permit deactivated",
		"permit":  p,
	})
}
