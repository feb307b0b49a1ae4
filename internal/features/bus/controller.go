package bus

import (
	"go-busline/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type BusController struct {
	BusService BusService
}

func NewBusController(busService BusService) *BusController {
	return &BusController{BusService: busService}
}

type AddBusRequest struct {
	BusNumber  string  `json:"busNumber"`
	Type       BusType `json:"type"`
	Capacity   int     `json:"capacity"`
	OperatorID string  `json:"operatorId"`
}

func (ctrl *BusController) AddBus(c *fiber.Ctx) error {
	var req AddBusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	b, err := ctrl.BusService.AddBus(c.Context(), &Bus{
		BusNumber:  req.BusNumber,
		Type:       req.Type,
		Capacity:   req.Capacity,
		OperatorID: req.OperatorID,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

func (ctrl *BusController) UpdateBus(c *fiber.Ctx) error {
	busNumber := c.Params("busNumber")

	var upd BusUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	b, err := ctrl.BusService.UpdateBus(c.Context(), busNumber, &upd)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(b)
}

func (ctrl *BusController) GetBuses(c *fiber.Ctx) error {
	buses, err := ctrl.BusService.GetBuses(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(buses)
}

func (ctrl *BusController) GetBus(c *fiber.Ctx) error {
	b, err := ctrl.BusService.GetBus(c.Context(), c.Params("busNumber"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(b)
}

func (ctrl *BusController) DeactivateBus(c *fiber.Ctx) error {
	b, err := ctrl.BusService.DeactivateBus(c.Context(), c.Params("busNumber"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Bus deactivated",
		"bus":     b,
	})
}
