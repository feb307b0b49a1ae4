package operator

import (
	"time"

	"go-busline/internal/common/apperr"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OperatorController struct {
	OperatorService OperatorService
}

func NewOperatorController(operatorService OperatorService) *OperatorController {
	return &OperatorController{OperatorService: operatorService}
}

func (ctrl *OperatorController) CreateOperator(c *fiber.Ctx) error {
	var req CreateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	o, err := ctrl.OperatorService.CreateOperator(c.Context(), &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (ctrl *OperatorController) UpdateOperator(c *fiber.Ctx) error {
	var upd OperatorUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	o, err := ctrl.OperatorService.UpdateOperator(c.Context(), c.Params("operatorId"), &upd)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(o)
}

func (ctrl *OperatorController) GetOperators(c *fiber.Ctx) error {
	operators, err := ctrl.OperatorService.GetOperators(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(operators)
}

func (ctrl *OperatorController) GetOperator(c *fiber.Ctx) error {
	o, err := ctrl.OperatorService.GetOperator(c.Context(), c.Params("operatorId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(o)
}

func (ctrl *OperatorController) DeactivateOperator(c *fiber.Ctx) error {
	if err := ctrl.OperatorService.DeactivateOperator(c.Context(), c.Params("operatorId")); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Operator deactivated"})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	Operator *BusOperator `json:"operator"`
}

func (ctrl *OperatorController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	token, o, err := ctrl.OperatorService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(LoginResponse{Token: token, Operator: o})
}

func (ctrl *OperatorController) Profile(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("Missing credentials"))
	}

	o, err := ctrl.OperatorService.Profile(c.Context(), claims.OperatorID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(o)
}

func (ctrl *OperatorController) MySchedules(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("Missing credentials"))
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return apperr.Respond(c, apperr.Validation("Invalid date, expected YYYY-MM-DD"))
		}
		date = &t
	}

	schedules, err := ctrl.OperatorService.SchedulesForOperator(c.Context(), claims.OperatorID, date)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(schedules)
}

func (ctrl *OperatorController) MyBookings(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("Missing credentials"))
	}

	bookings, err := ctrl.OperatorService.BookingsForOperator(c.Context(), claims.OperatorID, c.Query("busNumber"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(bookings)
}

type ReassignBusRequest struct {
	ScheduleID   string `json:"scheduleId"`
	NewBusNumber string `json:"newBusNumber"`
}

func (ctrl *OperatorController) ReassignBus(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("Missing credentials"))
	}

	var req ReassignBusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	sched, err := ctrl.OperatorService.ReassignBus(c.Context(), claims.OperatorID, req.ScheduleID, req.NewBusNumber)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(sched)
}

func (ctrl *OperatorController) ExportBookings(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("Missing credentials"))
	}

	data, err := ctrl.OperatorService.ExportBookings(c.Context(), claims.OperatorID, c.Query("busNumber"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bookings.xlsx"`)
	return c.Send(data)
}
