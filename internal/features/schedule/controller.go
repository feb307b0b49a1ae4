package schedule

import (
	"time"

	"go-busline/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct {
	ScheduleService ScheduleService
}

func NewScheduleController(scheduleService ScheduleService) *ScheduleController {
	return &ScheduleController{ScheduleService: scheduleService}
}

type CreateScheduleRequest struct {
	ScheduleID string         `json:"scheduleId"`
	RouteID    string         `json:"routeId"`
	StartPoint string         `json:"startPoint"`
	EndPoint   string         `json:"endPoint"`
	BusNumber  string         `json:"busNumber"`
	StartTime  time.Time      `json:"startTime"`
	EndTime    time.Time      `json:"endTime"`
	Stops      []ScheduleStop `json:"stops"`
	Days       []string       `json:"days"`
}

func (ctrl *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	var req CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	sched, err := ctrl.ScheduleService.CreateSchedule(c.Context(), &Schedule{
		ScheduleID: req.ScheduleID,
		RouteID:    req.RouteID,
		StartPoint: req.StartPoint,
		EndPoint:   req.EndPoint,
		BusNumber:  req.BusNumber,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Stops:      req.Stops,
		Days:       req.Days,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sched)
}

func (ctrl *ScheduleController) UpdateSchedule(c *fiber.Ctx) error {
	var upd ScheduleUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	sched, err := ctrl.ScheduleService.UpdateSchedule(c.Context(), c.Params("scheduleId"), &upd)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(sched)
}

func (ctrl *ScheduleController) GetSchedules(c *fiber.Ctx) error {
	schedules, err := ctrl.ScheduleService.GetSchedules(c.Context())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(schedules)
}
