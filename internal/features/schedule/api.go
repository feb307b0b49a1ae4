package schedule

import (
	"go-busline/internal/common/models"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ScheduleApi struct {
	controller *ScheduleController
}

func NewScheduleApi(controller *ScheduleController) *ScheduleApi {
	return &ScheduleApi{controller: controller}
}

// Setup registers schedule management routes (admin only)
func (h *ScheduleApi) Setup(app *fiber.App) {
	grp := app.Group("/api/schedules",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	grp.Post("/add", h.controller.CreateSchedule)
	grp.Put("/update/:scheduleId", h.controller.UpdateSchedule)
	grp.Get("/", h.controller.GetSchedules)
}
