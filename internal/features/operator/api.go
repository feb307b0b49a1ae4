package operator

import (
	"go-busline/internal/common/models"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OperatorApi struct {
	controller *OperatorController
}

func NewOperatorApi(controller *OperatorController) *OperatorApi {
	return &OperatorApi{controller: controller}
}

func (h *OperatorApi) Setup(app *fiber.App) {
	// Operator self-service. Registered before the admin group so the
	// :operatorId parameter never swallows /auth or /actions paths.
	auth := app.Group("/api/bus-operators/auth")
	auth.Post("/login", h.controller.Login)
	auth.Get("/profile",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleOperator),
		h.controller.Profile)

	actions := app.Group("/api/bus-operators/actions",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleOperator))
	actions.Get("/schedules", h.controller.MySchedules)
	actions.Get("/bookings", h.controller.MyBookings)
	actions.Get("/bookings/export", h.controller.ExportBookings)
	actions.Post("/reassign-bus", h.controller.ReassignBus)

	// Admin-side management of operator accounts.
	admin := app.Group("/api/bus-operators",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	admin.Post("/add", h.controller.CreateOperator)
	admin.Get("/", h.controller.GetOperators)
	admin.Get("/:operatorId", h.controller.GetOperator)
	admin.Put("/update/:operatorId", h.controller.UpdateOperator)
	admin.Put("/deactivate/:operatorId", h.controller.DeactivateOperator)
}
