package bus

import (
	"go-busline/internal/common/models"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BusApi struct {
	controller *BusController
}

func NewBusApi(controller *BusController) *BusApi {
	return &BusApi{controller: controller}
}

// Setup registers bus management routes (admin only)
func (h *BusApi) Setup(app *fiber.App) {
	grp := app.Group("/api/admin/buses",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	grp.Post("/", h.controller.AddBus)
	grp.Get("/", h.controller.GetBuses)
	grp.Get("/:busNumber", h.controller.GetBus)
	grp.Put("/:busNumber", h.controller.UpdateBus)
	grp.Delete("/:busNumber", h.controller.DeactivateBus)
}
