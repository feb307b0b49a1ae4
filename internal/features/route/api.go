package route

import (
	"go-busline/internal/common/models"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteApi struct {
	controller *RouteController
}

func NewRouteApi(controller *RouteController) *RouteApi {
	return &RouteApi{controller: controller}
}

// Setup registers route management routes (admin only)
func (h *RouteApi) Setup(app *fiber.App) {
	grp := app.Group("/api/routes",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	grp.Post("/", h.controller.CreateRoute)
	grp.Get("/", h.controller.GetRoutes)
	grp.Get("/:routeId", h.controller.GetRoute)
	grp.Put("/:routeId", h.controller.UpdateRoute)
	grp.Delete("/:routeId", h.controller.DeleteRoute)
}
