package admin

import (
	"go-busline/internal/common/models"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdminApi struct {
	controller *AdminController
}

func NewAdminApi(controller *AdminController) *AdminApi {
	return &AdminApi{controller: controller}
}

// Setup registers admin authentication routes
func (h *AdminApi) Setup(app *fiber.App) {
	app.Post("/api/admin/login", h.controller.Login)
	app.Get("/api/admin/profile",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		h.controller.Profile)
}
