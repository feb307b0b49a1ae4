package permit

import (
	"go-busline/internal/common/models"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermitApi struct {
	controller *PermitController
}

func NewPermitApi(controller *PermitController) *PermitApi {
	return &PermitApi{controller: controller}
}

// Setup registers permit management routes (admin only)
func (h *PermitApi) Setup(app *fiber.App) {
	grp := app.Group("/api/admin/permits",
		middleware.AuthMiddleware(),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	grp.Post("/", h.controller.IssuePermit)
	grp.Get("/", h.controller.GetPermits)
	grp.Get("/:permitNumber", h.controller.GetPermit)
	grp.Put("/:permitNumber", h.controller.UpdatePermit)
	grp.Delete("/:permitNumber", h.controller.DeactivatePermit)
}
