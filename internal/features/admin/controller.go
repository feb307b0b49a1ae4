package admin

import (
	"go-busline/internal/common/apperr"
	"go-busline/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdminController struct {
	AdminService AdminService
}

func NewAdminController(adminService AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (ctrl *AdminController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}
	if req.Username == "" || req.Password == "" {
		return apperr.Respond(c, apperr.Validation("Username and password are required"))
	}

	token, err := ctrl.AdminService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(LoginResponse{Token: token})
}

func (ctrl *AdminController) Profile(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return apperr.Respond(c, apperr.Unauthorized("Unauthorized"))
	}

	adm, err := ctrl.AdminService.Profile(c.Context(), claims.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(adm)
}
