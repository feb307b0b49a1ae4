package route

import (
	"go-busline/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type RouteController struct {
	RouteService RouteService
}

func NewRouteController(routeService RouteService) *RouteController {
	return &RouteController{RouteService: routeService}
}

type CreateRouteRequest struct {
	RouteID    string         `json:"routeId"`
	StartPoint string         `json:"startPoint"`
	EndPoint   string         `json:"endPoint"`
	Distance   float64        `json:"distance"`
	Stops      []string       `json:"stops"`
	Prices     []SegmentPrice `json:"prices"`
}

func (ctrl *RouteController) CreateRoute(c *fiber.Ctx) error {
	var req CreateRouteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	r, err := ctrl.RouteService.CreateRoute(c.Context(), &Route{
		RouteID:    req.RouteID,
		StartPoint: req.StartPoint,
		EndPoint:   req.EndPoint,
		Distance:   req.Distance,
		Stops:      req.Stops,
		Prices:     req.Prices,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (ctrl *RouteController) UpdateRoute(c *fiber.Ctx) error {
	var upd RouteUpdate
	if err := c.BodyParser(&upd); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	r, err := ctrl.RouteService.UpdateRoute(c.Context(), c.Params("routeId"), &upd)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(r)
}

func (ctrl *RouteController) GetRoutes(c *fiber.Ctx) error {
	routes, err := ctrl.RouteService.GetRoutes(c.Context(), c.Query("startPoint"), c.Query("endPoint"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(routes)
}

func (ctrl *RouteController) GetRoute(c *fiber.Ctx) error {
	r, err := ctrl.RouteService.GetRoute(c.Context(), c.Params("routeId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(r)
}

func (ctrl *RouteController) DeleteRoute(c *fiber.Ctx) error {
	r, err := ctrl.RouteService.DeleteRoute(c.Context(), c.Params("routeId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Route deleted successfully",
		"route":   r,
	})
}
