package booking

import (
	"time"

	"go-busline/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type BookingController struct {
	BookingService BookingService
}

func NewBookingController(bookingService BookingService) *BookingController {
	return &BookingController{BookingService: bookingService}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (ctrl *BookingController) SearchAvailableBuses(c *fiber.Ctx) error {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid or missing date"))
	}

	results, err := ctrl.BookingService.SearchAvailableBuses(c.Context(),
		c.Query("boardingPlace"), c.Query("destinationPlace"), date)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(results)
}

func (ctrl *BookingController) GetSeats(c *fiber.Ctx) error {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid or missing date"))
	}

	seats, err := ctrl.BookingService.GetSeats(c.Context(), c.Query("busNumber"), date)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(seats)
}

func (ctrl *BookingController) BookSeatWithPayment(c *fiber.Ctx) error {
	var req BookSeatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	bk, err := ctrl.BookingService.BookSeatWithPayment(c.Context(), &req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bk)
}

type CancelBookingRequest struct {
	CancellationToken string `json:"cancellationToken"`
}

func (ctrl *BookingController) CancelBooking(c *fiber.Ctx) error {
	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	refundID, err := ctrl.BookingService.CancelBooking(c.Context(), req.CancellationToken)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Booking cancelled",
		"refundId": refundID,
	})
}

func (ctrl *BookingController) GetByTransactionID(c *fiber.Ctx) error {
	bk, err := ctrl.BookingService.GetByTransactionID(c.Context(), c.Params("transactionId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(bk)
}
