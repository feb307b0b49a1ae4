package booking

import (
	"github.com/gofiber/fiber/v2"
)

type BookingApi struct {
	controller *BookingController
}

func NewBookingApi(controller *BookingController) *BookingApi {
	return &BookingApi{controller: controller}
}

// Setup registers commuter routes. These are public: commuters hold no
// account, cancellation is authorized by the token alone.
func (h *BookingApi) Setup(app *fiber.App) {
	app.Get("/api/commuters/available-buses", h.controller.SearchAvailableBuses)
	app.Get("/api/commuters/seats", h.controller.GetSeats)
	app.Post("/api/commuters/book-with-payment", h.controller.BookSeatWithPayment)
	app.Post("/api/commuters/cancel-booking", h.controller.CancelBooking)
	app.Get("/api/bookings/:transactionId", h.controller.GetByTransactionID)
}
