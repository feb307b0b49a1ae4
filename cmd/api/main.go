package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-busline/internal/common/api"
	"go-busline/internal/config"
	"go-busline/internal/database"
	emails "go-busline/internal/email"
	"go-busline/internal/features/admin"
	"go-busline/internal/features/booking"
	"go-busline/internal/features/bus"
	"go-busline/internal/features/operator"
	"go-busline/internal/features/permit"
	"go-busline/internal/features/route"
	"go-busline/internal/features/schedule"
	"go-busline/internal/logger"
	"go-busline/internal/middleware"
	"go-busline/internal/payment"
	"go-busline/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	zlog *zap.Logger,
	adminRepo admin.AdminRepository,
	operatorRepo operator.OperatorRepository,
	busRepo bus.BusRepository,
	routeRepo route.RouteRepository,
	permitRepo permit.PermitRepository,
	scheduleRepo schedule.ScheduleRepository,
	bookingRepo booking.BookingRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				type indexed interface {
					EnsureIndexes(ctx context.Context) error
				}
				repos := map[string]indexed{
					"admins":        adminRepo,
					"bus_operators": operatorRepo,
					"buses":         busRepo,
					"routes":        routeRepo,
					"permits":       permitRepo,
					"schedules":     scheduleRepo,
					"bookings":      bookingRepo,
				}
				for name, repo := range repos {
					if err := repo.EnsureIndexes(ctx); err != nil {
						zlog.Error("failed to ensure indexes",
							zap.String("collection", name),
							zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			admin.NewAdminRepository,
			operator.NewOperatorRepository,
			bus.NewBusRepository,
			route.NewRouteRepository,
			permit.NewPermitRepository,
			schedule.NewScheduleRepository,
			booking.NewBookingRepository,
			emails.NewRepository,

			// Initialize Service
			admin.NewAdminService,
			operator.NewOperatorService,
			bus.NewBusService,
			route.NewRouteService,
			permit.NewPermitService,
			permit.NewSweeper,
			schedule.NewScheduleService,
			booking.NewBookingService,
			payment.NewMockGateway,
			emails.NewService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r operator.OperatorRepository) bus.OperatorFinder { return r },
			func(r booking.BookingRepository) schedule.BookingReassigner { return r },

			// Initialize Controller
			admin.NewAdminController,
			operator.NewOperatorController,
			bus.NewBusController,
			route.NewRouteController,
			permit.NewPermitController,
			schedule.NewScheduleController,
			booking.NewBookingController,

			// Initialize API Routes
			AsRoute(admin.NewAdminApi),
			AsRoute(operator.NewOperatorApi),
			AsRoute(bus.NewBusApi),
			AsRoute(route.NewRouteApi),
			AsRoute(permit.NewPermitApi),
			AsRoute(schedule.NewScheduleApi),
			AsRoute(booking.NewBookingApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, sweeper *permit.Sweeper) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return sweeper.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return sweeper.Stop()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
