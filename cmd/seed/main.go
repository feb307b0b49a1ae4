package main

import (
	"context"
	"os"
	"time"

	"go-busline/internal/common/models"
	"go-busline/internal/config"
	"go-busline/internal/database"
	"go-busline/internal/features/admin"
	"go-busline/internal/logger"
	"go-busline/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed provisions the initial super-admin so a fresh deployment has a
// way in. Credentials come from SEED_ADMIN_USERNAME / SEED_ADMIN_PASSWORD.
func Seed(
	lc fx.Lifecycle,
	adminRepo admin.AdminRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				username := os.Getenv("SEED_ADMIN_USERNAME")
				password := os.Getenv("SEED_ADMIN_PASSWORD")
				if username == "" || password == "" {
					logger.Fatal("SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD must be set")
				}

				if err := adminRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("Failed to ensure admin indexes", zap.Error(err))
				}

				if _, err := adminRepo.FindByUsername(ctx, username); err == nil {
					logger.Info("Admin exists, skipping", zap.String("username", username))
					return
				}

				hash, err := utils.HashPassword(password)
				if err != nil {
					logger.Fatal("Failed to hash password", zap.Error(err))
				}

				now := time.Now()
				a := &admin.Admin{
					ID:           primitive.NewObjectID(),
					Username:     username,
					PasswordHash: hash,
					Role:         models.RoleSuperAdmin,
					IsActive:     true,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := adminRepo.Create(ctx, a); err != nil {
					logger.Fatal("Failed to create admin", zap.Error(err))
				}
				logger.Info("Super admin created", zap.String("username", username))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			admin.NewAdminRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
