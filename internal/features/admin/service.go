package admin

import (
	"context"

	"go-busline/internal/common/apperr"
	"go-busline/internal/common/models"
	"go-busline/pkg/utils"
)

type AdminService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, id string) (*Admin, error)
}

type AdminServiceImpl struct {
	AdminRepo AdminRepository
}

func NewAdminService(adminRepo AdminRepository) AdminService {
	return &AdminServiceImpl{AdminRepo: adminRepo}
}

func (s *AdminServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	adm, err := s.AdminRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", apperr.Validation("Invalid credentials")
	}

	if !adm.IsActive {
		return "", apperr.Validation("Invalid credentials")
	}

	if !utils.CheckPassword(adm.PasswordHash, password) {
		return "", apperr.Validation("Invalid credentials")
	}

	role := adm.Role
	if role == "" {
		role = models.RoleAdmin
	}

	token, err := utils.GenerateToken(adm.ID.Hex(), role, "")
	if err != nil {
		return "", apperr.Internal("Failed to issue token", err)
	}
	return token, nil
}

func (s *AdminServiceImpl) Profile(ctx context.Context, id string) (*Admin, error) {
	adm, err := s.AdminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("Admin not found")
	}
	return adm, nil
}
