package service

import (
	"context"
	"errors"

	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrRoleNotAllowed = errors.New("role not allowed")

// AlertService reads and flags the low-stock alert rows written by the
// sales service. Archiving is owner-only, matching the shop's
// permission model; super_admin passes every check.
type AlertService interface {
	ListAlerts(ctx context.Context, principal model.Principal) ([]model.Alert, error)
	MarkSeen(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Alert, error)
	Ignore(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Alert, error)
	Archive(ctx context.Context, principal model.Principal, id uuid.UUID) error
}

type alertService struct {
	alertRepo repository.AlertRepository
	logger    *zap.Logger
}

func NewAlertService(alertRepo repository.AlertRepository, logger *zap.Logger) AlertService {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &alertService{alertRepo: alertRepo, logger: logger}
}

func (s *alertService) ListAlerts(ctx context.Context, principal model.Principal) ([]model.Alert, error) {
	if err := requireRole(principal, model.RoleOwner, model.RoleEmployee); err != nil {
		return nil, err
	}
	return s.alertRepo.FindOpenForShop(principal.ShopID)
}

func (s *alertService) MarkSeen(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Alert, error) {
	if err := requireRole(principal, model.RoleOwner, model.RoleEmployee); err != nil {
		return nil, err
	}
	return s.alertRepo.SetFlag(id, principal.ShopID, repository.AlertFlagSeen)
}

func (s *alertService) Ignore(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Alert, error) {
	if err := requireRole(principal, model.RoleOwner, model.RoleEmployee); err != nil {
		return nil, err
	}
	return s.alertRepo.SetFlag(id, principal.ShopID, repository.AlertFlagIgnored)
}

func (s *alertService) Archive(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requireRole(principal, model.RoleOwner); err != nil {
		return err
	}
	_, err := s.alertRepo.SetFlag(id, principal.ShopID, repository.AlertFlagArchived)
	return err
}

func requireRole(principal model.Principal, roles ...string) error {
	if principal.Role == model.RoleSuperAdmin {
		return nil
	}
	for _, role := range roles {
		if principal.Role == role {
			return nil
		}
	}
	return ErrRoleNotAllowed
}
