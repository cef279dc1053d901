package service

import (
	"context"
	"errors"
	"fmt"

	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"
	"go-shop-backend/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrUsernameTaken      = errors.New("username already exists")
)

type RegisterInput struct {
	Username    string `json:"username" validate:"required,min=3"`
	Password    string `json:"password" validate:"required,min=6"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
}

// AuthService verifies identities and produces the Principal the rest of
// the system trusts. Session/token management lives upstream.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.Principal, error)
	Login(ctx context.Context, username, password string) (*model.Principal, error)
}

type authService struct {
	userRepo repository.UserRepository
	db       *gorm.DB
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, db *gorm.DB, logger *zap.Logger) AuthService {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &authService{userRepo: userRepo, db: db, logger: logger}
}

// Register creates the owner account and its shop in one transaction, so a
// half-registered tenant can never exist.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.Principal, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}

	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user := &model.User{
		Username:    input.Username,
		CompanyName: input.CompanyName,
		PhoneNumber: input.PhoneNumber,
		Role:        model.RoleOwner,
		IsActive:    true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	shopName := input.CompanyName
	if shopName == "" {
		shopName = input.Username
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}

		shop := &model.Shop{Name: shopName, OwnerID: user.ID}
		if err := tx.Create(shop).Error; err != nil {
			return err
		}

		user.ShopID = &shop.ID
		return tx.Model(user).Update("shop_id", shop.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shop registered",
		zap.String("username", user.Username),
		zap.String("shop_id", user.ShopID.String()))

	principal := user.Principal()
	return &principal, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.Principal, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	principal := user.Principal()
	return &principal, nil
}
