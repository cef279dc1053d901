package service

import (
	"context"
	"fmt"
	"strings"

	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"
	"go-shop-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductInput struct {
	Name           string           `json:"name" validate:"required"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Scent          string           `json:"scent"`
	Price          decimal.Decimal  `json:"price" validate:"-"`
	RetailPrice    *decimal.Decimal `json:"retail_price" validate:"-"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price" validate:"-"`
	PurchaseCost   decimal.Decimal  `json:"purchase_cost" validate:"-"`
	Stock          int              `json:"stock" validate:"gte=0"` // initial stock only
}

// ProductPatch deliberately has no stock field: once a product exists its
// stock moves only through the sales service.
type ProductPatch struct {
	Name           *string          `json:"name" validate:"omitempty,min=1"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Scent          *string          `json:"scent"`
	Price          *decimal.Decimal `json:"price" validate:"-"`
	RetailPrice    *decimal.Decimal `json:"retail_price" validate:"-"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price" validate:"-"`
	PurchaseCost   *decimal.Decimal `json:"purchase_cost" validate:"-"`
}

type CategoryInput struct {
	Name  string `json:"name" validate:"required"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

type CategoryPatch struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Emoji *string `json:"emoji"`
	Color *string `json:"color"`
}

// CatalogService is the product/category collaborator. The sales engine
// only consumes its lookups; everything else is shop-scoped CRUD.
type CatalogService interface {
	ListProducts(ctx context.Context, principal model.Principal) ([]model.Product, error)
	GetProduct(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, principal model.Principal, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, principal model.Principal, id uuid.UUID, patch ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, principal model.Principal, id uuid.UUID) error

	ListCategories(ctx context.Context, principal model.Principal) ([]model.Category, error)
	CreateCategory(ctx context.Context, principal model.Principal, input CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, principal model.Principal, id uuid.UUID, patch CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, principal model.Principal, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, logger *zap.Logger) CatalogService {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, principal model.Principal) ([]model.Product, error) {
	return s.productRepo.FindAllForShop(principal.ShopID)
}

func (s *catalogService) GetProduct(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindForShop(id, principal.ShopID)
}

func (s *catalogService) CreateProduct(ctx context.Context, principal model.Principal, input ProductInput) (*model.Product, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}
	if err := checkPrices(input.Price, input.RetailPrice, input.WholesalePrice, input.PurchaseCost); err != nil {
		return nil, err
	}

	product := &model.Product{
		ShopID:         principal.ShopID,
		CategoryID:     input.CategoryID,
		Name:           strings.TrimSpace(input.Name),
		Scent:          input.Scent,
		Stock:          input.Stock,
		Price:          input.Price,
		RetailPrice:    input.RetailPrice,
		WholesalePrice: input.WholesalePrice,
		PurchaseCost:   input.PurchaseCost,
		UserID:         principal.UserID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, principal model.Principal, id uuid.UUID, patch ProductPatch) (*model.Product, error) {
	if errs := validator.ValidateStruct(&patch); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}
	for _, price := range []*decimal.Decimal{patch.Price, patch.RetailPrice, patch.WholesalePrice, patch.PurchaseCost} {
		if price != nil && price.IsNegative() {
			return nil, fmt.Errorf("%w: price fields must not be negative", repository.ErrInvalidInput)
		}
	}

	product, err := s.productRepo.FindForShop(id, principal.ShopID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.CategoryID != nil {
		product.CategoryID = patch.CategoryID
	}
	if patch.Scent != nil {
		product.Scent = *patch.Scent
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.RetailPrice != nil {
		product.RetailPrice = patch.RetailPrice
	}
	if patch.WholesalePrice != nil {
		product.WholesalePrice = patch.WholesalePrice
	}
	if patch.PurchaseCost != nil {
		product.PurchaseCost = *patch.PurchaseCost
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.productRepo.Delete(id, principal.ShopID)
}

func (s *catalogService) ListCategories(ctx context.Context, principal model.Principal) ([]model.Category, error) {
	return s.categoryRepo.FindAllForShop(principal.ShopID)
}

func (s *catalogService) CreateCategory(ctx context.Context, principal model.Principal, input CategoryInput) (*model.Category, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", repository.ErrInvalidInput)
	}
	exists, err := s.categoryRepo.ExistsByName(principal.ShopID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: category %q already exists", repository.ErrInvalidInput, name)
	}

	category := &model.Category{
		ShopID: principal.ShopID,
		Name:   name,
		Emoji:  input.Emoji,
		Color:  input.Color,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, principal model.Principal, id uuid.UUID, patch CategoryPatch) (*model.Category, error) {
	if errs := validator.ValidateStruct(&patch); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}

	category, err := s.categoryRepo.FindForShop(id, principal.ShopID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name is required", repository.ErrInvalidInput)
		}
		if name != category.Name {
			exists, err := s.categoryRepo.ExistsByName(principal.ShopID, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, fmt.Errorf("%w: category %q already exists", repository.ErrInvalidInput, name)
			}
		}
		category.Name = name
	}
	if patch.Emoji != nil {
		category.Emoji = *patch.Emoji
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	return s.categoryRepo.Delete(id, principal.ShopID)
}

func checkPrices(price decimal.Decimal, retail, wholesale *decimal.Decimal, cost decimal.Decimal) error {
	if price.IsNegative() || cost.IsNegative() {
		return fmt.Errorf("%w: price fields must not be negative", repository.ErrInvalidInput)
	}
	for _, tier := range []*decimal.Decimal{retail, wholesale} {
		if tier != nil && tier.IsNegative() {
			return fmt.Errorf("%w: price fields must not be negative", repository.ErrInvalidInput)
		}
	}
	return nil
}
