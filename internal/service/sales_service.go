package service

import (
	"context"
	"fmt"
	"time"

	"go-shop-backend/internal/cache"
	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"
	"go-shop-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLowStockThreshold is used when the service is constructed with a
// non-positive threshold.
const DefaultLowStockThreshold = 5

// CreateSaleInput carries everything needed to record a sale. The caller's
// shop and user come from the Principal, never from the input.
type CreateSaleInput struct {
	ProductID       uuid.UUID           `json:"product_id" validate:"uuid_required"`
	Quantity        int                 `json:"quantity" validate:"required,gt=0"`
	PaymentMethod   model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash mobile credit other"`
	Channel         model.SaleChannel   `json:"channel" validate:"omitempty,oneof=retail wholesale"`
	NegotiatedPrice *decimal.Decimal    `json:"negotiated_price" validate:"-"`
	ClientName      *string             `json:"client_name"`
	ClientPhone     *string             `json:"client_phone"`
	DueDate         *time.Time          `json:"due_date" validate:"-"`
}

// SalePatch updates only the fields that are set; nil leaves the stored
// value untouched.
type SalePatch struct {
	Quantity        *int                 `json:"quantity" validate:"omitempty,gt=0"`
	UnitPrice       *decimal.Decimal     `json:"unit_price" validate:"-"`
	PaymentMethod   *model.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash mobile credit other"`
	Paid            *bool                `json:"paid"`
	RepaymentMethod *model.PaymentMethod `json:"repayment_method" validate:"omitempty,oneof=cash mobile credit other"`
}

// SalesService is the transaction coordinator: every stock-affecting
// operation runs as one database transaction holding the product row lock
// from the stock check through the paired ledger write.
type SalesService interface {
	CreateSale(ctx context.Context, principal model.Principal, input CreateSaleInput) (*model.Sale, error)
	AmendSale(ctx context.Context, principal model.Principal, saleID uuid.UUID, patch SalePatch) (*model.Sale, error)
	ReverseSale(ctx context.Context, principal model.Principal, saleID uuid.UUID) error
	ListSales(ctx context.Context, principal model.Principal) ([]model.Sale, error)
}

type salesService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	alertRepo   repository.AlertRepository
	db          *gorm.DB
	cache       cache.Cache
	logger      *zap.Logger
	threshold   int
}

func NewSalesService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	alertRepo repository.AlertRepository,
	db *gorm.DB,
	c cache.Cache,
	logger *zap.Logger,
	lowStockThreshold int,
) SalesService {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if c == nil {
		c = cache.Noop{}
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &salesService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		alertRepo:   alertRepo,
		db:          db,
		cache:       c,
		logger:      logger,
		threshold:   lowStockThreshold,
	}
}

func (s *salesService) CreateSale(ctx context.Context, principal model.Principal, input CreateSaleInput) (*model.Sale, error) {
	if errs := validator.ValidateStruct(&input); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}
	if input.NegotiatedPrice != nil && input.NegotiatedPrice.IsNegative() {
		return nil, fmt.Errorf("%w: negotiated price must not be negative", repository.ErrInvalidInput)
	}
	channel := input.Channel
	if channel == "" {
		channel = model.ChannelRetail
	}

	var sale *model.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockForShop(tx, input.ProductID, principal.ShopID)
		if err != nil {
			return err
		}

		if product.Stock < input.Quantity {
			return repository.ErrInsufficientStock
		}

		unitPrice := ResolveUnitPrice(product, channel, input.NegotiatedPrice)
		if unitPrice.IsZero() {
			// Data quality problem on the product, not a reason to block
			// the sale.
			s.logger.Warn("sale priced at zero, product has no price fields set",
				zap.String("product_id", product.ID.String()),
				zap.String("shop_id", principal.ShopID.String()))
		}

		sale = &model.Sale{
			ShopID:        principal.ShopID,
			ProductID:     product.ID,
			UserID:        principal.UserID,
			Quantity:      input.Quantity,
			UnitPrice:     unitPrice,
			Total:         unitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
			PaymentMethod: input.PaymentMethod,
			Paid:          input.PaymentMethod != model.PaymentCredit,
			Channel:       channel,
			ClientName:    input.ClientName,
			ClientPhone:   input.ClientPhone,
			DueDate:       input.DueDate,
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		return s.productRepo.AdjustStock(tx, product.ID, -input.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, principal.ShopID, sale.ProductID)
	return sale, nil
}

func (s *salesService) AmendSale(ctx context.Context, principal model.Principal, saleID uuid.UUID, patch SalePatch) (*model.Sale, error) {
	if errs := validator.ValidateStruct(&patch); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrInvalidInput, errs[0])
	}
	if patch.UnitPrice != nil && patch.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", repository.ErrInvalidInput)
	}

	var updated *model.Sale
	stockTouched := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockForShop(tx, saleID, principal.ShopID)
		if err != nil {
			return err
		}

		// The recorded unit price survives amendment unless a new one is
		// supplied; catalog price edits never rewrite history.
		if patch.UnitPrice != nil {
			sale.UnitPrice = *patch.UnitPrice
		}

		// Equal quantity takes the payment-only path: no product lock, no
		// zero-delta stock write.
		if patch.Quantity != nil && *patch.Quantity != sale.Quantity {
			product, err := s.productRepo.LockForShop(tx, sale.ProductID, principal.ShopID)
			if err != nil {
				return err
			}

			diff := *patch.Quantity - sale.Quantity
			if diff > 0 && product.Stock < diff {
				return repository.ErrInsufficientStock
			}
			if err := s.productRepo.AdjustStock(tx, product.ID, -diff); err != nil {
				return err
			}
			sale.Quantity = *patch.Quantity
			stockTouched = true
		}
		sale.Total = sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))

		if patch.PaymentMethod != nil {
			sale.PaymentMethod = *patch.PaymentMethod
		}
		if patch.Paid != nil {
			sale.Paid = *patch.Paid
		}
		if patch.RepaymentMethod != nil {
			sale.RepaymentMethod = patch.RepaymentMethod
		}

		if err := s.saleRepo.Update(tx, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stockTouched {
		s.afterStockChange(ctx, principal.ShopID, updated.ProductID)
	} else {
		s.invalidateStats(ctx, principal.ShopID)
	}
	return updated, nil
}

func (s *salesService) ReverseSale(ctx context.Context, principal model.Principal, saleID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockForShop(tx, saleID, principal.ShopID)
		if err != nil {
			return err
		}

		// The UPDATE itself takes the product row lock; the increment can
		// never fail a sufficiency check.
		if err := s.productRepo.AdjustStock(tx, sale.ProductID, sale.Quantity); err != nil {
			return err
		}
		return s.saleRepo.Archive(tx, sale.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx, principal.ShopID)
	return nil
}

func (s *salesService) ListSales(ctx context.Context, principal model.Principal) ([]model.Sale, error) {
	return s.saleRepo.FindAllForShop(principal.ShopID)
}

// afterStockChange runs the best-effort post-commit work: stats cache
// invalidation and the low-stock alert row. Failures are logged, never
// surfaced; the sale itself has already committed.
func (s *salesService) afterStockChange(ctx context.Context, shopID, productID uuid.UUID) {
	s.invalidateStats(ctx, shopID)

	product, err := s.productRepo.FindForShop(productID, shopID)
	if err != nil {
		s.logger.Warn("low stock check skipped", zap.Error(err))
		return
	}
	if product.Stock > s.threshold {
		return
	}

	exists, err := s.alertRepo.OpenLowStockExists(shopID, productID)
	if err != nil {
		s.logger.Warn("low stock alert lookup failed", zap.Error(err))
		return
	}
	if exists {
		return
	}

	alert := &model.Alert{
		ShopID:    shopID,
		ProductID: &productID,
		Type:      model.AlertLowStock,
		Message:   fmt.Sprintf("%s is low on stock (%d left)", product.Name, product.Stock),
	}
	if err := s.alertRepo.Create(alert); err != nil {
		s.logger.Warn("low stock alert write failed", zap.Error(err))
	}
}

func (s *salesService) invalidateStats(ctx context.Context, shopID uuid.UUID) {
	if err := s.cache.Delete(ctx, statsCacheKeys(shopID)...); err != nil {
		s.logger.Warn("stats cache invalidation failed",
			zap.String("shop_id", shopID.String()), zap.Error(err))
	}
}
