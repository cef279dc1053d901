package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"go-shop-backend/internal/cache"
	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SHOP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set SHOP_TEST_DATABASE_URL to run database-backed tests")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: glogger.Discard})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Shop{},
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Sale{},
		&model.Subscription{},
		&model.Alert{},
	))
	return db
}

type engineEnv struct {
	db        *gorm.DB
	svc       SalesService
	alerts    repository.AlertRepository
	principal model.Principal
	shopID    uuid.UUID
}

// newEngineEnv wires the coordinator against a real database with a fresh
// shop, so tests are isolated from each other by tenant scoping alone.
func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()

	db := openTestDB(t)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	svc := NewSalesService(productRepo, saleRepo, alertRepo, db, cache.Noop{}, zaptest.NewLogger(t), 5)

	shop := &model.Shop{Name: "engine test shop"}
	require.NoError(t, db.Create(shop).Error)

	user := &model.User{
		Username: fmt.Sprintf("tester-%s", uuid.NewString()),
		Role:     model.RoleOwner,
		ShopID:   &shop.ID,
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)

	t.Cleanup(func() {
		db.Unscoped().Where("shop_id = ?", shop.ID).Delete(&model.Sale{})
		db.Unscoped().Where("shop_id = ?", shop.ID).Delete(&model.Alert{})
		db.Unscoped().Where("shop_id = ?", shop.ID).Delete(&model.Product{})
		db.Unscoped().Delete(user)
		db.Unscoped().Delete(shop)
	})

	return &engineEnv{
		db:        db,
		svc:       svc,
		alerts:    alertRepo,
		principal: user.Principal(),
		shopID:    shop.ID,
	}
}

func (e *engineEnv) seedProduct(t *testing.T, stock int, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		ShopID: e.shopID,
		Name:   fmt.Sprintf("product-%s", uuid.NewString()[:8]),
		Stock:  stock,
		Price:  dec(price),
		UserID: e.principal.UserID,
	}
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *engineEnv) reloadStock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var product model.Product
	require.NoError(t, e.db.First(&product, "id = ?", id).Error)
	return product.Stock
}

// liveQuantity sums the quantities of non-reversed sales on a product.
func (e *engineEnv) liveQuantity(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var total int64
	require.NoError(t, e.db.Model(&model.Sale{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error)
	return int(total)
}

// Walks a sale through its whole lifecycle: create, amend up, reverse.
// After every step, stock plus the live sale quantity must equal the
// initial stock.
func TestSaleLifecycle(t *testing.T) {
	e := newEngineEnv(t)
	ctx := context.Background()
	product := e.seedProduct(t, 10, "100")

	sale, err := e.svc.CreateSale(ctx, e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      3,
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sale.Quantity)
	assert.True(t, sale.Paid)
	assert.True(t, sale.Total.Equal(dec("300")), "total %s", sale.Total)
	assert.True(t, sale.UnitPrice.Equal(dec("100")))
	assert.Equal(t, model.ChannelRetail, sale.Channel)
	assert.Equal(t, 7, e.reloadStock(t, product.ID))

	newQty := 5
	amended, err := e.svc.AmendSale(ctx, e.principal, sale.ID, SalePatch{Quantity: &newQty})
	require.NoError(t, err)
	assert.Equal(t, 5, amended.Quantity)
	assert.True(t, amended.Total.Equal(dec("500")), "total %s", amended.Total)
	assert.Equal(t, 5, e.reloadStock(t, product.ID))
	assert.Equal(t, 10, e.reloadStock(t, product.ID)+e.liveQuantity(t, product.ID))

	lower := 2
	amended, err = e.svc.AmendSale(ctx, e.principal, sale.ID, SalePatch{Quantity: &lower})
	require.NoError(t, err)
	assert.Equal(t, 2, amended.Quantity)
	assert.Equal(t, 8, e.reloadStock(t, product.ID))
	assert.Equal(t, 10, e.reloadStock(t, product.ID)+e.liveQuantity(t, product.ID))

	require.NoError(t, e.svc.ReverseSale(ctx, e.principal, sale.ID))
	assert.Equal(t, 10, e.reloadStock(t, product.ID))

	// Reversed is terminal.
	_, err = e.svc.AmendSale(ctx, e.principal, sale.ID, SalePatch{Quantity: &newQty})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = e.svc.ReverseSale(ctx, e.principal, sale.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 2, "100")

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      5,
		PaymentMethod: model.PaymentCash,
	})
	assert.Nil(t, sale)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, 2, e.reloadStock(t, product.ID))
}

func TestCreateSaleOnCredit(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 10, "100")

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      1,
		PaymentMethod: model.PaymentCredit,
	})
	require.NoError(t, err)
	assert.False(t, sale.Paid)
	assert.Equal(t, 9, e.reloadStock(t, product.ID))

	// Settlement later: repayment method recorded, paid flips, stock is
	// untouched.
	paid := true
	repayment := model.PaymentMobile
	settled, err := e.svc.AmendSale(context.Background(), e.principal, sale.ID, SalePatch{
		Paid:            &paid,
		RepaymentMethod: &repayment,
	})
	require.NoError(t, err)
	assert.True(t, settled.Paid)
	require.NotNil(t, settled.RepaymentMethod)
	assert.Equal(t, model.PaymentMobile, *settled.RepaymentMethod)
	assert.Equal(t, 9, e.reloadStock(t, product.ID))
}

func TestAmendSaleEqualQuantityTouchesOnlyPaymentFields(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 10, "100")

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      4,
		PaymentMethod: model.PaymentCredit,
	})
	require.NoError(t, err)

	sameQty := 4
	paid := true
	amended, err := e.svc.AmendSale(context.Background(), e.principal, sale.ID, SalePatch{
		Quantity: &sameQty,
		Paid:     &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, amended.Quantity)
	assert.True(t, amended.Paid)
	assert.Equal(t, 6, e.reloadStock(t, product.ID))
}

func TestAmendSaleInsufficientStockForIncrease(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 5, "100")

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      3,
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// Stock is 2; raising the sale by 4 more cannot be covered.
	tooMany := 7
	_, err = e.svc.AmendSale(context.Background(), e.principal, sale.ID, SalePatch{Quantity: &tooMany})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, 2, e.reloadStock(t, product.ID))
}

func TestAmendSaleKeepsRecordedUnitPrice(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 10, "100")

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:       product.ID,
		Quantity:        2,
		PaymentMethod:   model.PaymentCash,
		NegotiatedPrice: decPtr("80"),
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(dec("160")))

	// Catalog price changes do not leak into existing sales.
	require.NoError(t, e.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("price", dec("999")).Error)

	newQty := 3
	amended, err := e.svc.AmendSale(context.Background(), e.principal, sale.ID, SalePatch{Quantity: &newQty})
	require.NoError(t, err)
	assert.True(t, amended.UnitPrice.Equal(dec("80")), "unit price %s", amended.UnitPrice)
	assert.True(t, amended.Total.Equal(dec("240")), "total %s", amended.Total)

	// Unless a new unit price is supplied explicitly.
	repriced, err := e.svc.AmendSale(context.Background(), e.principal, sale.ID, SalePatch{UnitPrice: decPtr("90")})
	require.NoError(t, err)
	assert.True(t, repriced.Total.Equal(dec("270")), "total %s", repriced.Total)
}

func TestCreateSaleChannelPricing(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 10, "100")
	require.NoError(t, e.db.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"retail_price":    dec("120"),
			"wholesale_price": dec("90"),
		}).Error)

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      1,
		PaymentMethod: model.PaymentCash,
		Channel:       model.ChannelWholesale,
	})
	require.NoError(t, err)
	assert.True(t, sale.UnitPrice.Equal(dec("90")), "unit price %s", sale.UnitPrice)
}

func TestCrossShopAccessIsNotFound(t *testing.T) {
	e := newEngineEnv(t)
	other := newEngineEnv(t)
	product := e.seedProduct(t, 10, "100")

	// Another tenant cannot see the product at all.
	_, err := other.svc.CreateSale(context.Background(), other.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      1,
		PaymentMethod: model.PaymentCash,
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	sale, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
		ProductID:     product.ID,
		Quantity:      1,
		PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	// Nor amend or reverse its sales.
	qty := 2
	_, err = other.svc.AmendSale(context.Background(), other.principal, sale.ID, SalePatch{Quantity: &qty})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = other.svc.ReverseSale(context.Background(), other.principal, sale.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 1, "100")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.CreateSale(context.Background(), e.principal, CreateSaleInput{
				ProductID:     product.ID,
				Quantity:      1,
				PaymentMethod: model.PaymentCash,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejected int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, repository.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, e.reloadStock(t, product.ID))
}

func TestListSalesNewestFirstAndStable(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 10, "100")
	ctx := context.Background()

	first, err := e.svc.CreateSale(ctx, e.principal, CreateSaleInput{
		ProductID: product.ID, Quantity: 1, PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)
	second, err := e.svc.CreateSale(ctx, e.principal, CreateSaleInput{
		ProductID: product.ID, Quantity: 2, PaymentMethod: model.PaymentMobile,
	})
	require.NoError(t, err)

	sales, err := e.svc.ListSales(ctx, e.principal)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, second.ID, sales[0].ID)
	assert.Equal(t, first.ID, sales[1].ID)

	// Reading twice with no mutation in between is idempotent.
	again, err := e.svc.ListSales(ctx, e.principal)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, sales[0].ID, again[0].ID)
	assert.Equal(t, sales[1].ID, again[1].ID)
}

func TestLowStockAlertWrittenOnce(t *testing.T) {
	e := newEngineEnv(t)
	product := e.seedProduct(t, 7, "100")
	ctx := context.Background()

	_, err := e.svc.CreateSale(ctx, e.principal, CreateSaleInput{
		ProductID: product.ID, Quantity: 3, PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	alerts, err := e.alerts.FindOpenForShop(e.shopID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.AlertLowStock, alerts[0].Type)

	// Selling again while already under the threshold does not duplicate.
	_, err = e.svc.CreateSale(ctx, e.principal, CreateSaleInput{
		ProductID: product.ID, Quantity: 1, PaymentMethod: model.PaymentCash,
	})
	require.NoError(t, err)

	alerts, err = e.alerts.FindOpenForShop(e.shopID)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}
