package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-shop-backend/internal/cache"
	"go-shop-backend/internal/model"
	"go-shop-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const statsCacheTTL = 5 * time.Minute

var statsCacheNames = []string{"by-category", "by-day", "payments", "top-products"}

func statsCacheKey(shopID uuid.UUID, name string) string {
	return fmt.Sprintf("stats:%s:%s", shopID, name)
}

// statsCacheKeys lists every cached aggregation for a shop, so mutations
// can invalidate them in one call.
func statsCacheKeys(shopID uuid.UUID) []string {
	keys := make([]string, len(statsCacheNames))
	for i, name := range statsCacheNames {
		keys[i] = statsCacheKey(shopID, name)
	}
	return keys
}

// StatsService serves read-only aggregations over the ledger. Results are
// cached per shop with a short TTL and invalidated by every sale mutation.
type StatsService interface {
	SalesByCategory(ctx context.Context, principal model.Principal) ([]repository.CategorySales, error)
	SalesByDay(ctx context.Context, principal model.Principal) ([]repository.DailySales, error)
	PaymentBreakdown(ctx context.Context, principal model.Principal) ([]repository.PaymentSales, error)
	TopProducts(ctx context.Context, principal model.Principal) ([]repository.ProductSales, error)
	LowStock(ctx context.Context, principal model.Principal, threshold int) ([]model.Product, error)
}

type statsService struct {
	statsRepo   repository.StatsRepository
	productRepo repository.ProductRepository
	cache       cache.Cache
	logger      *zap.Logger
}

func NewStatsService(statsRepo repository.StatsRepository, productRepo repository.ProductRepository, c cache.Cache, logger *zap.Logger) StatsService {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &statsService{
		statsRepo:   statsRepo,
		productRepo: productRepo,
		cache:       c,
		logger:      logger,
	}
}

func (s *statsService) SalesByCategory(ctx context.Context, principal model.Principal) ([]repository.CategorySales, error) {
	key := statsCacheKey(principal.ShopID, "by-category")
	var cached []repository.CategorySales
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.statsRepo.SalesByCategory(principal.ShopID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, results)
	return results, nil
}

func (s *statsService) SalesByDay(ctx context.Context, principal model.Principal) ([]repository.DailySales, error) {
	key := statsCacheKey(principal.ShopID, "by-day")
	var cached []repository.DailySales
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.statsRepo.SalesByDay(principal.ShopID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, results)
	return results, nil
}

func (s *statsService) PaymentBreakdown(ctx context.Context, principal model.Principal) ([]repository.PaymentSales, error) {
	key := statsCacheKey(principal.ShopID, "payments")
	var cached []repository.PaymentSales
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.statsRepo.PaymentBreakdown(principal.ShopID)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, results)
	return results, nil
}

func (s *statsService) TopProducts(ctx context.Context, principal model.Principal) ([]repository.ProductSales, error) {
	key := statsCacheKey(principal.ShopID, "top-products")
	var cached []repository.ProductSales
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	results, err := s.statsRepo.TopProducts(principal.ShopID, 10)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, results)
	return results, nil
}

// LowStock is not cached: the threshold is caller-supplied and the query is
// a single indexed scan.
func (s *statsService) LowStock(ctx context.Context, principal model.Principal, threshold int) ([]model.Product, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return s.productRepo.FindLowStock(principal.ShopID, threshold)
}

func (s *statsService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("stats cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *statsService) toCache(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, statsCacheTTL); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
