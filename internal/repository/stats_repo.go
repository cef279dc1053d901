package repository

import (
	"go-shop-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatsRepository interface {
	SalesByCategory(shopID uuid.UUID) ([]CategorySales, error)
	SalesByDay(shopID uuid.UUID) ([]DailySales, error)
	PaymentBreakdown(shopID uuid.UUID) ([]PaymentSales, error)
	TopProducts(shopID uuid.UUID, limit int) ([]ProductSales, error)
}

// CategorySales aggregates the ledger per product category.
type CategorySales struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailySales aggregates the ledger per calendar day.
type DailySales struct {
	Date     string          `json:"date"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// PaymentSales aggregates the ledger per payment method.
type PaymentSales struct {
	PaymentMethod string          `json:"payment_method"`
	Count         int64           `json:"count"`
	Amount        decimal.Decimal `json:"amount"`
}

// ProductSales aggregates the ledger per product.
type ProductSales struct {
	Product  string          `json:"product"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

// Reversed sales are soft-deleted and excluded by the model scope in every
// aggregation below.

func (r *statsRepo) SalesByCategory(shopID uuid.UUID) ([]CategorySales, error) {
	var results []CategorySales

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			COALESCE(c.name, 'uncategorized') AS category,
			COALESCE(SUM(sales.quantity), 0) AS quantity,
			COALESCE(SUM(sales.total), 0) AS amount
		`).
		Joins("JOIN products p ON sales.product_id = p.id").
		Joins("LEFT JOIN categories c ON p.category_id = c.id").
		Where("sales.shop_id = ?", shopID).
		Group("c.name").
		Order("quantity DESC").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data CategorySales
		if err := rows.Scan(&data.Category, &data.Quantity, &data.Amount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *statsRepo) SalesByDay(shopID uuid.UUID) ([]DailySales, error) {
	var results []DailySales

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			TO_CHAR(DATE(sales.created_at), 'YYYY-MM-DD') AS date,
			COALESCE(SUM(sales.quantity), 0) AS quantity,
			COALESCE(SUM(sales.total), 0) AS amount
		`).
		Where("sales.shop_id = ?", shopID).
		Group("DATE(sales.created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySales
		if err := rows.Scan(&data.Date, &data.Quantity, &data.Amount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *statsRepo) PaymentBreakdown(shopID uuid.UUID) ([]PaymentSales, error) {
	var results []PaymentSales

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			payment_method,
			COUNT(*) AS count,
			COALESCE(SUM(total), 0) AS amount
		`).
		Where("shop_id = ?", shopID).
		Group("payment_method").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data PaymentSales
		if err := rows.Scan(&data.PaymentMethod, &data.Count, &data.Amount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *statsRepo) TopProducts(shopID uuid.UUID, limit int) ([]ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}
	var results []ProductSales

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			p.name AS product,
			COALESCE(SUM(sales.quantity), 0) AS quantity,
			COALESCE(SUM(sales.total), 0) AS amount
		`).
		Joins("JOIN products p ON sales.product_id = p.id").
		Where("sales.shop_id = ?", shopID).
		Group("p.name").
		Order("quantity DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data ProductSales
		if err := rows.Scan(&data.Product, &data.Quantity, &data.Amount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}
