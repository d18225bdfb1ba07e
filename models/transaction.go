package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeSale       TransactionType = "sale"
	TransactionTypePurchase   TransactionType = "purchase"
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeReturn     TransactionType = "return"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeAdjustment,
		TransactionTypeTransfer, TransactionTypeReturn:
		return true
	}
	return false
}

// Transaction is the append-only stock ledger. Rows are never updated or
// deleted by normal flow; every stock mutation on an Inventory row must be
// accompanied by one.
type Transaction struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Type        TransactionType `gorm:"type:enum('sale','purchase','adjustment','transfer','return');not null;index" json:"type"`
	InventoryId int             `gorm:"index;not null" json:"inventory_id"`
	// signed: positive for stock increases, negative for decreases
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	// magnitude, always >= 0
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_price"`
	Reference  string          `gorm:"size:255" json:"reference"`
	// links a purchase-type row back to the originating Purchase
	ReferenceId int       `gorm:"index;default:null" json:"reference_id"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedBy   int       `gorm:"not null" json:"created_by"`
	Location    string    `gorm:"size:100;default:'Main Warehouse'" json:"location"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// appendTransaction writes a ledger row inside the caller's transaction.
func appendTransaction(tx *gorm.DB, txn *Transaction) error {
	return tx.Create(txn).Error
}

// actorId resolves the acting user from the request context, 0 for system jobs.
func actorId(ctx context.Context) int {
	id, _ := utils.GetUserIdFromContext(ctx)
	return id
}

type TransactionFilter struct {
	InventoryId int
	Type        string
}

func PaginateTransactions(ctx context.Context, filter TransactionFilter, page int, limit int) ([]*Transaction, utils.Pagination, error) {
	db := config.GetDB()
	page, limit, offset := utils.PageLimitOffset(page, limit)

	dbCtx := db.WithContext(ctx).Model(&Transaction{})
	if filter.InventoryId > 0 {
		dbCtx = dbCtx.Where("inventory_id = ?", filter.InventoryId)
	}
	if filter.Type != "" {
		dbCtx = dbCtx.Where("type = ?", filter.Type)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	var results []*Transaction
	if err := dbCtx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	return results, utils.NewPagination(page, limit, total), nil
}
