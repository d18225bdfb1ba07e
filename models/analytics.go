package models

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
)

type TopSeller struct {
	InventoryId int    `json:"inventory_id"`
	Name        string `json:"name"`
	Sku         string `json:"sku"`
	TotalSold   int    `json:"total_sold"`
}

type DashboardSummary struct {
	TotalItems      int64           `json:"total_items"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	RetailValue     decimal.Decimal `json:"retail_value"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	PendingOrders   int64           `json:"pending_orders"`
	ActiveSuppliers int64           `json:"active_suppliers"`
	CategoryCount   int64           `json:"category_count"`
	TopSellers      []*TopSeller    `json:"top_sellers"`
	RecentPurchases []*Purchase     `json:"recent_purchases"`
}

const dashboardCacheKey = "analytics_dashboard"

// GetDashboardSummary serves from Redis when warm; aggregates are over the
// whole inventory table and do not need to be to-the-second fresh.
func GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var cached DashboardSummary
	if ok, err := config.GetRedisObject(dashboardCacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	db := config.GetDB()
	summary := DashboardSummary{}

	active := db.WithContext(ctx).Model(&Inventory{}).Where("status = ?", StockItemStatusActive)
	if err := active.Count(&summary.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Select("COALESCE(SUM(current_stock * cost_price), 0)").
		Where("status = ?", StockItemStatusActive).Scan(&summary.TotalStockValue).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Select("COALESCE(SUM(current_stock * selling_price), 0)").
		Where("status = ?", StockItemStatusActive).Scan(&summary.RetailValue).Error; err != nil {
		return nil, err
	}
	// includes zero-stock items; the out-of-stock count is a subset, not a
	// disjoint bucket
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Where("status = ? AND current_stock <= reorder_point", StockItemStatusActive).
		Count(&summary.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Where("status = ? AND current_stock = 0", StockItemStatusActive).
		Count(&summary.OutOfStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Purchase{}).
		Where("status IN ('pending','ordered')").
		Count(&summary.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Supplier{}).
		Where("status = ?", SupplierStatusActive).
		Count(&summary.ActiveSuppliers).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Where("status = ?", StockItemStatusActive).
		Distinct("category").Count(&summary.CategoryCount).Error; err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Raw(`
		SELECT id AS inventory_id, name, sku, total_sold
		FROM inventories
		WHERE status = 'active' AND total_sold > 0
		ORDER BY total_sold DESC
		LIMIT 5`).Scan(&summary.TopSellers).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Where("status = ?", PurchaseStatusReceived).
		Order("received_date DESC").Limit(5).
		Preload("Supplier").Find(&summary.RecentPurchases).Error; err != nil {
		return nil, err
	}

	_ = config.SetRedisObject(dashboardCacheKey, summary, utils.GetCacheLifespan())
	return &summary, nil
}

// InvalidateDashboardCache drops the cached summary after stock moves.
func InvalidateDashboardCache() {
	_ = config.RemoveRedisKey(dashboardCacheKey)
}

type SalesTrendPoint struct {
	Day       string          `json:"day"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	SaleCount int             `json:"sale_count"`
}

// GetSalesTrends buckets sale ledger rows by calendar day over the trailing
// window. Sale quantities are stored negative; totals are flipped here.
func GetSalesTrends(ctx context.Context, days int) ([]*SalesTrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := Now().AddDate(0, 0, -days)

	db := config.GetDB()
	var points []*SalesTrendPoint
	err := db.WithContext(ctx).Raw(`
		SELECT DATE(created_at) AS day,
		       COALESCE(SUM(-quantity), 0) AS units_sold,
		       COALESCE(SUM(total_price), 0) AS revenue,
		       COUNT(*) AS sale_count
		FROM transactions
		WHERE type = 'sale' AND created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY day ASC`, since).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

type TurnoverRow struct {
	InventoryId  int             `json:"inventory_id"`
	Name         string          `json:"name"`
	Sku          string          `json:"sku"`
	CurrentStock int             `json:"current_stock"`
	TotalSold    int             `json:"total_sold"`
	TurnoverRate decimal.Decimal `json:"turnover_rate"`
}

// GetInventoryTurnover ranks items by units sold relative to stock on hand.
func GetInventoryTurnover(ctx context.Context, limit int) ([]*TurnoverRow, error) {
	if limit <= 0 {
		limit = 20
	}
	db := config.GetDB()
	var rows []*TurnoverRow
	err := db.WithContext(ctx).Raw(`
		SELECT id AS inventory_id, name, sku, current_stock, total_sold,
		       ROUND(total_sold / GREATEST(current_stock, 1), 2) AS turnover_rate
		FROM inventories
		WHERE status = 'active'
		ORDER BY turnover_rate DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type SupplierPerformanceRow struct {
	SupplierId     int             `json:"supplier_id"`
	Name           string          `json:"name"`
	TotalOrders    int             `json:"total_orders"`
	ReceivedOrders int             `json:"received_orders"`
	OnTimeOrders   int             `json:"on_time_orders"`
	OnTimeRate     decimal.Decimal `json:"on_time_rate"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Rating         int             `json:"rating"`
}

// GetSupplierPerformance computes on-time delivery rates from received
// orders that carried an expected delivery date.
func GetSupplierPerformance(ctx context.Context) ([]*SupplierPerformanceRow, error) {
	db := config.GetDB()
	var rows []*SupplierPerformanceRow
	err := db.WithContext(ctx).Raw(`
		SELECT s.id AS supplier_id, s.name, s.rating, s.total_value,
		       COUNT(p.id) AS total_orders,
		       COALESCE(SUM(p.status = 'received'), 0) AS received_orders,
		       COALESCE(SUM(p.status = 'received'
		           AND p.expected_delivery IS NOT NULL
		           AND p.received_date <= p.expected_delivery), 0) AS on_time_orders,
		       ROUND(COALESCE(SUM(p.status = 'received'
		           AND p.expected_delivery IS NOT NULL
		           AND p.received_date <= p.expected_delivery), 0)
		           / GREATEST(COALESCE(SUM(p.status = 'received'
		               AND p.expected_delivery IS NOT NULL), 0), 1) * 100, 2) AS on_time_rate
		FROM suppliers s
		LEFT JOIN purchases p ON p.supplier_id = s.id
		GROUP BY s.id, s.name, s.rating, s.total_value
		ORDER BY on_time_rate DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type CategoryAnalysisRow struct {
	Category   string          `json:"category"`
	ItemCount  int             `json:"item_count"`
	StockValue decimal.Decimal `json:"stock_value"`
	TotalSold  int             `json:"total_sold"`
	LowStock   int             `json:"low_stock"`
}

func GetCategoryAnalysis(ctx context.Context) ([]*CategoryAnalysisRow, error) {
	db := config.GetDB()
	var rows []*CategoryAnalysisRow
	err := db.WithContext(ctx).Raw(`
		SELECT category,
		       COUNT(*) AS item_count,
		       COALESCE(SUM(current_stock * cost_price), 0) AS stock_value,
		       COALESCE(SUM(total_sold), 0) AS total_sold,
		       COALESCE(SUM(current_stock <= reorder_point), 0) AS low_stock
		FROM inventories
		WHERE status = 'active'
		GROUP BY category
		ORDER BY stock_value DESC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecordSale applies an outbound movement for one item and appends the
// matching sale ledger row. Quantity is the units sold, always positive.
func RecordSale(ctx context.Context, inventoryId int, quantity int, reference string, notes string) (*Inventory, error) {
	if quantity <= 0 {
		return nil, utils.NewFieldValidationError(map[string]string{"quantity": "must be greater than zero"})
	}

	release, err := utils.StockLock(ctx, "inventory", "models", "RecordSale")
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := utils.FetchModel[Inventory](ctx, inventoryId)
	if err != nil {
		return nil, err
	}
	if item.CurrentStock < quantity {
		return nil, utils.NewValidationError(fmt.Sprintf("insufficient stock: %d on hand", item.CurrentStock))
	}

	soldAt := Now()
	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := tx.Model(&Inventory{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"current_stock": item.CurrentStock - quantity,
			"total_sold":    item.TotalSold + quantity,
			"last_sold":     soldAt,
		}).Error; err != nil {
		return nil, err
	}

	txn := Transaction{
		InventoryId: item.ID,
		Type:        TransactionTypeSale,
		Quantity:    -quantity,
		UnitPrice:   item.SellingPrice,
		TotalPrice:  item.SellingPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Reference:   reference,
		Notes:       notes,
		CreatedBy:   actorId(ctx),
		Location:    item.Location,
	}
	if err := appendTransaction(tx, &txn); err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	item.CurrentStock -= quantity
	item.TotalSold += quantity
	item.LastSold = &soldAt
	_ = utils.RemoveRedisItem[Inventory](item.ID)
	InvalidateDashboardCache()

	if config.PublishStockEvents() && item.NeedsReorder() {
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		msg := config.StockEventMessage{
			EventType:     "inventory.low_stock",
			ReferenceId:   item.ID,
			ReferenceType: "inventory",
			InventoryId:   item.ID,
			Sku:           item.Sku,
			Quantity:      item.CurrentStock,
			OccurredAt:    soldAt,
			CorrelationId: correlationId,
		}
		if err := config.PublishStockEvent(msg); err != nil {
			config.LogError(config.GetLogger(), "models", "RecordSale", item.Sku, msg, err)
		}
	}
	return item, nil
}
