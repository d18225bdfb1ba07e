package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusOrdered   PurchaseStatus = "ordered"
	PurchaseStatusReceived  PurchaseStatus = "received"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusPending, PurchaseStatusOrdered, PurchaseStatusReceived, PurchaseStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the order lifecycle. Received and cancelled are
// terminal.
func (s PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	switch s {
	case PurchaseStatusPending:
		return next == PurchaseStatusOrdered || next == PurchaseStatusReceived || next == PurchaseStatusCancelled
	case PurchaseStatusOrdered:
		return next == PurchaseStatusReceived || next == PurchaseStatusCancelled
	}
	return false
}

type PurchaseItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	PurchaseId  int             `gorm:"index;not null" json:"purchase_id"`
	InventoryId int             `gorm:"index;not null" json:"inventory_id"`
	Inventory   *Inventory      `gorm:"foreignKey:InventoryId" json:"inventory,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_cost"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_cost"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type Purchase struct {
	ID             int             `gorm:"primary_key" json:"id"`
	SequenceNo     int64           `gorm:"column:sequence_no;uniqueIndex" json:"sequence_no"`
	PurchaseNumber string          `gorm:"size:20;uniqueIndex" json:"purchase_number"`
	SupplierId     int             `gorm:"index;not null" json:"supplier_id"`
	Supplier       *Supplier       `gorm:"foreignKey:SupplierId" json:"supplier,omitempty"`
	Items          []*PurchaseItem `gorm:"foreignKey:PurchaseId" json:"items"`
	Status         PurchaseStatus  `gorm:"type:enum('pending','ordered','received','cancelled');default:'pending';index" json:"status"`

	Subtotal decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	Tax      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax"`
	Shipping decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"shipping"`
	Total    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`

	OrderDate        time.Time  `gorm:"not null" json:"order_date"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
	ReceivedDate     *time.Time `json:"received_date"`

	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedBy  int       `gorm:"not null" json:"created_by"`
	ApprovedBy *int      `gorm:"index" json:"approved_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FormatPurchaseNumber renders the human-facing order number from the
// atomic sequence.
func FormatPurchaseNumber(seqNo int64) string {
	return fmt.Sprintf("PO-%06d", seqNo)
}

// computePurchaseTotals recomputes every line total and the order totals
// from quantities and unit costs. Client-supplied totals are never trusted.
func computePurchaseTotals(items []*PurchaseItem, tax decimal.Decimal, shipping decimal.Decimal) (subtotal decimal.Decimal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		item.TotalCost = item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(item.TotalCost)
	}
	total = subtotal.Add(tax).Add(shipping)
	return subtotal, total
}

// unitCostOrFallback distinguishes an absent unit price from an explicit
// zero. A zero-priced line is legal (free goods); only a missing price
// falls back to the item's cost.
func unitCostOrFallback(price *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if price == nil {
		return fallback
	}
	return *price
}

// buildPurchaseItems resolves line prices, reading the item cost only when
// the caller left the price out.
func buildPurchaseItems(ctx context.Context, lines []NewPurchaseItem) ([]*PurchaseItem, error) {
	items := make([]*PurchaseItem, 0, len(lines))
	for _, line := range lines {
		fallback := decimal.Zero
		if line.UnitCost == nil {
			item, err := utils.FetchModel[Inventory](ctx, line.InventoryId)
			if err != nil {
				return nil, err
			}
			fallback = item.CostPrice
		}
		items = append(items, &PurchaseItem{
			InventoryId: line.InventoryId,
			Quantity:    line.Quantity,
			UnitCost:    unitCostOrFallback(line.UnitCost, fallback),
		})
	}
	return items, nil
}

type NewPurchaseItem struct {
	InventoryId int              `json:"inventory_id" binding:"required"`
	Quantity    int              `json:"quantity" binding:"required"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
}

type NewPurchase struct {
	SupplierId       int               `json:"supplier_id" binding:"required"`
	Items            []NewPurchaseItem `json:"items" binding:"required,min=1,dive"`
	Tax              decimal.Decimal   `json:"tax"`
	Shipping         decimal.Decimal   `json:"shipping"`
	ExpectedDelivery *time.Time        `json:"expected_delivery"`
	Notes            string            `json:"notes"`
}

func (input *NewPurchase) validate(ctx context.Context) error {
	if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
		return err
	}
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return utils.NewFieldValidationError(map[string]string{
				fmt.Sprintf("items[%d].quantity", i): "must be greater than zero",
			})
		}
		if item.UnitCost != nil && item.UnitCost.IsNegative() {
			return utils.NewFieldValidationError(map[string]string{
				fmt.Sprintf("items[%d].unit_cost", i): "must not be negative",
			})
		}
	}
	inventoryIds := make([]int, 0, len(input.Items))
	for _, item := range input.Items {
		inventoryIds = append(inventoryIds, item.InventoryId)
	}
	count, err := utils.ResourceCountWhere[Inventory](ctx, "id IN ?", utils.UniqueSlice(inventoryIds))
	if err != nil {
		return err
	}
	if count != int64(len(utils.UniqueSlice(inventoryIds))) {
		return utils.NewValidationError("one or more inventory items do not exist")
	}
	return nil
}

func CreatePurchase(ctx context.Context, input *NewPurchase) (*Purchase, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	seqNo, err := utils.GetSequence[Purchase](ctx)
	if err != nil {
		return nil, err
	}

	items, err := buildPurchaseItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	subtotal, total := computePurchaseTotals(items, input.Tax, input.Shipping)

	purchase := Purchase{
		SequenceNo:       seqNo,
		PurchaseNumber:   FormatPurchaseNumber(seqNo),
		SupplierId:       input.SupplierId,
		Items:            items,
		Status:           PurchaseStatusPending,
		Subtotal:         subtotal,
		Tax:              input.Tax,
		Shipping:         input.Shipping,
		Total:            total,
		OrderDate:        Now(),
		ExpectedDelivery: input.ExpectedDelivery,
		Notes:            input.Notes,
		CreatedBy:        actorId(ctx),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&purchase).Error; err != nil {
		if isDuplicateKeyErr(err) {
			// sequence collision under concurrent creation
			return nil, utils.ErrorConflict
		}
		return nil, err
	}
	return &purchase, nil
}

// approverFor records who moved the order forward. Cancellation is not an
// approval.
func approverFor(ctx context.Context, next PurchaseStatus) *int {
	if next != PurchaseStatusOrdered && next != PurchaseStatusReceived {
		return nil
	}
	if id := actorId(ctx); id != 0 {
		return &id
	}
	return nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

// UpdatePurchase edits line items and charges. Only pending orders can be
// edited; anything later has already been sent to the supplier.
func UpdatePurchase(ctx context.Context, id int, input *NewPurchase) (*Purchase, error) {
	purchase, err := utils.FetchModel[Purchase](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	if purchase.Status != PurchaseStatusPending {
		return nil, utils.ErrorInvalidTransition
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	items, err := buildPurchaseItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.PurchaseId = purchase.ID
	}
	subtotal, total := computePurchaseTotals(items, input.Tax, input.Shipping)

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&PurchaseItem{}).Error; err != nil {
		return nil, err
	}
	purchase.SupplierId = input.SupplierId
	purchase.Items = items
	purchase.Subtotal = subtotal
	purchase.Tax = input.Tax
	purchase.Shipping = input.Shipping
	purchase.Total = total
	purchase.ExpectedDelivery = input.ExpectedDelivery
	purchase.Notes = input.Notes

	if err := tx.Save(purchase).Error; err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Purchase](id)
	return purchase, nil
}

// UpdatePurchaseStatus moves an order through its lifecycle. The received
// transition claims the row with a conditional update so concurrent calls
// reconcile stock at most once.
func UpdatePurchaseStatus(ctx context.Context, id int, next PurchaseStatus) (*Purchase, error) {
	if !next.IsValid() {
		return nil, utils.NewFieldValidationError(map[string]string{"status": "unknown status"})
	}

	purchase, err := utils.FetchModel[Purchase](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	if !purchase.Status.CanTransitionTo(next) {
		return nil, utils.ErrorInvalidTransition
	}

	db := config.GetDB()
	approver := approverFor(ctx, next)

	if next != PurchaseStatusReceived {
		updates := map[string]interface{}{"status": next}
		if approver != nil {
			updates["approved_by"] = approver
		}
		result := db.WithContext(ctx).Model(&Purchase{}).
			Where("id = ? AND status = ?", id, purchase.Status).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, utils.ErrorConflict
		}
		purchase.Status = next
		if approver != nil {
			purchase.ApprovedBy = approver
		}
		_ = utils.RemoveRedisItem[Purchase](id)
		return purchase, nil
	}

	release, err := utils.StockLock(ctx, "purchase", "models", "UpdatePurchaseStatus")
	if err != nil {
		return nil, err
	}
	defer release()

	receivedAt := Now()
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// claim the order; losers of the race see zero rows and back off
	claim := map[string]interface{}{
		"status":        PurchaseStatusReceived,
		"received_date": receivedAt,
	}
	if approver != nil {
		claim["approved_by"] = approver
	}
	result := tx.Model(&Purchase{}).
		Where("id = ? AND status IN ('pending','ordered')", id).
		Updates(claim)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorConflict
	}

	if err := receivePurchaseItems(ctx, tx, purchase, receivedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	purchase.Status = PurchaseStatusReceived
	purchase.ReceivedDate = &receivedAt
	if approver != nil {
		purchase.ApprovedBy = approver
	}
	_ = utils.RemoveRedisItem[Purchase](id)

	publishReceivedEvents(ctx, purchase)
	return purchase, nil
}

// DeletePurchase removes an order. Received orders have already moved stock
// and are immutable history.
func DeletePurchase(ctx context.Context, id int) (*Purchase, error) {
	purchase, err := utils.FetchModel[Purchase](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	if purchase.Status == PurchaseStatusReceived {
		return nil, utils.ErrorConflict
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&PurchaseItem{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(purchase).Error; err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Purchase](id)
	return purchase, nil
}

func GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	if cached, err := utils.RetrieveRedis[Purchase](id); err == nil && cached != nil {
		return cached, nil
	}

	purchase, err := utils.FetchModel[Purchase](ctx, id, "Items", "Supplier")
	if err != nil {
		return nil, err
	}
	_ = utils.StoreRedis[Purchase](purchase, id)
	return purchase, nil
}

type PurchaseFilter struct {
	Status     string
	SupplierId int
	Search     string
}

func PaginatePurchases(ctx context.Context, filter PurchaseFilter, page int, limit int) ([]*Purchase, utils.Pagination, error) {
	db := config.GetDB()
	page, limit, offset := utils.PageLimitOffset(page, limit)

	dbCtx := db.WithContext(ctx).Model(&Purchase{})
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.SupplierId != 0 {
		dbCtx = dbCtx.Where("supplier_id = ?", filter.SupplierId)
	}
	if filter.Search != "" {
		dbCtx = dbCtx.Where("purchase_number LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	var results []*Purchase
	if err := dbCtx.Preload("Items").Preload("Supplier").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	return results, utils.NewPagination(page, limit, total), nil
}

// refreshSupplierOrderStats rolls order counts and value up to the supplier
// after an order is received.
func refreshSupplierOrderStats(tx *gorm.DB, purchase *Purchase, receivedAt time.Time) error {
	return tx.Model(&Supplier{}).
		Where("id = ?", purchase.SupplierId).
		Updates(map[string]interface{}{
			"total_orders":    gorm.Expr("total_orders + 1"),
			"total_value":     gorm.Expr("total_value + ?", purchase.Total),
			"last_order_date": receivedAt,
		}).Error
}
