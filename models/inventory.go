package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusCritical   StockStatus = "critical"
	StockStatusInStock    StockStatus = "in_stock"
)

// StockItemStatus is the item lifecycle. Discontinued items stay queryable
// for history but drop out of every active-stock view.
type StockItemStatus string

const (
	StockItemStatusActive       StockItemStatus = "active"
	StockItemStatusInactive     StockItemStatus = "inactive"
	StockItemStatusDiscontinued StockItemStatus = "discontinued"
)

func (s StockItemStatus) IsValid() bool {
	switch s {
	case StockItemStatusActive, StockItemStatusInactive, StockItemStatusDiscontinued:
		return true
	}
	return false
}

type Inventory struct {
	ID          int    `gorm:"primary_key" json:"id"`
	Name        string `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Sku         string `gorm:"size:50;not null;uniqueIndex" json:"sku" binding:"required"`
	Description string `gorm:"size:500" json:"description"`
	Category    string `gorm:"size:100;not null;index" json:"category" binding:"required"`
	Brand       string `gorm:"size:100" json:"brand"`
	Unit        string `gorm:"size:20;not null;default:'pcs'" json:"unit"`

	CostPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cost_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"selling_price"`

	CurrentStock int `gorm:"not null;default:0" json:"current_stock"`
	MinStock     int `gorm:"not null;default:10" json:"min_stock"`
	MaxStock     int `gorm:"not null;default:100" json:"max_stock"`
	ReorderPoint int `gorm:"not null;default:20" json:"reorder_point"`

	// legacy free-text supplier reference, kept until all rows carry SupplierId
	SupplierName string    `gorm:"size:100" json:"supplier_name,omitempty"`
	SupplierId   int       `gorm:"index;default:null" json:"supplier_id,omitempty"`
	Supplier     *Supplier `gorm:"foreignKey:SupplierId" json:"supplier,omitempty"`

	Location string   `gorm:"size:100;default:'Main Warehouse'" json:"location"`
	Tags     []string `gorm:"serializer:json" json:"tags"`
	Images   []string `gorm:"serializer:json" json:"images"`

	TotalSold      int        `gorm:"default:0" json:"total_sold"`
	TotalPurchased int        `gorm:"default:0" json:"total_purchased"`
	LastSold       *time.Time `json:"last_sold"`
	LastRestocked  *time.Time `json:"last_restocked"`

	Status    StockItemStatus `gorm:"type:enum('active','inactive','discontinued');default:'active';index" json:"status"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StockStatus classifies the on-hand level against the item's thresholds.
func (item *Inventory) StockStatus() StockStatus {
	switch {
	case item.CurrentStock == 0:
		return StockStatusOutOfStock
	case item.CurrentStock <= item.MinStock:
		return StockStatusCritical
	case item.CurrentStock <= item.ReorderPoint:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

func (item *Inventory) NeedsReorder() bool {
	return item.CurrentStock <= item.ReorderPoint
}

func (item *Inventory) ProfitMargin() decimal.Decimal {
	if item.SellingPrice.IsZero() {
		return decimal.Zero
	}
	return item.SellingPrice.Sub(item.CostPrice).
		Div(item.SellingPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// NormalizeSku uppercases and trims so lookups are case-insensitive.
func NormalizeSku(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

type NewInventory struct {
	Name         string          `json:"name" binding:"required"`
	Sku          string          `json:"sku" binding:"required"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"required"`
	Brand        string          `json:"brand"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CurrentStock int             `json:"current_stock"`
	MinStock     *int            `json:"min_stock"`
	MaxStock     *int            `json:"max_stock"`
	ReorderPoint *int            `json:"reorder_point"`
	SupplierId   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Location     string          `json:"location"`
	Tags         []string        `json:"tags"`
	Images       []string        `json:"images"`
	Status       StockItemStatus `json:"status"`
}

func (input *NewInventory) validate(ctx context.Context, id int) error {
	input.Sku = NormalizeSku(input.Sku)
	if input.Sku == "" {
		return utils.NewFieldValidationError(map[string]string{"sku": "must not be empty"})
	}
	if err := utils.ValidateUnique[Inventory](ctx, "sku", input.Sku, id); err != nil {
		return err
	}
	if input.CostPrice.IsNegative() || input.SellingPrice.IsNegative() {
		return utils.NewFieldValidationError(map[string]string{"price": "must not be negative"})
	}
	if input.CurrentStock < 0 {
		return utils.NewFieldValidationError(map[string]string{"current_stock": "must not be negative"})
	}
	if input.Status != "" && !input.Status.IsValid() {
		return utils.NewFieldValidationError(map[string]string{"status": "must be active, inactive or discontinued"})
	}
	if input.SupplierId != 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, input.SupplierId); err != nil {
			return err
		}
	}
	return nil
}

func intOrDefault(value *int, fallback int) int {
	if value != nil {
		return *value
	}
	return fallback
}

func CreateInventory(ctx context.Context, input *NewInventory) (*Inventory, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	if input.Unit == "" {
		input.Unit = "pcs"
	}
	if input.Location == "" {
		input.Location = "Main Warehouse"
	}
	if input.Status == "" {
		input.Status = StockItemStatusActive
	}

	item := Inventory{
		Name:         input.Name,
		Sku:          input.Sku,
		Description:  input.Description,
		Category:     input.Category,
		Brand:        input.Brand,
		Unit:         input.Unit,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		CurrentStock: input.CurrentStock,
		MinStock:     intOrDefault(input.MinStock, 10),
		MaxStock:     intOrDefault(input.MaxStock, 100),
		ReorderPoint: intOrDefault(input.ReorderPoint, 20),
		SupplierId:   input.SupplierId,
		SupplierName: input.SupplierName,
		Location:     input.Location,
		Tags:         input.Tags,
		Images:       input.Images,
		Status:       input.Status,
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	if item.CurrentStock > 0 {
		txn := Transaction{
			InventoryId: item.ID,
			Type:        TransactionTypeAdjustment,
			Quantity:    item.CurrentStock,
			UnitPrice:   item.CostPrice,
			TotalPrice:  item.CostPrice.Mul(decimal.NewFromInt(int64(item.CurrentStock))),
			Reference:   "initial stock",
			CreatedBy:   actorId(ctx),
			Location:    item.Location,
		}
		if err := appendTransaction(tx, &txn); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateInventory(ctx context.Context, id int, input *NewInventory) (*Inventory, error) {
	release, err := utils.StockLock(ctx, "inventory", "models", "UpdateInventory")
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := utils.FetchModel[Inventory](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	previousStock := item.CurrentStock

	item.Name = input.Name
	item.Sku = input.Sku
	item.Description = input.Description
	item.Category = input.Category
	item.Brand = input.Brand
	if input.Unit != "" {
		item.Unit = input.Unit
	}
	item.CostPrice = input.CostPrice
	item.SellingPrice = input.SellingPrice
	item.CurrentStock = input.CurrentStock
	item.MinStock = intOrDefault(input.MinStock, item.MinStock)
	item.MaxStock = intOrDefault(input.MaxStock, item.MaxStock)
	item.ReorderPoint = intOrDefault(input.ReorderPoint, item.ReorderPoint)
	item.SupplierId = input.SupplierId
	item.SupplierName = input.SupplierName
	if input.Location != "" {
		item.Location = input.Location
	}
	item.Tags = input.Tags
	item.Images = input.Images
	if input.Status != "" {
		item.Status = input.Status
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := tx.Save(item).Error; err != nil {
		return nil, err
	}
	// a manual stock edit lands in the ledger as an adjustment
	if delta := item.CurrentStock - previousStock; delta != 0 {
		txn := Transaction{
			InventoryId: item.ID,
			Type:        TransactionTypeAdjustment,
			Quantity:    delta,
			UnitPrice:   item.CostPrice,
			TotalPrice:  item.CostPrice.Mul(decimal.NewFromInt(int64(delta))).Abs(),
			Reference:   "manual adjustment",
			CreatedBy:   actorId(ctx),
			Location:    item.Location,
		}
		if err := appendTransaction(tx, &txn); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Inventory](id)
	return item, nil
}

func DeleteInventory(ctx context.Context, id int) (*Inventory, error) {
	item, err := utils.FetchModel[Inventory](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(item).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Inventory](id)
	return item, nil
}

func GetInventory(ctx context.Context, id int) (*Inventory, error) {
	item, err := utils.FetchModel[Inventory](ctx, id)
	if err != nil {
		return nil, err
	}
	resolveSupplierNames(ctx, item)
	return item, nil
}

type InventoryFilter struct {
	Category    string
	StockStatus StockStatus
	SupplierId  int
	Search      string
	ActiveOnly  bool
}

func PaginateInventory(ctx context.Context, filter InventoryFilter, page int, limit int) ([]*Inventory, utils.Pagination, error) {
	db := config.GetDB()
	page, limit, offset := utils.PageLimitOffset(page, limit)

	dbCtx := db.WithContext(ctx).Model(&Inventory{})
	if filter.ActiveOnly {
		dbCtx = dbCtx.Where("status = ?", StockItemStatusActive)
	}
	if filter.Category != "" {
		dbCtx = dbCtx.Where("category = ?", filter.Category)
	}
	if filter.SupplierId != 0 {
		dbCtx = dbCtx.Where("supplier_id = ?", filter.SupplierId)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR sku LIKE ? OR brand LIKE ?", like, like, like)
	}
	switch filter.StockStatus {
	case StockStatusOutOfStock:
		dbCtx = dbCtx.Where("current_stock = 0")
	case StockStatusCritical:
		dbCtx = dbCtx.Where("current_stock > 0 AND current_stock <= min_stock")
	case StockStatusLowStock:
		dbCtx = dbCtx.Where("current_stock > min_stock AND current_stock <= reorder_point")
	case StockStatusInStock:
		dbCtx = dbCtx.Where("current_stock > reorder_point")
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	var results []*Inventory
	if err := dbCtx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	resolveSupplierNames(ctx, results...)
	return results, utils.NewPagination(page, limit, total), nil
}

// resolveSupplierNames backfills SupplierName from the suppliers table for
// rows that reference one. Legacy rows keep their free-text name.
func resolveSupplierNames(ctx context.Context, items ...*Inventory) {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if item.SupplierId != 0 {
			ids = append(ids, item.SupplierId)
		}
	}
	if len(ids) == 0 {
		return
	}

	db := config.GetDB()
	var suppliers []*Supplier
	if err := db.WithContext(ctx).Where("id IN ?", utils.UniqueSlice(ids)).Find(&suppliers).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "resolveSupplierNames", "batch lookup", ids, err)
		return
	}
	byId := make(map[int]*Supplier, len(suppliers))
	for _, supplier := range suppliers {
		byId[supplier.ID] = supplier
	}
	for _, item := range items {
		if supplier, ok := byId[item.SupplierId]; ok {
			item.SupplierName = supplier.Name
			item.Supplier = supplier
		}
	}
}

func GetCategories(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var categories []string
	err := db.WithContext(ctx).Model(&Inventory{}).
		Where("status = ?", StockItemStatusActive).
		Distinct().Order("category").Pluck("category", &categories).Error
	return categories, err
}

// AppendInventoryImage adds one stored image URL to the item.
func AppendInventoryImage(ctx context.Context, id int, imageURL string) (*Inventory, error) {
	item, err := utils.FetchModel[Inventory](ctx, id)
	if err != nil {
		return nil, err
	}
	item.Images = append(item.Images, imageURL)

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(item).Update("images", item.Images).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Inventory](id)
	return item, nil
}

func GetAllInventory(ctx context.Context) ([]*Inventory, error) {
	db := config.GetDB()
	var items []*Inventory
	err := db.WithContext(ctx).
		Where("status = ?", StockItemStatusActive).
		Order("sku ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	resolveSupplierNames(ctx, items...)
	return items, nil
}

func GetLowStockItems(ctx context.Context) ([]*Inventory, error) {
	db := config.GetDB()
	var items []*Inventory
	err := db.WithContext(ctx).
		Where("status = ? AND current_stock <= reorder_point", StockItemStatusActive).
		Order("current_stock ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	resolveSupplierNames(ctx, items...)
	return items, nil
}
