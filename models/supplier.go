package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
)

type PaymentTerms string

const (
	PaymentTermsNet15   PaymentTerms = "net_15"
	PaymentTermsNet30   PaymentTerms = "net_30"
	PaymentTermsNet45   PaymentTerms = "net_45"
	PaymentTermsNet60   PaymentTerms = "net_60"
	PaymentTermsCod     PaymentTerms = "cod"
	PaymentTermsPrepaid PaymentTerms = "prepaid"
)

type SupplierStatus string

const (
	SupplierStatusActive    SupplierStatus = "active"
	SupplierStatusInactive  SupplierStatus = "inactive"
	SupplierStatusSuspended SupplierStatus = "suspended"
)

type Address struct {
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zip_code"`
	Country string `gorm:"size:100" json:"country"`
}

type Supplier struct {
	ID            int            `gorm:"primary_key" json:"id"`
	Name          string         `gorm:"size:100;not null;index" json:"name" binding:"required"`
	ContactPerson string         `gorm:"size:100;not null" json:"contact_person" binding:"required"`
	Email         string         `gorm:"size:100;not null;index" json:"email" binding:"required"`
	Phone         string         `gorm:"size:20;not null" json:"phone" binding:"required"`
	Address       Address        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Website       string         `gorm:"size:255" json:"website"`
	TaxId         string         `gorm:"size:50" json:"tax_id"`
	PaymentTerms  PaymentTerms   `gorm:"type:enum('net_15','net_30','net_45','net_60','cod','prepaid');default:'net_30'" json:"payment_terms"`
	// days
	LeadTime     int             `gorm:"not null;default:7" json:"lead_time"`
	MinimumOrder int             `gorm:"default:0" json:"minimum_order"`
	Rating       int             `gorm:"default:3" json:"rating"`
	Status       SupplierStatus  `gorm:"type:enum('active','inactive','suspended');default:'active';index" json:"status"`
	Notes        string          `gorm:"type:text" json:"notes"`
	TotalOrders  int             `gorm:"default:0" json:"total_orders"`
	TotalValue   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_value"`
	LastOrderDate *time.Time     `json:"last_order_date"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name          string         `json:"name" binding:"required"`
	ContactPerson string         `json:"contact_person" binding:"required"`
	Email         string         `json:"email" binding:"required"`
	Phone         string         `json:"phone" binding:"required"`
	Address       Address        `json:"address"`
	Website       string         `json:"website"`
	TaxId         string         `json:"tax_id"`
	PaymentTerms  PaymentTerms   `json:"payment_terms"`
	LeadTime      int            `json:"lead_time"`
	MinimumOrder  int            `json:"minimum_order"`
	Rating        int            `json:"rating"`
	Status        SupplierStatus `json:"status"`
	Notes         string         `json:"notes"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewSupplier) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Supplier](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if !utils.IsValidEmail(input.Email) {
		return utils.NewFieldValidationError(map[string]string{"email": "must be a valid email"})
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewFieldValidationError(map[string]string{"phone": "must be a valid phone number"})
		}
	}
	if input.LeadTime < 0 {
		return utils.NewFieldValidationError(map[string]string{"lead_time": "must not be negative"})
	}
	if input.MinimumOrder < 0 {
		return utils.NewFieldValidationError(map[string]string{"minimum_order": "must not be negative"})
	}
	if input.Rating != 0 && (input.Rating < 1 || input.Rating > 5) {
		return utils.NewFieldValidationError(map[string]string{"rating": "must be between 1 and 5"})
	}
	return nil
}

func applySupplierDefaults(input *NewSupplier) {
	if input.PaymentTerms == "" {
		input.PaymentTerms = PaymentTermsNet30
	}
	if input.LeadTime == 0 {
		input.LeadTime = 7
	}
	if input.Rating == 0 {
		input.Rating = 3
	}
	if input.Status == "" {
		input.Status = SupplierStatusActive
	}
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	applySupplierDefaults(input)

	supplier := Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		Website:       input.Website,
		TaxId:         input.TaxId,
		PaymentTerms:  input.PaymentTerms,
		LeadTime:      input.LeadTime,
		MinimumOrder:  input.MinimumOrder,
		Rating:        input.Rating,
		Status:        input.Status,
		Notes:         input.Notes,
	}

	db := config.GetDB()
	// db action
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	applySupplierDefaults(input)

	supplier.Name = input.Name
	supplier.ContactPerson = input.ContactPerson
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.Website = input.Website
	supplier.TaxId = input.TaxId
	supplier.PaymentTerms = input.PaymentTerms
	supplier.LeadTime = input.LeadTime
	supplier.MinimumOrder = input.MinimumOrder
	supplier.Rating = input.Rating
	supplier.Status = input.Status
	supplier.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Supplier](id)
	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(supplier).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Supplier](id)
	return supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	if cached, err := utils.RetrieveRedis[Supplier](id); err == nil && cached != nil {
		return cached, nil
	}

	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}
	_ = utils.StoreRedis[Supplier](supplier, id)
	return supplier, nil
}

type SupplierFilter struct {
	Status string
	Search string
}

func PaginateSuppliers(ctx context.Context, filter SupplierFilter, page int, limit int) ([]*Supplier, utils.Pagination, error) {
	db := config.GetDB()
	page, limit, offset := utils.PageLimitOffset(page, limit)

	dbCtx := db.WithContext(ctx).Model(&Supplier{})
	if filter.Status != "" {
		dbCtx = dbCtx.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR contact_person LIKE ? OR email LIKE ?", like, like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	var results []*Supplier
	if err := dbCtx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	return results, utils.NewPagination(page, limit, total), nil
}

type SupplierStats struct {
	TotalItems      int64           `json:"total_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockItems   int64           `json:"low_stock_items"`
	TotalOrders     int             `json:"total_orders"`
	TotalOrderValue decimal.Decimal `json:"total_order_value"`
	AverageRating   int             `json:"average_rating"`
}

func GetSupplierStats(ctx context.Context, id int) (*SupplierStats, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	stats := SupplierStats{
		TotalOrders:     supplier.TotalOrders,
		TotalOrderValue: supplier.TotalValue,
		AverageRating:   supplier.Rating,
	}

	if err := db.WithContext(ctx).Model(&Inventory{}).
		Where("supplier_id = ?", id).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Select("COALESCE(SUM(current_stock * cost_price), 0)").
		Where("supplier_id = ?", id).Scan(&stats.TotalValue).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Inventory{}).
		Where("supplier_id = ? AND current_stock <= reorder_point", id).
		Count(&stats.LowStockItems).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
