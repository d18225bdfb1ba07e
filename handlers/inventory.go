package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func ListInventory(c *gin.Context) {
	page, limit := pageAndLimit(c)
	filter := models.InventoryFilter{
		Category:    c.Query("category"),
		StockStatus: models.StockStatus(c.Query("stock_status")),
		SupplierId:  queryInt(c, "supplier_id", 0),
		Search:      c.Query("search"),
		ActiveOnly:  c.DefaultQuery("include_inactive", "false") != "true",
	}

	items, pagination, err := models.PaginateInventory(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, "handlers", "ListInventory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": withStockStatus(items), "pagination": pagination})
}

// withStockStatus decorates rows with the derived stock classification.
func withStockStatus(items []*models.Inventory) []gin.H {
	decorated := make([]gin.H, 0, len(items))
	for _, item := range items {
		decorated = append(decorated, gin.H{
			"item":          item,
			"stock_status":  item.StockStatus(),
			"needs_reorder": item.NeedsReorder(),
			"profit_margin": item.ProfitMargin(),
		})
	}
	return decorated
}

func GetInventory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	item, err := models.GetInventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetInventory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":          item,
		"stock_status":  item.StockStatus(),
		"needs_reorder": item.NeedsReorder(),
		"profit_margin": item.ProfitMargin(),
	})
}

func CreateInventory(c *gin.Context) {
	var input models.NewInventory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "CreateInventory", err)
		return
	}

	item, err := models.CreateInventory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateInventory", err)
		return
	}
	models.InvalidateDashboardCache()
	c.JSON(http.StatusCreated, item)
}

func UpdateInventory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewInventory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "UpdateInventory", err)
		return
	}

	item, err := models.UpdateInventory(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateInventory", err)
		return
	}
	models.InvalidateDashboardCache()
	c.JSON(http.StatusOK, item)
}

func DeleteInventory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	item, err := models.DeleteInventory(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteInventory", err)
		return
	}
	models.InvalidateDashboardCache()
	c.JSON(http.StatusOK, item)
}

func ListCategories(c *gin.Context) {
	categories, err := models.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func ListLowStock(c *gin.Context) {
	items, err := models.GetLowStockItems(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "ListLowStock", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": withStockStatus(items)})
}

type saleInput struct {
	Quantity  int    `json:"quantity" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

func RecordSale(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input saleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "RecordSale", err)
		return
	}

	item, err := models.RecordSale(c.Request.Context(), id, input.Quantity, input.Reference, input.Notes)
	if err != nil {
		respondError(c, "handlers", "RecordSale", err)
		return
	}
	c.JSON(http.StatusOK, item)
}
