package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/middlewares"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
)

func ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	page, limit := pageAndLimit(c)
	filter := models.TransactionFilter{
		InventoryId: queryInt(c, "inventory_id", 0),
		Type:        c.Query("type"),
	}

	transactions, pagination, err := models.PaginateTransactions(ctx, filter, page, limit)
	if err != nil {
		respondError(c, "handlers", "ListTransactions", err)
		return
	}

	// batched item lookup, one query for the whole page
	itemIds := make([]int, 0, len(transactions))
	for _, txn := range transactions {
		itemIds = append(itemIds, txn.InventoryId)
	}
	itemIds = utils.UniqueSlice(itemIds)
	items, _ := middlewares.GetInventoryItems(ctx, itemIds)

	itemById := make(map[int]*models.Inventory, len(items))
	supplierIds := make([]int, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		itemById[item.ID] = item
		if item.SupplierId != 0 {
			supplierIds = append(supplierIds, item.SupplierId)
		}
	}

	suppliers, _ := middlewares.GetSuppliers(ctx, utils.UniqueSlice(supplierIds))
	supplierById := make(map[int]*models.Supplier, len(suppliers))
	for _, supplier := range suppliers {
		if supplier != nil {
			supplierById[supplier.ID] = supplier
		}
	}

	rows := make([]gin.H, 0, len(transactions))
	for _, txn := range transactions {
		row := gin.H{"transaction": txn}
		if item := itemById[txn.InventoryId]; item != nil {
			row["item"] = gin.H{"id": item.ID, "sku": item.Sku, "name": item.Name}
			if supplier := supplierById[item.SupplierId]; supplier != nil {
				row["supplier"] = gin.H{"id": supplier.ID, "name": supplier.Name}
			}
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, gin.H{"transactions": rows, "pagination": pagination})
}
