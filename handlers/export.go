package handlers

import (
	"fmt"
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// cap for ledger extracts; beyond this use filtered ranges
const exportPageLimit = 10000

// ExportInventoryExcel streams the active inventory as an xlsx workbook.
func ExportInventoryExcel(c *gin.Context) {
	items, err := models.GetAllInventory(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "ExportInventoryExcel", err)
		return
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		respondError(c, "handlers", "ExportInventoryExcel", err)
		return
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "SKU")
	f.SetCellValue(sheet, "B1", "Name")
	f.SetCellValue(sheet, "C1", "Category")
	f.SetCellValue(sheet, "D1", "CurrentStock")
	f.SetCellValue(sheet, "E1", "ReorderPoint")
	f.SetCellValue(sheet, "F1", "CostPrice")
	f.SetCellValue(sheet, "G1", "SellingPrice")
	f.SetCellValue(sheet, "H1", "StockStatus")
	f.SetCellValue(sheet, "I1", "Supplier")

	// Add data
	for i, item := range items {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, item.Sku)
		f.SetCellValue(sheet, "B"+row, item.Name)
		f.SetCellValue(sheet, "C"+row, item.Category)
		f.SetCellValue(sheet, "D"+row, item.CurrentStock)
		f.SetCellValue(sheet, "E"+row, item.ReorderPoint)
		f.SetCellValue(sheet, "F"+row, item.CostPrice.StringFixed(2))
		f.SetCellValue(sheet, "G"+row, item.SellingPrice.StringFixed(2))
		f.SetCellValue(sheet, "H"+row, string(item.StockStatus()))
		f.SetCellValue(sheet, "I"+row, item.SupplierName)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// ExportTransactionsExcel streams a page-unbounded ledger extract as xlsx.
func ExportTransactionsExcel(c *gin.Context) {
	filter := models.TransactionFilter{
		InventoryId: queryInt(c, "inventory_id", 0),
		Type:        c.Query("type"),
	}
	transactions, _, err := models.PaginateTransactions(c.Request.Context(), filter, 1, exportPageLimit)
	if err != nil {
		respondError(c, "handlers", "ExportTransactionsExcel", err)
		return
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		respondError(c, "handlers", "ExportTransactionsExcel", err)
		return
	}

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Type")
	f.SetCellValue(sheet, "C1", "InventoryId")
	f.SetCellValue(sheet, "D1", "Quantity")
	f.SetCellValue(sheet, "E1", "UnitPrice")
	f.SetCellValue(sheet, "F1", "TotalPrice")
	f.SetCellValue(sheet, "G1", "Reference")
	f.SetCellValue(sheet, "H1", "Location")

	for i, txn := range transactions {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, txn.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, "B"+row, string(txn.Type))
		f.SetCellValue(sheet, "C"+row, txn.InventoryId)
		f.SetCellValue(sheet, "D"+row, txn.Quantity)
		f.SetCellValue(sheet, "E"+row, txn.UnitPrice.StringFixed(2))
		f.SetCellValue(sheet, "F"+row, txn.TotalPrice.StringFixed(2))
		f.SetCellValue(sheet, "G"+row, txn.Reference)
		f.SetCellValue(sheet, "H"+row, txn.Location)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=transactions.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
