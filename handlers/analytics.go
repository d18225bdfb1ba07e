package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func Dashboard(c *gin.Context) {
	summary, err := models.GetDashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "Dashboard", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func SalesTrends(c *gin.Context) {
	days := queryInt(c, "days", 30)
	points, err := models.GetSalesTrends(c.Request.Context(), days)
	if err != nil {
		respondError(c, "handlers", "SalesTrends", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": points})
}

func InventoryTurnover(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	rows, err := models.GetInventoryTurnover(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "handlers", "InventoryTurnover", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"turnover": rows})
}

func SupplierPerformance(c *gin.Context) {
	rows, err := models.GetSupplierPerformance(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "SupplierPerformance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"performance": rows})
}

func CategoryAnalysis(c *gin.Context) {
	rows, err := models.GetCategoryAnalysis(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "CategoryAnalysis", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

func StockAlerts(c *gin.Context) {
	alerts, err := models.GetStockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "StockAlerts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
