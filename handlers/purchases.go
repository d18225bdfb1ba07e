package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func ListPurchases(c *gin.Context) {
	page, limit := pageAndLimit(c)
	filter := models.PurchaseFilter{
		Status:     c.Query("status"),
		SupplierId: queryInt(c, "supplier_id", 0),
		Search:     c.Query("search"),
	}

	purchases, pagination, err := models.PaginatePurchases(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, "handlers", "ListPurchases", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases, "pagination": pagination})
}

func GetPurchase(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	purchase, err := models.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetPurchase", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func CreatePurchase(c *gin.Context) {
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "CreatePurchase", err)
		return
	}

	purchase, err := models.CreatePurchase(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreatePurchase", err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func UpdatePurchase(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewPurchase
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "UpdatePurchase", err)
		return
	}

	purchase, err := models.UpdatePurchase(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdatePurchase", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

type statusInput struct {
	Status models.PurchaseStatus `json:"status" binding:"required"`
}

func UpdatePurchaseStatus(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "UpdatePurchaseStatus", err)
		return
	}

	purchase, err := models.UpdatePurchaseStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondError(c, "handlers", "UpdatePurchaseStatus", err)
		return
	}
	if purchase.Status == models.PurchaseStatusReceived {
		models.InvalidateDashboardCache()
	}
	c.JSON(http.StatusOK, purchase)
}

func DeletePurchase(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	purchase, err := models.DeletePurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeletePurchase", err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func ListReorderSuggestions(c *gin.Context) {
	suggestions, err := models.GetReorderSuggestions(c.Request.Context())
	if err != nil {
		respondError(c, "handlers", "ListReorderSuggestions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
