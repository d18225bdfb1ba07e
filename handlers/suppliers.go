package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func ListSuppliers(c *gin.Context) {
	page, limit := pageAndLimit(c)
	filter := models.SupplierFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	suppliers, pagination, err := models.PaginateSuppliers(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, "handlers", "ListSuppliers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers, "pagination": pagination})
}

func GetSupplier(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	supplier, err := models.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetSupplier", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func CreateSupplier(c *gin.Context) {
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "CreateSupplier", err)
		return
	}

	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "CreateSupplier", err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func UpdateSupplier(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "UpdateSupplier", err)
		return
	}

	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateSupplier", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func DeleteSupplier(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	supplier, err := models.DeleteSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "DeleteSupplier", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func GetSupplierStats(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	stats, err := models.GetSupplierStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, "handlers", "GetSupplierStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
