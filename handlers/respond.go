package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps domain errors to HTTP status codes. Anything unmapped
// logs server-side and returns an opaque 500.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		payload := gin.H{"message": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			payload["errors"] = validationErr.Fields
		}
		c.JSON(http.StatusBadRequest, payload)
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  utils.ProcessValidationErrors(fieldErrs),
		})
		return
	}

	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Record not found"})
	case errors.Is(err, utils.ErrorInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status transition"})
	case errors.Is(err, utils.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Conflicting update, please retry"})
	default:
		config.LogError(config.GetLogger(), moduleName, funcName, c.Request.URL.Path, nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

func pageAndLimit(c *gin.Context) (int, int) {
	return queryInt(c, "page", 1), queryInt(c, "limit", config.DefaultPageLimit)
}

func userIdFrom(c *gin.Context) (int, bool) {
	userId, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userId, true
}
