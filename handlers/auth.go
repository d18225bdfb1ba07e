package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
)

func Register(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "Register", err)
		return
	}

	payload, err := models.Register(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "Register", err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

func Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "Login", err)
		return
	}

	payload, err := models.Login(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "handlers", "Login", err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func Me(c *gin.Context) {
	ctx := c.Request.Context()
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}

	user, err := models.GetUser(ctx, userId)
	if err != nil {
		respondError(c, "handlers", "Me", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UpdateProfile(c *gin.Context) {
	userId, ok := userIdFrom(c)
	if !ok {
		return
	}
	var input models.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "UpdateProfile", err)
		return
	}

	user, err := models.UpdateProfile(c.Request.Context(), userId, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateProfile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func ListUsers(c *gin.Context) {
	page, limit := pageAndLimit(c)
	filter := models.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	users, pagination, err := models.PaginateUsers(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, "handlers", "ListUsers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination})
}

func UpdateUserRole(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.UserRoleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, "handlers", "UpdateUserRole", err)
		return
	}

	user, err := models.UpdateUserRole(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "handlers", "UpdateUserRole", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
