package controllers

import (
	"context"
	"net/http"
	"strconv"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	AllUsers(ctx context.Context) ([]models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, email, password string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UsersHandler struct {
	UserService UserService
	log         logger.Log
}

func NewUsersHandler(l logger.Log, users UserService) *UsersHandler {
	return &UsersHandler{UserService: users, log: l}
}

func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.UserService.AllUsers(c.Request.Context())
	if err != nil {
		h.log.ErrorErr("error listing users", err)
		AbortWithError(c, err)
		return
	}

	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *UsersHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.UserService.UserByID(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

type updateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

func (h *UsersHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var input updateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "Invalid request body.", http.StatusBadRequest))
		return
	}

	updated, err := h.UserService.UpdateUser(c.Request.Context(), userID, input.Email, input.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(updated))
}

func (h *UsersHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(c.Request.Context(), userID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a numeric path parameter, answering 400 on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "Invalid "+name+" path parameter.", http.StatusBadRequest))
		return 0, false
	}
	return id, true
}
