// controllers/auth.go
package controllers

import (
	"log/slog"
	"net/http"

	"clientconnect-backend/models"
	"clientconnect-backend/services"
	"clientconnect-backend/utils"

	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	service *services.AuthService
	logger  *slog.Logger
}

func NewAuthController(service *services.AuthService, logger *slog.Logger) *AuthController {
	return &AuthController{service: service, logger: logger}
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"username":  user.UsernameValue(),
		"phone":     user.Phone,
		"lastLogin": user.LastLogin,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	name := input.Name
	if name == "" {
		name = input.FullName
	}

	result, err := ac.service.Register(c.Request.Context(), services.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     name,
		Username: input.Username,
		Phone:    input.Phone,
	})
	if err != nil {
		handleError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Registration successful",
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      userResponse(result.User),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := ac.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		handleError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      userResponse(result.User),
	})
}

// Logout revokes the bearer token presented with the request
func (ac *AuthController) Logout(c *gin.Context) {
	token := utils.ExtractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
		return
	}

	if err := ac.service.Logout(c.Request.Context(), token); err != nil {
		handleError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID := c.GetString(utils.ContextUserID)
	if userID == "" {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	user, err := ac.service.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
