package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"citysync-be/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles citizen and employee registration
func (ctrl *AuthController) Register(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required,max=50"`
		Email      string `json:"email" binding:"omitempty,email"`
		Phone      string `json:"phone" binding:"omitempty,max=20"`
		Password   string `json:"password" binding:"required,min=6"`
		Role       string `json:"role" binding:"required"`
		Department string `json:"department" binding:"omitempty,max=50"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := ctrl.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   input.Password,
		Role:       input.Role,
		Department: input.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered",
		"account": account,
	})
}

// Login handles role-scoped login for citizens and employees
func (ctrl *AuthController) Login(c *gin.Context) {
	var input struct {
		Email      string `json:"email" binding:"omitempty,email"`
		Phone      string `json:"phone" binding:"omitempty,max=20"`
		Password   string `json:"password" binding:"required"`
		Role       string `json:"role" binding:"required"`
		Department string `json:"department" binding:"omitempty,max=50"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	token, account, err := ctrl.auth.Login(c.Request.Context(), services.LoginInput{
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   input.Password,
		Role:       input.Role,
		Department: input.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	// For production, don't set domain to allow cross-origin cookies
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		MaxAge:   7 * 24 * 3600,
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	}
	http.SetCookie(c.Writer, cookie)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"role":    account.Role,
		"account": account,
	})
}

// GetMe retrieves the authenticated account's information
func (ctrl *AuthController) GetMe(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" || role == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	account, err := ctrl.auth.GetAccount(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"account": account,
	})
}

// Logout clears the auth_token cookie
func (ctrl *AuthController) Logout(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("auth_token", "", -1, "/", domain, environment == "production", true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
