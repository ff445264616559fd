package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Yardanz/tutor-site/config"
	"github.com/Yardanz/tutor-site/middleware"
	"github.com/Yardanz/tutor-site/models"
	"github.com/Yardanz/tutor-site/utils"
)

// AuthController signs the owner in and out of the admin area.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Login verifies credentials and sets the session cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		utils.JSONError(ctx, http.StatusBadRequest, "Email and password are required.")
		return
	}

	var admin models.AdminUser
	if err := a.db.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a wrong password; do not reveal which part failed.
			utils.JSONError(ctx, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		utils.Sugar.Errorf("login lookup failed: %v", err)
		utils.JSONError(ctx, http.StatusInternalServerError, "Login failed.")
		return
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		utils.JSONError(ctx, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := utils.GenerateSessionToken(admin.ID, admin.Email)
	if err != nil {
		utils.Sugar.Errorf("session token signing failed: %v", err)
		utils.JSONError(ctx, http.StatusInternalServerError, "Login failed.")
		return
	}

	setSessionCookie(ctx, token, int(utils.SessionDuration.Seconds()))
	utils.JSONOK(ctx)
}

// Logout clears the session cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	if id, ok := middleware.AdminID(ctx); ok {
		utils.Sugar.Infof("admin %d signed out", id)
	}
	setSessionCookie(ctx, "", -1)
	utils.JSONOK(ctx)
}

func setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", cfg.CookieSecure, true)
}
