package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/internal/app/service"
	"github.com/ikkim/emporium-backend/internal/app/view"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/validation"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=5"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateMeRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,min=5"`
}

// Register creates a user account
// POST /api/user
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := validation.BindJSON(c, &req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, err, "")
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		apperrors.Respond(c, err, "create user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, view.NewUser(user))
}

// Login issues a bearer token
// POST /api/user/token
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	token, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("Login failed", map[string]interface{}{
			"email": req.Email,
		})
		apperrors.Respond(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, view.Token{Token: token})
}

// Logout revokes the token used for this request
// POST /api/user/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	claims, _ := middleware.GetTokenClaims(c)
	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		apperrors.Respond(c, err, "logout")
		return
	}
	c.JSON(http.StatusOK, view.Message{Message: "Successfully logged out"})
}

// GetMe returns the authenticated user
// GET /api/user/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	user, err := ctrl.authService.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		apperrors.Respond(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, view.NewUser(user))
}

// UpdateMe patches the authenticated user's profile
// PATCH /api/user/me
func (ctrl *AuthController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID := currentUserID(c)

	var req UpdateMeRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Respond(c, err, "")
		return
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, service.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		apperrors.Respond(c, err, "update user")
		return
	}

	log.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, view.NewUser(user))
}
