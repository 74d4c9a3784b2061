package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mangashelf/internal/httpapi/dto"
	"mangashelf/internal/identity"
)

type AuthHandler struct {
	provider  *identity.Provider
	expiresIn int64
}

func NewAuthHandler(provider *identity.Provider, expiresIn int64) *AuthHandler {
	return &AuthHandler{provider: provider, expiresIn: expiresIn}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident, token, err := h.provider.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "account creation failed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		AccessToken: token,
		UserID:      ident.ID,
		Email:       ident.Email,
		ExpiresIn:   h.expiresIn,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident, token, err := h.provider.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken: token,
		UserID:      ident.ID,
		Email:       ident.Email,
		ExpiresIn:   h.expiresIn,
	})
}

// Logout ends the active session; the library binding is torn down by the
// lifecycle controller reacting to the session transition.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.provider.SignOut()
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
