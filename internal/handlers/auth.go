package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"audiobook-backend/internal/models"
	"audiobook-backend/internal/supabase"
)

type AuthHandler struct {
	supabaseClient *supabase.Client
}

func NewAuthHandler(supabaseClient *supabase.Client) *AuthHandler {
	return &AuthHandler{
		supabaseClient: supabaseClient,
	}
}

// Signup creates an account with the auth collaborator. Validation runs in a
// fixed order before any network call: display name, then password match,
// then password length. Collaborator errors (e.g. duplicate email) are
// relayed verbatim.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.DisplayName) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "please enter your name"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "passwords do not match"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "password must be at least 6 characters"})
		return
	}

	if err := h.supabaseClient.SignUp(req.Email, req.Password, req.DisplayName); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SignupResponse{
		Success: true,
		Message: "Check your email to confirm your account.",
	})
}
