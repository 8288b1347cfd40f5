package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faceattend/internal/account"
	"faceattend/internal/metrics"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	Role        string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func userPayload(a account.Account) gin.H {
	return gin.H{
		"id":          a.ID,
		"name":        a.Name,
		"email":       a.Email,
		"role":        a.Role,
		"companyId":   a.CompanyID,
		"companyName": a.CompanyName,
	}
}

// Register creates an account and returns a token for it.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}

	a, err := h.accounts.Register(c.Request.Context(), account.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		CompanyID:   req.CompanyID,
		CompanyName: req.CompanyName,
		Role:        req.Role,
	})
	if err != nil {
		h.fail(c, err, "registration failed")
		return
	}

	token, err := h.tokens.Issue(a.ID)
	if err != nil {
		h.fail(c, err, "registration failed")
		return
	}

	metrics.RegistrationsTotal.Inc()
	h.log.Info("user registered",
		zap.String("user_id", a.ID), zap.String("company_id", a.CompanyID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user":    userPayload(a),
	})
}

// Login checks credentials and returns a fresh token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	a, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}

	token, err := h.tokens.Issue(a.ID)
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}

	metrics.LoginsTotal.Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    userPayload(a),
	})
}

// Profile returns the caller's account, password hash excluded.
func (h *Handler) Profile(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	a, err := h.accounts.Get(c.Request.Context(), caller.AccountID)
	if err != nil {
		h.fail(c, err, "profile fetch failed")
		return
	}
	c.JSON(http.StatusOK, a)
}
