package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faceattend/internal/account"
	"faceattend/internal/auth"
	"faceattend/internal/directory"
	"faceattend/internal/ledger"
	"faceattend/internal/notify"
)

// Handler exposes the HTTP surface over the domain services.
type Handler struct {
	accounts   *account.Service
	employees  *directory.Service
	attendance *ledger.Service
	tokens     *auth.TokenService
	queue      notify.Queue
	log        *zap.Logger
	production bool
}

// New wires a handler.
func New(accounts *account.Service, employees *directory.Service, attendance *ledger.Service,
	tokens *auth.TokenService, queue notify.Queue, log *zap.Logger, production bool) *Handler {
	return &Handler{
		accounts:   accounts,
		employees:  employees,
		attendance: attendance,
		tokens:     tokens,
		queue:      queue,
		log:        log,
		production: production,
	}
}

// Routes mounts the API onto the router. gate protects everything except
// register and login.
func (h *Handler) Routes(r *gin.Engine, gate gin.HandlerFunc) {
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/profile", gate, h.Profile)

	emp := r.Group("/api/employees", gate)
	emp.GET("", h.ListEmployees)
	emp.GET("/with-encodings", h.ListEmployeesWithEncodings)
	emp.POST("/register", h.RegisterEmployee)
	emp.GET("/:id", h.GetEmployee)
	emp.PUT("/:id", h.UpdateEmployee)
	emp.DELETE("/:id", h.DeleteEmployee)

	att := r.Group("/api/attendance", gate)
	att.POST("", h.MarkAttendance)
	att.GET("/today", h.TodayAttendance)
	att.GET("", h.AllAttendance)

	r.POST("/api/notify", gate, h.Notify)
}

// caller returns the request identity; the gate guarantees it is present on
// protected routes.
func (h *Handler) caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.CallerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
	}
	return id, ok
}

// fail translates service errors into the response taxonomy. Storage errors
// stay generic; detail is exposed only outside production.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, account.ErrInvalid), errors.Is(err, directory.ErrInvalid),
		errors.Is(err, directory.ErrBadEncoding):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, account.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
	case errors.Is(err, account.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, directory.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "employee with this email already exists in your company"})
	case errors.Is(err, account.ErrNotFound), errors.Is(err, directory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error(msg, zap.Error(err))
		body := gin.H{"error": msg}
		if !h.production {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
