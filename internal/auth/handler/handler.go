package handler

import (
	"github.com/gin-gonic/gin"

	"fieldservice_backend/internal/auth/service"
	"fieldservice_backend/internal/auth/transport"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/httpkit"
	"fieldservice_backend/platform/logger"
)

type Handler struct {
	svc     *service.Service
	limiter *httpkit.AuthRateLimiter
}

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, limiter: httpkit.NewAuthRateLimiter(log)}
}

// RegisterPublicRoutes mounts the unauthenticated endpoints.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.limiter.RateLimit(), h.login)
}

// RegisterRoutes mounts the authenticated endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/auth/me", h.me)
	r.POST("/auth/logout", h.logout)
}

func (h *Handler) login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("email and password are required"))
		return
	}
	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
		Operator: transport.OperatorResponse{
			ID:    session.Operator.ID,
			Email: session.Operator.Email,
			Name:  session.Operator.Name,
		},
	})
}

func (h *Handler) me(c *gin.Context) {
	id, ok := httpkit.GetUserID(c)
	if !ok {
		httpkit.HandleError(c, apperr.Unauthorized("not authenticated"))
		return
	}
	op, err := h.svc.Me(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.OperatorResponse{ID: op.ID, Email: op.Email, Name: op.Name})
}

// logout is stateless: tokens are short-lived and the client discards its
// copy. The endpoint exists so clients have a uniform sign-out call.
func (h *Handler) logout(c *gin.Context) {
	httpkit.OK(c, gin.H{"loggedOut": true})
}
