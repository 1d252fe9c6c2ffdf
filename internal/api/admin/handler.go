package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/api/respond"
	"github.com/liliang-cn/askpdf/internal/service"
	"go.uber.org/zap"
)

// Handler handles admin API requests
type Handler struct {
	adminService *service.AdminService
	logger       *zap.Logger
}

// NewHandler creates a new admin handler
func NewHandler(adminService *service.AdminService, logger *zap.Logger) *Handler {
	return &Handler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStats)
	r.GET("/uploads", h.ListUploads)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetStats(c.Request.Context())
	if err != nil {
		respond.JSON(c, h.logger, "get stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListUploads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	uploads, err := h.adminService.ListUploads(c.Request.Context(), limit)
	if err != nil {
		respond.JSON(c, h.logger, "list uploads", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploads": uploads,
		"total":   len(uploads),
	})
}
