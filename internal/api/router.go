package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/api/admin"
	"github.com/liliang-cn/askpdf/internal/api/chat"
	"github.com/liliang-cn/askpdf/internal/api/middleware"
	"github.com/liliang-cn/askpdf/internal/api/web"
	"github.com/liliang-cn/askpdf/internal/service"
	"github.com/liliang-cn/askpdf/internal/session"
	"go.uber.org/zap"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey         string
	AllowOrigins   []string
	SessionTTL     time.Duration
	SecureCookie   bool
	StaticDir      string
	Title          string
	DefaultPrompt  string
	MaxUploadBytes int64
}

// SetupRouter sets up the Gin router
func SetupRouter(
	adminService *service.AdminService,
	ingestService *service.IngestService,
	chatService *service.ChatService,
	sessions *session.Store,
	logger *zap.Logger,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}
	r.SetHTMLTemplate(web.Templates())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessions.Len()})
	})

	SetupStaticRoutes(r, cfg.StaticDir)

	withSession := middleware.Session(sessions, cfg.SessionTTL, cfg.SecureCookie)

	// Chat page
	pageHandler := web.NewHandler(web.Config{
		Title:          cfg.Title,
		DefaultPrompt:  cfg.DefaultPrompt,
		StaticDir:      cfg.StaticDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, ingestService, chatService, logger)
	pageHandler.RegisterRoutes(r.Group("/", withSession))

	// JSON chat API (cookie session)
	chatHandler := chat.NewHandler(ingestService, chatService, cfg.MaxUploadBytes, logger)
	chatHandler.RegisterRoutes(r.Group("/api", withSession))

	// Admin API (requires API key)
	adminHandler := admin.NewHandler(adminService, logger)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.Auth(cfg.APIKey))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
