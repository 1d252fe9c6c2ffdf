package chat

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/api/middleware"
	"github.com/liliang-cn/askpdf/internal/api/respond"
	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/service"
	"go.uber.org/zap"
)

// Handler handles the JSON chat API
type Handler struct {
	ingestService  *service.IngestService
	chatService    *service.ChatService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler creates a new chat API handler
func NewHandler(ingestService *service.IngestService, chatService *service.ChatService, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		ingestService:  ingestService,
		chatService:    chatService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers chat API routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.Upload)
	r.POST("/chat", h.Chat)
	r.GET("/session", h.Session)
}

// Upload ingests a multipart PDF upload into the caller's session
func (h *Handler) Upload(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respond.JSON(c, h.logger, "upload", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.JSON(c, h.logger, "upload", fmt.Errorf("%w: %v", domain.ErrIO, err))
		return
	}
	defer f.Close()

	result, err := h.ingestService.Attach(c.Request.Context(), sess, fh.Filename, f)
	if err != nil {
		respond.JSON(c, h.logger, "upload", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload": result.Upload,
		"state":  sess.State().String(),
	})
}

// Chat answers a question
func (h *Handler) Chat(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.JSON(c, h.logger, "chat", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	turn, err := h.chatService.Ask(c.Request.Context(), sess, req.Message)
	if err != nil {
		respond.JSON(c, h.logger, "chat", err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

// Session returns the caller's history, token count and summary
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentSession(c).View())
}
