// Package web serves the server-rendered chat page and its form posts.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/api/middleware"
	"github.com/liliang-cn/askpdf/internal/api/respond"
	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/service"
	"github.com/liliang-cn/askpdf/internal/session"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. gin looks them up by file name.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Config holds page settings
type Config struct {
	Title          string
	DefaultPrompt  string
	StaticDir      string
	MaxUploadBytes int64
}

// Handler handles the chat page
type Handler struct {
	cfg           Config
	ingestService *service.IngestService
	chatService   *service.ChatService
	logger        *zap.Logger
}

// NewHandler creates a new page handler
func NewHandler(cfg Config, ingestService *service.IngestService, chatService *service.ChatService, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:           cfg,
		ingestService: ingestService,
		chatService:   chatService,
		logger:        logger,
	}
}

// RegisterRoutes registers page routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.POST("/upload", h.Upload)
	r.POST("/chat", h.Chat)
}

type pageData struct {
	Title         string
	CSS           template.CSS
	DefaultPrompt string
	Busy          bool
	View          domain.SessionView
}

// Index renders the chat page
func (h *Handler) Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	sess.Open()

	css, err := os.ReadFile(filepath.Join(h.cfg.StaticDir, "styles.css"))
	if err != nil {
		h.fail(c, "render page", fmt.Errorf("load stylesheet: %w", err))
		return
	}

	c.HTML(http.StatusOK, "index.html", pageData{
		Title:         h.cfg.Title,
		CSS:           template.CSS(css),
		DefaultPrompt: h.cfg.DefaultPrompt,
		Busy:          sess.State() == session.AwaitingReply,
		View:          sess.View(),
	})
}

// Upload ingests the posted PDF and makes it the session's document
func (h *Handler) Upload(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if h.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "upload", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, "upload", fmt.Errorf("%w: %v", domain.ErrIO, err))
		return
	}
	defer f.Close()

	if _, err := h.ingestService.Attach(c.Request.Context(), sess, fh.Filename, f); err != nil {
		h.fail(c, "upload", err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Chat answers the posted question
func (h *Handler) Chat(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var req domain.ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "chat", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	if _, err := h.chatService.Ask(c.Request.Context(), sess, req.Message); err != nil {
		h.fail(c, "chat", err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := respond.Log(c, h.logger, msg, err)
	if errors.Is(err, session.ErrBusy) {
		// the earlier submit is still running; its redirect will show the reply
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(status, "error.html", gin.H{
		"Title":   h.cfg.Title,
		"Message": respond.GenericMessage,
	})
}
