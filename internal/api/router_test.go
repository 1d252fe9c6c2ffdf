package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/askpdf/internal/api/middleware"
	"github.com/liliang-cn/askpdf/internal/config"
	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/llm"
	"github.com/liliang-cn/askpdf/internal/pdftext"
	"github.com/liliang-cn/askpdf/internal/pdftext/pdftest"
	"github.com/liliang-cn/askpdf/internal/repository"
	"github.com/liliang-cn/askpdf/internal/service"
	"github.com/liliang-cn/askpdf/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "admin-key"

type testServer struct {
	router    *gin.Engine
	staticDir string
	llm       *llm.MockLLM
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(staticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "styles.css"), []byte(".chat-row { display: flex; }"), 0o644))

	db, err := repository.NewDB(filepath.Join(dir, "askpdf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Storage: config.StorageConfig{UploadDir: filepath.Join(dir, "uploads")},
		RAG:     config.RAGConfig{ChunkSize: 50, ChunkOverlap: 10, TopK: 4, EmbeddingDim: 32},
	}

	uploads := repository.NewUploadRepository(db)
	usage := repository.NewUsageRepository(db)
	logger := zap.NewNop()

	mock := llm.NewMockLLM()
	chatService := service.NewChatService(mock, usage, logger)
	ingestService, err := service.NewIngestService(cfg, pdftext.NewReader(), uploads, logger)
	require.NoError(t, err)

	sessions := session.NewStore(time.Hour, time.Minute, chatService.NewEngine)
	adminService := service.NewAdminService(uploads, usage, sessions)

	router := SetupRouter(adminService, ingestService, chatService, sessions, logger, RouterConfig{
		APIKey:         testAPIKey,
		AllowOrigins:   []string{"*"},
		SessionTTL:     time.Hour,
		StaticDir:      staticDir,
		Title:          "Ask Chatbot 🤖",
		DefaultPrompt:  "Hello bot",
		MaxUploadBytes: 1 << 20,
	})

	return &testServer{router: router, staticDir: staticDir, llm: mock}
}

func (s *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", middleware.SessionCookie)
	return nil
}

func multipartPDF(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Ask Chatbot 🤖")
	assert.Contains(t, body, ".chat-row { display: flex; }")
	assert.Contains(t, body, `value="Hello bot"`)
	assert.Contains(t, body, "Used 0 tokens")
	assert.NotEmpty(t, sessionCookie(t, w).Value)
}

func TestIndexPageWithoutStylesheet(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.Remove(filepath.Join(s.staticDir, "styles.css")))

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "styles.css")
}

func TestStaticFiles(t *testing.T) {
	s := newTestServer(t)
	w := s.do(httptest.NewRequest(http.MethodGet, "/app/static/styles.css", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".chat-row")
}

func TestChatFormFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	cookie := sessionCookie(t, w)

	form := url.Values{"human_prompt": {"Hello bot"}}
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = s.do(req, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "human-bubble")
	assert.Contains(t, body, "ai-bubble")
	assert.Contains(t, body, "/app/static/user_icon.png")
	assert.Contains(t, body, "Used 2 tokens")

	assert.Contains(t, s.llm.Prompt(0), service.FallbackContext)
}

func TestChatFormEmptyPrompt(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("human_prompt="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := s.do(req, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.llm.Calls())
}

func TestUploadForm(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartPDF(t, "sky.pdf", pdftest.Build("The sky is blue."))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := s.do(req, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(t, w)

	w = s.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Contains(t, w.Body.String(), "Current document: sky.pdf")
}

func TestUploadFormRejectsNonPDF(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartPDF(t, "notes.pdf", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := s.do(req, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestJSONAPI(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartPDF(t, "sky.pdf", pdftest.Build("The sky is blue."))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := s.do(req, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.Contains(t, w.Body.String(), `"state":"document_ready"`)

	req = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"What color is the sky?"}`))
	req.Header.Set("Content-Type", "application/json")
	w = s.do(req, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var turn domain.Turn
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &turn))
	assert.Equal(t, "What color is the sky?", turn.Human.Text)
	assert.Equal(t, domain.OriginAI, turn.AI.Origin)
	assert.Equal(t, 2, turn.TokenCount)
	assert.Contains(t, s.llm.Prompt(0), "context: The sky is blue.")

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var view domain.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "document_ready", view.State)
	assert.Equal(t, "sky.pdf", view.Document)
	assert.Len(t, view.History, 2)
	assert.Equal(t, 2, view.TokenCount)
}

func TestJSONChatRemoteFailure(t *testing.T) {
	s := newTestServer(t)
	s.llm.Err = assert.AnError

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := s.do(req, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, w.Body.String())
}

func TestAdminAPI(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body, contentType := multipartPDF(t, "sky.pdf", pdftest.Build("The sky is blue."))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	require.Equal(t, http.StatusOK, s.do(req, nil).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w = s.do(req, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalUploads)
	assert.Equal(t, 1, stats.TotalChunks)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/uploads", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w = s.do(req, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"filename":"sky.pdf"`)
}
