package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/api/middleware"
	"github.com/liliang-cn/aichat/internal/auth"
	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/service"
)

// Handler renders the HTML pages
type Handler struct {
	authService     *service.AuthService
	chatService     *service.ChatService
	documentService *service.DocumentService
	threadService   *service.ThreadService
	sessions        *middleware.Sessions
	logger          *zap.Logger
}

// NewHandler creates a new page handler
func NewHandler(
	authService *service.AuthService,
	chatService *service.ChatService,
	documentService *service.DocumentService,
	threadService *service.ThreadService,
	sessions *middleware.Sessions,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		authService:     authService,
		chatService:     chatService,
		documentService: documentService,
		threadService:   threadService,
		sessions:        sessions,
		logger:          logger,
	}
}

// RegisterRoutes registers page routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	pages := r.Group("")
	pages.Use(h.sessions.RequirePage())
	{
		pages.GET("/chat", h.ChatPage)
		pages.POST("/chat", h.SendChat)
		pages.GET("/pdf", h.PDFPage)
		pages.POST("/pdf", h.UploadPDFs)
		pages.GET("/threads", h.ThreadsPage)
	}
}

func (h *Handler) Home(c *gin.Context) {
	if _, ok := auth.SessionFromContext(c.Request.Context()); ok {
		c.Redirect(http.StatusFound, "/chat")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) LoginPage(c *gin.Context) {
	if _, ok := auth.SessionFromContext(c.Request.Context()); ok {
		c.Redirect(http.StatusFound, "/chat")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	_ = c.ShouldBind(&req)

	session, err := h.authService.Login(c.Request.Context(), req.Username)
	if errors.Is(err, domain.ErrInvalidRequest) {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title": "Login",
			"Error": "Please enter a name to continue.",
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.sessions.Start(c, session); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/chat")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) ChatPage(c *gin.Context) {
	ctx := c.Request.Context()
	session, _ := auth.SessionFromContext(ctx)

	// new=true is a one-shot signal: act on it, then drop it from the URL
	if c.Query("new") == "true" {
		if _, err := h.chatService.NewChat(ctx, session.ID); err != nil {
			h.fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/chat")
		return
	}

	state, err := h.chatService.State(ctx, session.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	data := h.page(c, "AI Chat")
	data["Messages"] = state.Messages
	data["Loading"] = state.Loading

	if id := c.Query("thread"); id != "" {
		thread, err := h.threadService.Get(ctx, id)
		switch {
		case err == nil:
			data["Thread"] = thread
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Debug("Unknown thread requested", zap.String("thread_id", id))
		default:
			h.fail(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "chat.html", data)
}

func (h *Handler) SendChat(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	var req domain.ChatRequest
	_ = c.ShouldBind(&req)

	_, err := h.chatService.Send(c.Request.Context(), session.ID, req.Message)
	if err != nil && !errors.Is(err, domain.ErrEmptyMessage) && !errors.Is(err, domain.ErrBusy) {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/chat")
}

func (h *Handler) PDFPage(c *gin.Context) {
	ctx := c.Request.Context()
	session, _ := auth.SessionFromContext(ctx)
	query := c.Query("q")

	files, err := h.documentService.List(ctx, session.ID, query)
	if err != nil {
		h.fail(c, err)
		return
	}

	data := h.page(c, "PDF Viewer")
	data["Files"] = files
	data["Query"] = query

	if name := c.Query("file"); name != "" {
		view, err := h.documentService.View(ctx, session.ID, name)
		switch {
		case err == nil:
			data["View"] = view
		case !errors.Is(err, domain.ErrNotFound):
			h.fail(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "pdf.html", data)
}

func (h *Handler) UploadPDFs(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/pdf")
		return
	}

	resp, err := h.documentService.Upload(c.Request.Context(), session.ID, form.File["files"])
	if err != nil {
		h.fail(c, err)
		return
	}

	target := "/pdf"
	if resp.Selected != "" {
		target += "?file=" + url.QueryEscape(resp.Selected)
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (h *Handler) ThreadsPage(c *gin.Context) {
	threads, err := h.threadService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	data := h.page(c, "Past Chat Threads")
	data["Threads"] = threads
	c.HTML(http.StatusOK, "threads.html", data)
}

// page returns the data every page template expects
func (h *Handler) page(c *gin.Context, title string) gin.H {
	session, _ := auth.SessionFromContext(c.Request.Context())
	return gin.H{
		"Title":   title,
		"Menu":    NewMenu(c.Request.URL),
		"Session": session,
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.logger.Error("Page failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "Something went wrong. Please try again later.",
	})
}
