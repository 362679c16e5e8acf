package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liliang-cn/aichat/internal/api/middleware"
	"github.com/liliang-cn/aichat/internal/auth"
	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/service"
)

// Handler handles JSON API requests
type Handler struct {
	authService     *service.AuthService
	chatService     *service.ChatService
	documentService *service.DocumentService
	threadService   *service.ThreadService
	sessions        *middleware.Sessions
}

// NewHandler creates a new API handler
func NewHandler(
	authService *service.AuthService,
	chatService *service.ChatService,
	documentService *service.DocumentService,
	threadService *service.ThreadService,
	sessions *middleware.Sessions,
) *Handler {
	return &Handler{
		authService:     authService,
		chatService:     chatService,
		documentService: documentService,
		threadService:   threadService,
		sessions:        sessions,
	}
}

// RegisterRoutes registers API routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	protected := r.Group("")
	protected.Use(h.sessions.RequireAPI())
	{
		protected.GET("/session", h.GetSession)

		protected.GET("/chat", h.GetChat)
		protected.POST("/chat", h.SendChat)
		protected.POST("/chat/new", h.NewChat)

		protected.GET("/pdf", h.ListPDFs)
		protected.POST("/pdf", h.UploadPDFs)
		protected.GET("/pdf/:name", h.ViewPDF)

		protected.GET("/threads", h.ListThreads)
	}
}

// Session handlers

func (h *Handler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.Start(c, session); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.End(c); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) GetSession(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())
	c.JSON(http.StatusOK, session)
}

// Chat handlers

func (h *Handler) GetChat(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	state, err := h.chatService.State(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) SendChat(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chatService.Send(c.Request.Context(), session.ID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) NewChat(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	msgs, err := h.chatService.NewChat(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.ChatState{Messages: msgs})
}

// PDF handlers

func (h *Handler) ListPDFs(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())
	query := c.Query("q")

	files, err := h.documentService.List(c.Request.Context(), session.ID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.PdfListResponse{
		Files:    files,
		Query:    query,
		Selected: c.Query("file"),
	})
}

func (h *Handler) UploadPDFs(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form with files is required"})
		return
	}

	resp, err := h.documentService.Upload(c.Request.Context(), session.ID, form.File["files"])
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if len(resp.Added) > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *Handler) ViewPDF(c *gin.Context) {
	session, _ := auth.SessionFromContext(c.Request.Context())

	view, err := h.documentService.View(c.Request.Context(), session.ID, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Thread handlers

func (h *Handler) ListThreads(c *gin.Context) {
	threads, err := h.threadService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
