package handler

import (
	"errors"
	"net/http"

	"github.com/codocs/codocs/internal/comments"
	"github.com/codocs/codocs/internal/models"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *comments.Service
}

func New(svc *comments.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/api/documents/:id/comments")
	if auth != nil {
		g.Use(auth)
	}
	g.GET("", h.listThreads)
	g.POST("", h.addComment)
}

// addCommentRequest carries either a reply (thread_id set) or a new thread
// (anchor set). Exactly one of the two must be present.
type addCommentRequest struct {
	ThreadID *string          `json:"thread_id"`
	Anchor   *comments.Anchor `json:"anchor"`
	Content  string           `json:"content"`
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("claims")
	if !ok {
		return nil
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return models.UserFromClaims(cm)
}

func (h *Handler) addComment(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.ThreadID == nil) == (req.Anchor == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of thread_id or anchor is required"})
		return
	}
	author := comments.Author{ID: u.Sub, Name: u.DisplayName()}

	if req.ThreadID != nil {
		cm, err := h.svc.Reply(c.Request.Context(), *req.ThreadID, author, req.Content)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, cm)
		return
	}

	th, err := h.svc.StartThread(c.Request.Context(), c.Param("id"), *req.Anchor, author, req.Content)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, th)
}

func (h *Handler) listThreads(c *gin.Context) {
	threads, err := h.svc.ListThreads(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, comments.ErrThreadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, comments.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
