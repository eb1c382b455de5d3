package handler

import (
	"net/http"
	"time"

	"github.com/codocs/codocs/internal/models"
	"github.com/codocs/codocs/internal/presence"
	"github.com/gin-gonic/gin"
)

// Handler exposes the per-document presence API: join on mount, cursor on
// interaction, leave on unmount, list for the collaborator bar.
type Handler struct {
	tracker *presence.Tracker
}

func New(tracker *presence.Tracker) *Handler {
	return &Handler{tracker: tracker}
}

func (h *Handler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/api/documents/:id/presence")
	if auth != nil {
		g.Use(auth)
	}
	g.GET("", h.listActive)
	g.POST("/join", h.join)
	g.POST("/cursor", h.cursor)
	g.DELETE("", h.leave)
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

func (h *Handler) join(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	rec, err := h.tracker.Join(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) cursor(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req presence.Range
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.tracker.UpdateCursor(c.Request.Context(), c.Param("id"), u.Sub, req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listActive(c *gin.Context) {
	recs, err := h.tracker.ListActive(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": recs})
}

func (h *Handler) leave(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.tracker.Leave(c.Request.Context(), c.Param("id"), u.Sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
