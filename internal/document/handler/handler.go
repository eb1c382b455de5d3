package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/codocs/codocs/internal/config"
	"github.com/codocs/codocs/internal/document"
	"github.com/codocs/codocs/internal/document/service"
	"github.com/codocs/codocs/internal/models"
	"github.com/codocs/codocs/internal/snapshots"
	"github.com/codocs/codocs/internal/storage"
	"github.com/codocs/codocs/internal/tokens"
	"github.com/codocs/codocs/pkg/logger"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds the file-import endpoint (1 MiB of text).
const maxImportSize = 1 << 20

// Handler exposes the document API. Imports and snapshots are optional; a nil
// store disables the corresponding feature without affecting the rest.
type Handler struct {
	svc     *service.Service
	cfg     *config.Config
	imports *storage.MinIOStorage
	snaps   *snapshots.Store
}

func New(svc *service.Service, cfg *config.Config, imports *storage.MinIOStorage, snaps *snapshots.Store) *Handler {
	return &Handler{svc: svc, cfg: cfg, imports: imports, snaps: snaps}
}

// Register mounts the document routes. The auth middleware is supplied by the
// caller so tests can inject claims directly.
func (h *Handler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/api/documents")
	if auth != nil {
		g.Use(auth)
	}
	g.GET("", h.list)
	g.POST("", h.create)
	g.POST("/join", h.join)
	g.POST("/import", h.importFile)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.PUT("/:id/content", h.saveContent)
	g.POST("/:id/access-code", h.generateCode)
	g.GET("/:id/snapshots", h.listSnapshots)
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

func (h *Handler) list(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	docs, err := h.svc.ListByOwner(c.Request.Context(), u.Sub)
	if err != nil {
		writeErr(c, err)
		return
	}
	out := make([]gin.H, 0, len(docs))
	for _, d := range docs {
		out = append(out, gin.H{"id": d.ID, "title": d.Title, "updated_at": d.UpdatedAt, "access_code": d.AccessCode})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) create(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.svc.Create(c.Request.Context(), req.Title, u.Sub)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) update(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.svc.Update(c.Request.Context(), id, u.Sub, document.Update{Title: req.Title, Content: req.Content}); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) saveContent(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.svc.SaveContent(c.Request.Context(), id, req.Content); err != nil {
		writeErr(c, err)
		return
	}
	// snapshot history is best effort; a failed write never fails the save
	if err := h.snaps.Record(c.Request.Context(), id, req.Content); err != nil {
		logger.Warnf("snapshot record failed for %s: %v", id, err)
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) generateCode(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	code, err := h.svc.GenerateAccessCode(c.Request.Context(), c.Param("id"), u.Sub)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_code": code})
}

func (h *Handler) join(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.svc.JoinByCode(c.Request.Context(), req.Code, u.Sub)
	if err != nil {
		writeErr(c, err)
		return
	}
	resp := gin.H{"document": d}
	if h.cfg != nil && h.cfg.JWT.Secret != "" {
		tok, err := tokens.GenerateCollabToken(h.cfg, u, d.ID, h.cfg.JWT.CollabTokenTTL)
		if err != nil {
			logger.Warnf("collab token issue failed for %s: %v", d.ID, err)
		} else {
			resp["collab_token"] = tok
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) importFile(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	if fh.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.svc.Create(c.Request.Context(), fh.Filename, u.Sub)
	if err != nil {
		writeErr(c, err)
		return
	}
	if err := h.svc.SaveContent(c.Request.Context(), d.ID, string(content)); err != nil {
		writeErr(c, err)
		return
	}
	if h.imports != nil {
		if err := h.imports.UploadImport(c.Request.Context(), d.ID, bytes.NewReader(content), int64(len(content)), fh.Header.Get("Content-Type")); err != nil {
			logger.Warnf("import archive failed for %s: %v", d.ID, err)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"id": d.ID, "title": d.Title})
}

func (h *Handler) listSnapshots(c *gin.Context) {
	snaps, err := h.snaps.ListByDocument(c.Request.Context(), c.Param("id"), 20)
	if err != nil {
		writeErr(c, err)
		return
	}
	if snaps == nil {
		snaps = []*snapshots.Snapshot{}
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "owner only"})
	case errors.Is(err, service.ErrInvalidTitle), errors.Is(err, service.ErrEmptyCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
