// Package http provides the HTTP command surface of the PiP service.
//
// Hosts register views and content descriptors here and drive the
// session: anchor attachment, start/stop, content swaps, and restore
// completion. Observable notifications flow over the WebSocket stream,
// not over these handlers.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/glasswing/pipcore/internal/domain/content"
	"github.com/glasswing/pipcore/internal/domain/session"
	"github.com/glasswing/pipcore/internal/domain/view"
	"github.com/glasswing/pipcore/internal/infrastructure/logging"
	"github.com/glasswing/pipcore/internal/shared/types"
)

// Handlers bundles the HTTP endpoints and their dependencies
type Handlers struct {
	manager  *session.Manager
	views    *view.Registry
	contents *content.Registry
	logger   *logging.Logger
}

// NewHandlers creates the endpoint set
func NewHandlers(manager *session.Manager, views *view.Registry, contents *content.Registry, logger *logging.Logger) *Handlers {
	return &Handlers{
		manager:  manager,
		views:    views,
		contents: contents,
		logger:   logger.Component("http"),
	}
}

// Root answers a service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "pipd",
		"supported": h.manager.Supported(),
	})
}

// Health answers liveness probes
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReportView registers or updates a host view's geometry
func (h *Handlers) ReportView(c *gin.Context) {
	var req types.ViewReport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v := h.views.Put(req)
	h.manager.ViewUpdated(v.ID)
	c.JSON(http.StatusOK, v)
}

// ListViews returns all registered views
func (h *Handlers) ListViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": h.views.List()})
}

// RemoveView forgets a host view
func (h *Handlers) RemoveView(c *gin.Context) {
	if !h.views.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// RegisterContent stores a content descriptor under an ID
func (h *Handlers) RegisterContent(c *gin.Context) {
	var req types.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.contents.Register(req.ContentID, req.Blueprint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content_id": req.ContentID})
}

// ListContent returns all registered content IDs
func (h *Handlers) ListContent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"content": h.contents.IDs()})
}

// RemoveContent forgets a content descriptor
func (h *Handlers) RemoveContent(c *gin.Context) {
	if !h.contents.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// AttachAnchor points the session's anchor at a registered view
func (h *Handlers) AttachAnchor(c *gin.Context) {
	var req types.AnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.manager.AttachAnchor(req.ViewID)
	c.JSON(http.StatusAccepted, gin.H{"view_id": req.ViewID})
}

// Start starts (or retries) the PiP session
func (h *Handlers) Start(c *gin.Context) {
	var req types.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := session.StartOptions{PreferredSize: req.PreferredSize}
	if req.ContentID != "" {
		factory, ok := h.contents.Get(req.ContentID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown content"})
			return
		}
		opts.Content = factory
	}

	if err := h.manager.Start(opts); err != nil {
		if errors.Is(err, session.ErrNoContentConfigured) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("start failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, h.manager.Stats())
}

// Stop dismisses the floating window
func (h *Handlers) Stop(c *gin.Context) {
	if err := h.manager.Stop(); err != nil {
		if errors.Is(err, session.ErrRestoreInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, h.manager.Stats())
}

// UpdateContent swaps the session's content in place
func (h *Handlers) UpdateContent(c *gin.Context) {
	var req types.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Blueprint != nil {
		if err := h.contents.Register(req.ContentID, req.Blueprint); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	factory, ok := h.contents.Get(req.ContentID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content"})
		return
	}

	h.manager.UpdateContent(factory)
	c.JSON(http.StatusOK, h.manager.Stats())
}

// CompleteRestore finishes a pending restore onto a destination view
func (h *Handlers) CompleteRestore(c *gin.Context) {
	var req types.RestoreCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.manager.CompleteRestore(req.ViewID)
	c.JSON(http.StatusOK, h.manager.Stats())
}

// Status returns the session snapshot
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Stats())
}
