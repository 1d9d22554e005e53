package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ivaan2/studio/internal/freezer"
	"github.com/Ivaan2/studio/internal/httpapi"
	"github.com/Ivaan2/studio/internal/logger"
	"github.com/Ivaan2/studio/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo freezer.Repository
}

func NewHandler(repo freezer.Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the freezer routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/freezers", h.Create)
	r.GET("/freezers", h.List)
	r.DELETE("/freezers/:id", h.Delete)
}

func subject(c *gin.Context) (string, bool) {
	s, ok := middleware.SubjectFromContext(c.Request.Context())
	if !ok || s == "" {
		httpapi.Error(c, http.StatusUnauthorized, httpapi.CodeUnauthorized, "unauthorized")
		return "", false
	}
	return s, true
}

func (h *Handler) Create(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}

	var req freezer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid field: name")
		return
	}

	f := &freezer.Freezer{
		OwnerID:   owner,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	id, err := h.repo.Create(c.Request.Context(), f)
	if err != nil {
		logger.Error("freezer create failed", map[string]any{"error": err.Error()})
		httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "could not store freezer")
		return
	}
	f.ID = id

	httpapi.OK(c, f)
}

func (h *Handler) List(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}

	freezers, err := h.repo.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		logger.Error("freezer list failed", map[string]any{"error": err.Error()})
		httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "could not list freezers")
		return
	}

	httpapi.OK(c, freezers)
}

// Delete applies the same fetch, authorize, delete ordering as the item
// delete path.
func (h *Handler) Delete(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}
	id := c.Param("id")

	f, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, freezer.ErrNotFound) {
			httpapi.Error(c, http.StatusNotFound, httpapi.CodeNotFound, "freezer not found")
			return
		}
		logger.Error("freezer fetch failed", map[string]any{"error": err.Error()})
		httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "storage failure")
		return
	}

	if f.OwnerID != owner {
		httpapi.Error(c, http.StatusForbidden, httpapi.CodeForbidden, "forbidden")
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, freezer.ErrNotFound) {
			httpapi.Error(c, http.StatusNotFound, httpapi.CodeNotFound, "freezer not found")
			return
		}
		logger.Error("freezer delete failed", map[string]any{"error": err.Error()})
		httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "storage failure")
		return
	}

	httpapi.OK(c, gin.H{"id": id})
}
