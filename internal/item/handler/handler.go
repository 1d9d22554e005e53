package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ivaan2/studio/internal/httpapi"
	"github.com/Ivaan2/studio/internal/item"
	"github.com/Ivaan2/studio/internal/logger"
	"github.com/Ivaan2/studio/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo item.Repository
}

func NewHandler(repo item.Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the item routes on an authenticated group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/items", h.Create)
	r.GET("/items", h.List)
	r.GET("/items/:id", h.Get)
	r.PUT("/items/:id", h.Update)
	r.DELETE("/items/:id", h.Delete)
}

// subject returns the verified caller identity. The auth middleware
// guarantees it is present on every route registered here.
func subject(c *gin.Context) (string, bool) {
	s, ok := middleware.SubjectFromContext(c.Request.Context())
	if !ok || s == "" {
		httpapi.Error(c, http.StatusUnauthorized, httpapi.CodeUnauthorized, "unauthorized")
		return "", false
	}
	return s, true
}

// validate reports the first offending field of a create/update payload.
func validate(name, freezerID, itemType string) (field string, ok bool) {
	if strings.TrimSpace(name) == "" {
		return "name", false
	}
	if freezerID == "" {
		return "freezerId", false
	}
	if !item.ValidType(itemType) {
		return "itemType", false
	}
	return "", true
}

func (h *Handler) Create(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}

	var req item.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid request body")
		return
	}

	if field, ok := validate(req.Name, req.FreezerID, req.ItemType); !ok {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid field: "+field)
		return
	}

	now := time.Now().UTC()
	frozen := now
	if req.FrozenDate != nil {
		frozen = req.FrozenDate.UTC()
	}

	// Owner comes from the verified subject, unconditionally. Any
	// owner/user field a client sends is not even decoded.
	it := &item.FoodItem{
		OwnerID:     owner,
		Name:        req.Name,
		Description: req.Description,
		FreezerBox:  req.FreezerBox,
		FreezerID:   req.FreezerID,
		ItemType:    req.ItemType,
		FrozenDate:  frozen,
		CreatedAt:   now,
	}

	id, err := h.repo.Create(c.Request.Context(), it)
	if err != nil {
		logger.Error("item create failed", map[string]any{"error": err.Error()})
		httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "could not store item")
		return
	}
	it.ID = id

	httpapi.OK(c, it)
}

func (h *Handler) Get(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}
	id := c.Param("id")

	it, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.storageFailure(c, "item fetch failed", err)
		return
	}

	if it.OwnerID != owner {
		httpapi.Error(c, http.StatusForbidden, httpapi.CodeForbidden, "forbidden")
		return
	}

	httpapi.OK(c, it)
}

func (h *Handler) List(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}

	freezerID := c.Query("freezerId")
	if freezerID == "" {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid field: freezerId")
		return
	}

	items, err := h.repo.ListByFreezer(c.Request.Context(), owner, freezerID)
	if err != nil {
		logger.Error("item list failed", map[string]any{"error": err.Error()})
		httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "could not list items")
		return
	}

	httpapi.OK(c, items)
}

// Update applies the same fetch, authorize, mutate ordering as Delete.
func (h *Handler) Update(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req item.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid request body")
		return
	}
	if field, ok := validate(req.Name, req.FreezerID, req.ItemType); !ok {
		httpapi.Error(c, http.StatusBadRequest, httpapi.CodeValidationError, "invalid field: "+field)
		return
	}

	// 1. Fetch
	it, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.storageFailure(c, "item fetch failed", err)
		return
	}

	// 2. Authorize
	if it.OwnerID != owner {
		httpapi.Error(c, http.StatusForbidden, httpapi.CodeForbidden, "forbidden")
		return
	}

	// 3. Mutate. id, ownerId and createdAt stay as stored.
	it.Name = req.Name
	it.Description = req.Description
	it.FreezerBox = req.FreezerBox
	it.FreezerID = req.FreezerID
	it.ItemType = req.ItemType
	if req.FrozenDate != nil {
		it.FrozenDate = req.FrozenDate.UTC()
	}

	if err := h.repo.Update(c.Request.Context(), it); err != nil {
		h.storageFailure(c, "item update failed", err)
		return
	}

	httpapi.OK(c, it)
}

func (h *Handler) Delete(c *gin.Context) {
	owner, ok := subject(c)
	if !ok {
		return
	}
	id := c.Param("id")

	// 1. Fetch. A missing item is terminal before any ownership
	// comparison is attempted.
	it, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		h.storageFailure(c, "item fetch failed", err)
		return
	}

	// 2. Authorize. On mismatch nothing is deleted and the response
	// carries nothing about the item beyond a generic forbidden.
	if it.OwnerID != owner {
		logger.Warn("delete rejected", map[string]any{
			"reason": "owner_mismatch",
			"item":   id,
		})
		httpapi.Error(c, http.StatusForbidden, httpapi.CodeForbidden, "forbidden")
		return
	}

	// 3. Delete. A concurrent delete may already have removed the
	// record; the store reports that as not found.
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.storageFailure(c, "item delete failed", err)
		return
	}

	httpapi.OK(c, gin.H{"id": id})
}

func (h *Handler) storageFailure(c *gin.Context, msg string, err error) {
	if errors.Is(err, item.ErrNotFound) {
		httpapi.Error(c, http.StatusNotFound, httpapi.CodeNotFound, "item not found")
		return
	}
	logger.Error(msg, map[string]any{"error": err.Error()})
	httpapi.Error(c, http.StatusInternalServerError, httpapi.CodeStorageError, "storage failure")
}
