package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"yard-tracking-backend/internal/model"
	"yard-tracking-backend/internal/store"
)

type registerLocationRequest struct {
	Warehouse string `json:"warehouse" binding:"required"`
	Street    string `json:"street" binding:"required"`
	Module    string `json:"module" binding:"required"`
	Bay       string `json:"bay" binding:"required"`
}

// RegisterLocation handles the POST /api/locations request.
func (h *Handler) RegisterLocation(c *gin.Context) {
	var req registerLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.store.RegisterLocation(c.Request.Context(), model.Location{
		Warehouse: req.Warehouse,
		Street:    req.Street,
		Module:    req.Module,
		Bay:       req.Bay,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, location)
}

// SearchLocation handles the GET /api/locations/search request. Warehouse is
// required; street, module and bay narrow the match.
func (h *Handler) SearchLocation(c *gin.Context) {
	filter := store.LocationFilter{
		Warehouse: strings.TrimSpace(c.Query("warehouse")),
		Street:    strings.TrimSpace(c.Query("street")),
		Module:    strings.TrimSpace(c.Query("module")),
		Bay:       strings.TrimSpace(c.Query("bay")),
	}
	if filter.Warehouse == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "warehouse is required"})
		return
	}

	location, err := h.store.SearchLocation(c.Request.Context(), filter)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation handles the DELETE /api/locations/{id} request. Deletion
// cascades to every history record referencing the location.
func (h *Handler) DeleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}

	if err := h.store.DeleteLocationCascade(c.Request.Context(), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
