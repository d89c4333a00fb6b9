package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yard-tracking-backend/internal/store"
)

type createHistoryRequest struct {
	VehicleID  int64 `json:"vehicleId" binding:"required"`
	LocationID int64 `json:"locationId" binding:"required"`
}

// CreateHistory handles the POST /api/history request: the commit of a
// receiving workflow. On success subscribers of the vehicle are notified.
func (h *Handler) CreateHistory(c *gin.Context) {
	var req createHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.store.CreateHistory(c.Request.Context(), req.VehicleID, req.LocationID)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(record.ID)
	}

	c.JSON(http.StatusCreated, record)
}

// ListHistory handles the GET /api/history request.
func (h *Handler) ListHistory(c *gin.Context) {
	records, err := h.store.ListHistory(c.Request.Context())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// DeleteHistory handles the DELETE /api/history/{id} request. Removes exactly
// one record.
func (h *Handler) DeleteHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history ID"})
		return
	}

	if err := h.store.DeleteHistory(c.Request.Context(), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearHistory handles the DELETE /api/history/all request. Vehicles and
// locations are left untouched.
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.store.ClearHistory(c.Request.Context()); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type updateHistoryLocationRequest struct {
	Warehouse string `json:"warehouse" binding:"required"`
	Street    string `json:"street" binding:"required"`
	Module    string `json:"module" binding:"required"`
	Bay       string `json:"bay" binding:"required"`
}

// UpdateHistoryLocation handles the PUT /api/history/{id}/location request:
// the location-correction operation. All four coordinates are required.
func (h *Handler) UpdateHistoryLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history ID"})
		return
	}

	var req updateHistoryLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.store.UpdateHistoryLocation(c.Request.Context(), id, store.LocationFilter{
		Warehouse: req.Warehouse,
		Street:    req.Street,
		Module:    req.Module,
		Bay:       req.Bay,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
