package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"yard-tracking-backend/internal/model"
)

type registerVehicleRequest struct {
	Plate         string `json:"plate" binding:"required"`
	ChassisNumber string `json:"chassisNumber" binding:"required"`
	Model         string `json:"model"`
	OdometerKm    int    `json:"odometerKm"`
	ContractCode  string `json:"contractCode"`
	IncidentNote  string `json:"incidentNote"`
}

// RegisterVehicle handles the POST /api/vehicles request.
func (h *Handler) RegisterVehicle(c *gin.Context) {
	var req registerVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vehicle, err := h.store.RegisterVehicle(c.Request.Context(), model.Vehicle{
		Plate:         req.Plate,
		ChassisNumber: req.ChassisNumber,
		Model:         req.Model,
		OdometerKm:    req.OdometerKm,
		ContractCode:  req.ContractCode,
		IncidentNote:  req.IncidentNote,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// ListVehicles handles the GET /api/vehicles request.
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.store.ListVehicles(c.Request.Context())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// searchVehicleResponse joins the vehicle with its latest location, if any.
type searchVehicleResponse struct {
	Vehicle  model.Vehicle   `json:"vehicle"`
	Location *model.Location `json:"location,omitempty"`
}

// SearchVehicle handles the GET /api/vehicles/search?query= request.
func (h *Handler) SearchVehicle(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	vehicle, location, err := h.store.SearchVehicle(c.Request.Context(), query)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, searchVehicleResponse{Vehicle: vehicle, Location: location})
}

// DeleteVehicle handles the DELETE /api/vehicles/{id} request. Deletion
// cascades to every history record referencing the vehicle.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle ID"})
		return
	}

	if err := h.store.DeleteVehicleCascade(c.Request.Context(), id); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
