// File: carbook/handlers/vehicle.go
package handlers

import (
	"net/http"
	"time"

	"carbook/models"
	"carbook/services/reservation"

	"github.com/gin-gonic/gin"
)

// VehicleHandler serves catalogue and availability lookups.
type VehicleHandler struct {
	Reservations reservation.ReservationService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(svc reservation.ReservationService) *VehicleHandler {
	return &VehicleHandler{Reservations: svc}
}

func vehicleFilter(c *gin.Context) models.VehicleFilter {
	return models.VehicleFilter{
		FuelType: c.Query("fuel_type"),
		Type:     c.Query("type"),
		Status:   models.VehicleStatus(c.Query("status")),
	}
}

// ListVehicles returns the catalogue filtered by fuel_type, type and status.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.Reservations.ListVehicles(c.Request.Context(), vehicleFilter(c))
	if err != nil {
		respondError(c, "failed to list vehicles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}

// AvailableVehicles lists vehicles free over [from, to). Times are RFC 3339.
func (h *VehicleHandler) AvailableVehicles(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid from", "details": err.Error()})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid to", "details": err.Error()})
		return
	}

	vehicles, err := h.Reservations.AvailableVehicles(c.Request.Context(), vehicleFilter(c), from, to)
	if err != nil {
		respondError(c, "failed to search availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles), "from": from, "to": to})
}
