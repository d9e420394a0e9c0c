package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partybus/internal/domain"
	"partybus/internal/service"
)

// BusHandler handles HTTP requests for the bus search.
type BusHandler struct {
	busService *service.BusService
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(busService *service.BusService) *BusHandler {
	return &BusHandler{busService: busService}
}

// BusResponse is the HTTP representation of a bus.
type BusResponse struct {
	ID           string   `json:"id"`
	OperatorID   string   `json:"operator_id"`
	Name         string   `json:"name"`
	Capacity     int      `json:"capacity"`
	HourlyRate   float64  `json:"hourly_rate"`
	MinimumHours int      `json:"minimum_hours"`
	Features     []string `json:"features"`
	Description  string   `json:"description,omitempty"`
	IsActive     bool     `json:"is_active"`
}

// BusListingResponse is a bus search result with operator details.
type BusListingResponse struct {
	BusResponse
	OperatorName string `json:"operator_name"`
	OperatorCity string `json:"operator_city"`
}

func toBusResponse(bus *domain.Bus) BusResponse {
	return BusResponse{
		ID:           bus.ID,
		OperatorID:   bus.OperatorID,
		Name:         bus.Name,
		Capacity:     bus.Capacity,
		HourlyRate:   bus.HourlyRate,
		MinimumHours: bus.MinimumHours,
		Features:     bus.Features,
		Description:  bus.Description,
		IsActive:     bus.IsActive,
	}
}

// GetAll handles GET /v1/buses
func (h *BusHandler) GetAll(c *gin.Context) {
	listings, err := h.busService.ListActiveBuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BusListingResponse, 0, len(listings))
	for _, listing := range listings {
		response = append(response, BusListingResponse{
			BusResponse:  toBusResponse(&listing.Bus),
			OperatorName: listing.OperatorName,
			OperatorCity: listing.OperatorCity,
		})
	}

	c.JSON(http.StatusOK, response)
}
