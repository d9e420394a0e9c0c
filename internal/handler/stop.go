package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partybus/internal/domain"
	"partybus/internal/service"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// StopHandler handles HTTP requests for mid-trip stop requests.
type StopHandler struct {
	stopService *service.StopRequestService
}

// NewStopHandler creates a new StopHandler.
func NewStopHandler(stopService *service.StopRequestService) *StopHandler {
	return &StopHandler{stopService: stopService}
}

// CreateStopRequest is the HTTP request body for requesting a stop.
type CreateStopRequest struct {
	StopAddress              string `json:"stop_address"`
	EstimatedDurationMinutes int    `json:"estimated_duration_minutes"`
}

// DecideStopRequest is the HTTP request body for a driver decision.
type DecideStopRequest struct {
	Action string `json:"action"` // approve or deny
	Reason string `json:"reason,omitempty"`
}

// StopResponse is the HTTP response for stop request operations.
type StopResponse struct {
	ID                       string  `json:"id"`
	BookingID                string  `json:"booking_id"`
	StopAddress              string  `json:"stop_address"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	DetourMinutes            int     `json:"detour_minutes"`
	AdditionalCost           float64 `json:"additional_cost"`
	Status                   string  `json:"status"`
	RequestedAt              string  `json:"requested_at"`
	DecidedAt                string  `json:"decided_at,omitempty"`
	DenyReason               string  `json:"deny_reason,omitempty"`
}

// StopViewResponse adds the driver-facing schedule check to a stop response.
type StopViewResponse struct {
	StopResponse
	WouldCauseLateness  bool   `json:"would_cause_lateness"`
	NextBookingStartsAt string `json:"next_booking_starts_at,omitempty"`
	RespondBy           string `json:"respond_by,omitempty"`
}

func toStopResponse(req *domain.StopRequest) StopResponse {
	response := StopResponse{
		ID:                       req.ID,
		BookingID:                req.BookingID,
		StopAddress:              req.StopAddress,
		EstimatedDurationMinutes: req.EstimatedDuration,
		DetourMinutes:            req.DetourMinutes,
		AdditionalCost:           req.AdditionalCost,
		Status:                   string(req.Status),
		RequestedAt:              req.RequestedAt.Format(timeFormat),
	}

	if !req.DecidedAt.IsZero() {
		response.DecidedAt = req.DecidedAt.Format(timeFormat)
	}
	if req.DenyReason != "" {
		response.DenyReason = req.DenyReason
	}

	return response
}

// Create handles POST /v1/bookings/:id/stops
func (h *StopHandler) Create(c *gin.Context) {
	bookingID := c.Param("id")

	var req CreateStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	stopRequest, err := h.stopService.CreateStopRequest(c.Request.Context(), service.CreateStopRequestRequest{
		BookingID:         bookingID,
		StopAddress:       req.StopAddress,
		EstimatedDuration: req.EstimatedDurationMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toStopResponse(stopRequest))
}

// Decide handles POST /v1/stops/:id/decision
func (h *StopHandler) Decide(c *gin.Context) {
	stopID := c.Param("id")

	var req DecideStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	stopRequest, err := h.stopService.Decide(c.Request.Context(), service.DecideStopRequest{
		StopID: stopID,
		Action: service.DecisionAction(req.Action),
		Reason: req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toStopResponse(stopRequest))
}

// Get handles GET /v1/stops/:id
func (h *StopHandler) Get(c *gin.Context) {
	stopID := c.Param("id")

	view, err := h.stopService.GetStopRequest(c.Request.Context(), stopID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := StopViewResponse{
		StopResponse:       toStopResponse(view.Request),
		WouldCauseLateness: view.WouldCauseLateness,
	}
	if !view.NextBookingStartsAt.IsZero() {
		response.NextBookingStartsAt = view.NextBookingStartsAt.Format(timeFormat)
	}
	if !view.RespondBy.IsZero() {
		response.RespondBy = view.RespondBy.Format(timeFormat)
	}

	respondJSON(c, http.StatusOK, response)
}

// ListForBooking handles GET /v1/bookings/:id/stops
func (h *StopHandler) ListForBooking(c *gin.Context) {
	bookingID := c.Param("id")

	stops, err := h.stopService.ListStopRequests(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StopResponse, 0, len(stops))
	for _, stop := range stops {
		response = append(response, toStopResponse(stop))
	}

	c.JSON(http.StatusOK, response)
}

// OperatorStats handles GET /v1/operators/:id/stop-stats
func (h *StopHandler) OperatorStats(c *gin.Context) {
	operatorID := c.Param("id")

	approved, decided, err := h.stopService.OperatorStopStats(c.Request.Context(), operatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"operator_id": operatorID,
		"approved":    approved,
		"decided":     decided,
	})
}
