package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"partybus/internal/domain"
	"partybus/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	BusID    string `json:"bus_id"`
	StartsAt string `json:"starts_at"` // RFC 3339
	Hours    int    `json:"hours"`

	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	BusID      string `json:"bus_id"`
	OperatorID string `json:"operator_id"`

	StartsAt string `json:"starts_at"`
	Hours    int    `json:"hours"`

	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`

	TotalPrice         float64 `json:"total_price"`
	DepositAmount      float64 `json:"deposit_amount"`
	ApprovedStopsTotal float64 `json:"approved_stops_total"`

	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateBookingResponse is the HTTP response for creating a booking.
type CreateBookingResponse struct {
	BookingResponse
	BasePrice  float64 `json:"base_price"`
	ServiceFee float64 `json:"service_fee"`
}

func toBookingResponse(booking *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:                 booking.ID,
		CustomerID:         booking.CustomerID,
		BusID:              booking.BusID,
		OperatorID:         booking.OperatorID,
		StartsAt:           booking.StartsAt.Format(timeFormat),
		Hours:              booking.Hours,
		PickupLocation:     booking.PickupLocation,
		DropoffLocation:    booking.DropoffLocation,
		TotalPrice:         booking.TotalPrice,
		DepositAmount:      booking.DepositAmount,
		ApprovedStopsTotal: booking.ApprovedStopsTotal,
		Status:             string(booking.Status),
		CreatedAt:          booking.CreatedAt.Format(timeFormat),
	}
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "starts_at must be RFC 3339"})
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		BusID:           req.BusID,
		StartsAt:        startsAt,
		Hours:           req.Hours,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		BookingResponse: toBookingResponse(result.Booking),
		BasePrice:       result.Quote.BasePrice,
		ServiceFee:      result.Quote.ServiceFee,
	})
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetAll handles GET /v1/bookings
func (h *BookingHandler) GetAll(c *gin.Context) {
	bookings, err := h.bookingService.GetAllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		response = append(response, toBookingResponse(booking))
	}

	c.JSON(http.StatusOK, response)
}
