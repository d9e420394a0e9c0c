package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partybus/internal/domain"
	"partybus/internal/service"
)

// OperatorHandler handles HTTP requests for operators.
type OperatorHandler struct {
	operatorService *service.OperatorService
}

// NewOperatorHandler creates a new OperatorHandler.
func NewOperatorHandler(operatorService *service.OperatorService) *OperatorHandler {
	return &OperatorHandler{operatorService: operatorService}
}

// RegisterOperatorRequest is the HTTP request body for operator registration.
type RegisterOperatorRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`

	BusName     string `json:"bus_name"`
	BusCapacity int    `json:"bus_capacity"`
}

// OperatorResponse is the HTTP response for operator operations.
type OperatorResponse struct {
	ID          string        `json:"id"`
	CompanyName string        `json:"company_name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	City        string        `json:"city"`
	IsApproved  bool          `json:"is_approved"`
	Buses       []BusResponse `json:"buses,omitempty"`
}

func toOperatorResponse(operator *domain.Operator) OperatorResponse {
	return OperatorResponse{
		ID:          operator.ID,
		CompanyName: operator.CompanyName,
		Email:       operator.Email,
		Phone:       operator.Phone,
		City:        operator.City,
		IsApproved:  operator.IsApproved,
	}
}

// Register handles POST /v1/operators
func (h *OperatorHandler) Register(c *gin.Context) {
	var req RegisterOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.operatorService.RegisterOperator(c.Request.Context(), service.RegisterOperatorRequest{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		City:        req.City,
		BusName:     req.BusName,
		BusCapacity: req.BusCapacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := toOperatorResponse(result.Operator)
	response.Buses = []BusResponse{toBusResponse(result.Bus)}

	respondJSON(c, http.StatusCreated, response)
}

// Approve handles POST /v1/operators/:id/approve
func (h *OperatorHandler) Approve(c *gin.Context) {
	operator, err := h.operatorService.ApproveOperator(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOperatorResponse(operator))
}

// GetAll handles GET /v1/operators
func (h *OperatorHandler) GetAll(c *gin.Context) {
	operators, err := h.operatorService.GetAllOperators(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OperatorResponse, 0, len(operators))
	for _, entry := range operators {
		op := toOperatorResponse(entry.Operator)
		for _, bus := range entry.Buses {
			op.Buses = append(op.Buses, toBusResponse(bus))
		}
		response = append(response, op)
	}

	c.JSON(http.StatusOK, response)
}
