package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liuyang/ai-recommendation/internal/application/service"
	"github.com/liuyang/ai-recommendation/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	statusService  service.StatusService
	displayService service.DisplayService
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	statusService service.StatusService,
	displayService service.DisplayService,
	logger Logger,
) *Handlers {
	return &Handlers{
		statusService:  statusService,
		displayService: displayService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateRecommendationRequest is the body of POST /api/recommendations
type CreateRecommendationRequest struct {
	ConversationID *string `json:"conversation_id"`
	SessionID      *string `json:"session_id"`
	Content        string  `json:"content"`
}

// PaymentConfirmedRequest is the inbound payment-confirmed event
type PaymentConfirmedRequest struct {
	RecommendationID int64   `json:"recommendation_id" binding:"required"`
	Amount           float64 `json:"amount" binding:"required"`
	Method           string  `json:"method" binding:"required"`
}

// ReviewDecisionRequest is the inbound reviewer decision event
type ReviewDecisionRequest struct {
	RecommendationID int64  `json:"recommendation_id" binding:"required"`
	Decision         string `json:"decision" binding:"required"`
	ReviewerID       string `json:"reviewer_id" binding:"required"`
	Notes            string `json:"notes"`
}

// ListReviewTasksRequest represents query parameters for listing review tasks
type ListReviewTasksRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateRecommendation handles POST /api/recommendations
func (h *Handlers) CreateRecommendation(c *gin.Context) {
	var req CreateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	rec, err := h.statusService.CreateRecommendation(c.Request.Context(), req.ConversationID, req.SessionID, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    rec,
	})
}

// PaymentConfirmed handles POST /webhook/payment
func (h *Handlers) PaymentConfirmed(c *gin.Context) {
	var req PaymentConfirmedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	result, err := h.statusService.ApplyPayment(c.Request.Context(), req.RecommendationID, req.Amount, req.Method)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// ReviewDecision handles POST /webhook/review
func (h *Handlers) ReviewDecision(c *gin.Context) {
	var req ReviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	err := h.statusService.ApplyReviewDecision(c.Request.Context(), req.RecommendationID, req.Decision, req.ReviewerID, req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
	})
}

// GetStatus handles GET /api/recommendations/:id/status
func (h *Handlers) GetStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	snapshot, err := h.statusService.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    snapshot,
	})
}

// GetDisplay handles GET /api/recommendations/:id/display
func (h *Handlers) GetDisplay(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	role := c.DefaultQuery("role", entity.RoleSubmitter)

	payload, err := h.displayService.GetProjection(c.Request.Context(), id, role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    payload,
	})
}

// ListPayments handles GET /api/recommendations/:id/payments
func (h *Handlers) ListPayments(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	records, err := h.statusService.GetPayments(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// ListReviewTasks handles GET /api/review-tasks
func (h *Handlers) ListReviewTasks(c *gin.Context) {
	req := ListReviewTasksRequest{
		Status: entity.TaskStatusPending,
		Limit:  50,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}
	if req.Status == "" {
		req.Status = entity.TaskStatusPending
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}

	tasks, err := h.statusService.ListReviewTasks(c.Request.Context(), req.Status, req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    tasks,
	})
}

// parseID extracts the :id path parameter
func (h *Handlers) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid recommendation id",
		})
		return 0, false
	}
	return id, true
}

// respondError maps service errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrConsistencyViolation):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError || status == http.StatusServiceUnavailable {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
	})
}
