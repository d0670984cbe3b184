package resolve

import (
	"log/slog"
	"net/http"

	"github.com/TomasB/ipresolve/internal/lookup"
	"github.com/gin-gonic/gin"
)

// BatchRequest represents the JSON body for a bulk lookup.
type BatchRequest struct {
	Addresses []string `json:"addresses" binding:"required,min=1"`
}

// BatchResponse represents the JSON response for a bulk lookup.
type BatchResponse struct {
	Results []lookup.Result `json:"results"`
}

// Handler manages IP resolution endpoints.
type Handler struct {
	service *lookup.Service
	batch   *lookup.Batch
}

// NewHandler creates a resolve handler backed by the given service and
// batch processor.
func NewHandler(service *lookup.Service, batch *lookup.Batch) *Handler {
	return &Handler{service: service, batch: batch}
}

// Lookup handles GET /api/v1/lookup/:ip
func (h *Handler) Lookup(c *gin.Context) {
	address := c.Param("ip")

	slog.Debug("lookup request received", "ip", address)

	result, err := h.service.Lookup(address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid IP address",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchLookup handles POST /api/v1/lookup
func (h *Handler) BatchLookup(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
		})
		return
	}

	slog.Debug("batch lookup request received", "count", len(req.Addresses))

	results := h.batch.Process(req.Addresses)
	if results == nil {
		results = []lookup.Result{}
	}

	c.JSON(http.StatusOK, BatchResponse{Results: results})
}
