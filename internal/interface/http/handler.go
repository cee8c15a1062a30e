package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-advice/internal/domain/advisor"
)

// Handler wires the HTTP transport to the advisor service.
type Handler struct {
	advisorSvc advisor.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorSvc advisor.Service, logger *slog.Logger) *Handler {
	return &Handler{
		advisorSvc: advisorSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// DailyAdvice returns today's and tomorrow's advice bundles.
func (h *Handler) DailyAdvice(c *gin.Context) {
	req, ok := bindAdviceRequest(c)
	if !ok {
		return
	}
	resp, err := h.advisorSvc.DailyAdvice(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WeeklyAdvice returns a bundle for every forecast day.
func (h *Handler) WeeklyAdvice(c *gin.Context) {
	req, ok := bindAdviceRequest(c)
	if !ok {
		return
	}
	resp, err := h.advisorSvc.WeeklyAdvice(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SearchLocations proxies free-text geocoding.
func (h *Handler) SearchLocations(c *gin.Context) {
	items, err := h.advisorSvc.SearchLocations(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": items})
}

// RecentLocations lists recently requested locations.
func (h *Handler) RecentLocations(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, badRequest("limit must be a non-negative integer", err))
			return
		}
		limit = parsed
	}
	items, err := h.advisorSvc.RecentLocations(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": items})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindAdviceRequest accepts an empty body as a request for the default location.
func bindAdviceRequest(c *gin.Context) (advisor.Request, bool) {
	var req advisor.Request
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, badRequest("request body must be a JSON advice request", err))
		return advisor.Request{}, false
	}
	return req, true
}
