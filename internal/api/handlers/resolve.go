package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/osdns/internal/api/models"
	"github.com/jroosing/osdns/internal/dns"
	"github.com/jroosing/osdns/internal/history"
)

// Resolve godoc
// @Summary Resolve a name
// @Description Performs a DNS lookup through the OS stub resolver and returns the decoded values
// @Tags lookup
// @Produce json
// @Param name query string true "Name to resolve"
// @Param type query string false "Record type (A, AAAA, CNAME, TXT, SRV)" default(A)
// @Success 200 {object} models.ResolveResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /resolve [get]
func (h *Handler) Resolve(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name query parameter is required"})
		return
	}
	typeParam := c.DefaultQuery("type", "A")
	qtype, err := dns.ParseQueryType(typeParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unsupported record type: " + typeParam})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	values, err := h.resolve(ctx, name, qtype)
	elapsed := time.Since(start)

	h.stats.Record(err != nil, elapsed)
	h.journalLookup(name, qtype, values, err, elapsed)

	if err != nil {
		h.logger.Warn("lookup failed", "name", name, "type", qtype.String(), "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ResolveResponse{
		Name:       name,
		Type:       qtype.String(),
		Values:     values,
		DurationMS: elapsed.Milliseconds(),
	})
}

// journalLookup records the outcome in the history store, if one is
// configured. Journal failures are logged, never surfaced to the client.
func (h *Handler) journalLookup(name string, qtype dns.QueryType, values []string, lookupErr error, elapsed time.Duration) {
	if h.journal == nil {
		return
	}
	e := history.Entry{
		Name:      name,
		QueryType: qtype.String(),
		Outcome:   "ok",
		Answers:   len(values),
		Duration:  elapsed.Milliseconds(),
	}
	if lookupErr != nil {
		e.Outcome = "error"
		e.Error = lookupErr.Error()
	}
	if err := h.journal.Record(e); err != nil {
		h.logger.Error("failed to record lookup history", "error", err)
	}
}
