package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/osdns/internal/api/models"
)

// History godoc
// @Summary Recent lookups
// @Description Returns the most recent entries from the lookup journal
// @Tags lookup
// @Produce json
// @Param limit query int false "Maximum entries to return" default(100)
// @Success 200 {object} models.HistoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /history [get]
func (h *Handler) History(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "lookup history is disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.journal.Recent(limit)
	if err != nil {
		h.logger.Error("failed to read lookup history", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read lookup history"})
		return
	}
	c.JSON(http.StatusOK, models.HistoryResponse{Entries: entries})
}
