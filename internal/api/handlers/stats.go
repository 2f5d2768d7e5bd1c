package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/jroosing/osdns/internal/api/models"
)

// Stats godoc
// @Summary Server statistics
// @Description Returns runtime statistics including memory, goroutines, and lookup counters
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)
	total, failed, avgLatency := h.stats.Snapshot()

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		Lookups: models.LookupStatsResponse{
			Total:        total,
			Failed:       failed,
			AvgLatencyMS: avgLatency,
		},
		Host: hostStats(),
	}

	c.JSON(http.StatusOK, resp)
}

// hostStats gathers host-level memory and CPU figures. Best effort: on
// platforms where gopsutil cannot read them, the block is omitted.
func hostStats() *models.HostStatsResponse {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	cores, err := cpu.Counts(true)
	if err != nil {
		cores = runtime.NumCPU()
	}
	return &models.HostStatsResponse{
		MemoryUsedPercent: vm.UsedPercent,
		MemoryTotalMB:     float64(vm.Total) / 1024 / 1024,
		CPUCores:          cores,
	}
}
