// Package models defines request and response types for the osdns REST API.
package models

import "github.com/jroosing/osdns/internal/history"

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse represents a simple status response.
type StatusResponse struct {
	Status string `json:"status"`
}

// ResolveResponse carries the decoded values of one lookup.
type ResolveResponse struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Values     []string `json:"values"`
	DurationMS int64    `json:"duration_ms"`
}

// LookupStatsResponse is the counters block of the stats endpoint.
type LookupStatsResponse struct {
	Total        uint64  `json:"total"`
	Failed       uint64  `json:"failed"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// HostStatsResponse is the host block of the stats endpoint.
type HostStatsResponse struct {
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	MemoryTotalMB     float64 `json:"memory_total_mb"`
	CPUCores          int     `json:"cpu_cores"`
}

// ServerStatsResponse is the full stats endpoint payload.
type ServerStatsResponse struct {
	Uptime        string              `json:"uptime"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	GoRoutines    int                 `json:"goroutines"`
	MemoryAllocMB float64             `json:"memory_alloc_mb"`
	Lookups       LookupStatsResponse `json:"lookups"`
	Host          *HostStatsResponse  `json:"host,omitempty"`
}

// HistoryResponse wraps recent lookup journal entries.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}
