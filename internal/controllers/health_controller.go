package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"ptd/internal/engine"
)

type HealthController struct {
	engine    engine.EngineInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Branch        string  `json:"branch"`
	Running       bool    `json:"running"`
	Timers        int     `json:"timers"`
	Alerts        int     `json:"alerts"`
	LastSyncError string  `json:"last_sync_error,omitempty"`
}

// Health reports liveness plus sync state. Status degrades to "degraded"
// when the last poll cycle failed; the process itself stays healthy.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Branch:        hc.engine.BranchID(),
		Running:       hc.engine.Running(),
		Timers:        len(hc.engine.Snapshot()),
		Alerts:        len(hc.engine.ActiveAlerts()),
	}
	if err := hc.engine.LastSyncError(); err != nil {
		resp.Status = "degraded"
		resp.LastSyncError = err.Error()
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(eng engine.EngineInterface) *HealthController {
	return &HealthController{
		engine:    eng,
		startTime: time.Now(),
	}
}
