package server

import (
	"net/http"
	"time"

	"github.com/aristath/tradejournal/internal/database"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// BackupLister lists local snapshots, newest first
type BackupLister interface {
	List() ([]string, error)
}

// SystemStatusResponse is the payload of GET /system/status
type SystemStatusResponse struct {
	Status        string          `json:"status"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	CPUPercent    float64         `json:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent"`
	Database      *database.Stats `json:"database,omitempty"`
	Backups       int             `json:"backups"`
	LatestBackup  string          `json:"latest_backup,omitempty"`
	LastChecked   string          `json:"last_checked"`
}

// SystemHandlers serves process and database health
type SystemHandlers struct {
	log         zerolog.Logger
	db          *database.DB
	backups     BackupLister
	version     string
	startupTime time.Time

	// sampled for tests
	systemStats func() (float64, float64)
}

// NewSystemHandlers creates system handlers. backups may be nil.
func NewSystemHandlers(db *database.DB, backups BackupLister, version string, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		db:          db,
		backups:     backups,
		version:     version,
		startupTime: time.Now(),
	}
	h.systemStats = h.getSystemStats
	return h
}

// HandleSystemStatus reports uptime, host load and database stats
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := h.db.QuickCheck(r.Context()); err != nil {
			h.log.Error().Err(err).Msg("Database ping failed")
			response.Status = "degraded"
		}
		stats, err := h.db.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get database stats")
		} else {
			response.Database = stats
		}
	}

	if h.backups != nil {
		names, err := h.backups.List()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to list backups")
		} else {
			response.Backups = len(names)
			if len(names) > 0 {
				response.LatestBackup = names[0]
			}
		}
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// getSystemStats calculates CPU and RAM usage percentages
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	// 100ms keeps the request fast while still giving a usable reading
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
