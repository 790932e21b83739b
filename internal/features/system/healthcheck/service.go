package system_healthcheck

import (
	"log/slog"
	"time"

	"bughive/internal/config"

	"github.com/shirou/gopsutil/v4/disk"
)

const diskUsageWarningPercent = 90

type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	CheckedAt  time.Time                  `json:"checkedAt"`
}

type availabilityChecker interface {
	IsAvailable() error
}

type HealthcheckService struct {
	availability availabilityChecker
	logger       *slog.Logger
}

// CheckHealth probes the backing stores and local disk. The report is
// degraded rather than failed when only the disk is close to full.
func (s *HealthcheckService) CheckHealth() *HealthReport {
	report := &HealthReport{
		Status:     "ok",
		Components: make(map[string]ComponentHealth),
		CheckedAt:  time.Now().UTC(),
	}

	if err := s.availability.IsAvailable(); err != nil {
		s.logger.Error("healthcheck dependency probe failed", "error", err)
		report.Status = "unavailable"
		report.Components["dependencies"] = ComponentHealth{Status: "down", Detail: err.Error()}
	} else {
		report.Components["dependencies"] = ComponentHealth{Status: "up"}
	}

	report.Components["disk"] = s.checkDisk(report)

	return report
}

func (s *HealthcheckService) checkDisk(report *HealthReport) ComponentHealth {
	usage, err := disk.Usage(config.GetEnv().BackendRootPath)
	if err != nil {
		s.logger.Error("failed to read disk usage", "error", err)
		return ComponentHealth{Status: "unknown", Detail: err.Error()}
	}

	if usage.UsedPercent >= diskUsageWarningPercent {
		if report.Status == "ok" {
			report.Status = "degraded"
		}

		return ComponentHealth{
			Status: "almost_full",
			Detail: usage.Path,
		}
	}

	return ComponentHealth{Status: "ok"}
}
