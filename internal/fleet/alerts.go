package fleet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// ParseSeverity converts a request value into a Severity. An empty value means no minimum.
func ParseSeverity(s string) (models.Severity, error) {
	if s == "" {
		return "", nil
	}
	sev := models.Severity(strings.ToLower(s))
	if !models.IsValidSeverity(sev) {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// FilterAlerts returns the alerts at or above minSeverity, most severe first and then by
// due date. An empty minSeverity keeps every alert.
func FilterAlerts(alerts []models.MaintenanceAlert, minSeverity models.Severity) []models.MaintenanceAlert {
	res := make([]models.MaintenanceAlert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity.Rank() >= minSeverity.Rank() {
			res = append(res, a)
		}
	}
	slices.SortStableFunc(res, func(a, b models.MaintenanceAlert) int {
		if a.Severity.Rank() != b.Severity.Rank() {
			return b.Severity.Rank() - a.Severity.Rank()
		}
		return a.DueDate.Compare(b.DueDate)
	})
	return res
}
