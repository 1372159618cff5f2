package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

func alertIDs(alerts []models.MaintenanceAlert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.VehicleID
	}
	return out
}

func TestFilterAlerts(t *testing.T) {
	alerts := db.SampleAlerts()
	assert.Equal(t, []string{"CAR-006", "CAR-002", "CAR-008"}, alertIDs(FilterAlerts(alerts, "")))
	assert.Equal(t, []string{"CAR-006", "CAR-002"}, alertIDs(FilterAlerts(alerts, models.SeverityMedium)))
	assert.Equal(t, []string{"CAR-006"}, alertIDs(FilterAlerts(alerts, models.SeverityHigh)))
	assert.Empty(t, FilterAlerts(nil, models.SeverityLow))
}

func TestFilterAlerts_SameSeverityByDueDate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }
	alerts := []models.MaintenanceAlert{
		{VehicleID: "late", Severity: models.SeverityHigh, DueDate: day(20)},
		{VehicleID: "soon", Severity: models.SeverityHigh, DueDate: day(2)},
		{VehicleID: "low", Severity: models.SeverityLow, DueDate: day(1)},
	}
	assert.Equal(t, []string{"soon", "late", "low"}, alertIDs(FilterAlerts(alerts, "")))
}

func TestParseSeverity(t *testing.T) {
	sev, err := ParseSeverity("HIGH")
	require.NoError(t, err)
	assert.Equal(t, models.SeverityHigh, sev)

	sev, err = ParseSeverity("")
	require.NoError(t, err)
	assert.Equal(t, models.Severity(""), sev)

	_, err = ParseSeverity("urgent")
	assert.Error(t, err)
}
