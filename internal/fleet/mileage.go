package fleet

import (
	"strings"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// FilterMileage returns the series whose model contains modelQuery, ignoring case.
// An empty query keeps every series. Input order is kept.
func FilterMileage(series []models.MileageSeries, modelQuery string) []models.MileageSeries {
	query := strings.ToLower(strings.TrimSpace(modelQuery))
	res := make([]models.MileageSeries, 0, len(series))
	for _, s := range series {
		if query == "" || strings.Contains(strings.ToLower(s.Model), query) {
			res = append(res, s)
		}
	}
	return res
}
