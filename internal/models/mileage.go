package models

// MileagePoint is the distance a model covered in one month.
type MileagePoint struct {
	Month string `bson:"month" json:"month"`
	Km    int    `bson:"km" json:"km"`
}

// MileageSeries is the monthly mileage of one vehicle model, oldest month first.
type MileageSeries struct {
	Model  string         `bson:"model" json:"model"`
	Points []MileagePoint `bson:"points" json:"points"`
}

// TotalKm sums the series.
func (s MileageSeries) TotalKm() int {
	total := 0
	for _, p := range s.Points {
		total += p.Km
	}
	return total
}
