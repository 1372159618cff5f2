package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Location
		wantErr  bool
	}{
		{"with space", "34.0522, -118.2437", models.Location{Lat: 34.0522, Lng: -118.2437}, false},
		{"without space", "34.0522,-118.2437", models.Location{Lat: 34.0522, Lng: -118.2437}, false},
		{"padded", "  -33.8688 ,151.2093 ", models.Location{Lat: -33.8688, Lng: 151.2093}, false},
		{"integers", "0,0", models.Location{}, false},
		{"not a number", "abc", models.Location{}, true},
		{"single value", "34.05", models.Location{}, true},
		{"three values", "1,2,3", models.Location{}, true},
		{"empty longitude", "34.05,", models.Location{}, true},
		{"latitude out of range", "95,0", models.Location{}, true},
		{"longitude out of range", "0,181", models.Location{}, true},
		{"nan", "NaN,0", models.Location{}, true},
		{"empty", "", models.Location{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseCoordinates(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loc)
		})
	}
}
