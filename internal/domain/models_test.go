package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"plain date", "2025-03-31", time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"timestamp", "2025-03-31 16:30:00", time.Date(2025, 3, 31, 16, 30, 0, 0, time.UTC)},
		{"rfc3339", "2025-03-31T16:30:00Z", time.Date(2025, 3, 31, 16, 30, 0, 0, time.UTC)},
		{"padded", "  2024-12-01 ", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "not a date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(ParseDate(tt.input)))
		})
	}
}

func TestTreasuryCurvePoint_Maturities(t *testing.T) {
	p := TreasuryCurvePoint{
		Month1: 1, Month2: 2, Month3: 3, Month6: 4,
		Year1: 5, Year2: 6, Year3: 7, Year5: 8,
		Year7: 9, Year10: 10, Year20: 11, Year30: 12,
	}

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, p.Maturities())
}
