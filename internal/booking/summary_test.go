package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name         string
		draft        Draft
		wantDuration float64
		wantCost     float64
		wantHas      bool
	}{
		{
			name:         "two and a half hours",
			draft:        Draft{StartTime: "09:00", EndTime: "11:30", HourlyRate: 20},
			wantDuration: 2.5,
			wantCost:     50,
			wantHas:      true,
		},
		{
			name:         "duration rounds to one decimal, cost uses exact minutes",
			draft:        Draft{StartTime: "09:00", EndTime: "09:20", HourlyRate: 20},
			wantDuration: 0.3,
			wantCost:     6.67,
			wantHas:      true,
		},
		{
			name:         "seconds accepted",
			draft:        Draft{StartTime: "10:00:00", EndTime: "11:00:00", HourlyRate: 45.5},
			wantDuration: 1,
			wantCost:     45.5,
			wantHas:      true,
		},
		{
			name:  "end equals start",
			draft: Draft{StartTime: "10:00", EndTime: "10:00", HourlyRate: 20},
		},
		{
			name:  "end before start does not wrap past midnight",
			draft: Draft{StartTime: "23:00", EndTime: "01:00", HourlyRate: 20},
		},
		{
			name:  "missing end time",
			draft: Draft{StartTime: "10:00", HourlyRate: 20},
		},
		{
			name:  "unparsable start time",
			draft: Draft{StartTime: "ten", EndTime: "11:00", HourlyRate: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSummary(tt.draft)
			assert.Equal(t, tt.wantHas, got.HasDuration)
			assert.InDelta(t, tt.wantDuration, got.DurationHours, 1e-9)
			assert.InDelta(t, tt.wantCost, got.Cost, 1e-9)
		})
	}
}

func TestSummaryText(t *testing.T) {
	s := ComputeSummary(Draft{StartTime: "09:00", EndTime: "11:30", HourlyRate: 20})
	assert.Equal(t, "2.5 hours", s.DurationText())
	assert.Equal(t, "₹50.00", s.CostText())

	empty := ComputeSummary(Draft{StartTime: "11:30", EndTime: "09:00", HourlyRate: 20})
	assert.Equal(t, "-", empty.DurationText())
	assert.Equal(t, "₹0.00", empty.CostText())
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 2.3, RoundTo(2.25, 1))
	assert.Equal(t, 1.01, RoundTo(1.005000001, 2))
	assert.Equal(t, 0.0, RoundTo(0.04, 1))
}
