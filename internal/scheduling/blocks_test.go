package scheduling

import (
	"testing"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtractIntervals(t *testing.T) {
	tests := []struct {
		name     string
		working  []types.Interval
		occupied []types.Interval
		want     []types.Interval
	}{
		{
			name:     "nothing occupied",
			working:  []types.Interval{{Start: 540, End: 1020}},
			occupied: nil,
			want:     []types.Interval{{Start: 540, End: 1020}},
		},
		{
			name:     "overlapping occupied intervals are merged",
			working:  []types.Interval{{Start: 540, End: 1020}},
			occupied: []types.Interval{{Start: 600, End: 700}, {Start: 650, End: 720}},
			want:     []types.Interval{{Start: 540, End: 600}, {Start: 720, End: 1020}},
		},
		{
			name:     "adjacent occupied intervals leave no sliver",
			working:  []types.Interval{{Start: 540, End: 1020}},
			occupied: []types.Interval{{Start: 600, End: 660}, {Start: 660, End: 720}},
			want:     []types.Interval{{Start: 540, End: 600}, {Start: 720, End: 1020}},
		},
		{
			name:     "straddling interval is clipped",
			working:  []types.Interval{{Start: 540, End: 1020}},
			occupied: []types.Interval{{Start: 480, End: 600}, {Start: 1000, End: 1100}},
			want:     []types.Interval{{Start: 600, End: 1000}},
		},
		{
			name:     "interval outside the block contributes nothing",
			working:  []types.Interval{{Start: 540, End: 720}},
			occupied: []types.Interval{{Start: 800, End: 900}},
			want:     []types.Interval{{Start: 540, End: 720}},
		},
		{
			name:     "fully occupied",
			working:  []types.Interval{{Start: 540, End: 600}},
			occupied: []types.Interval{{Start: 500, End: 700}},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, subtractIntervals(tt.working, tt.occupied))
		})
	}
}

func TestResolveBlocks_SpecificDateReplacesWeekday(t *testing.T) {
	weekly := workingBlock(t, 1, 1, "09:00", "17:00")
	override := workingBlock(t, 2, 1, "12:00", "14:00")
	override.Day = domain.SpecificDate(testDate)

	day := ResolveBlocks([]domain.ScheduleBlock{weekly, override}, 1, testDate)

	require.Len(t, day.Working, 1)
	assert.Equal(t, int64(2), day.Working[0].Block.ID)
	assert.False(t, day.Closed)
}

func TestResolveBlocks_ClosedOverride(t *testing.T) {
	weekly := workingBlock(t, 1, 1, "09:00", "17:00")
	closed := domain.ScheduleBlock{
		ID:          2,
		TherapistID: 1,
		Type:        domain.BlockWorkingHours,
		Day:         domain.SpecificDate(testDate),
		IsClosed:    true,
		IsActive:    true,
	}

	day := ResolveBlocks([]domain.ScheduleBlock{weekly, closed}, 1, testDate)

	assert.True(t, day.Closed)
	assert.Empty(t, day.Working)
	assert.Empty(t, day.Available())
}

func TestResolveBlocks_EffectiveWindow(t *testing.T) {
	expired := workingBlock(t, 1, 1, "09:00", "17:00")
	expired.EffectiveTo = ptr.Ptr(testDate.AddDate(0, 0, -1))
	current := workingBlock(t, 2, 1, "10:00", "18:00")
	current.EffectiveFrom = ptr.Ptr(testDate)

	day := ResolveBlocks([]domain.ScheduleBlock{expired, current}, 1, testDate)

	require.Len(t, day.Working, 1)
	assert.Equal(t, int64(2), day.Working[0].Block.ID)
}

func TestResolveBlocks_OvernightWrapWarns(t *testing.T) {
	night := workingBlock(t, 7, 1, "22:00", "02:00")

	day := ResolveBlocks([]domain.ScheduleBlock{night}, 1, testDate)

	require.Len(t, day.Working, 1)
	assert.Equal(t, types.Interval{Start: 22 * 60, End: 26 * 60}, day.Working[0].Interval)
	require.Len(t, day.Warnings, 1)
	assert.Equal(t, domain.WarningOvernightWrap, day.Warnings[0].Code)
	assert.Equal(t, int64(7), day.Warnings[0].BlockID)
}

func TestResolveBlocks_IgnoresOtherTherapistsAndInactive(t *testing.T) {
	other := workingBlock(t, 1, 2, "09:00", "17:00")
	inactive := workingBlock(t, 2, 1, "09:00", "17:00")
	inactive.IsActive = false

	day := ResolveBlocks([]domain.ScheduleBlock{other, inactive}, 1, testDate)

	assert.Empty(t, day.Working)
	assert.False(t, day.Closed)
}
