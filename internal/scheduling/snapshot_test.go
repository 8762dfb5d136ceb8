package scheduling

import (
	"testing"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRules_SpecificDateReplacesWeekdayForGroup(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, therapistA, "10:00", 3),
		weekdayRule(t, 2, therapistA, "14:00", 3),
		dateRule(t, 3, therapistA, "10:00", 1),
		weekdayRule(t, 4, therapistB, "10:00", 2),
	}

	resolved := ResolveRules(rules, testDate)

	ids := make([]int64, 0, len(resolved))
	for _, r := range resolved {
		ids = append(ids, r.ID)
	}
	// Для терапевта A дата заменяет оба еженедельных правила, у B еженедельное остается
	assert.ElementsMatch(t, []int64{3, 4}, ids)
}

func TestResolveRules_OtherWeekdayAndInactiveIgnored(t *testing.T) {
	otherDay := weekdayRule(t, 1, nil, "10:00", 1)
	otherDay.Day = domain.DayOfWeek((testDate.Weekday() + 1) % 7)
	inactive := weekdayRule(t, 2, nil, "10:00", 1)
	inactive.IsActive = false

	assert.Empty(t, ResolveRules([]domain.AvailabilityRule{otherDay, inactive}, testDate))
}

func TestCheckCapacity_OverridePrecedence(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, nil, "10:00", 5),
		dateRule(t, 2, nil, "10:00", 1),
	}
	s := NewSnapshot(testDate, nil, rules, nil, []domain.Booking{booking(t, 1, nil, "10:00", "11:00")})

	capacity, err := s.CheckCapacity(query(t, nil, "10:00"), testDuration)

	require.NoError(t, err)
	assert.Equal(t, 1, capacity.BookingLimit)
	assert.Equal(t, 0, capacity.Remaining)
	assert.False(t, capacity.IsAvailable)
}

func TestCheckCapacity_NotOffered(t *testing.T) {
	s := NewSnapshot(testDate, nil, []domain.AvailabilityRule{weekdayRule(t, 1, nil, "10:00", 1)}, nil, nil)

	_, err := s.CheckCapacity(query(t, nil, "11:00"), testDuration)

	assert.ErrorIs(t, err, domain.ErrSlotNotOffered)
}

func TestCheckCapacity_PooledAcrossTherapists(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, therapistA, "10:00", 2),
		weekdayRule(t, 2, therapistB, "10:00", 1),
	}
	blocks := []domain.ScheduleBlock{
		workingBlock(t, 1, 1, "09:00", "17:00"),
		workingBlock(t, 2, 2, "09:00", "17:00"),
	}
	bookings := []domain.Booking{
		booking(t, 1, therapistA, "10:00", "11:00"),
		booking(t, 2, therapistB, "10:00", "11:00"),
		booking(t, 3, therapistB, "11:00", "12:00"), // другое время
	}
	cancelled := booking(t, 4, therapistA, "10:00", "11:00")
	cancelled.Status = domain.StatusCancelledByClient
	bookings = append(bookings, cancelled)

	s := NewSnapshot(testDate, nil, rules, blocks, bookings)

	pooled, err := s.CheckCapacity(query(t, nil, "10:00"), testDuration)
	require.NoError(t, err)
	assert.Equal(t, domain.Capacity{BookingLimit: 3, Booked: 2, Remaining: 1, IsAvailable: true}, pooled)

	forA, err := s.CheckCapacity(query(t, therapistA, "10:00"), testDuration)
	require.NoError(t, err)
	assert.Equal(t, domain.Capacity{BookingLimit: 2, Booked: 1, Remaining: 1, IsAvailable: true}, forA)

	forB, err := s.CheckCapacity(query(t, therapistB, "10:00"), testDuration)
	require.NoError(t, err)
	assert.Equal(t, 0, forB.Remaining)
	assert.False(t, forB.IsAvailable)
}

func TestCheckBookable_TherapistLimitedByPool(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, therapistA, "10:00", 1),
		weekdayRule(t, 2, therapistB, "10:00", 1),
	}
	blocks := []domain.ScheduleBlock{
		workingBlock(t, 1, 1, "09:00", "17:00"),
		workingBlock(t, 2, 2, "09:00", "17:00"),
	}
	// Две записи "к любому терапевту" уже заняли весь пул
	bookings := []domain.Booking{
		booking(t, 1, nil, "10:00", "11:00"),
		booking(t, 2, nil, "10:00", "11:00"),
	}
	s := NewSnapshot(testDate, nil, rules, blocks, bookings)

	specific, err := s.CheckCapacity(query(t, therapistA, "10:00"), testDuration)
	require.NoError(t, err)
	assert.True(t, specific.IsAvailable)

	bookable, err := s.CheckBookable(query(t, therapistA, "10:00"), testDuration)
	require.NoError(t, err)
	assert.False(t, bookable.IsAvailable)
	assert.Equal(t, 0, bookable.Remaining)
}

func TestMatchRules_TherapistMustBeWorking(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, therapistA, "10:00", 1),
		weekdayRule(t, 2, therapistB, "10:00", 1),
	}
	blocks := []domain.ScheduleBlock{
		workingBlock(t, 1, 1, "09:00", "17:00"),
		timeOffBlock(t, 2, 1, "10:30", "11:00"),
		workingBlock(t, 3, 2, "09:00", "17:00"),
	}
	s := NewSnapshot(testDate, nil, rules, blocks, nil)

	matched, err := s.MatchRules(query(t, nil, "10:00"), testDuration)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, int64(2), matched[0].ID)

	_, err = s.CheckCapacity(query(t, therapistA, "10:00"), testDuration)
	assert.ErrorIs(t, err, domain.ErrSlotNotOffered)
}

func TestAvailableSlots(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, nil, "14:00", 2),
		weekdayRule(t, 2, nil, "10:00", 1),
		weekdayRule(t, 3, therapistA, "10:00", 1),
	}
	blocks := []domain.ScheduleBlock{workingBlock(t, 1, 1, "09:00", "12:00")}
	bookings := []domain.Booking{booking(t, 1, nil, "10:00", "11:00")}
	s := NewSnapshot(testDate, nil, rules, blocks, bookings)

	slots, err := s.AvailableSlots(testServiceID, testOptionID, nil, testDuration)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, domain.Slot{StartTime: ts(t, "10:00"), EndTime: ts(t, "11:00"), Remaining: 1, BookingLimit: 2}, slots[0])
	assert.Equal(t, domain.Slot{StartTime: ts(t, "14:00"), EndTime: ts(t, "15:00"), Remaining: 2, BookingLimit: 2}, slots[1])
}

func TestAvailableSlots_SkipsTherapistOutsideWorkingHours(t *testing.T) {
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, therapistA, "10:00", 1),
		weekdayRule(t, 2, therapistA, "16:00", 1),
	}
	blocks := []domain.ScheduleBlock{workingBlock(t, 1, 1, "09:00", "12:00")}
	s := NewSnapshot(testDate, nil, rules, blocks, nil)

	slots, err := s.AvailableSlots(testServiceID, testOptionID, therapistA, testDuration)

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, ts(t, "10:00"), slots[0].StartTime)
}

func TestNewSnapshot_CopiesInputs(t *testing.T) {
	rules := []domain.AvailabilityRule{weekdayRule(t, 1, nil, "10:00", 2)}
	s := NewSnapshot(testDate, nil, rules, nil, nil)

	rules[0].BookingLimit = 100

	capacity, err := s.CheckCapacity(query(t, nil, "10:00"), testDuration)
	require.NoError(t, err)
	assert.Equal(t, 2, capacity.BookingLimit)
}

func TestMatchRules_PreviousOvernightShiftCoversEarlySlot(t *testing.T) {
	// Смена понедельника 22:00-06:00 продолжается утром вторника
	shift := workingBlock(t, 1, 1, "22:00", "06:00")
	shift.Day = domain.DayOfWeek(testDate.AddDate(0, 0, -1).Weekday())
	rules := []domain.AvailabilityRule{
		weekdayRule(t, 1, therapistA, "01:00", 1),
		weekdayRule(t, 2, therapistA, "07:00", 1),
	}
	s := NewSnapshot(testDate, nil, rules, []domain.ScheduleBlock{shift}, nil)

	early, err := s.MatchRules(query(t, therapistA, "01:00"), testDuration)
	require.NoError(t, err)
	assert.Len(t, early, 1)

	late, err := s.MatchRules(query(t, therapistA, "07:00"), testDuration)
	require.NoError(t, err)
	assert.Empty(t, late)
}

func TestRuleTherapists(t *testing.T) {
	rules := []*domain.AvailabilityRule{
		{ID: 1, TherapistID: therapistB},
		{ID: 2},
		{ID: 3, TherapistID: therapistA},
		{ID: 4, TherapistID: therapistB},
	}

	assert.Equal(t, []int64{2, 1}, RuleTherapists(rules, nil))
	assert.Equal(t, []int64{2, 1, 5}, RuleTherapists(rules, ptr.Ptr(int64(5))))
	assert.Equal(t, []int64{2, 1}, RuleTherapists(rules, therapistA))
	assert.Empty(t, RuleTherapists(nil, nil))
}
