package get_schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// понедельник
var monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

type memData struct {
	therapists []*domain.Therapist
	blocks     []*domain.ScheduleBlock
	bookings   []*domain.Booking
	listErr    error
	filters    []domain.BookingsFilter
}

func (m *memData) List(_ context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	m.filters = append(m.filters, f)
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Booking
	for _, b := range m.bookings {
		if f.TherapistID != nil && (b.TherapistID == nil || *b.TherapistID != *f.TherapistID) {
			continue
		}
		if f.From != nil && !b.EndTime.After(*f.From) {
			continue
		}
		if f.To != nil && !b.StartTime.Before(*f.To) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memData) ListByTherapists(_ context.Context, ids []int64) ([]*domain.ScheduleBlock, error) {
	var out []*domain.ScheduleBlock
	for _, b := range m.blocks {
		for _, id := range ids {
			if b.TherapistID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (m *memData) GetTherapist(_ context.Context, id int64) (*domain.Therapist, error) {
	for _, t := range m.therapists {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, catalogRepo.ErrTherapistNotFound
}

func (m *memData) ListActiveTherapists(context.Context) ([]*domain.Therapist, error) {
	var out []*domain.Therapist
	for _, t := range m.therapists {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

type readOnlyTx struct{ calls int }

func (t *readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	corrupt   []string
	overnight []string
}

func (m *recordingMetrics) CorruptBookingDuration(therapist string) {
	m.corrupt = append(m.corrupt, therapist)
}

func (m *recordingMetrics) OvernightWrap(kind string) {
	m.overnight = append(m.overnight, kind)
}

func (m *memData) addBlock(therapistID int64, typ domain.ScheduleBlockType, day domain.DaySelector, start, end string) {
	m.blocks = append(m.blocks, &domain.ScheduleBlock{
		ID:          int64(len(m.blocks) + 1),
		TherapistID: therapistID,
		Type:        typ,
		Day:         day,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsActive:    true,
	})
}

func (m *memData) addBooking(therapistID int64, date time.Time, start string, duration time.Duration) {
	startAt, _ := types.TimeString(start).On(date, time.UTC)
	m.bookings = append(m.bookings, &domain.Booking{
		ID:          int64(len(m.bookings) + 1),
		TherapistID: ptr.Ptr(therapistID),
		StartTime:   startAt,
		EndTime:     startAt.Add(duration),
		Status:      domain.StatusConfirmed,
	})
}

func newData() *memData {
	return &memData{
		therapists: []*domain.Therapist{
			{ID: 1, Name: "Anna", IsActive: true},
			{ID: 2, Name: "Boris", IsActive: true},
			{ID: 3, Name: "Retired", IsActive: false},
		},
	}
}

type fixture struct {
	data    *memData
	tx      *readOnlyTx
	metrics *recordingMetrics
}

func newFixture(data *memData) *fixture {
	return &fixture{data: data, tx: &readOnlyTx{}, metrics: &recordingMetrics{}}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(f.data, f.data, f.data, f.tx, f.metrics,
		Settings{Location: time.UTC, MaxBookingDuration: 24 * time.Hour}, logger.NewNop())
}

func TestDaily_ComposesTherapistDay(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "09:00", "17:00")
	data.addBlock(1, domain.BlockTimeOff, domain.DayOfWeek(time.Monday), "13:00", "14:00")
	data.addBooking(1, monday, "10:00", time.Hour)
	data.addBooking(2, monday, "10:00", time.Hour)
	f := newFixture(data)

	day, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, "Anna", day.TherapistName)
	require.Len(t, day.Bookings, 1)
	assert.Equal(t, types.TimeString("10:00"), day.Bookings[0].StartTime)
	assert.Equal(t, []domain.TimeRange{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "11:00", EndTime: "13:00"},
		{StartTime: "14:00", EndTime: "17:00"},
	}, day.FreeSlots)
	assert.Equal(t, 480, day.Summary.TotalWorkingMinutes)
	assert.Equal(t, 60, day.Summary.TotalTimeOffMinutes)
	assert.Equal(t, 12.5, day.Summary.UtilizationRate)
	assert.Equal(t, 1, f.tx.calls)
}

func TestDaily_CorruptBookingIsReported(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "09:00", "17:00")
	data.addBooking(1, monday, "09:00", 4*time.Hour)
	data.addBooking(1, monday, "14:00", 30*time.Hour)
	f := newFixture(data)

	day, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, 50.0, day.Summary.UtilizationRate)
	require.Len(t, day.Warnings, 1)
	assert.Equal(t, domain.WarningCorruptBookingDuration, day.Warnings[0].Code)
	assert.Equal(t, []string{"1"}, f.metrics.corrupt)
}

func TestDaily_OvernightBlockIsReported(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "22:00", "02:00")
	f := newFixture(data)

	day, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday})

	require.NoError(t, err)
	require.Len(t, day.Warnings, 1)
	assert.Equal(t, domain.WarningOvernightWrap, day.Warnings[0].Code)
	assert.Equal(t, []string{"schedule_block"}, f.metrics.overnight)
}

func TestDaily_OvernightShiftCountsNextMorningBooking(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "22:00", "06:00")
	data.addBooking(1, monday.AddDate(0, 0, 1), "01:00", time.Hour)
	f := newFixture(data)

	day, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{
		{StartTime: "22:00", EndTime: "01:00"},
		{StartTime: "02:00", EndTime: "06:00"},
	}, day.FreeSlots)
	assert.Equal(t, 60, day.Summary.TotalBookedMinutes)
	assert.Equal(t, 1, day.Summary.TotalBookings)

	// Вторник не считает бронирование ночной смены понедельника еще раз
	tuesday, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Zero(t, tuesday.Summary.TotalBookings)
	assert.Zero(t, tuesday.Summary.TotalBookedMinutes)
}

func TestDaily_ClosedOverride(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "09:00", "17:00")
	data.blocks = append(data.blocks, &domain.ScheduleBlock{
		ID: 99, TherapistID: 1, Type: domain.BlockWorkingHours,
		Day: domain.SpecificDate(monday), IsClosed: true, IsActive: true,
	})
	f := newFixture(data)

	day, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday})

	require.NoError(t, err)
	assert.True(t, day.IsClosed)
	assert.Empty(t, day.FreeSlots)
	assert.Zero(t, day.Summary.TotalWorkingMinutes)
}

func TestDaily_Errors(t *testing.T) {
	f := newFixture(newData())

	_, err := f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 0, Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 42, Date: monday})
	assert.ErrorIs(t, err, ErrTherapistNotFound)

	f.data.listErr = errors.New("connection reset")
	_, err = f.useCase().Daily(context.Background(), &DailyRequest{TherapistID: 1, Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestWeekly_SevenIndependentDays(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "09:00", "13:00")
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Tuesday), "09:00", "13:00")
	data.addBooking(1, monday, "09:00", 2*time.Hour)
	data.addBooking(1, monday.AddDate(0, 0, 1), "09:00", 4*time.Hour)
	// за пределами недели
	data.addBooking(1, monday.AddDate(0, 0, 7), "09:00", time.Hour)
	f := newFixture(data)

	week, err := f.useCase().Weekly(context.Background(), &WeeklyRequest{TherapistID: 1, StartDate: monday})

	require.NoError(t, err)
	require.Len(t, week.Days, 7)
	assert.Equal(t, monday, week.Days[0].Date)
	assert.Equal(t, monday.AddDate(0, 0, 6), week.Days[6].Date)
	assert.Equal(t, 50.0, week.Days[0].Summary.UtilizationRate)
	assert.Equal(t, 100.0, week.Days[1].Summary.UtilizationRate)
	assert.Zero(t, week.Days[2].Summary.TotalWorkingMinutes)

	assert.Equal(t, domain.PeriodSummary{
		TotalBookings:       2,
		TotalBookedMinutes:  360,
		TotalWorkingMinutes: 480,
		AverageUtilization:  21.43,
	}, week.Summary)

	require.Len(t, data.filters, 1)
	assert.Equal(t, monday.AddDate(0, 0, 8), *data.filters[0].To)
}

func TestOverview_AllActiveTherapists(t *testing.T) {
	data := newData()
	data.addBlock(1, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "09:00", "17:00")
	data.addBlock(2, domain.BlockWorkingHours, domain.DayOfWeek(time.Monday), "09:00", "13:00")
	data.addBooking(1, monday, "09:00", 4*time.Hour)
	data.addBooking(2, monday, "09:00", 4*time.Hour)
	f := newFixture(data)

	overview, err := f.useCase().Overview(context.Background(), &OverviewRequest{Date: monday})

	require.NoError(t, err)
	require.Len(t, overview.Therapists, 2)
	assert.Equal(t, "Anna", overview.Therapists[0].TherapistName)
	assert.Equal(t, 50.0, overview.Therapists[0].Summary.UtilizationRate)
	assert.Equal(t, 100.0, overview.Therapists[1].Summary.UtilizationRate)
	assert.Equal(t, 2, overview.Summary.TotalBookings)
	assert.Equal(t, 75.0, overview.Summary.AverageUtilization)
	assert.Nil(t, data.filters[0].TherapistID)
}

func TestOverview_NoTherapists(t *testing.T) {
	f := newFixture(&memData{})

	overview, err := f.useCase().Overview(context.Background(), &OverviewRequest{Date: monday})

	require.NoError(t, err)
	assert.Empty(t, overview.Therapists)
	assert.Zero(t, f.tx.calls)
}
