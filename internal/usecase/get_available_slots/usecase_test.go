package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	serviceID   = int64(1)
	optionID    = int64(10)
	therapistID = int64(7)
)

// вторник
var sessionDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type memData struct {
	rules      []*domain.AvailabilityRule
	blocks     []*domain.ScheduleBlock
	bookings   []*domain.Booking
	options    map[int64]*domain.ServiceOption
	therapists map[int64]*domain.Therapist
	readTx     []interface{}
}

type txKey struct{}

// readOnlyTx помечает контекст номером транзакции, репозитории запоминают метку
type readOnlyTx struct{ calls int }

func (t *readOnlyTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(context.WithValue(ctx, txKey{}, t.calls))
}

func (m *memData) recordTx(ctx context.Context) {
	m.readTx = append(m.readTx, ctx.Value(txKey{}))
}

func (m *memData) List(ctx context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	m.recordTx(ctx)
	var out []*domain.Booking
	for _, b := range m.bookings {
		if f.ServiceOptionID != nil && b.ServiceOptionID != *f.ServiceOptionID {
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

type memRules struct{ m *memData }

func (r memRules) List(ctx context.Context, f ruleRepo.Filter) ([]*domain.AvailabilityRule, error) {
	r.m.recordTx(ctx)
	var out []*domain.AvailabilityRule
	for _, rule := range r.m.rules {
		if f.ServiceOptionID != nil && rule.ServiceOptionID != *f.ServiceOptionID {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

type memBlocks struct{ m *memData }

func (r memBlocks) ListByTherapists(ctx context.Context, ids []int64) ([]*domain.ScheduleBlock, error) {
	r.m.recordTx(ctx)
	var out []*domain.ScheduleBlock
	for _, b := range r.m.blocks {
		for _, id := range ids {
			if b.TherapistID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

type memCatalog struct{ m *memData }

func (c memCatalog) GetServiceOption(_ context.Context, id int64) (*domain.ServiceOption, error) {
	o, ok := c.m.options[id]
	if !ok {
		return nil, catalogRepo.ErrServiceOptionNotFound
	}
	return o, nil
}

func (c memCatalog) GetTherapist(_ context.Context, id int64) (*domain.Therapist, error) {
	t, ok := c.m.therapists[id]
	if !ok {
		return nil, catalogRepo.ErrTherapistNotFound
	}
	return t, nil
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newData() *memData {
	return &memData{
		options: map[int64]*domain.ServiceOption{
			optionID: {ID: optionID, ServiceID: serviceID, ServiceName: "Massage",
				DurationMinutes: 60, Price: money.Cents(10000), IsActive: true},
		},
		therapists: map[int64]*domain.Therapist{
			therapistID: {ID: therapistID, Name: "Bob", IsActive: true},
		},
	}
}

func (m *memData) addRule(therapist *int64, day domain.DaySelector, start string, limit int) {
	m.rules = append(m.rules, &domain.AvailabilityRule{
		ID:              int64(len(m.rules) + 1),
		ServiceID:       serviceID,
		ServiceOptionID: optionID,
		TherapistID:     therapist,
		Day:             day,
		StartTime:       types.TimeString(start),
		BookingLimit:    limit,
		IsActive:        true,
	})
}

func (m *memData) addBooking(therapist *int64, start string, status domain.BookingStatus) {
	startAt, _ := types.TimeString(start).On(sessionDate, time.UTC)
	m.bookings = append(m.bookings, &domain.Booking{
		ID:              int64(len(m.bookings) + 1),
		ServiceID:       serviceID,
		ServiceOptionID: optionID,
		TherapistID:     therapist,
		StartTime:       startAt,
		EndTime:         startAt.Add(time.Hour),
		Status:          status,
	})
}

func newUseCase(m *memData, now time.Time) *UseCase {
	return newUseCaseWithTx(m, &readOnlyTx{}, now)
}

func newUseCaseWithTx(m *memData, tx *readOnlyTx, now time.Time) *UseCase {
	return NewUseCase(m, memRules{m}, memBlocks{m}, memCatalog{m}, tx, time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime{t: now})
}

func request() *Request {
	return &Request{ServiceID: serviceID, ServiceOptionID: optionID, Date: sessionDate}
}

func TestExecute_PooledSlotsIncludeFullOnes(t *testing.T) {
	m := newData()
	tuesday := domain.DayOfWeek(time.Tuesday)
	m.addRule(nil, tuesday, "11:00", 1)
	m.addRule(nil, tuesday, "10:00", 2)
	m.addBooking(ptr.Ptr(therapistID), "10:00", domain.StatusConfirmed)
	m.addBooking(nil, "11:00", domain.StatusPendingConfirmation)
	m.addBooking(nil, "10:00", domain.StatusCancelledByClient)

	resp, err := newUseCase(m, sessionDate.Add(-time.Hour)).Execute(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, Slot{StartTime: "10:00", EndTime: "11:00", Remaining: 1, BookingLimit: 2}, resp.Slots[0])
	assert.Equal(t, Slot{StartTime: "11:00", EndTime: "12:00", Remaining: 0, BookingLimit: 1}, resp.Slots[1])
}

func TestExecute_TherapistRulesFollowWorkingHours(t *testing.T) {
	m := newData()
	tuesday := domain.DayOfWeek(time.Tuesday)
	m.addRule(ptr.Ptr(therapistID), tuesday, "10:00", 1)
	m.addRule(ptr.Ptr(therapistID), tuesday, "14:00", 1)
	m.blocks = append(m.blocks, &domain.ScheduleBlock{
		ID: 1, TherapistID: therapistID, Type: domain.BlockWorkingHours, Day: tuesday,
		StartTime: "09:00", EndTime: "13:00", IsActive: true,
	})

	req := request()
	req.TherapistID = ptr.Ptr(therapistID)
	resp, err := newUseCase(m, sessionDate.Add(-time.Hour)).Execute(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Equal(t, 1, resp.Slots[0].Remaining)
}

func TestExecute_SpecificDateReplacesWeekday(t *testing.T) {
	m := newData()
	m.addRule(nil, domain.DayOfWeek(time.Tuesday), "10:00", 3)
	m.addRule(nil, domain.SpecificDate(sessionDate), "15:00", 1)

	resp, err := newUseCase(m, sessionDate.Add(-time.Hour)).Execute(context.Background(), request())

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("15:00"), resp.Slots[0].StartTime)
}

func TestExecute_DropsStartedSlots(t *testing.T) {
	m := newData()
	tuesday := domain.DayOfWeek(time.Tuesday)
	m.addRule(nil, tuesday, "10:00", 1)
	m.addRule(nil, tuesday, "11:00", 1)

	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	resp, err := newUseCase(m, now).Execute(context.Background(), request())
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[0].StartTime)

	resp, err = newUseCase(m, sessionDate.AddDate(0, 0, 1)).Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_OptionOfAnotherService(t *testing.T) {
	m := newData()
	req := request()
	req.ServiceID = 99

	_, err := newUseCase(m, sessionDate).Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceOptionNotFound)
}

func TestExecute_UnknownTherapist(t *testing.T) {
	m := newData()
	req := request()
	req.TherapistID = ptr.Ptr(int64(404))

	_, err := newUseCase(m, sessionDate).Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTherapistNotFound)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "no service", req: Request{ServiceOptionID: optionID, Date: sessionDate}},
		{name: "no option", req: Request{ServiceID: serviceID, Date: sessionDate}},
		{name: "no date", req: Request{ServiceID: serviceID, ServiceOptionID: optionID}},
		{name: "bad therapist", req: Request{ServiceID: serviceID, ServiceOptionID: optionID,
			Date: sessionDate, TherapistID: ptr.Ptr(int64(0))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newUseCase(newData(), sessionDate).Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ReadsSnapshotInOneTransaction(t *testing.T) {
	m := newData()
	m.addRule(ptr.Ptr(therapistID), domain.DayOfWeek(time.Tuesday), "10:00", 1)
	m.blocks = append(m.blocks, &domain.ScheduleBlock{
		ID: 1, TherapistID: therapistID, Type: domain.BlockWorkingHours,
		Day: domain.DayOfWeek(time.Tuesday), StartTime: "09:00", EndTime: "17:00", IsActive: true,
	})
	tx := &readOnlyTx{}

	resp, err := newUseCaseWithTx(m, tx, sessionDate.AddDate(0, 0, -1)).Execute(context.Background(), request())

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, []interface{}{1, 1, 1}, m.readTx)
}
