package scheduling

import (
	"testing"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
	"github.com/stretchr/testify/require"
)

const (
	testServiceID = int64(1)
	testOptionID  = int64(10)
	testDuration  = 60
)

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func ts(t *testing.T, s string) types.TimeString {
	t.Helper()
	v, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return v
}

func at(t *testing.T, date time.Time, clock string) time.Time {
	t.Helper()
	v, err := ts(t, clock).On(date, time.UTC)
	require.NoError(t, err)
	return v
}

func weekdayRule(t *testing.T, id int64, therapistID *int64, start string, limit int) domain.AvailabilityRule {
	return domain.AvailabilityRule{
		ID:              id,
		ServiceID:       testServiceID,
		ServiceOptionID: testOptionID,
		TherapistID:     therapistID,
		Day:             domain.DayOfWeek(testDate.Weekday()),
		StartTime:       ts(t, start),
		BookingLimit:    limit,
		IsActive:        true,
	}
}

func dateRule(t *testing.T, id int64, therapistID *int64, start string, limit int) domain.AvailabilityRule {
	r := weekdayRule(t, id, therapistID, start, limit)
	r.Day = domain.SpecificDate(testDate)
	return r
}

func workingBlock(t *testing.T, id, therapistID int64, start, end string) domain.ScheduleBlock {
	return domain.ScheduleBlock{
		ID:          id,
		TherapistID: therapistID,
		Type:        domain.BlockWorkingHours,
		Day:         domain.DayOfWeek(testDate.Weekday()),
		StartTime:   ts(t, start),
		EndTime:     ts(t, end),
		IsActive:    true,
	}
}

func timeOffBlock(t *testing.T, id, therapistID int64, start, end string) domain.ScheduleBlock {
	b := workingBlock(t, id, therapistID, start, end)
	b.Type = domain.BlockTimeOff
	return b
}

func booking(t *testing.T, id int64, therapistID *int64, start, end string) domain.Booking {
	return domain.Booking{
		ID:              id,
		ClientID:        100 + id,
		ServiceID:       testServiceID,
		ServiceOptionID: testOptionID,
		TherapistID:     therapistID,
		StartTime:       at(t, testDate, start),
		EndTime:         at(t, testDate, end),
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentPaid,
	}
}

func query(t *testing.T, therapistID *int64, start string) domain.SlotQuery {
	return domain.SlotQuery{
		ServiceID:       testServiceID,
		ServiceOptionID: testOptionID,
		TherapistID:     therapistID,
		Date:            testDate,
		StartTime:       ts(t, start),
	}
}

var (
	therapistA = ptr.Ptr(int64(1))
	therapistB = ptr.Ptr(int64(2))
)
