package get_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getSchedule "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_schedule"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

var march10 = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type stubUseCase struct {
	daily   *domain.DailySchedule
	weekly  *domain.WeeklySchedule
	err     error
	lastDay time.Time
}

func (s *stubUseCase) Daily(_ context.Context, req *getSchedule.DailyRequest) (*domain.DailySchedule, error) {
	s.lastDay = req.Date
	return s.daily, s.err
}

func (s *stubUseCase) Weekly(_ context.Context, req *getSchedule.WeeklyRequest) (*domain.WeeklySchedule, error) {
	s.lastDay = req.StartDate
	return s.weekly, s.err
}

func (s *stubUseCase) Overview(_ context.Context, req *getSchedule.OverviewRequest) (*domain.ScheduleOverview, error) {
	s.lastDay = req.Date
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ScheduleOverview{Date: req.Date, Therapists: []domain.DailySchedule{*s.daily}}, nil
}

func newRouter(uc *stubUseCase) *mux.Router {
	h := NewHandler(uc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/therapists/{therapistId}/schedule/daily", h.HandleDaily)
	r.HandleFunc("/therapists/{therapistId}/schedule/weekly", h.HandleWeekly)
	r.HandleFunc("/schedule/overview", h.HandleOverview)
	return r
}

func get(r *mux.Router, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func sampleDay() *domain.DailySchedule {
	return &domain.DailySchedule{
		TherapistID: 3, TherapistName: "Anna", Date: march10,
		WorkingBlocks: []domain.TimeRange{{StartTime: "09:00", EndTime: "17:00"}},
		Bookings: []domain.ScheduledBooking{{
			BookingID: 1, StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60,
			Status: domain.StatusConfirmed, Price: money.Cents(9000),
		}},
		FreeSlots: []domain.TimeRange{{StartTime: "09:00", EndTime: "10:00"}, {StartTime: "11:00", EndTime: "17:00"}},
		Summary:   domain.DaySummary{TotalWorkingMinutes: 480, TotalBookedMinutes: 60, TotalBookings: 1, UtilizationRate: 12.5},
		Warnings:  []domain.Warning{{Code: domain.WarningOvernightWrap, BlockID: 4, Message: "22:00-02:00"}},
	}
}

func TestHandleDaily(t *testing.T) {
	uc := &stubUseCase{daily: sampleDay()}

	rec := get(newRouter(uc), "/therapists/3/schedule/daily?date=2026-03-10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, march10, uc.lastDay)

	var body DailyScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-03-10", body.Date)
	assert.Equal(t, "90.00", body.Bookings[0].Price)
	assert.Len(t, body.FreeSlots, 2)
	assert.Equal(t, 12.5, body.Summary.UtilizationRate)
	require.Len(t, body.Warnings, 1)
	assert.Equal(t, "overnight_wrap", body.Warnings[0].Code)
}

func TestHandleWeekly(t *testing.T) {
	day := *sampleDay()
	uc := &stubUseCase{weekly: &domain.WeeklySchedule{
		TherapistID: 3, StartDate: march10, Days: []domain.DailySchedule{day},
		Summary: domain.PeriodSummary{TotalBookings: 1, AverageUtilization: 12.5},
	}}

	rec := get(newRouter(uc), "/therapists/3/schedule/weekly?startDate=2026-03-10")

	require.Equal(t, http.StatusOK, rec.Code)
	var body WeeklyScheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Days, 1)
	assert.Equal(t, 12.5, body.Summary.AverageUtilization)
}

func TestHandleOverview(t *testing.T) {
	rec := get(newRouter(&stubUseCase{daily: sampleDay()}), "/schedule/overview?date=2026-03-10")

	require.Equal(t, http.StatusOK, rec.Code)
	var body OverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Therapists, 1)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "missing date", target: "/therapists/3/schedule/daily", status: http.StatusBadRequest},
		{name: "bad therapist", target: "/therapists/abc/schedule/daily?date=2026-03-10", status: http.StatusBadRequest},
		{name: "bad start date", target: "/therapists/3/schedule/weekly?startDate=2026-13-01", status: http.StatusBadRequest},
		{name: "not found", target: "/therapists/3/schedule/daily?date=2026-03-10",
			err: getSchedule.ErrTherapistNotFound, status: http.StatusNotFound},
		{name: "internal", target: "/schedule/overview?date=2026-03-10",
			err: getSchedule.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newRouter(&stubUseCase{err: tt.err}), tt.target)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
