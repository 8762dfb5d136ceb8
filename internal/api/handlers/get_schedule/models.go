package get_schedule

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// TimeRangeResponse интервал внутри дня
type TimeRangeResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduledBookingResponse бронирование в расписании терапевта
type ScheduledBookingResponse struct {
	BookingID               int64  `json:"bookingId"`
	ClientID                int64  `json:"clientId"`
	ClientName              string `json:"clientName"`
	ServiceName             string `json:"serviceName"`
	StartTime               string `json:"startTime"`
	EndTime                 string `json:"endTime"`
	DurationMinutes         int    `json:"durationMinutes"`
	Status                  string `json:"status"`
	PaymentStatus           string `json:"paymentStatus"`
	Price                   string `json:"price"`
	ExcludedFromUtilization bool   `json:"excludedFromUtilization,omitempty"`
}

// WarningResponse предупреждение о данных
type WarningResponse struct {
	Code      string `json:"code"`
	BookingID int64  `json:"bookingId,omitempty"`
	BlockID   int64  `json:"blockId,omitempty"`
	Message   string `json:"message"`
}

// DaySummaryResponse итоги дня
type DaySummaryResponse struct {
	TotalWorkingMinutes int     `json:"totalWorkingMinutes"`
	TotalBookedMinutes  int     `json:"totalBookedMinutes"`
	TotalTimeOffMinutes int     `json:"totalTimeOffMinutes"`
	TotalBookings       int     `json:"totalBookings"`
	UtilizationRate     float64 `json:"utilizationRate"`
}

// DailyScheduleResponse расписание терапевта на день
type DailyScheduleResponse struct {
	TherapistID   int64                      `json:"therapistId"`
	TherapistName string                     `json:"therapistName"`
	Date          string                     `json:"date"`
	IsClosed      bool                       `json:"isClosed"`
	WorkingBlocks []TimeRangeResponse        `json:"workingBlocks"`
	TimeOffBlocks []TimeRangeResponse        `json:"timeOffBlocks"`
	Bookings      []ScheduledBookingResponse `json:"bookings"`
	FreeSlots     []TimeRangeResponse        `json:"freeSlots"`
	Summary       DaySummaryResponse         `json:"summary"`
	Warnings      []WarningResponse          `json:"warnings,omitempty"`
}

// PeriodSummaryResponse итоги за несколько дней или терапевтов
type PeriodSummaryResponse struct {
	TotalBookings       int     `json:"totalBookings"`
	TotalBookedMinutes  int     `json:"totalBookedMinutes"`
	TotalWorkingMinutes int     `json:"totalWorkingMinutes"`
	AverageUtilization  float64 `json:"averageUtilization"`
}

// WeeklyScheduleResponse расписание терапевта на неделю
type WeeklyScheduleResponse struct {
	TherapistID int64                   `json:"therapistId"`
	StartDate   string                  `json:"startDate"`
	Days        []DailyScheduleResponse `json:"days"`
	Summary     PeriodSummaryResponse   `json:"summary"`
}

// OverviewResponse расписание всех терапевтов на дату
type OverviewResponse struct {
	Date       string                  `json:"date"`
	Therapists []DailyScheduleResponse `json:"therapists"`
	Summary    PeriodSummaryResponse   `json:"summary"`
}

func fromTimeRanges(ranges []domain.TimeRange) []TimeRangeResponse {
	out := make([]TimeRangeResponse, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, TimeRangeResponse{
			StartTime: handlers.FormatTime(r.StartTime),
			EndTime:   handlers.FormatTime(r.EndTime),
		})
	}
	return out
}

// FromDailySchedule конвертирует доменное расписание дня в HTTP response
func FromDailySchedule(d *domain.DailySchedule) DailyScheduleResponse {
	bookings := make([]ScheduledBookingResponse, 0, len(d.Bookings))
	for _, b := range d.Bookings {
		bookings = append(bookings, ScheduledBookingResponse{
			BookingID:               b.BookingID,
			ClientID:                b.ClientID,
			ClientName:              b.ClientName,
			ServiceName:             b.ServiceName,
			StartTime:               handlers.FormatTime(b.StartTime),
			EndTime:                 handlers.FormatTime(b.EndTime),
			DurationMinutes:         b.DurationMinutes,
			Status:                  string(b.Status),
			PaymentStatus:           string(b.PaymentStatus),
			Price:                   b.Price.Major(),
			ExcludedFromUtilization: b.ExcludedFromUtilization,
		})
	}

	var warnings []WarningResponse
	for _, w := range d.Warnings {
		warnings = append(warnings, WarningResponse{
			Code:      string(w.Code),
			BookingID: w.BookingID,
			BlockID:   w.BlockID,
			Message:   w.Message,
		})
	}

	return DailyScheduleResponse{
		TherapistID:   d.TherapistID,
		TherapistName: d.TherapistName,
		Date:          handlers.FormatDate(d.Date),
		IsClosed:      d.IsClosed,
		WorkingBlocks: fromTimeRanges(d.WorkingBlocks),
		TimeOffBlocks: fromTimeRanges(d.TimeOffBlocks),
		Bookings:      bookings,
		FreeSlots:     fromTimeRanges(d.FreeSlots),
		Summary: DaySummaryResponse{
			TotalWorkingMinutes: d.Summary.TotalWorkingMinutes,
			TotalBookedMinutes:  d.Summary.TotalBookedMinutes,
			TotalTimeOffMinutes: d.Summary.TotalTimeOffMinutes,
			TotalBookings:       d.Summary.TotalBookings,
			UtilizationRate:     d.Summary.UtilizationRate,
		},
		Warnings: warnings,
	}
}

func fromPeriodSummary(s domain.PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		TotalBookings:       s.TotalBookings,
		TotalBookedMinutes:  s.TotalBookedMinutes,
		TotalWorkingMinutes: s.TotalWorkingMinutes,
		AverageUtilization:  s.AverageUtilization,
	}
}

// FromWeeklySchedule конвертирует недельное расписание в HTTP response
func FromWeeklySchedule(w *domain.WeeklySchedule) *WeeklyScheduleResponse {
	days := make([]DailyScheduleResponse, 0, len(w.Days))
	for i := range w.Days {
		days = append(days, FromDailySchedule(&w.Days[i]))
	}
	return &WeeklyScheduleResponse{
		TherapistID: w.TherapistID,
		StartDate:   handlers.FormatDate(w.StartDate),
		Days:        days,
		Summary:     fromPeriodSummary(w.Summary),
	}
}

// FromOverview конвертирует обзор клиники в HTTP response
func FromOverview(o *domain.ScheduleOverview) *OverviewResponse {
	therapists := make([]DailyScheduleResponse, 0, len(o.Therapists))
	for i := range o.Therapists {
		therapists = append(therapists, FromDailySchedule(&o.Therapists[i]))
	}
	return &OverviewResponse{
		Date:       handlers.FormatDate(o.Date),
		Therapists: therapists,
		Summary:    fromPeriodSummary(o.Summary),
	}
}
