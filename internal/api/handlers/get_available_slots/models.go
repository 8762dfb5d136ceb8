package get_available_slots

import (
	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string         `json:"date"`
	ServiceID       int64          `json:"serviceId"`
	ServiceOptionID int64          `json:"serviceOptionId"`
	TherapistID     *int64         `json:"therapistId,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse HTTP response model для слота
type SlotResponse struct {
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Remaining    int    `json:"remaining"`
	BookingLimit int    `json:"bookingLimit"`
	IsFull       bool   `json:"isFull"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:    handlers.FormatTime(s.StartTime),
			EndTime:      handlers.FormatTime(s.EndTime),
			Remaining:    s.Remaining,
			BookingLimit: s.BookingLimit,
			IsFull:       s.Remaining <= 0,
		})
	}

	return &AvailableSlotsResponse{
		Date:            handlers.FormatDate(resp.Date),
		ServiceID:       resp.ServiceID,
		ServiceOptionID: resp.ServiceOptionID,
		TherapistID:     resp.TherapistID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
