package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateBlockRequest запрос на создание блока расписания
// Для закрытого дня (IsClosed) время не передается
type CreateBlockRequest struct {
	TherapistID   int64   `json:"therapistId"`
	Type          string  `json:"type"` // working_hours | time_off
	DayOfWeek     *int    `json:"dayOfWeek,omitempty"`
	SpecificDate  *string `json:"specificDate,omitempty"`
	StartTime     string  `json:"startTime,omitempty"`
	EndTime       string  `json:"endTime,omitempty"`
	EffectiveFrom *string `json:"effectiveFrom,omitempty"`
	EffectiveTo   *string `json:"effectiveTo,omitempty"`
	IsClosed      bool    `json:"isClosed,omitempty"`
	Reason        *string `json:"reason,omitempty"`
}

// BlockResponse ответ с данными блока
type BlockResponse struct {
	ID            int64     `json:"id"`
	TherapistID   int64     `json:"therapistId"`
	Type          string    `json:"type"`
	DayOfWeek     *int      `json:"dayOfWeek,omitempty"`
	SpecificDate  *string   `json:"specificDate,omitempty"`
	StartTime     string    `json:"startTime,omitempty"`
	EndTime       string    `json:"endTime,omitempty"`
	EffectiveFrom *string   `json:"effectiveFrom,omitempty"`
	EffectiveTo   *string   `json:"effectiveTo,omitempty"`
	IsClosed      bool      `json:"isClosed"`
	Reason        *string   `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BlockListResponse ответ со списком блоков
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// ToDomainBlock конвертирует запрос в domain модель
func (r *CreateBlockRequest) ToDomainBlock() (*domain.ScheduleBlock, error) {
	var date *time.Time
	if r.SpecificDate != nil {
		parsed, err := parseDate("specificDate", *r.SpecificDate)
		if err != nil {
			return nil, err
		}
		date = parsed
	}
	day, err := domain.NewDaySelector(r.DayOfWeek, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScheduleBlock, err)
	}

	block := &domain.ScheduleBlock{
		TherapistID: r.TherapistID,
		Type:        domain.ScheduleBlockType(r.Type),
		Day:         day,
		IsClosed:    r.IsClosed,
		IsActive:    true,
		Reason:      r.Reason,
	}

	if !r.IsClosed {
		if block.StartTime, err = types.NewTimeStringFromString(r.StartTime); err != nil {
			return nil, fmt.Errorf("%w: startTime must be HH:MM", domain.ErrInvalidScheduleBlock)
		}
		if block.EndTime, err = types.NewTimeStringFromString(r.EndTime); err != nil {
			return nil, fmt.Errorf("%w: endTime must be HH:MM", domain.ErrInvalidScheduleBlock)
		}
	}

	if r.EffectiveFrom != nil {
		if block.EffectiveFrom, err = parseDate("effectiveFrom", *r.EffectiveFrom); err != nil {
			return nil, err
		}
	}
	if r.EffectiveTo != nil {
		if block.EffectiveTo, err = parseDate("effectiveTo", *r.EffectiveTo); err != nil {
			return nil, err
		}
	}

	return block, nil
}

func parseDate(field, value string) (*time.Time, error) {
	parsed, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidScheduleBlock, field)
	}
	return &parsed, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.ScheduleBlock) *BlockResponse {
	if b == nil {
		return nil
	}
	dayOfWeek, specificDate := b.Day.Columns()
	return &BlockResponse{
		ID:            b.ID,
		TherapistID:   b.TherapistID,
		Type:          string(b.Type),
		DayOfWeek:     dayOfWeek,
		SpecificDate:  formatDate(specificDate),
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		EffectiveFrom: formatDate(b.EffectiveFrom),
		EffectiveTo:   formatDate(b.EffectiveTo),
		IsClosed:      b.IsClosed,
		Reason:        b.Reason,
		CreatedAt:     b.CreatedAt,
	}
}

// FromDomainBlockList конвертирует список domain моделей в DTO
func FromDomainBlockList(blocks []*domain.ScheduleBlock) *BlockListResponse {
	resp := &BlockListResponse{Blocks: make([]BlockResponse, 0, len(blocks))}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, *FromDomainBlock(b))
	}
	return resp
}
