package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type stubUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{"clientId":1,"serviceOptionId":10,"date":"2026-03-10","startTime":"10:00"}`

func serve(t *testing.T, uc *stubUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &createBooking.Response{
		ID: 5, ClientID: 1, ServiceOptionID: 10, StartTime: start, EndTime: start.Add(time.Hour),
		Status: "pending_confirmation", PaymentStatus: "unpaid", PriceAtBooking: money.Cents(12050),
		RemainingCapacity: 2,
	}}

	rec := serve(t, uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, types.TimeString("10:00"), uc.got.StartTime)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), uc.got.Date)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "120.50", body.PriceAtBooking)
	assert.Equal(t, "2026-03-10T10:00:00Z", body.StartTime)
	assert.Equal(t, 2, body.RemainingCapacity)
}

func TestHandle_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: fmt.Errorf("%w: 3/3 taken", domain.ErrSlotFull), status: http.StatusConflict},
		{err: fmt.Errorf("%w: retry", domain.ErrTransactionConflict), status: http.StatusConflict},
		{err: domain.ErrTherapistOverbooked, status: http.StatusConflict},
		{err: domain.ErrSlotNotOffered, status: http.StatusUnprocessableEntity},
		{err: domain.ErrPaymentFailed, status: http.StatusPaymentRequired},
		{err: domain.ErrTransient, status: http.StatusServiceUnavailable},
		{err: createBooking.ErrSlotInPast, status: http.StatusUnprocessableEntity},
		{err: createBooking.ErrClientNotFound, status: http.StatusNotFound},
		{err: createBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{err: createBooking.ErrInternal, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(t, &stubUseCase{err: tt.err}, validBody)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := map[string]string{
		"not json":      `{`,
		"unknown field": `{"clientId":1,"userId":2}`,
		"bad date":      `{"clientId":1,"serviceOptionId":10,"date":"10.03.2026","startTime":"10:00"}`,
		"bad time":      `{"clientId":1,"serviceOptionId":10,"date":"2026-03-10","startTime":"25:99"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(t, uc, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}
