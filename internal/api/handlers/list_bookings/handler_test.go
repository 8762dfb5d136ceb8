package list_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubService struct {
	err error
	got *models.ListBookingsRequest
}

func (s *stubService) List(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 5, Status: "confirmed"}}}, nil
}

func do(svc *stubService, target string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/bookings", h.Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_PassesFilter(t *testing.T) {
	svc := &stubService{}

	rec := do(svc, "/bookings?therapistId=7&serviceOptionId=10&from=2026-03-10&to=2026-03-12&includeInactive=true")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(7), *svc.got.TherapistID)
	assert.Equal(t, int64(10), *svc.got.ServiceOptionID)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), *svc.got.From)
	// дата без времени включает весь день 12 марта
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), *svc.got.To)
	assert.True(t, svc.got.IncludeInactive)

	var resp models.BookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(5), resp.Bookings[0].ID)
}

func TestHandle_InstantToKeptAsIs(t *testing.T) {
	svc := &stubService{}

	rec := do(svc, "/bookings?to=2026-03-12T15:30:00Z")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2026, 3, 12, 15, 30, 0, 0, time.UTC), svc.got.To.UTC())
	assert.Nil(t, svc.got.From)
	assert.Nil(t, svc.got.TherapistID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "bad therapist", target: "/bookings?therapistId=abc", status: http.StatusBadRequest},
		{name: "bad to", target: "/bookings?to=12.03.2026", status: http.StatusBadRequest},
		{name: "bad flag", target: "/bookings?includeInactive=maybe", status: http.StatusBadRequest},
		{name: "invalid range", target: "/bookings?from=2026-03-12&to=2026-03-10",
			err: fmt.Errorf("%w: from after to", bookings.ErrInvalidInput), status: http.StatusBadRequest},
		{name: "internal", target: "/bookings", err: errors.New("db down"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			rec := do(svc, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				assert.Nil(t, svc.got, "service must not be called on a malformed query")
			}
		})
	}
}
