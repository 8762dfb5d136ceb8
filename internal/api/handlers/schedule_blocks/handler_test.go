package schedule_blocks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	"github.com/m04kA/SMC-SchedulingService/internal/service/schedules/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubService struct {
	err error
}

func (s *stubService) Create(_ context.Context, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BlockResponse{ID: 1, TherapistID: req.TherapistID, Type: req.Type}, nil
}

func (s *stubService) ListByTherapist(_ context.Context, _ int64) (*models.BlockListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BlockListResponse{Blocks: []models.BlockResponse{}}, nil
}

func (s *stubService) Deactivate(context.Context, int64) error { return s.err }

func do(svc *stubService, method, target, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/schedule-blocks", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/therapists/{therapistId}/schedule-blocks", h.ListByTherapist).Methods(http.MethodGet)
	r.HandleFunc("/schedule-blocks/{blockId}", h.Deactivate).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandler(t *testing.T) {
	createBody := `{"therapistId":3,"type":"working_hours","dayOfWeek":1,"startTime":"09:00","endTime":"17:00"}`

	tests := []struct {
		name   string
		method string
		target string
		body   string
		err    error
		status int
	}{
		{name: "create", method: http.MethodPost, target: "/schedule-blocks", body: createBody, status: http.StatusCreated},
		{name: "list", method: http.MethodGet, target: "/therapists/3/schedule-blocks", status: http.StatusOK},
		{name: "deactivate", method: http.MethodDelete, target: "/schedule-blocks/7", status: http.StatusNoContent},
		{name: "bad body", method: http.MethodPost, target: "/schedule-blocks", body: `nope`, status: http.StatusBadRequest},
		{name: "bad therapist", method: http.MethodGet, target: "/therapists/x/schedule-blocks", status: http.StatusBadRequest},
		{name: "invalid block", method: http.MethodPost, target: "/schedule-blocks", body: createBody,
			err: fmt.Errorf("%w: end before start", domain.ErrInvalidScheduleBlock), status: http.StatusUnprocessableEntity},
		{name: "therapist missing", method: http.MethodPost, target: "/schedule-blocks", body: createBody,
			err: schedules.ErrTherapistNotFound, status: http.StatusNotFound},
		{name: "block missing", method: http.MethodDelete, target: "/schedule-blocks/7",
			err: schedules.ErrBlockNotFound, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(&stubService{err: tt.err}, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
