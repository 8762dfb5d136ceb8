package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrSlotNotOffered, http.StatusUnprocessableEntity},
		{domain.ErrInvalidRuleConfiguration, http.StatusUnprocessableEntity},
		{domain.ErrInvalidScheduleBlock, http.StatusUnprocessableEntity},
		{domain.ErrSlotFull, http.StatusConflict},
		{domain.ErrTherapistOverbooked, http.StatusConflict},
		{domain.ErrTransactionConflict, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrAlreadyCancelled, http.StatusConflict},
		{domain.ErrPaymentFailed, http.StatusPaymentRequired},
		{domain.ErrTransient, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.True(t, RespondDomainError(rec, fmt.Errorf("usecase: %w", tt.err)))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}

	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.ErrTransient)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.False(t, RespondDomainError(httptest.NewRecorder(), errors.New("boom")))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "x", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "4.5", "abc"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}

	opt, err := ParseOptionalID("")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestFormatInstant_UsesUTC(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, "2026-03-10T07:00:00Z", FormatInstant(time.Date(2026, 3, 10, 10, 0, 0, 0, msk)))
}
