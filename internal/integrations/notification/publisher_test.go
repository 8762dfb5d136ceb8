package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func testBooking() *domain.Booking {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	refund := money.Cents(5000)
	return &domain.Booking{
		ID:                 42,
		ClientID:           3,
		ServiceOptionID:    10,
		TherapistID:        ptr.Ptr(int64(2)),
		StartTime:          start,
		EndTime:            start.Add(time.Hour),
		Status:             domain.StatusCancelledByClient,
		PaymentStatus:      domain.PaymentRefundPending,
		PriceAtBooking:     money.Cents(10000),
		RefundAmount:       &refund,
		CancellationReason: ptr.Ptr("sick"),
	}
}

func TestPublisher_BookingCancelled(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w)
	p.timeProvider = fixedTime{t: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)}

	require.NoError(t, p.BookingCancelled(context.Background(), testBooking()))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, EventBookingCancelled, msg.Topic)
	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
	assert.Equal(t, EventBookingCancelled, string(msg.Headers[1].Value))

	var event BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, string(msg.Headers[0].Value), event.EventID)
	assert.Equal(t, "100.00", event.Price)
	require.NotNil(t, event.RefundAmount)
	assert.Equal(t, "50.00", *event.RefundAmount)
	require.NotNil(t, event.Reason)
	assert.Equal(t, "sick", *event.Reason)
}

func TestPublisher_WrapsWriterError(t *testing.T) {
	p := NewPublisher(&recordingWriter{err: errors.New("broker down")})

	err := p.BookingCreated(context.Background(), testBooking())

	assert.ErrorIs(t, err, ErrPublish)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}
