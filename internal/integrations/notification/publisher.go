package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/segmentio/kafka-go"
)

// MessageWriter часть *kafka.Writer, нужная издателю
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Publisher публикует события о бронированиях в Kafka.
// Вызывается только после фиксации транзакции.
type Publisher struct {
	writer       MessageWriter
	timeProvider TimeProvider
}

// NewKafkaPublisher создает издателя поверх kafka.Writer; brokers через запятую
func NewKafkaPublisher(brokers string, writeTimeout time.Duration) *Publisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      SplitBrokers(brokers),
		Balancer:     &kafka.Hash{},
		WriteTimeout: writeTimeout,
	})
	return NewPublisher(writer)
}

// NewPublisher создает издателя поверх произвольного writer
func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer, timeProvider: realTimeProvider{}}
}

// BookingCreated публикует событие о новом бронировании
func (p *Publisher) BookingCreated(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, p.event(EventBookingCreated, booking, nil))
}

// BookingCancelled публикует событие об отмене
func (p *Publisher) BookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, p.event(EventBookingCancelled, booking, booking.CancellationReason))
}

// PaymentFailed публикует событие о компенсирующей отмене после неуспешной оплаты
func (p *Publisher) PaymentFailed(ctx context.Context, booking *domain.Booking, reason string) error {
	return p.publish(ctx, p.event(EventBookingPaymentFailed, booking, &reason))
}

// StatusChanged публикует событие о смене статуса
func (p *Publisher) StatusChanged(ctx context.Context, booking *domain.Booking) error {
	return p.publish(ctx, p.event(EventBookingStatusChanged, booking, nil))
}

// Close закрывает writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) event(eventType string, b *domain.Booking, reason *string) BookingEvent {
	event := BookingEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		OccurredAt:      p.timeProvider.Now().UTC(),
		BookingID:       b.ID,
		ClientID:        b.ClientID,
		TherapistID:     b.TherapistID,
		ServiceOptionID: b.ServiceOptionID,
		StartTime:       b.StartTime.UTC(),
		EndTime:         b.EndTime.UTC(),
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		Price:           b.PriceAtBooking.Major(),
		Reason:          reason,
	}
	if b.RefundAmount != nil {
		refund := b.RefundAmount.Major()
		event.RefundAmount = &refund
	}
	return event
}

func (p *Publisher) publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Topic: event.EventType,
		Key:   []byte(strconv.FormatInt(event.BookingID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s booking id=%d: %v", ErrPublish, event.EventType, event.BookingID, err)
	}
	return nil
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
