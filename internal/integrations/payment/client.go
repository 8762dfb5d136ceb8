package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры клиента Stripe
type Config struct {
	SecretKey string
	Currency  string
	Timeout   time.Duration
	// BaseURL переопределяет адрес API (для тестов и stripe-mock)
	BaseURL string
}

// Client клиент платежного шлюза на Stripe PaymentIntents
type Client struct {
	api      *client.API
	currency string
	log      Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config, log Logger) *Client {
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(2),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.BaseURL != "" {
		backendConfig.URL = stripe.String(cfg.BaseURL)
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig),
	})

	return &Client{api: api, currency: cfg.Currency, log: log}
}

// Verify проверяет, что платеж paymentRef завершен на ожидаемую сумму
func (c *Client) Verify(ctx context.Context, paymentRef string, expected money.Cents) error {
	if paymentRef == "" {
		return fmt.Errorf("%w: empty payment reference", ErrInvalidRequest)
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.Get(paymentRef, params)
	if err != nil {
		return c.wrapError("Verify", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: payment %s has status %s", ErrPaymentNotCompleted, paymentRef, intent.Status)
	}
	if money.Cents(intent.Amount) != expected {
		return fmt.Errorf("%w: payment %s amount %s, expected %s",
			ErrAmountMismatch, paymentRef, money.Cents(intent.Amount), expected)
	}

	c.log.Info("Payment: verified %s for %s", paymentRef, expected)
	return nil
}

// Charge списывает сумму с сохраненного способа оплаты и возвращает ID платежа
// Ключ идемпотентности привязан к бронированию: повтор запроса не спишет деньги дважды
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	if req.PaymentMethodID == "" || req.Amount <= 0 {
		return "", fmt.Errorf("%w: payment method and positive amount are required", ErrInvalidRequest)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount.Int64()),
		Currency:           stripe.String(c.currency),
		PaymentMethod:      stripe.String(req.PaymentMethodID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String(req.Description),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("booking-charge:" + strconv.FormatInt(req.BookingID, 10))
	params.AddMetadata("booking_id", strconv.FormatInt(req.BookingID, 10))

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", c.wrapError("Charge", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return intent.ID, fmt.Errorf("%w: payment %s has status %s", ErrPaymentNotCompleted, intent.ID, intent.Status)
	}

	c.log.Info("Payment: charged %s for booking id=%d, payment=%s", req.Amount, req.BookingID, intent.ID)
	return intent.ID, nil
}

// Refund возвращает сумму по платежу
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*Refund, error) {
	if req.PaymentRef == "" || req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment reference and positive amount are required", ErrInvalidRequest)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.PaymentRef),
		Amount:        stripe.Int64(req.Amount.Int64()),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("booking-refund:" + strconv.FormatInt(req.BookingID, 10))
	params.AddMetadata("booking_id", strconv.FormatInt(req.BookingID, 10))

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, c.wrapError("Refund", err)
	}

	c.log.Info("Payment: refunded %s for booking id=%d, refund=%s", req.Amount, req.BookingID, refund.ID)
	return &Refund{ID: refund.ID, Status: string(refund.Status), Amount: money.Cents(refund.Amount)}, nil
}

func (c *Client) wrapError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeCard {
			c.log.Warn("Payment: %s declined: %s (%s)", op, stripeErr.Msg, stripeErr.Code)
			return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
		}
		if stripeErr.HTTPStatusCode == http.StatusBadRequest || stripeErr.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrInvalidRequest, stripeErr.Msg)
		}
	}
	c.log.Error("Payment: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
