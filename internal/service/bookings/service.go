package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider устанавливает кастомный провайдер времени (для тестирования)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с фильтрацией по варианту услуги, терапевту и периоду
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Confirm переводит бронирование из ожидания в подтвержденное
func (s *Service) Confirm(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, id, domain.StatusConfirmed)
}

// Complete отмечает сеанс состоявшимся
func (s *Service) Complete(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, id, domain.StatusCompleted)
}

// MarkNoShow отмечает неявку клиента; допустимо только после окончания сеанса
func (s *Service) MarkNoShow(ctx context.Context, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, id, domain.StatusNoShow)
}

// UpdateStatus меняет статус по запросу персонала
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}
	if status.IsCancelled() {
		return nil, fmt.Errorf("%w: cancellations go through the cancel endpoint", ErrInvalidInput)
	}
	return s.transition(ctx, id, status)
}

// transition выполняет проверку и смену статуса в одной транзакции
func (s *Service) transition(ctx context.Context, id int64, next domain.BookingStatus) (*models.BookingResponse, error) {
	s.logger.Info("transition: booking id=%d -> %s", id, next)

	var booking *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Читаем бронирование с блокировкой строки
		current, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		// 2. Проверяем переход по конечному автомату
		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, next)
		}
		if next == domain.StatusNoShow && s.timeProvider.Now().Before(current.EndTime) {
			return fmt.Errorf("%w: session ends at %s", ErrSessionNotFinished, current.EndTime.Format("2006-01-02 15:04"))
		}

		// 3. Сохраняем
		if err := s.bookingRepo.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}
		current.Status = next
		booking = current
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("transition: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, ErrSessionNotFinished):
			s.logger.Warn("transition: booking id=%d rejected: %v", id, err)
			return nil, err
		}
		s.logger.Error("transition: failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: transition - %v", ErrInternal, err)
	}

	// 4. Публикуем событие после фиксации транзакции
	if err := s.notifier.StatusChanged(ctx, booking); err != nil {
		s.logger.Warn("transition: failed to publish status change for booking id=%d: %v", id, err)
	}

	s.logger.Info("transition: booking id=%d is now %s", id, next)
	return models.FromDomainBooking(booking), nil
}
