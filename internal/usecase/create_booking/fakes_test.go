package create_booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/payment"
	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// memStore хранилище в памяти для всех репозиториев usecase
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	rules      []*domain.AvailabilityRule
	blocks     []*domain.ScheduleBlock
	bookings   map[int64]*domain.Booking
	options    map[int64]*domain.ServiceOption
	clients    map[int64]*domain.Client
	therapists map[int64]*domain.Therapist
	rowLocks   []string
}

func newMemStore() *memStore {
	return &memStore{
		bookings:   make(map[int64]*domain.Booking),
		options:    make(map[int64]*domain.ServiceOption),
		clients:    make(map[int64]*domain.Client),
		therapists: make(map[int64]*domain.Therapist),
	}
}

func (s *memStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *b
	cp.ID = s.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.bookings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) List(_ context.Context, f domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if !f.IncludeInactive && !b.IsActive() {
			continue
		}
		if f.ServiceOptionID != nil && b.ServiceOptionID != *f.ServiceOptionID {
			continue
		}
		if f.TherapistID != nil && (b.TherapistID == nil || *b.TherapistID != *f.TherapistID) {
			continue
		}
		if f.From != nil && !b.EndTime.After(*f.From) {
			continue
		}
		if f.To != nil && !b.StartTime.Before(*f.To) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Cancel(
	_ context.Context,
	id int64,
	status domain.BookingStatus,
	reason *string,
	cancelledAt time.Time,
	paymentStatus domain.PaymentStatus,
	refund *money.Cents,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return errors.New("not found")
	}
	b.Status = status
	b.CancellationReason = reason
	b.CancelledAt = &cancelledAt
	b.PaymentStatus = paymentStatus
	b.RefundAmount = refund
	return nil
}

func (s *memStore) UpdatePayment(_ context.Context, id int64, status domain.PaymentStatus, ref *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bookings[id]
	b.PaymentStatus = status
	b.PaymentRef = ref
	return nil
}

func (s *memStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.IsActive() {
			n++
		}
	}
	return n
}

func (s *memStore) booking(id int64) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[id]
}

type memRules struct{ s *memStore }

func (r memRules) List(_ context.Context, f ruleRepo.Filter) ([]*domain.AvailabilityRule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.AvailabilityRule
	for _, rule := range r.s.rules {
		if f.ServiceOptionID != nil && rule.ServiceOptionID != *f.ServiceOptionID {
			continue
		}
		cp := *rule
		out = append(out, &cp)
	}
	return out, nil
}

type memBlocks struct{ s *memStore }

func (r memBlocks) ListByTherapists(_ context.Context, ids []int64) ([]*domain.ScheduleBlock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.ScheduleBlock
	for _, b := range r.s.blocks {
		for _, id := range ids {
			if b.TherapistID == id {
				cp := *b
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

type memCatalog struct{ s *memStore }

func (c memCatalog) GetServiceOption(_ context.Context, id int64) (*domain.ServiceOption, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	o, ok := c.s.options[id]
	if !ok {
		return nil, catalogRepo.ErrServiceOptionNotFound
	}
	cp := *o
	return &cp, nil
}

func (c memCatalog) UpdateOptionPrice(_ context.Context, id int64, price money.Cents) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	o, ok := c.s.options[id]
	if !ok {
		return catalogRepo.ErrServiceOptionNotFound
	}
	o.Price = price
	return nil
}

func (c memCatalog) GetTherapist(_ context.Context, id int64) (*domain.Therapist, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	t, ok := c.s.therapists[id]
	if !ok {
		return nil, catalogRepo.ErrTherapistNotFound
	}
	cp := *t
	return &cp, nil
}

func (c memCatalog) GetClient(_ context.Context, id int64) (*domain.Client, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cl, ok := c.s.clients[id]
	if !ok {
		return nil, catalogRepo.ErrClientNotFound
	}
	cp := *cl
	return &cp, nil
}

type memSlotRows struct{ s *memStore }

func (r memSlotRows) Lock(_ context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rowLocks = append(r.s.rowLocks, key)
	return nil
}

// inlineTx выполняет функцию без транзакции; при ошибке записей не остается,
// потому что usecase пишет только последним шагом
type inlineTx struct {
	err error
}

func (t inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (t inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.err != nil {
		return t.err
	}
	return fn(ctx)
}

type fakeGateway struct {
	verifyErr error
	chargeErr error
	charged   []payment.ChargeRequest
}

func (g *fakeGateway) Verify(context.Context, string, money.Cents) error {
	return g.verifyErr
}

func (g *fakeGateway) Charge(_ context.Context, req payment.ChargeRequest) (string, error) {
	g.charged = append(g.charged, req)
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return "pi_test", nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []int64
	failed  []int64
}

func (n *recordingNotifier) BookingCreated(_ context.Context, b *domain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b.ID)
	return nil
}

func (n *recordingNotifier) PaymentFailed(_ context.Context, b *domain.Booking, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, b.ID)
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) BookingAttempt(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *recordingMetrics) SlotLockWaited(string, time.Duration) {}

func (m *recordingMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }
