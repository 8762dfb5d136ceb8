package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Snapshot is an immutable view of everything one date's computation reads.
// It is built once per request and never re-queried mid-computation.
type Snapshot struct {
	date     time.Time
	loc      *time.Location
	rules    []domain.AvailabilityRule
	blocks   []domain.ScheduleBlock
	bookings []domain.Booking

	mu         sync.Mutex
	dayBlocks  map[int64]DayBlocks
	prevBlocks map[int64]DayBlocks
}

// NewSnapshot copies the inputs; later changes to the caller's slices are not seen
func NewSnapshot(
	date time.Time,
	loc *time.Location,
	rules []domain.AvailabilityRule,
	blocks []domain.ScheduleBlock,
	bookings []domain.Booking,
) *Snapshot {
	if loc == nil {
		loc = time.UTC
	}
	return &Snapshot{
		date:       domain.DateOf(date),
		loc:        loc,
		rules:      append([]domain.AvailabilityRule(nil), rules...),
		blocks:     append([]domain.ScheduleBlock(nil), blocks...),
		bookings:   append([]domain.Booking(nil), bookings...),
		dayBlocks:  make(map[int64]DayBlocks),
		prevBlocks: make(map[int64]DayBlocks),
	}
}

// RuleTherapists lists the therapists whose schedule blocks a snapshot over rules needs:
// every therapist bound to a rule plus the requested one, each once, in first-seen order
func RuleTherapists(rules []*domain.AvailabilityRule, requested *int64) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, r := range rules {
		if r.TherapistID != nil {
			add(*r.TherapistID)
		}
	}
	if requested != nil {
		add(*requested)
	}
	return ids
}

func (s *Snapshot) Date() time.Time {
	return s.date
}

func (s *Snapshot) Location() *time.Location {
	return s.loc
}

// Blocks resolves and memoizes the therapist's blocks for the snapshot date
func (s *Snapshot) Blocks(therapistID int64) DayBlocks {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blocks, ok := s.dayBlocks[therapistID]; ok {
		return blocks
	}
	blocks := ResolveBlocks(s.blocks, therapistID, s.date)
	s.dayBlocks[therapistID] = blocks
	return blocks
}

// previousBlocks resolves and memoizes the therapist's blocks for the day before
func (s *Snapshot) previousBlocks(therapistID int64) DayBlocks {
	s.mu.Lock()
	defer s.mu.Unlock()

	if blocks, ok := s.prevBlocks[therapistID]; ok {
		return blocks
	}
	blocks := ResolveBlocks(s.blocks, therapistID, s.date.AddDate(0, 0, -1))
	s.prevBlocks[therapistID] = blocks
	return blocks
}

// CarriedAvailable returns the part of the previous day's overnight availability that
// falls on the snapshot date, in minutes of this date
func (s *Snapshot) CarriedAvailable(therapistID int64) []types.Interval {
	return carryOver(s.previousBlocks(therapistID).Available())
}

// carriedWorking is CarriedAvailable without time off subtracted
func (s *Snapshot) carriedWorking(therapistID int64) []types.Interval {
	return carryOver(s.previousBlocks(therapistID).WorkingIntervals())
}

// carryOver keeps the parts of intervals past midnight and shifts them onto the next date
func carryOver(in []types.Interval) []types.Interval {
	var out []types.Interval
	for _, iv := range in {
		if iv.End <= types.MinutesPerDay {
			continue
		}
		out = append(out, types.Interval{
			Start: max(iv.Start-types.MinutesPerDay, 0),
			End:   iv.End - types.MinutesPerDay,
		})
	}
	return out
}

// MatchRules is the single lookup from a slot to its governing rules, shared by slot
// listing and the booking write path. Rules bound to a therapist only count while that
// therapist's working hours minus time off cover the whole slot.
func (s *Snapshot) MatchRules(q domain.SlotQuery, durationMinutes int) ([]domain.AvailabilityRule, error) {
	slot, err := slotInterval(q.StartTime, durationMinutes)
	if err != nil {
		return nil, err
	}

	var matched []domain.AvailabilityRule
	for _, r := range ResolveRules(s.rules, s.date) {
		if !matchesSlot(r, q) {
			continue
		}
		if r.TherapistID != nil && !s.isWorking(*r.TherapistID, slot) {
			continue
		}
		matched = append(matched, r)
	}
	return matched, nil
}

// isWorking also accepts slots covered by the tail of the previous day's overnight shift
func (s *Snapshot) isWorking(therapistID int64, slot types.Interval) bool {
	for _, free := range s.Blocks(therapistID).Available() {
		if free.Contains(slot) {
			return true
		}
	}
	for _, free := range s.CarriedAvailable(therapistID) {
		if free.Contains(slot) {
			return true
		}
	}
	return false
}

// CheckCapacity counts active bookings at the slot's exact start against the matching
// rules. With a therapist only that therapist's bookings count; without one the limits
// of all matching rules are summed and every booking of the option at that time counts.
// ErrSlotNotOffered is returned when no rule declares the slot.
func (s *Snapshot) CheckCapacity(q domain.SlotQuery, durationMinutes int) (domain.Capacity, error) {
	rules, err := s.MatchRules(q, durationMinutes)
	if err != nil {
		return domain.Capacity{}, err
	}
	if len(rules) == 0 {
		return domain.Capacity{}, fmt.Errorf("%w: option=%d date=%s time=%s",
			domain.ErrSlotNotOffered, q.ServiceOptionID, s.date.Format(domain.DateFormat), q.StartTime)
	}

	limit := 0
	for _, r := range rules {
		limit += r.BookingLimit
	}

	start, err := q.StartTime.On(s.date, s.loc)
	if err != nil {
		return domain.Capacity{}, err
	}

	booked := 0
	for i := range s.bookings {
		b := &s.bookings[i]
		if !b.IsActive() || b.ServiceOptionID != q.ServiceOptionID || !b.StartTime.Equal(start) {
			continue
		}
		if q.TherapistID != nil && (b.TherapistID == nil || *b.TherapistID != *q.TherapistID) {
			continue
		}
		booked++
	}

	remaining := limit - booked
	return domain.Capacity{
		BookingLimit: limit,
		Booked:       booked,
		Remaining:    remaining,
		IsAvailable:  remaining > 0,
	}, nil
}

// CheckBookable is CheckCapacity plus, for a therapist-specific query, the pooled check
// of the same slot: a named therapist can not take a place the pool has already given
// away. The tighter of the two results is returned.
func (s *Snapshot) CheckBookable(q domain.SlotQuery, durationMinutes int) (domain.Capacity, error) {
	capacity, err := s.CheckCapacity(q, durationMinutes)
	if err != nil || q.TherapistID == nil {
		return capacity, err
	}

	pooledQuery := q
	pooledQuery.TherapistID = nil
	pooled, err := s.CheckCapacity(pooledQuery, durationMinutes)
	if err != nil {
		return domain.Capacity{}, err
	}

	if pooled.Remaining < capacity.Remaining {
		capacity.Remaining = pooled.Remaining
		capacity.IsAvailable = capacity.Remaining > 0
	}
	return capacity, nil
}

// AvailableSlots lists every offered start time of the option on the snapshot date with
// its remaining capacity; full slots are included with Remaining 0.
func (s *Snapshot) AvailableSlots(serviceID, optionID int64, therapistID *int64, durationMinutes int) ([]domain.Slot, error) {
	seen := make(map[types.TimeString]struct{})
	var starts []types.TimeString
	for _, r := range ResolveRules(s.rules, s.date) {
		if r.ServiceOptionID != optionID || (serviceID != 0 && r.ServiceID != serviceID) {
			continue
		}
		if therapistID != nil && !r.IsForTherapist(*therapistID) {
			continue
		}
		if _, ok := seen[r.StartTime]; ok {
			continue
		}
		seen[r.StartTime] = struct{}{}
		starts = append(starts, r.StartTime)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].IsBefore(starts[j]) })

	slots := make([]domain.Slot, 0, len(starts))
	for _, start := range starts {
		q := domain.SlotQuery{
			ServiceID:       serviceID,
			ServiceOptionID: optionID,
			TherapistID:     therapistID,
			Date:            s.date,
			StartTime:       start,
		}
		capacity, err := s.CheckBookable(q, durationMinutes)
		if err != nil {
			if isNotOffered(err) {
				// Все правила этого времени отсеяны по рабочим часам терапевтов
				continue
			}
			return nil, err
		}
		end, err := start.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}
		slots = append(slots, domain.Slot{
			StartTime:    start,
			EndTime:      end,
			Remaining:    max(capacity.Remaining, 0),
			BookingLimit: capacity.BookingLimit,
		})
	}
	return slots, nil
}

// TherapistBookingsCount counts the therapist's active bookings starting on the date
func (s *Snapshot) TherapistBookingsCount(therapistID int64) int {
	count := 0
	for i := range s.bookings {
		b := &s.bookings[i]
		if !b.IsActive() || b.TherapistID == nil || *b.TherapistID != therapistID {
			continue
		}
		if domain.SameDate(b.StartTime.In(s.loc), s.date) {
			count++
		}
	}
	return count
}

// therapistBookings returns the therapist's active bookings that belong to the date's
// schedule: those overlapping the calendar day or the past-midnight tail of its own
// working blocks. Bookings lying wholly inside the previous day's overnight tail (and
// outside this day's working hours) belong to the previous day.
func (s *Snapshot) therapistBookings(therapistID int64) []domain.Booking {
	dayStart := time.Date(s.date.Year(), s.date.Month(), s.date.Day(), 0, 0, 0, 0, s.loc)

	windowEnd := types.MinutesPerDay
	for _, iv := range s.Blocks(therapistID).WorkingIntervals() {
		windowEnd = max(windowEnd, iv.End)
	}
	window := types.Interval{Start: 0, End: windowEnd}

	own := s.Blocks(therapistID).WorkingIntervals()
	carried := s.carriedWorking(therapistID)

	var out []domain.Booking
	for _, b := range s.bookings {
		if !b.IsActive() || b.TherapistID == nil || *b.TherapistID != therapistID {
			continue
		}
		iv := instantInterval(b.StartTime, b.EndTime, dayStart, s.loc)
		if !iv.Overlaps(window) {
			continue
		}
		if coveredBy(carried, iv) && !overlapsAny(own, iv) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func coveredBy(in []types.Interval, iv types.Interval) bool {
	for _, c := range in {
		if c.Contains(iv) {
			return true
		}
	}
	return false
}

func overlapsAny(in []types.Interval, iv types.Interval) bool {
	for _, c := range in {
		if c.Overlaps(iv) {
			return true
		}
	}
	return false
}

func slotInterval(start types.TimeString, durationMinutes int) (types.Interval, error) {
	if durationMinutes <= 0 {
		return types.Interval{}, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidRuleConfiguration)
	}
	m, err := start.Minutes()
	if err != nil {
		return types.Interval{}, err
	}
	return types.Interval{Start: m, End: m + durationMinutes}, nil
}

func isNotOffered(err error) bool {
	return errors.Is(err, domain.ErrSlotNotOffered)
}
