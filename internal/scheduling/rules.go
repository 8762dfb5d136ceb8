package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ResolveRules returns the active rules governing date.
// Rules are grouped by (service, option, therapist-or-any); inside a group, rules for the
// specific date replace all day-of-week rules, even at other start times.
func ResolveRules(rules []domain.AvailabilityRule, date time.Time) []domain.AvailabilityRule {
	type bucket struct {
		byDate    []domain.AvailabilityRule
		byWeekday []domain.AvailabilityRule
	}

	groups := make(map[domain.RuleGroup]*bucket)
	order := make([]domain.RuleGroup, 0)

	for _, r := range rules {
		if !r.IsActive || !r.Day.Matches(date) {
			continue
		}
		key := r.Group()
		b, ok := groups[key]
		if !ok {
			b = &bucket{}
			groups[key] = b
			order = append(order, key)
		}
		if r.Day.IsSpecificDate() {
			b.byDate = append(b.byDate, r)
		} else {
			b.byWeekday = append(b.byWeekday, r)
		}
	}

	resolved := make([]domain.AvailabilityRule, 0, len(rules))
	for _, key := range order {
		b := groups[key]
		if len(b.byDate) > 0 {
			resolved = append(resolved, b.byDate...)
			continue
		}
		resolved = append(resolved, b.byWeekday...)
	}
	return resolved
}

// matchesSlot reports whether a resolved rule declares the queried slot.
// With a therapist in the query only that therapist's rules match; without one every
// rule for the option and start time matches and capacity is pooled.
func matchesSlot(r domain.AvailabilityRule, q domain.SlotQuery) bool {
	if r.ServiceOptionID != q.ServiceOptionID || r.StartTime != q.StartTime {
		return false
	}
	if q.ServiceID != 0 && r.ServiceID != q.ServiceID {
		return false
	}
	if q.TherapistID != nil {
		return r.IsForTherapist(*q.TherapistID)
	}
	return true
}
