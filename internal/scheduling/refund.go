package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/money"
)

// RefundTier names the policy band a cancellation fell into
type RefundTier string

const (
	RefundTierFull    RefundTier = "full"
	RefundTierHalf    RefundTier = "half"
	RefundTierNone    RefundTier = "none"
	RefundTierInvalid RefundTier = "invalid"
)

const (
	fullRefundLead = 24 * time.Hour
	halfRefundLead = 12 * time.Hour
)

// RefundQuote is the result of the refund policy
type RefundQuote struct {
	Amount    money.Cents
	Percent   int
	Tier      RefundTier
	LeadTime  time.Duration
	Flagged   bool   // input was inconsistent and the quote fell back to no refund
	FlagCause string // why the quote was flagged
}

// CalculateRefund applies the tiered policy to the lead time between now and the
// scheduled start, both compared as absolute instants:
// more than 24h refunds 100%, more than 12h up to 24h refunds 50%, else nothing.
// Inconsistent input never fails; it yields a flagged zero refund.
func CalculateRefund(price money.Cents, scheduled, now time.Time) RefundQuote {
	lead := scheduled.UTC().Sub(now.UTC())
	quote := RefundQuote{LeadTime: lead}

	switch {
	case price < 0:
		quote.Tier = RefundTierInvalid
		quote.Flagged = true
		quote.FlagCause = "negative price"
		return quote
	case lead < 0:
		quote.Tier = RefundTierInvalid
		quote.Flagged = true
		quote.FlagCause = "cancellation after scheduled start"
		return quote
	case lead > fullRefundLead:
		quote.Tier = RefundTierFull
		quote.Percent = 100
	case lead > halfRefundLead:
		quote.Tier = RefundTierHalf
		quote.Percent = 50
	default:
		quote.Tier = RefundTierNone
	}

	quote.Amount = price.Percent(quote.Percent)
	return quote
}
