package limits

import "github.com/shopspring/decimal"

type State int

const (
	StateOK State = iota
	StateApproaching
	StateViolated
)

func (s State) String() string {
	switch s {
	case StateApproaching:
		return "approaching"
	case StateViolated:
		return "violated"
	default:
		return "ok"
	}
}

// Evaluation is the ephemeral result of one threshold check. It is never
// persisted; the caller consumes it immediately.
type Evaluation struct {
	State        State
	Ceiling      decimal.Decimal
	Spent        decimal.Decimal // usage plus any pending amount
	Remaining    decimal.Decimal // set when approaching
	Overage      decimal.Decimal // set when violated
	UsagePercent float64
}

var approachingFactor = decimal.New(9, -1) // 0.9

// Evaluate classifies usage+pending against the ceiling: violated above the
// ceiling, approaching at 90% or more of it, ok otherwise. Ceilings are
// validated to be positive at limit creation, so a non-positive value here is
// a caller bug and fails fast instead of dividing by zero.
func Evaluate(ceiling, usage, pending decimal.Decimal) (Evaluation, error) {
	if ceiling.LessThanOrEqual(decimal.Zero) {
		return Evaluation{}, ErrInvalidCeiling
	}

	total := usage.Add(pending)
	percent, _ := total.Div(ceiling).Mul(decimal.New(100, 0)).Float64()

	result := Evaluation{
		Ceiling:      ceiling,
		Spent:        total,
		UsagePercent: percent,
	}
	switch {
	case total.GreaterThan(ceiling):
		result.State = StateViolated
		result.Overage = total.Sub(ceiling)
	case total.GreaterThanOrEqual(ceiling.Mul(approachingFactor)):
		result.State = StateApproaching
		result.Remaining = ceiling.Sub(total)
	default:
		result.State = StateOK
	}
	return result, nil
}
