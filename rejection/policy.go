package rejection

import (
	"github.com/openlabs-org/labops/config"
	"github.com/openlabs-org/labops/orders"
)

// Limits are the attempt budgets a test's rejection history is evaluated
// against. The two counters are independent.
type Limits struct {
	MaxRetest    int
	MaxRecollect int
}

func NewLimits(cfg *config.Config) Limits {
	return Limits{
		MaxRetest:    cfg.MaxRetestAttempts,
		MaxRecollect: cfg.MaxRecollectAttempts,
	}
}

// Evaluation is the set of follow-up actions currently permitted for a
// rejected result. It is computed server-side immediately before every
// write; any copy a client holds is advisory.
type Evaluation struct {
	RetestRemaining    int  `json:"retestRemaining"`
	RecollectRemaining int  `json:"recollectRemaining"`
	RecollectBlocked   bool `json:"recollectBlocked"`
	EscalationRequired bool `json:"escalationRequired"`
}

// Evaluate derives the remaining attempt budgets from a rejection history.
// Escalate records consume no budget. Escalation becomes mandatory only
// once both budgets are spent.
func Evaluate(history []orders.RejectionRecord, limits Limits) Evaluation {
	retests := 0
	recollects := 0
	for _, record := range history {
		switch record.Type {
		case orders.RejectionTypeRetest:
			retests++
		case orders.RejectionTypeRecollect:
			recollects++
		}
	}

	evaluation := Evaluation{
		RetestRemaining:    max(0, limits.MaxRetest-retests),
		RecollectRemaining: max(0, limits.MaxRecollect-recollects),
	}
	evaluation.EscalationRequired = evaluation.RetestRemaining == 0 && evaluation.RecollectRemaining == 0
	return evaluation
}

// EvaluateForOrder applies the cross-entity rule on top of the counters:
// re-collect is blocked when any test of the parent order has already been
// validated, because rejecting the shared sample would invalidate a
// delivered result.
func EvaluateForOrder(order *orders.Order, test *orders.OrderTest, limits Limits) Evaluation {
	evaluation := Evaluate(test.RejectionHistory, limits)
	if order.HasValidatedTest() {
		evaluation.RecollectBlocked = true
	}
	return evaluation
}

// Permits reports whether the given action may be taken right now.
// Escalation is always permitted.
func (e Evaluation) Permits(action orders.RejectionType) bool {
	switch action {
	case orders.RejectionTypeRetest:
		return e.RetestRemaining > 0
	case orders.RejectionTypeRecollect:
		return e.RecollectRemaining > 0 && !e.RecollectBlocked
	case orders.RejectionTypeEscalate:
		return true
	default:
		return false
	}
}

// DefaultAction is the option pre-selected when presenting choices to an
// operator: re-test while available, else re-collect, else escalate.
func (e Evaluation) DefaultAction() orders.RejectionType {
	if e.Permits(orders.RejectionTypeRetest) {
		return orders.RejectionTypeRetest
	}
	if e.Permits(orders.RejectionTypeRecollect) {
		return orders.RejectionTypeRecollect
	}
	return orders.RejectionTypeEscalate
}
