package services

import (
	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

var oneHundred = decimal.NewFromInt(100)

// Reduction is one discount or adjustment step. The closed FIXED_AMOUNT /
// PERCENTAGE pair is the only polymorphism the applier needs.
type Reduction struct {
	Type  models.AmountType
	Value decimal.Decimal
}

// Apply subtracts the reduction from a running total and floors the result
// at zero. A percentage is computed off the total passed in, so sequential
// reductions compound rather than all deriving from the original base.
func (r Reduction) Apply(total decimal.Decimal) decimal.Decimal {
	var reduced decimal.Decimal

	switch r.Type {
	case models.AmountPercentage:
		reduced = total.Sub(total.Mul(r.Value).Div(oneHundred))
	case models.AmountFixed:
		reduced = total.Sub(r.Value)
	default:
		return total
	}

	if reduced.IsNegative() {
		return decimal.Zero
	}
	return reduced
}
