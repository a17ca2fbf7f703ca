package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

// calculateBaseCharges evaluates the selected structure's line items against
// the student's enrollment state. No structure means the class simply has no
// fees configured yet; that is zero, not an error. A structure with no line
// items falls back to its base fee.
func (s *feeCalculationServiceImpl) calculateBaseCharges(ctx context.Context, structure *models.FeeStructure, fc *feeContext) (decimal.Decimal, error) {
	if structure == nil {
		return decimal.Zero, nil
	}

	if len(structure.LineItems) == 0 {
		return structure.BaseFee, nil
	}

	total := decimal.Zero
	for _, item := range structure.LineItems {
		charged, err := s.lineItemApplies(ctx, item, fc)
		if err != nil {
			return decimal.Zero, err
		}
		if charged {
			total = total.Add(item.Amount)
		}
	}

	return total, nil
}

// lineItemApplies decides whether one line item is charged in this term.
// Exactly one of the one-off, annual or termly rules applies per item.
func (s *feeCalculationServiceImpl) lineItemApplies(ctx context.Context, item *models.FeeLineItem, fc *feeContext) (bool, error) {
	if item.IsOneOff && item.IsAnnual {
		// Cannot happen through the authoring API; tolerate dirty rows by
		// charging once as one-off instead of twice or not at all.
		logRepair("line_item_flag_conflict", map[string]interface{}{
			"feeLineItemId": item.ID,
			"itemName":      item.ItemName,
		})
		return s.oneOffApplies(ctx, item, fc)
	}

	switch {
	case item.IsOneOff:
		return s.oneOffApplies(ctx, item, fc)
	case item.IsAnnual:
		return s.annualApplies(ctx, item, fc)
	default:
		return s.termlyApplies(fc), nil
	}
}

// oneOffApplies charges only students whose current-year enrollment began in
// exactly this term, and only while the charge is not yet satisfied.
// Returning students are never charged a one-off item.
func (s *feeCalculationServiceImpl) oneOffApplies(ctx context.Context, item *models.FeeLineItem, fc *feeContext) (bool, error) {
	if !fc.isNewStudent {
		return false, nil
	}

	satisfied, err := s.feeRepo.IsOneOffSatisfied(ctx, fc.student.ID, item.ID, fc.term.AcademicYearID)
	if err != nil {
		return false, err
	}

	return !satisfied, nil
}

// annualApplies charges at most once per academic year, in the charge term:
// the enrollment term for a student who is new this term, otherwise the
// chronologically first term of the year
func (s *feeCalculationServiceImpl) annualApplies(ctx context.Context, item *models.FeeLineItem, fc *feeContext) (bool, error) {
	satisfied, err := s.feeRepo.IsOneOffSatisfied(ctx, fc.student.ID, item.ID, fc.term.AcademicYearID)
	if err != nil {
		return false, err
	}
	if satisfied {
		return false, nil
	}

	var chargeTermID int64
	if fc.isNewStudent {
		chargeTermID = fc.enrollmentTerm.ID
	} else {
		firstTerm, err := s.academicRepo.GetFirstTermOfYear(ctx, fc.term.AcademicYearID)
		if err != nil {
			return false, err
		}
		chargeTermID = firstTerm.ID
	}

	return fc.term.ID == chargeTermID, nil
}

// termlyApplies charges every term from the enrollment term onward. A
// student with no enrollment record defaults to being charged.
func (s *feeCalculationServiceImpl) termlyApplies(fc *feeContext) bool {
	if fc.enrollmentTerm == nil {
		return true
	}
	return !fc.term.StartDate.Before(fc.enrollmentTerm.StartDate)
}
