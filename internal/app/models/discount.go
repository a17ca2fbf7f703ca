package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GlobalDiscount is a tenant-wide reduction rule for a term. When AppliesTo
// is not ALL_STUDENTS the CampusIDs or ClassIDs sets enumerate the scope.
// Every active matching discount is applied; the engine does not enforce a
// single active discount per term.
type GlobalDiscount struct {
	ID             int64           `json:"id"`
	SchoolID       int64           `json:"school_id"`
	TermID         int64           `json:"term_id"`
	Name           string          `json:"name"`
	DiscountType   AmountType      `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	AppliesTo      DiscountScope   `json:"applies_to"`
	IsActive       bool            `json:"is_active"`
	ConditionType  *string         `json:"condition_type,omitempty"`
	ConditionValue *string         `json:"condition_value,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	CampusIDs []int64 `json:"campus_ids,omitempty"`
	ClassIDs  []int64 `json:"class_ids,omitempty"`
}

// AppliesToStudent reports whether the discount covers a student attending
// the given class on the given campus
func (d *GlobalDiscount) AppliesToStudent(campusID, classID int64) bool {
	switch d.AppliesTo {
	case DiscountAllStudents:
		return true
	case DiscountSelectedCampuses:
		return containsID(d.CampusIDs, campusID)
	case DiscountSelectedClasses:
		return containsID(d.ClassIDs, classID)
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// FeeAdjustment is a per-student, per-term ad hoc reduction. Reason is
// mandatory for auditability.
type FeeAdjustment struct {
	ID              int64           `json:"id"`
	SchoolID        int64           `json:"school_id"`
	StudentID       int64           `json:"student_id"`
	TermID          int64           `json:"term_id"`
	AdjustmentType  AmountType      `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value"`
	Reason          string          `json:"reason"`
	CreatedByUserID int64           `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`
}
