package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

// CreateGlobalDiscountRequest represents a tenant-wide discount rule.
// CampusIDs or ClassIDs are required when AppliesTo narrows the scope.
type CreateGlobalDiscountRequest struct {
	TermID        int64                `json:"termId" binding:"required,min=1"`
	Name          string               `json:"name" binding:"required"`
	DiscountType  models.AmountType    `json:"discountType" binding:"required,oneof=FIXED_AMOUNT PERCENTAGE"`
	DiscountValue decimal.Decimal      `json:"discountValue" binding:"required"`
	AppliesTo     models.DiscountScope `json:"appliesTo" binding:"required,oneof=ALL_STUDENTS SELECTED_CAMPUSES SELECTED_CLASSES"`
	CampusIDs     []int64              `json:"campusIds,omitempty"`
	ClassIDs      []int64              `json:"classIds,omitempty"`
}

// SetDiscountActiveRequest toggles a discount on or off
type SetDiscountActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// CreateAdjustmentRequest represents a per-student reduction with a
// mandatory reason
type CreateAdjustmentRequest struct {
	StudentID       int64             `json:"studentId" binding:"required,min=1"`
	TermID          int64             `json:"termId" binding:"required,min=1"`
	AdjustmentType  models.AmountType `json:"adjustmentType" binding:"required,oneof=FIXED_AMOUNT PERCENTAGE"`
	AdjustmentValue decimal.Decimal   `json:"adjustmentValue" binding:"required"`
	Reason          string            `json:"reason" binding:"required"`
}

// CreateTransportRouteRequest represents a transport route with one-way and
// two-way termly costs
type CreateTransportRouteRequest struct {
	RouteName         string          `json:"routeName" binding:"required"`
	OneWayCostPerTerm decimal.Decimal `json:"oneWayCostPerTerm" binding:"required"`
	TwoWayCostPerTerm decimal.Decimal `json:"twoWayCostPerTerm" binding:"required"`
}

// CreateClubActivityRequest represents a club or extra-curricular activity
// priced per term
type CreateClubActivityRequest struct {
	AcademicYearID int64               `json:"academicYearId" binding:"required,min=1"`
	TermID         int64               `json:"termId" binding:"required,min=1"`
	ServiceName    string              `json:"serviceName" binding:"required"`
	ActivityType   models.ActivityType `json:"activityType" binding:"required,oneof=CLUB EXTRA_CURRICULAR"`
	CostPerTerm    decimal.Decimal     `json:"costPerTerm" binding:"required"`
}
