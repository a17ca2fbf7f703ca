package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

// FeeLineItemRequest represents one charge within a structure request.
// IsAnnual and IsOneOff are mutually exclusive.
type FeeLineItemRequest struct {
	ItemName     string          `json:"itemName" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	IsAnnual     bool            `json:"isAnnual"`
	IsOneOff     bool            `json:"isOneOff"`
	DisplayOrder int32           `json:"displayOrder"`
}

// CreateFeeStructureRequest represents a fee structure creation request
type CreateFeeStructureRequest struct {
	CampusID       int64                 `json:"campusId" binding:"required,min=1"`
	AcademicYearID int64                 `json:"academicYearId" binding:"required,min=1"`
	TermID         *int64                `json:"termId,omitempty" binding:"omitempty,min=1"`
	StructureName  string                `json:"structureName" binding:"required"`
	StructureScope models.StructureScope `json:"structureScope" binding:"required,oneof=TERM YEAR"`
	BaseFee        decimal.Decimal       `json:"baseFee" binding:"required"`
	ClassIDs       []int64               `json:"classIds" binding:"required,min=1"`
	LineItems      []FeeLineItemRequest  `json:"lineItems,omitempty"`
}

// CreateFeeStructureVersionRequest supersedes an existing structure with a
// new version carrying the provided content
type CreateFeeStructureVersionRequest struct {
	StructureName  string                `json:"structureName" binding:"required"`
	StructureScope models.StructureScope `json:"structureScope" binding:"required,oneof=TERM YEAR"`
	TermID         *int64                `json:"termId,omitempty" binding:"omitempty,min=1"`
	BaseFee        decimal.Decimal       `json:"baseFee" binding:"required"`
	ClassIDs       []int64               `json:"classIds" binding:"required,min=1"`
	LineItems      []FeeLineItemRequest  `json:"lineItems,omitempty"`
}
