package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStructure is an immutable versioned snapshot of the fees configured for
// one or more classes in a term. Editing never mutates a row; it creates a
// new row with Version+1 and ParentStructureID pointing at the prior one.
// YEAR-scoped structures still carry a TermID for organizational grouping,
// so selection always matches on the exact term.
type FeeStructure struct {
	ID                int64           `json:"id"`
	SchoolID          int64           `json:"school_id"`
	CampusID          int64           `json:"campus_id"`
	AcademicYearID    int64           `json:"academic_year_id"`
	TermID            *int64          `json:"term_id,omitempty"`
	StructureName     string          `json:"structure_name"`
	StructureScope    StructureScope  `json:"structure_scope"`
	Version           int32           `json:"version"`
	ParentStructureID *int64          `json:"parent_structure_id,omitempty"`
	Status            StructureStatus `json:"status"`
	BaseFee           decimal.Decimal `json:"base_fee"`
	EffectiveFrom     *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo       *time.Time      `json:"effective_to,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`

	LineItems []*FeeLineItem `json:"line_items,omitempty"`
}

// FeeLineItem is one charge within a fee structure. IsAnnual and IsOneOff
// are mutually exclusive; a line item with neither flag is termly.
type FeeLineItem struct {
	ID             int64           `json:"id"`
	FeeStructureID int64           `json:"fee_structure_id"`
	ItemName       string          `json:"item_name"`
	Amount         decimal.Decimal `json:"amount"`
	IsAnnual       bool            `json:"is_annual"`
	IsOneOff       bool            `json:"is_one_off"`
	DisplayOrder   int32           `json:"display_order"`
}

// FeeStructureClass links a fee structure to a class it applies to
type FeeStructureClass struct {
	ID             int64 `json:"id"`
	FeeStructureID int64 `json:"fee_structure_id"`
	ClassID        int64 `json:"class_id"`
}
