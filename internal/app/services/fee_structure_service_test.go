package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

func validTestStructure() *models.FeeStructure {
	return &models.FeeStructure{
		SchoolID:       1,
		CampusID:       1,
		AcademicYearID: 1,
		StructureName:  "Standard",
		StructureScope: models.ScopeTerm,
		BaseFee:        decimal.Zero,
		LineItems: []*models.FeeLineItem{
			{ItemName: "Tuition", Amount: decimal.NewFromInt(500000)},
		},
	}
}

func TestValidateStructure(t *testing.T) {
	svc := &feeStructureServiceImpl{}

	tests := []struct {
		name     string
		mutate   func(*models.FeeStructure)
		classIDs []int64
		wantErr  bool
	}{
		{
			name:     "valid",
			mutate:   func(*models.FeeStructure) {},
			classIDs: []int64{1},
		},
		{
			name:     "empty name",
			mutate:   func(fs *models.FeeStructure) { fs.StructureName = "  " },
			classIDs: []int64{1},
			wantErr:  true,
		},
		{
			name:     "invalid scope",
			mutate:   func(fs *models.FeeStructure) { fs.StructureScope = "WEEKLY" },
			classIDs: []int64{1},
			wantErr:  true,
		},
		{
			name:     "negative base fee",
			mutate:   func(fs *models.FeeStructure) { fs.BaseFee = decimal.NewFromInt(-1) },
			classIDs: []int64{1},
			wantErr:  true,
		},
		{
			name:     "no classes",
			mutate:   func(*models.FeeStructure) {},
			classIDs: nil,
			wantErr:  true,
		},
		{
			name: "line item with both flags",
			mutate: func(fs *models.FeeStructure) {
				fs.LineItems[0].IsAnnual = true
				fs.LineItems[0].IsOneOff = true
			},
			classIDs: []int64{1},
			wantErr:  true,
		},
		{
			name: "line item with empty name",
			mutate: func(fs *models.FeeStructure) {
				fs.LineItems[0].ItemName = ""
			},
			classIDs: []int64{1},
			wantErr:  true,
		},
		{
			name: "line item with negative amount",
			mutate: func(fs *models.FeeStructure) {
				fs.LineItems[0].Amount = decimal.NewFromInt(-5)
			},
			classIDs: []int64{1},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := validTestStructure()
			tt.mutate(fs)

			err := svc.validateStructure(fs, tt.classIDs)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("nil structure", func(t *testing.T) {
		err := svc.validateStructure(nil, []int64{1})
		require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestValidateReduction(t *testing.T) {
	tests := []struct {
		name    string
		rType   models.AmountType
		value   string
		wantErr bool
	}{
		{"fixed amount", models.AmountFixed, "500", false},
		{"percentage", models.AmountPercentage, "15", false},
		{"full percentage", models.AmountPercentage, "100", false},
		{"negative value", models.AmountFixed, "-1", true},
		{"percentage over hundred", models.AmountPercentage, "101", true},
		{"unknown type", models.AmountType("GIFT"), "10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReduction(tt.rType, decimal.RequireFromString(tt.value))
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
