package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

func TestReductionApply(t *testing.T) {
	tests := []struct {
		name  string
		rType models.AmountType
		value string
		total string
		want  string
	}{
		{"fixed amount", models.AmountFixed, "150", "1000", "850"},
		{"fixed amount floors at zero", models.AmountFixed, "1500", "1000", "0"},
		{"fixed amount to exactly zero", models.AmountFixed, "1000", "1000", "0"},
		{"percentage", models.AmountPercentage, "25", "1000", "750"},
		{"full percentage", models.AmountPercentage, "100", "1000", "0"},
		{"over hundred percent floors at zero", models.AmountPercentage, "150", "1000", "0"},
		{"percentage of zero", models.AmountPercentage, "50", "0", "0"},
		{"unknown type is a no-op", models.AmountType("GIFT"), "500", "1000", "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reduction{Type: tt.rType, Value: decimal.RequireFromString(tt.value)}
			got := r.Apply(decimal.RequireFromString(tt.total))
			require.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestReductionsCompoundSequentially(t *testing.T) {
	total := decimal.RequireFromString("1000")

	// Each percentage is computed off the running total, not the original
	// base: 1000 -> 900 -> 810.
	total = Reduction{Type: models.AmountPercentage, Value: decimal.RequireFromString("10")}.Apply(total)
	total = Reduction{Type: models.AmountPercentage, Value: decimal.RequireFromString("10")}.Apply(total)

	require.True(t, total.Equal(decimal.RequireFromString("810")), "got %s", total)
}
