package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestGlobalDiscountAppliesToStudent(t *testing.T) {
	tests := []struct {
		name     string
		discount GlobalDiscount
		campusID int64
		classID  int64
		want     bool
	}{
		{"all students", GlobalDiscount{AppliesTo: DiscountAllStudents}, 1, 2, true},
		{"campus match", GlobalDiscount{AppliesTo: DiscountSelectedCampuses, CampusIDs: []int64{1, 3}}, 3, 2, true},
		{"campus miss", GlobalDiscount{AppliesTo: DiscountSelectedCampuses, CampusIDs: []int64{1, 3}}, 2, 2, false},
		{"class match", GlobalDiscount{AppliesTo: DiscountSelectedClasses, ClassIDs: []int64{2}}, 1, 2, true},
		{"class miss", GlobalDiscount{AppliesTo: DiscountSelectedClasses, ClassIDs: []int64{9}}, 1, 2, false},
		{"empty scope set", GlobalDiscount{AppliesTo: DiscountSelectedClasses}, 1, 2, false},
		{"unknown scope", GlobalDiscount{AppliesTo: DiscountScope("SOME_SCOPE")}, 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.discount.AppliesToStudent(tt.campusID, tt.classID))
		})
	}
}

func TestTransportRouteCostFor(t *testing.T) {
	route := TransportRoute{
		OneWayCostPerTerm: decimal.NewFromInt(60),
		TwoWayCostPerTerm: decimal.NewFromInt(100),
	}

	oneWay := TransportOneWay
	twoWay := TransportTwoWay

	require.True(t, route.CostFor(&oneWay).Equal(decimal.NewFromInt(60)))
	require.True(t, route.CostFor(&twoWay).Equal(decimal.NewFromInt(100)))
	require.True(t, route.CostFor(nil).Equal(decimal.NewFromInt(100)))
}

func TestAcademicStatusFromClock(t *testing.T) {
	year := AcademicYear{
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.November, 30, 0, 0, 0, 0, time.UTC),
	}

	require.Equal(t, AcademicActive, year.Status(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, AcademicArchived, year.Status(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, AcademicArchived, year.Status(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)))

	term := Term{
		StartDate: year.StartDate,
		EndDate:   time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, AcademicActive, term.Status(term.StartDate))
	require.Equal(t, AcademicActive, term.Status(term.EndDate))
	require.Equal(t, AcademicArchived, term.Status(term.EndDate.Add(24*time.Hour)))
}
