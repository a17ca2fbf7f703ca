package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 10, 20, 10},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"zero size uses default", 1, 0, 0, DefaultPageSize},
		{"oversized size uses default", 1, 1000, 0, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			require.Equal(t, tt.wantOffset, offset)
			require.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	require.Equal(t, 2, info.CurrentPage)
	require.Equal(t, 3, info.TotalPages)
	require.Equal(t, 20, info.PageSize)
	require.Equal(t, int64(45), info.TotalItems)

	// Empty result set still reports one page.
	empty := NewPaginationInfo(0, 1, 20)
	require.Equal(t, 1, empty.TotalPages)

	// Page beyond the end clamps to the last page.
	clamped := NewPaginationInfo(10, 5, 20)
	require.Equal(t, 1, clamped.CurrentPage)
}
