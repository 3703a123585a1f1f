package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		page, size, max  int
		wantPage, wantSz int
	}{
		{name: "within bounds", page: 2, size: 5, max: 20, wantPage: 2, wantSz: 5},
		{name: "page floored", page: 0, size: 5, max: 20, wantPage: 1, wantSz: 5},
		{name: "negative page", page: -3, size: 5, max: 20, wantPage: 1, wantSz: 5},
		{name: "size clamped", page: 1, size: 500, max: 20, wantPage: 1, wantSz: 20},
		{name: "zero size defaults", page: 1, size: 0, max: 20, wantPage: 1, wantSz: DefaultPageSize},
		{name: "missing max", page: 1, size: 50, max: 0, wantPage: 1, wantSz: MaxPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, s := Clamp(tt.page, tt.size, tt.max)
			assert.Equal(t, tt.wantPage, p)
			assert.Equal(t, tt.wantSz, s)
		})
	}
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	off, lim := Calculate(3, 20)
	assert.Equal(t, 40, off)
	assert.Equal(t, 20, lim)

	off, lim = Calculate(0, 0)
	assert.Equal(t, 0, off)
	assert.Equal(t, DefaultPageSize, lim)
}

func TestNewMetadata(t *testing.T) {
	t.Parallel()

	m := NewMetadata(41, 2, 20)
	assert.Equal(t, PaginationMetadata{TotalItemCount: 41, TotalPageCount: 3, PageSize: 20, CurrentPage: 2}, m)

	assert.Equal(t, int64(0), NewMetadata(0, 1, 10).TotalPageCount)
}

func TestParseIntDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}
