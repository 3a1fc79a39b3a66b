package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page       Page
		wantOffset int
	}{
		{NewPage(0, 20), 0},
		{NewPage(1, 20), 20},
		{NewPage(3, 7), 21},
		{NewPage(1<<60, 16), math.MaxInt},
		{NewPage(math.MaxInt, 2), math.MaxInt},
		{NewPage(5, 0), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantOffset, tt.page.Offset())
		assert.Equal(t, tt.page.Size, tt.page.Limit())
	}
}

func TestPagedTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		size  int
		want  int64
	}{
		{"empty", 0, 20, 0},
		{"partial page", 5, 20, 1},
		{"exact pages", 40, 20, 2},
		{"remainder", 41, 20, 3},
		{"zero size", 10, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Paged[Item]{Total: tt.total, Page: NewPage(0, tt.size)}
			assert.Equal(t, tt.want, p.TotalPages())
		})
	}
}
