package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cargoseal/cargoseal_backend/internal/dto"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "negative page clamps to first", page: -3, limit: 10, wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "limit capped at max", page: 1, limit: 500, wantPage: 1, wantLimit: 100, wantOffset: 0},
		{name: "offset from page", page: 3, limit: 25, wantPage: 3, wantLimit: 25, wantOffset: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, offset := dto.NormalizePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := dto.NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, int64(45), p.Total)
	assert.Equal(t, 3, p.TotalPages)

	empty := dto.NewPagination(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
