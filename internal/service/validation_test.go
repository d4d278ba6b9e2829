package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination_Normalized(t *testing.T) {
	tests := []struct {
		name       string
		in         Pagination
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", in: Pagination{}, wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "negative", in: Pagination{Page: -4, Limit: -1}, wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "regular", in: Pagination{Page: 3, Limit: 20}, wantPage: 3, wantLimit: 20, wantOffset: 40},
		{name: "limit capped", in: Pagination{Page: 2, Limit: 5000}, wantPage: 2, wantLimit: 100, wantOffset: 100},
		{name: "page capped", in: Pagination{Page: math.MaxInt, Limit: 100}, wantPage: maxPage, wantLimit: 100, wantOffset: (maxPage - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in.normalized()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.offset())
		})
	}
}

func TestCourseService_ListHugePageKeepsOffsetPositive(t *testing.T) {
	f := newCourseFixture(t)

	_, err := f.svc.List(context.Background(), CourseQuery{
		Pagination: Pagination{Page: math.MaxInt, Limit: 100},
	})
	require.NoError(t, err)

	got := f.courses.lastList
	assert.Positive(t, got.Offset)
	assert.LessOrEqual(t, got.Offset, math.MaxInt32)
}
