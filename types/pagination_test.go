package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationArithmetic(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}
	assert.True(t, p.Valid())
	assert.Equal(t, 10, p.Skip())

	page := NewPage([]int{1, 2}, 25, p)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestPaginationEdges(t *testing.T) {
	assert.False(t, Pagination{Page: 0, Limit: 10}.Valid())
	assert.False(t, Pagination{Page: 1, Limit: 0}.Valid())
	assert.False(t, Pagination{Page: -1, Limit: -1}.Valid())

	assert.Equal(t, 0, NewPage[int](nil, 0, Pagination{Page: 1, Limit: 10}).TotalPages)
	assert.Equal(t, 1, NewPage[int](nil, 10, Pagination{Page: 1, Limit: 10}).TotalPages)
	assert.Equal(t, 2, NewPage[int](nil, 11, Pagination{Page: 1, Limit: 10}).TotalPages)
	assert.NotNil(t, NewPage[int](nil, 0, Pagination{Page: 1, Limit: 10}).Items)
}

func TestPaginationRejectsOverflowingOffset(t *testing.T) {
	assert.False(t, Pagination{Page: 1<<62 + 1, Limit: 4}.Valid())
	assert.False(t, Pagination{Page: math.MaxInt, Limit: 2}.Valid())

	p := Pagination{Page: 1, Limit: math.MaxInt}
	assert.True(t, p.Valid())
	assert.Equal(t, 0, p.Skip())
	assert.Equal(t, 1, NewPage[int](nil, 25, p).TotalPages)

	last := Pagination{Page: math.MaxInt/4 + 1, Limit: 4}
	assert.True(t, last.Valid())
	assert.Positive(t, last.Skip())
}
