package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageRequest_Defaults(t *testing.T) {
	req := NewPageRequest("id")
	assert.Equal(t, DefaultPage, req.Page)
	assert.Equal(t, DefaultSize, req.Size)
	assert.Equal(t, "id", req.SortBy)
	assert.Equal(t, SortAsc, req.Direction)
	assert.False(t, req.Descending())
}

func TestPageRequest_Offset(t *testing.T) {
	req := PageRequest{Page: 3, Size: 10}
	assert.Equal(t, 30, req.Offset())

	req = PageRequest{Page: 0, Size: 10}
	assert.Equal(t, 0, req.Offset())

	req = PageRequest{Page: -1, Size: 10}
	assert.Equal(t, 0, req.Offset())
}

func TestPageRequest_Descending(t *testing.T) {
	req := PageRequest{Direction: SortDesc}
	assert.True(t, req.Descending())

	req = PageRequest{Direction: SortAsc}
	assert.False(t, req.Descending())
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 1, Size: 10}
	page := NewPage([]int{1, 2, 3}, req, 23)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, int64(23), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 3)
}

func TestNewPage_EmptyResult(t *testing.T) {
	req := PageRequest{Page: 0, Size: 10}
	page := NewPage[int](nil, req, 0)

	require.NotNil(t, page.Items, "items should marshal as [] rather than null")
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, int64(0), page.TotalElements)
}

func TestNewPage_ExactDivision(t *testing.T) {
	req := PageRequest{Page: 0, Size: 5}
	page := NewPage([]string{"a", "b", "c", "d", "e"}, req, 20)
	assert.Equal(t, 4, page.TotalPages)
}
