package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-system/pkg/types"
)

func TestParseListFilter(t *testing.T) {
	values := url.Values{}
	values.Set("q", " монитор ")
	values.Set("name", "LCD")
	values.Set("limit", "25")
	values.Set("page", "3")
	values.Set("unknown", "игнорируется")

	filter := ParseListFilter(values, "name", "serial_number_mask")

	assert.Equal(t, "монитор", filter.Q)
	assert.Equal(t, 25, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, map[string]string{"name": "LCD"}, filter.Fields)
}

func TestParseListFilterDefaults(t *testing.T) {
	filter := ParseListFilter(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Empty(t, filter.Q)
	assert.Empty(t, filter.Fields)
}

func TestParseListFilterLimitCap(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "100500")
	values.Set("page", "-2")

	filter := ParseListFilter(values)

	assert.Equal(t, MaxLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
}

func TestBuildPageInfoMiddlePage(t *testing.T) {
	info := BuildPageInfo(45, types.ListFilter{Page: 2, Limit: 10})

	assert.Equal(t, uint64(45), info.CountItems)
	assert.Equal(t, 10, info.ItemsPerPage)
	assert.Equal(t, uint64(11), info.StartItemIndex)
	assert.Equal(t, uint64(20), info.EndItemIndex)
	require.NotNil(t, info.PreviousPage)
	assert.Equal(t, 1, *info.PreviousPage)
	assert.Equal(t, 2, info.CurrentPage)
	require.NotNil(t, info.NextPage)
	assert.Equal(t, 3, *info.NextPage)
}

func TestBuildPageInfoFirstPage(t *testing.T) {
	info := BuildPageInfo(45, types.ListFilter{Page: 1, Limit: 10})

	assert.Equal(t, uint64(1), info.StartItemIndex)
	assert.Equal(t, uint64(10), info.EndItemIndex)
	assert.Nil(t, info.PreviousPage)
	require.NotNil(t, info.NextPage)
	assert.Equal(t, 2, *info.NextPage)
}

func TestBuildPageInfoLastPage(t *testing.T) {
	info := BuildPageInfo(45, types.ListFilter{Page: 5, Limit: 10})

	assert.Equal(t, uint64(41), info.StartItemIndex)
	assert.Equal(t, uint64(45), info.EndItemIndex)
	require.NotNil(t, info.PreviousPage)
	assert.Equal(t, 4, *info.PreviousPage)
	assert.Nil(t, info.NextPage)
}

func TestBuildPageInfoEmptySet(t *testing.T) {
	info := BuildPageInfo(0, types.ListFilter{Page: 1, Limit: 10})

	assert.Equal(t, uint64(0), info.CountItems)
	assert.Equal(t, uint64(0), info.StartItemIndex)
	assert.Equal(t, uint64(0), info.EndItemIndex)
	assert.Nil(t, info.PreviousPage)
	assert.Nil(t, info.NextPage)
}

func TestBuildPageInfoSinglePage(t *testing.T) {
	info := BuildPageInfo(7, types.ListFilter{Page: 1, Limit: 10})

	assert.Equal(t, uint64(1), info.StartItemIndex)
	assert.Equal(t, uint64(7), info.EndItemIndex)
	assert.Nil(t, info.PreviousPage)
	assert.Nil(t, info.NextPage)
}
