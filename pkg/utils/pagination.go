package utils

import (
	"net/url"
	"strconv"
	"strings"

	"equipment-system/internal/dto"
	"equipment-system/pkg/types"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseListFilter разбирает query-параметры списочного запроса.
// allowedFields — имена полей, по которым разрешена фильтрация по вхождению;
// q попадает в Filter.Q и ищет по всем разрешённым колонкам сразу.
func ParseListFilter(values url.Values, allowedFields ...string) types.ListFilter {
	filter := types.ListFilter{
		Fields: make(map[string]string),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filter.Limit = MaxLimit
			} else {
				filter.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}

	filter.Q = strings.TrimSpace(values.Get("q"))

	for _, field := range allowedFields {
		if v := strings.TrimSpace(values.Get(field)); v != "" {
			filter.Fields[field] = v
		}
	}

	return filter
}

// BuildPageInfo считает дополнительную информацию пагинации для конверта.
// Индексы 1-базные; при пустой выборке start/end равны 0; previous_page и
// next_page на соответствующих границах опускаются.
func BuildPageInfo(total uint64, filter types.ListFilter) dto.PaginationInfoDTO {
	info := dto.PaginationInfoDTO{
		CountItems:   total,
		ItemsPerPage: filter.Limit,
		CurrentPage:  filter.Page,
	}

	offset := uint64(filter.Offset())
	if total > 0 && offset < total {
		info.StartItemIndex = offset + 1
		end := offset + uint64(filter.Limit)
		if end > total {
			end = total
		}
		info.EndItemIndex = end
	}

	if filter.Page > 1 {
		prev := filter.Page - 1
		info.PreviousPage = &prev
	}
	if uint64(filter.Page)*uint64(filter.Limit) < total {
		next := filter.Page + 1
		info.NextPage = &next
	}

	return info
}
