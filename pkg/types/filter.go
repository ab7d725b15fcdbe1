package types

// ListFilter — параметры фильтрации и пагинации списочных запросов.
// Q ищет по всем разрешённым колонкам сразу, Fields — по конкретной
// колонке (вхождение без учёта регистра).
type ListFilter struct {
	Q      string            `json:"q,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Page   int               `json:"page"`
	Limit  int               `json:"limit"`
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
