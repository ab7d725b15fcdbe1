package dto

// Тексты retMsg стандартного конверта ответа.
const (
	RetMsgOk          = "Ok"
	RetMsgEmptySet    = "Result set is empty"
	RetMsgNoChanges   = "You changed nothing"
	RetMsgBatchErrors = "There are some errors"
)

// BaseResponse — единый конверт успешного ответа.
type BaseResponse struct {
	RetCode    int         `json:"retCode"`
	RetMsg     string      `json:"retMsg"`
	Result     interface{} `json:"result"`
	RetExtInfo interface{} `json:"retExtInfo"`
	RetTime    int64       `json:"retTime"`
}

// PaginationInfoDTO — retExtInfo списочных ответов.
// Индексы элементов 1-базные; при пустой выборке оба равны 0.
// previous_page/next_page на границах отсутствуют.
type PaginationInfoDTO struct {
	CountItems     uint64 `json:"count_items"`
	ItemsPerPage   int    `json:"items_per_page"`
	StartItemIndex uint64 `json:"start_item_index"`
	EndItemIndex   uint64 `json:"end_item_index"`
	PreviousPage   *int   `json:"previous_page,omitempty"`
	CurrentPage    int    `json:"current_page"`
	NextPage       *int   `json:"next_page,omitempty"`
}

// CreateEquipmentErrorDTO — ошибочная запись пакетного создания оборудования.
type CreateEquipmentErrorDTO struct {
	Index int         `json:"index"`
	Error string      `json:"error"`
	Data  interface{} `json:"data"`
}

// CreateEquipmentInfoDTO — retExtInfo ответа пакетного создания.
type CreateEquipmentInfoDTO struct {
	Count  int                       `json:"count"`
	Saved  int                       `json:"saved"`
	Failed int                       `json:"failed"`
	Errors []CreateEquipmentErrorDTO `json:"errors"`
}
