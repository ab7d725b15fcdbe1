package services

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	"equipment-system/pkg/types"
)

var exportHeaders = []interface{}{
	"ID", "Тип оборудования", "Серийный номер", "Описание", "Создано", "Обновлено",
}

type EquipmentExportServiceInterface interface {
	ExportEquipments(ctx context.Context, filter types.ListFilter) (*excelize.File, error)
}

type EquipmentExportService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentExportService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) EquipmentExportServiceInterface {
	return &EquipmentExportService{
		equipmentRepository: equipmentRepository,
		logger:              logger,
	}
}

// ExportEquipments собирает .xlsx по текущему фильтру списка.
// Пагинация не применяется: выгружаются все подходящие строки.
func (s *EquipmentExportService) ExportEquipments(ctx context.Context, filter types.ListFilter) (*excelize.File, error) {
	filter.Limit = 0
	equipments, total, err := s.equipmentRepository.GetEquipments(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка выборки оборудования для экспорта", zap.Error(err))
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Оборудование"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "F1", style)

	const dateFmt = "02.01.2006 15:04"
	for i, e := range equipments {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(e, dateFmt)
		f.SetSheetRow(sheet, cell, &row)
	}

	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "C", 25)
	f.SetColWidth(sheet, "D", "D", 40)
	f.SetColWidth(sheet, "E", "F", 18)

	s.logger.Info("Сформирован экспорт оборудования", zap.Uint64("total", total))
	return f, nil
}

func exportRow(e entities.Equipment, dateFmt string) []interface{} {
	return []interface{}{
		e.ID,
		e.EquipmentTypeName,
		e.SerialNumber,
		e.Description.String,
		e.CreatedAt.Format(dateFmt),
		e.UpdatedAt.Format(dateFmt),
	}
}
