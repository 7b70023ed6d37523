package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/undeluro/tglens/internal/domain"
)

const summarySheetName = "Чаты"

// ExcelExporter записывает сводку по чатам в файл XLSX.
type ExcelExporter struct {
	filePath string
}

// NewExcelExporter создает новый экземпляр ExcelExporter.
func NewExcelExporter(filePath string) *ExcelExporter {
	return &ExcelExporter{filePath: filePath}
}

// Export записывает по одной строке на чат в лист "Чаты".
func (e *ExcelExporter) Export(summaries []domain.ChatSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheetName)
	if err != nil {
		return fmt.Errorf("не удалось создать лист: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Чат", "Тип", "Сообщений", "Символов", "Средняя длина",
		"Отправителей", "Первое сообщение", "Последнее сообщение",
		"Медиа", "Дней активности", "Сообщений в день",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheetName, cell, h)
	}

	for i, s := range summaries {
		row := i + 2
		f.SetCellValue(summarySheetName, fmt.Sprintf("A%d", row), s.ChatName)
		f.SetCellValue(summarySheetName, fmt.Sprintf("B%d", row), s.ChatType)
		f.SetCellValue(summarySheetName, fmt.Sprintf("C%d", row), s.MessageCount)
		f.SetCellValue(summarySheetName, fmt.Sprintf("D%d", row), s.TotalTextLength)
		f.SetCellValue(summarySheetName, fmt.Sprintf("E%d", row), s.AvgTextLength)
		f.SetCellValue(summarySheetName, fmt.Sprintf("F%d", row), s.UniqueSenders)
		f.SetCellValue(summarySheetName, fmt.Sprintf("G%d", row), s.FirstMessage.Format(time.DateTime))
		f.SetCellValue(summarySheetName, fmt.Sprintf("H%d", row), s.LastMessage.Format(time.DateTime))
		f.SetCellValue(summarySheetName, fmt.Sprintf("I%d", row), s.MediaCount)
		f.SetCellValue(summarySheetName, fmt.Sprintf("J%d", row), s.DaysActive)
		f.SetCellValue(summarySheetName, fmt.Sprintf("K%d", row), s.MessagesPerDay)
	}

	if err := f.SaveAs(e.filePath); err != nil {
		return fmt.Errorf("не удалось сохранить файл %s: %w", e.filePath, err)
	}
	return nil
}
