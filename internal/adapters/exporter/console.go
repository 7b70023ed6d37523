// Package exporter содержит адаптеры вывода отчетов: текстовый рендеринг в
// терминал и выгрузку в XLSX.
package exporter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/undeluro/tglens/internal/domain"
)

const sparkChars = " .:-=+*#%@"

// ConsoleExporter рендерит отчеты в текстовом виде. Ширина столбцов
// вычисляется по отображаемой ширине, поэтому кириллические и CJK-имена
// чатов не ломают выравнивание.
type ConsoleExporter struct {
	w     io.Writer
	width int
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter. width задает
// доступную ширину строки вывода.
func NewConsoleExporter(w io.Writer, width int) *ConsoleExporter {
	if width <= 0 {
		width = 80
	}
	return &ConsoleExporter{w: w, width: width}
}

// Export печатает таблицу сводки по чатам.
func (e *ConsoleExporter) Export(summaries []domain.ChatSummary) error {
	headers := []string{"Чат", "Тип", "Сообщений", "Отправителей", "Медиа", "В день"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ChatName,
			s.ChatType,
			strconv.Itoa(s.MessageCount),
			strconv.Itoa(s.UniqueSenders),
			strconv.Itoa(s.MediaCount),
			strconv.FormatFloat(s.MessagesPerDay, 'f', 2, 64),
		})
	}

	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(e.w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderReport печатает обзорный отчет: сводку, чаты, временную шкалу,
// тепловую карту и верхние слова.
func (e *ConsoleExporter) RenderReport(report domain.Report) error {
	stats := report.Stats
	fmt.Fprintf(e.w, "Сообщений: %d  Чатов: %d  Звонков: %d  Медиа: %d\n",
		stats.TotalMessages, stats.TotalChats, stats.TotalCalls, stats.MediaMessages)
	if !stats.DateRangeStart.IsZero() {
		fmt.Fprintf(e.w, "Период: %s — %s (%d дней)\n",
			stats.DateRangeStart.Format(time.DateOnly),
			stats.DateRangeEnd.Format(time.DateOnly),
			stats.TotalDays)
	}
	fmt.Fprintln(e.w)

	if err := e.Export(report.Chats); err != nil {
		return err
	}
	fmt.Fprintln(e.w)

	if len(report.Timeline) > 0 {
		values := make([]float64, len(report.Timeline))
		for i, b := range report.Timeline {
			values[i] = float64(b.Count)
		}
		fmt.Fprintln(e.w, "Временная шкала:")
		fmt.Fprintln(e.w, Sparkline(values, e.width))
		fmt.Fprintln(e.w)
	}

	e.renderHeatmap(report.Heatmap)

	if len(report.Words.Top) > 0 {
		fmt.Fprintf(e.w, "Слова (всего %d, уникальных %d):\n",
			report.Words.TotalWords, report.Words.UniqueWords)
		for _, wc := range report.Words.Top {
			fmt.Fprintf(e.w, "  %s %d\n", wc.Word, wc.Count)
		}
	}
	return nil
}

// renderHeatmap печатает матрицу 7×24 символами интенсивности.
func (e *ConsoleExporter) renderHeatmap(matrix domain.ActivityMatrix) {
	maxCount := 0
	for _, row := range matrix.Counts {
		for _, c := range row {
			if c > maxCount {
				maxCount = c
			}
		}
	}
	if maxCount == 0 {
		return
	}

	labelWidth := 0
	for _, name := range matrix.Weekdays {
		if w := displayWidth(name); w > labelWidth {
			labelWidth = w
		}
	}

	fmt.Fprintln(e.w, "Активность по часам:")
	for i, name := range matrix.Weekdays {
		var b strings.Builder
		b.WriteString(padCell(name, labelWidth, false))
		b.WriteByte(' ')
		for _, c := range matrix.Counts[i] {
			idx := int(math.Round(float64(c) / float64(maxCount) * float64(len(sparkChars)-1)))
			b.WriteByte(sparkChars[idx])
		}
		fmt.Fprintln(e.w, b.String())
	}
	fmt.Fprintln(e.w)
}

// Sparkline сжимает ряд значений в одну строку символов интенсивности шириной
// не более width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = downsample(values, width)
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}

	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// downsample усредняет значения по корзинам, чтобы ряд уместился в width точек.
func downsample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * float64(len(values)) / float64(width))
		end := int(float64(i+1) * float64(len(values)) / float64(width))
		if end <= start {
			end = start + 1
		}
		if end > len(values) {
			end = len(values)
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
