package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undeluro/tglens/internal/domain"
)

func TestSparkline(t *testing.T) {
	t.Run("Минимум и максимум получают крайние символы", func(t *testing.T) {
		line := Sparkline([]float64{0, 5, 10}, 80)
		require.Len(t, line, 3)
		assert.Equal(t, byte(' '), line[0])
		assert.Equal(t, byte('@'), line[2])
	})

	t.Run("Ровный ряд рисуется средним символом", func(t *testing.T) {
		line := Sparkline([]float64{3, 3, 3}, 80)
		assert.Equal(t, strings.Repeat(string(sparkChars[len(sparkChars)/2]), 3), line)
	})

	t.Run("Длинный ряд сжимается до ширины", func(t *testing.T) {
		values := make([]float64, 200)
		for i := range values {
			values[i] = float64(i)
		}
		line := Sparkline(values, 40)
		assert.Len(t, line, 40)
	})

	t.Run("Пустой ряд дает пустую строку", func(t *testing.T) {
		assert.Equal(t, "", Sparkline(nil, 80))
		assert.Equal(t, "", Sparkline([]float64{1}, 0))
	})
}

func TestFormatTable(t *testing.T) {
	t.Run("Выравнивание по отображаемой ширине", func(t *testing.T) {
		lines := formatTable(
			[]string{"Чат", "Сообщений"},
			[][]string{
				{"Рабочий чат", "120"},
				{"ab", "7"},
			},
			map[int]bool{1: true},
		)
		require.Len(t, lines, 3)
		assert.Equal(t, "Чат          Сообщений", lines[0])
		assert.Equal(t, "Рабочий чат        120", lines[1])
		assert.Equal(t, "ab                   7", lines[2])
	})

	t.Run("Пустая таблица", func(t *testing.T) {
		assert.Nil(t, formatTable(nil, nil, nil))
	})
}

func TestConsoleExporter(t *testing.T) {
	summary := domain.ChatSummary{
		ChatID:         1,
		ChatName:       "Alice",
		ChatType:       "personal_chat",
		MessageCount:   10,
		UniqueSenders:  2,
		MediaCount:     1,
		MessagesPerDay: 2.5,
	}

	t.Run("Экспорт сводки по чатам", func(t *testing.T) {
		var buf bytes.Buffer
		e := NewConsoleExporter(&buf, 80)
		require.NoError(t, e.Export([]domain.ChatSummary{summary}))

		out := buf.String()
		assert.Contains(t, out, "Alice")
		assert.Contains(t, out, "personal_chat")
		assert.Contains(t, out, "2.50")
	})

	t.Run("Рендеринг обзорного отчета", func(t *testing.T) {
		report := domain.Report{
			Stats: domain.BasicStats{
				TotalMessages:  10,
				TotalChats:     1,
				DateRangeStart: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
				DateRangeEnd:   time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
				TotalDays:      3,
			},
			Chats: []domain.ChatSummary{summary},
			Timeline: []domain.TimelineBucket{
				{Period: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Count: 4},
				{Period: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), Count: 6},
			},
			Heatmap: domain.ActivityMatrix{Weekdays: domain.WeekdayNames()},
			Words: domain.WordReport{
				Top:         []domain.WordCount{{Word: "привет", Count: 4}},
				TotalWords:  4,
				UniqueWords: 1,
			},
		}
		report.Heatmap.Counts[0][9] = 4

		var buf bytes.Buffer
		e := NewConsoleExporter(&buf, 80)
		require.NoError(t, e.RenderReport(report))

		out := buf.String()
		assert.Contains(t, out, "Сообщений: 10")
		assert.Contains(t, out, "2024-01-15 — 2024-01-17")
		assert.Contains(t, out, "Временная шкала:")
		assert.Contains(t, out, "Активность по часам:")
		assert.Contains(t, out, "Monday")
		assert.Contains(t, out, "привет 4")
	})
}
