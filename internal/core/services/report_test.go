package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undeluro/tglens/internal/domain"
)

func TestBuildOverviewReport(t *testing.T) {
	records := []domain.MessageRecord{
		rec(1, "Alice", "personal_chat", "Alice", ts(15, 9), "привет мир"),
		rec(1, "Alice", "personal_chat", "me", ts(16, 10), "hello"),
		rec(2, "Work", "private_group", "Carol", ts(17, 11), "hello мир"),
	}

	report := BuildOverviewReport(records, domain.GranularityDay, 10)

	t.Run("Сводка и чаты согласованы", func(t *testing.T) {
		assert.Equal(t, 3, report.Stats.TotalMessages)
		require.Len(t, report.Chats, 2)
		assert.Equal(t, "Alice", report.Chats[0].ChatName)
	})

	t.Run("Шкала по дням", func(t *testing.T) {
		require.Len(t, report.Timeline, 3)
		assert.Equal(t, 1, report.Timeline[0].Count)
	})

	t.Run("Активность по часам и дням недели", func(t *testing.T) {
		assert.Equal(t, 1, report.ByHour[9])
		assert.Equal(t, 1, report.ByWeekday[0])
	})

	t.Run("Верхние слова с итогами", func(t *testing.T) {
		require.NotEmpty(t, report.Words.Top)
		assert.Equal(t, "hello", report.Words.Top[0].Word)
		assert.Equal(t, 2, report.Words.Top[0].Count)
		assert.Equal(t, 5, report.Words.TotalWords)
		assert.Equal(t, 3, report.Words.UniqueWords)
	})
}

func TestBuildChatReport(t *testing.T) {
	voice := rec(1, "Alice", "personal_chat", "Alice", ts(16, 9), "")
	voice.MediaType = domain.MediaVoiceMessage
	call := rec(1, "Alice", "personal_chat", "Alice", ts(16, 10), "")
	call.Action = domain.ActionPhoneCall
	call.DurationSec = 90

	records := []domain.MessageRecord{
		rec(1, "Alice", "personal_chat", "Alice", ts(15, 9), "привет"),
		rec(1, "Alice", "personal_chat", "me", ts(17, 21), "пока"),
		voice,
		call,
	}

	report := BuildChatReport(records, ts(14, 0), ts(18, 0), domain.GranularityDay, 10)

	t.Run("Сводка чата", func(t *testing.T) {
		assert.Equal(t, "Alice", report.Summary.ChatName)
		assert.Equal(t, 4, report.Summary.MessageCount)
	})

	t.Run("Дневная шкала накрывает границы архива", func(t *testing.T) {
		require.Len(t, report.Timeline, 5)
		assert.Equal(t, 0, report.Timeline[0].Count) // 14-е
		assert.Equal(t, 0, report.Timeline[4].Count) // 18-е
	})

	t.Run("Счетчики медиа и звонков", func(t *testing.T) {
		assert.Equal(t, 1, report.VoiceMessages)
		assert.Equal(t, 0, report.VideoMessages)
		assert.Equal(t, 1, report.TotalCalls)
		assert.Equal(t, 90.0, report.AvgCallDuration)
	})

	t.Run("Самые активные час и день", func(t *testing.T) {
		assert.Equal(t, 9, report.MostActiveHour)
		assert.Equal(t, "Tuesday", report.MostActiveWeekday)
	})

	t.Run("Участники и корзины длин", func(t *testing.T) {
		require.Len(t, report.Participants, 2)
		assert.Equal(t, "Alice", report.Participants[0].Name)
		assert.Equal(t, 3, report.Participants[0].Messages)
		require.Len(t, report.LengthBuckets, 6)
	})

	t.Run("Пустой набор дает нулевой отчет", func(t *testing.T) {
		empty := BuildChatReport(nil, ts(14, 0), ts(18, 0), domain.GranularityDay, 10)
		assert.Equal(t, domain.ChatReport{}, empty)
	})
}
