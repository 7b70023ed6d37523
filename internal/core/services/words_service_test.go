package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undeluro/tglens/internal/domain"
)

func wordRec(text string) domain.MessageRecord {
	return domain.MessageRecord{Text: text, TextLength: len([]rune(text))}
}

func TestExtractWords(t *testing.T) {
	t.Run("Подсчет частот с нижним регистром", func(t *testing.T) {
		stats := ExtractWords([]domain.MessageRecord{
			wordRec("Привет, мир! привет"),
			wordRec("мир"),
		})

		assert.Equal(t, 2, stats.Counts["привет"])
		assert.Equal(t, 2, stats.Counts["мир"])
		assert.Equal(t, 4, stats.TotalWords)
		assert.Equal(t, 2, stats.UniqueWords)
	})

	t.Run("URL-подобные подстроки удаляются", func(t *testing.T) {
		stats := ExtractWords([]domain.MessageRecord{
			wordRec("смотри http://example.com/page и www.example.org статью"),
		})

		assert.NotContains(t, stats.Counts, "http")
		assert.NotContains(t, stats.Counts, "example")
		assert.Equal(t, 1, stats.Counts["смотри"])
		assert.Equal(t, 1, stats.Counts["статью"])
	})

	t.Run("Символы вне консервативного набора заменяются пробелами", func(t *testing.T) {
		stats := ExtractWords([]domain.MessageRecord{
			wordRec("код🔥горит (скобки) [и] «кавычки»"),
		})

		assert.Equal(t, 1, stats.Counts["код"])
		assert.Equal(t, 1, stats.Counts["горит"])
		assert.Equal(t, 1, stats.Counts["скобки"])
		assert.Equal(t, 1, stats.Counts["кавычки"])
	})

	t.Run("Стоп-слова обоих языков отбрасываются", func(t *testing.T) {
		stats := ExtractWords([]domain.MessageRecord{
			wordRec("the quick fox и быстрая лиса"),
		})

		assert.NotContains(t, stats.Counts, "the")
		assert.NotContains(t, stats.Counts, "и")
		assert.Equal(t, 1, stats.Counts["quick"])
		assert.Equal(t, 1, stats.Counts["быстрая"])
		assert.Equal(t, 4, stats.TotalWords, "итоги считаются по выжившим токенам")
	})

	t.Run("Пунктуация по краям токенов срезается", func(t *testing.T) {
		stats := ExtractWords([]domain.MessageRecord{
			wordRec("слово... еще-одно!"),
		})

		assert.Equal(t, 1, stats.Counts["слово"])
		assert.Equal(t, 1, stats.Counts["еще-одно"])
	})

	t.Run("Записи без текста пропускаются", func(t *testing.T) {
		stats := ExtractWords([]domain.MessageRecord{
			wordRec(""),
			{MediaType: domain.MediaVoiceMessage},
		})

		require.NotNil(t, stats.Counts)
		assert.Empty(t, stats.Counts)
		assert.Equal(t, 0, stats.TotalWords)
		assert.Equal(t, 0, stats.UniqueWords)
	})

	t.Run("Пустой набор дает пустую статистику", func(t *testing.T) {
		stats := ExtractWords(nil)
		require.NotNil(t, stats.Counts)
		assert.Equal(t, 0, stats.UniqueWords)
	})
}
