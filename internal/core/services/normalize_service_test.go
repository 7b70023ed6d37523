package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undeluro/tglens/internal/domain"
)

func TestNormalizeService(t *testing.T) {
	svc := NewNormalizeService()

	t.Run("Выравнивание сообщений с денормализацией чата", func(t *testing.T) {
		raw := &domain.RawExport{Chats: domain.ChatList{List: []domain.Chat{
			{ID: 1, Name: "Alice", Type: "personal_chat", Messages: []domain.RawMessage{
				{ID: 10, Type: "message", Date: "2024-01-15T12:30:45", From: "Alice", Text: domain.PlainText("привет")},
				{ID: 11, Type: "message", Date: "2024-01-16T08:00:00", From: "Bob", Text: domain.PlainText("hi")},
			}},
			{ID: 2, Name: "Work", Type: "private_group", Messages: []domain.RawMessage{
				{ID: 20, Type: "message", Date: "2024-01-17T09:00:00", From: "Carol", Text: domain.PlainText("meeting")},
			}},
		}}}

		records, err := svc.Normalize(raw)
		require.NoError(t, err)
		require.Len(t, records, 3)

		first := records[0]
		assert.Equal(t, int64(1), first.ChatID)
		assert.Equal(t, "Alice", first.ChatName)
		assert.Equal(t, "personal_chat", first.ChatType)
		assert.Equal(t, int64(10), first.MessageID)
		assert.Equal(t, "привет", first.Text)
		assert.Equal(t, 6, first.TextLength, "длина текста считается в рунах")

		assert.Equal(t, int64(2), records[2].ChatID)
		assert.Equal(t, "Work", records[2].ChatName)
	})

	t.Run("Производные календарные поля", func(t *testing.T) {
		raw := &domain.RawExport{Chats: domain.ChatList{List: []domain.Chat{
			{ID: 1, Name: "x", Type: "personal_chat", Messages: []domain.RawMessage{
				// 2024-01-15 — понедельник
				{ID: 1, Date: "2024-01-15T23:45:01", From: "a", Text: domain.PlainText("t")},
			}},
		}}}

		records, err := svc.Normalize(raw)
		require.NoError(t, err)
		r := records[0]

		assert.Equal(t, 2024, r.Year)
		assert.Equal(t, 1, r.Month)
		assert.Equal(t, "January", r.MonthName)
		assert.Equal(t, 15, r.Day)
		assert.Equal(t, 23, r.Hour)
		assert.Equal(t, "Monday", r.Weekday)
		assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), r.Date)
	})

	t.Run("Значения по умолчанию для пустых полей", func(t *testing.T) {
		raw := &domain.RawExport{Chats: domain.ChatList{List: []domain.Chat{
			{ID: 1, Messages: []domain.RawMessage{
				{ID: 1, Date: "2024-01-15T12:00:00"},
			}},
		}}}

		records, err := svc.Normalize(raw)
		require.NoError(t, err)
		r := records[0]

		assert.Equal(t, "Saved Messages", r.ChatName)
		assert.Equal(t, "unknown", r.ChatType)
		assert.Equal(t, "message", r.Type)
		assert.Equal(t, "Unknown", r.From)
		assert.Equal(t, "", r.Text)
		assert.Equal(t, 0, r.TextLength)
	})

	t.Run("Битая метка времени отменяет весь набор", func(t *testing.T) {
		raw := &domain.RawExport{Chats: domain.ChatList{List: []domain.Chat{
			{ID: 1, Name: "x", Type: "personal_chat", Messages: []domain.RawMessage{
				{ID: 1, Date: "2024-01-15T12:00:00", From: "a"},
				{ID: 2, Date: "15.01.2024", From: "a"},
			}},
		}}}

		records, err := svc.Normalize(raw)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		assert.Nil(t, records, "частичный результат не возвращается")
	})

	t.Run("Экспорт без сообщений дает ErrNoMessages", func(t *testing.T) {
		raw := &domain.RawExport{Chats: domain.ChatList{List: []domain.Chat{
			{ID: 1, Name: "empty", Type: "personal_chat"},
		}}}

		_, err := svc.Normalize(raw)
		assert.ErrorIs(t, err, domain.ErrNoMessages)
	})

	t.Run("Nil экспорт дает ErrInvalidFormat", func(t *testing.T) {
		_, err := svc.Normalize(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	})
}
