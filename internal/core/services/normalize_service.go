package services

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/undeluro/tglens/internal/domain"
	"github.com/undeluro/tglens/internal/ports"
)

// exportTimeLayout — формат временных меток в экспортах Telegram Desktop.
// Формат един для всех записей; метка другой формы — структурная ошибка
// всего файла, запасной формат не угадывается.
const exportTimeLayout = "2006-01-02T15:04:05"

// Значения по умолчанию для отсутствующих полей.
const (
	defaultChatName    = "Saved Messages"
	defaultChatType    = "unknown"
	defaultMessageType = "message"
	defaultSender      = "Unknown"
)

// NormalizeServiceImpl реализует интерфейс Normalizer.
type NormalizeServiceImpl struct{}

// NewNormalizeService создает новый экземпляр NormalizeServiceImpl.
func NewNormalizeService() ports.Normalizer {
	return &NormalizeServiceImpl{}
}

// Normalize выравнивает все сообщения всех чатов экспорта в единый набор
// записей с производными календарными полями. Операция атомарна: любая
// ошибка отменяет весь набор, частичный результат не возвращается.
func (s *NormalizeServiceImpl) Normalize(raw *domain.RawExport) ([]domain.MessageRecord, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil export", domain.ErrInvalidFormat)
	}

	var records []domain.MessageRecord
	for _, chat := range raw.Chats.List {
		chatName := chat.Name
		if chatName == "" {
			chatName = defaultChatName
		}
		chatType := chat.Type
		if chatType == "" {
			chatType = defaultChatType
		}

		for _, msg := range chat.Messages {
			ts, err := time.Parse(exportTimeLayout, msg.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: bad message date %q in chat %q: %v",
					domain.ErrInvalidFormat, msg.Date, chatName, err)
			}

			msgType := msg.Type
			if msgType == "" {
				msgType = defaultMessageType
			}
			from := msg.From
			if from == "" {
				from = defaultSender
			}
			text := msg.Text.Plain()

			records = append(records, domain.MessageRecord{
				ChatID:   chat.ID,
				ChatName: chatName,
				ChatType: chatType,

				MessageID: msg.ID,
				From:      from,
				FromID:    msg.FromID,
				Actor:     msg.Actor,
				ActorID:   msg.ActorID,

				Timestamp:    ts,
				EpochSeconds: int64(msg.DateUnixtime),

				Text:       text,
				TextLength: utf8.RuneCountInString(text),

				Type:          msgType,
				Action:        msg.Action,
				ReplyTo:       msg.ReplyTo,
				ForwardedFrom: msg.ForwardedFrom,
				MediaType:     msg.MediaType,
				File:          msg.File,
				Width:         msg.Width,
				Height:        msg.Height,
				DurationSec:   msg.DurationSec,

				Date:      ts.Truncate(24 * time.Hour),
				Year:      ts.Year(),
				Month:     int(ts.Month()),
				MonthName: ts.Month().String(),
				Day:       ts.Day(),
				Hour:      ts.Hour(),
				Weekday:   ts.Weekday().String(),
			})
		}
	}

	if len(records) == 0 {
		return nil, domain.ErrNoMessages
	}
	return records, nil
}
