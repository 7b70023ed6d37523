// Package domain содержит модели данных экспорта Telegram и
// нормализованные/производные структуры аналитики.
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Типы чатов, которые различает слой представления.
const (
	ChatTypePersonal   = "personal_chat"
	ChatTypeSaved      = "saved_messages"
	ChatTypeGroup      = "private_group"
	ChatTypeSupergroup = "private_supergroup"
)

// ActionPhoneCall — тег сервисного события звонка.
const ActionPhoneCall = "phone_call"

// Известные типы медиа.
const (
	MediaVoiceMessage = "voice_message"
	MediaVideoMessage = "video_message"
)

// RawExport представляет корневую структуру полного файла экспорта
// Telegram Desktop ("Export Telegram data" в формате JSON).
type RawExport struct {
	Chats ChatList `json:"chats"`
}

// ChatList содержит список чатов экспорта.
type ChatList struct {
	List []Chat `json:"list"`
}

// Chat представляет один чат внутри экспорта.
type Chat struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Messages []RawMessage `json:"messages"`
}

// RawMessage представляет одно сообщение или сервисное событие в исходном
// виде. Все поля, кроме id, опциональны.
type RawMessage struct {
	ID            int64        `json:"id"`
	Type          string       `json:"type"`
	Date          string       `json:"date"`
	DateUnixtime  EpochSeconds `json:"date_unixtime"`
	From          string       `json:"from"`
	FromID        string       `json:"from_id"`
	Actor         string       `json:"actor"`
	ActorID       string       `json:"actor_id"`
	Text          TextValue    `json:"text"`
	Action        string       `json:"action"`
	ReplyTo       int64        `json:"reply_to_message_id"`
	ForwardedFrom string       `json:"forwarded_from"`
	MediaType     string       `json:"media_type"`
	File          string       `json:"file"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	DurationSec   int          `json:"duration_seconds"`
}

// EpochSeconds принимает значение "date_unixtime", которое в экспортах
// встречается и строкой ("1650123456"), и числом. Нераспознанное значение
// дает 0.
type EpochSeconds int64

// UnmarshalJSON реализует разбор обоих представлений.
func (e *EpochSeconds) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		*e = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*e = 0
		return nil
	}
	*e = EpochSeconds(v)
	return nil
}

// textKind определяет форму поля "text" в исходном JSON.
type textKind int

const (
	textEmpty textKind = iota
	textPlain
	textParts
	textTagged
)

// TextPart представляет "богатую" часть текста (ссылка, упоминание и т.д.).
type TextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// textItem — один элемент массива частей текста: строка, объект с полем
// "text" или что-то иное (игнорируется).
type textItem struct {
	str    string
	isStr  bool
	part   TextPart
	isPart bool
}

// UnmarshalJSON никогда не возвращает ошибку: элементы неизвестной формы
// просто не участвуют в извлечении текста.
func (it *textItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		it.str = s
		it.isStr = true
		return nil
	}
	var p TextPart
	if err := json.Unmarshal(data, &p); err == nil {
		it.part = p
		it.isPart = true
		return nil
	}
	return nil
}

// TextValue моделирует полиморфное поле "text" как закрытый вариант:
// строка, массив частей или одиночный объект с полем "text". Любая другая
// форма дает пустой текст.
type TextValue struct {
	kind   textKind
	plain  string
	parts  []textItem
	tagged TextPart
}

// PlainText создает TextValue из обычной строки.
func PlainText(s string) TextValue {
	return TextValue{kind: textPlain, plain: s}
}

// UnmarshalJSON определяет форму поля по первому символу значения.
func (t *TextValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*t = TextValue{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = TextValue{kind: textPlain, plain: s}
	case '[':
		var items []textItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*t = TextValue{kind: textParts, parts: items}
	case '{':
		var p TextPart
		if err := json.Unmarshal(trimmed, &p); err != nil {
			*t = TextValue{}
			return nil
		}
		*t = TextValue{kind: textTagged, tagged: p}
	default:
		// Числа и прочие формы не несут текста.
		*t = TextValue{}
	}
	return nil
}

// Plain возвращает извлеченный плоский текст: строка — как есть, массив —
// конкатенация строковых и тегированных частей по порядку, объект — его
// поле "text".
func (t TextValue) Plain() string {
	switch t.kind {
	case textPlain:
		return t.plain
	case textParts:
		var b strings.Builder
		for _, it := range t.parts {
			switch {
			case it.isStr:
				b.WriteString(it.str)
			case it.isPart:
				b.WriteString(it.part.Text)
			}
		}
		return b.String()
	case textTagged:
		return t.tagged.Text
	default:
		return ""
	}
}
