package domain

import (
	"sort"
	"time"
)

// MessageRecord — нормализованное, плоское представление одного сообщения
// или сервисного события. Идентификатор, имя и тип чата денормализованы на
// каждую запись. После нормализации запись не изменяется; нулевые значения
// опциональных полей означают их отсутствие в исходных данных.
type MessageRecord struct {
	ChatID   int64  `json:"chat_id"`
	ChatName string `json:"chat_name"`
	ChatType string `json:"chat_type"`

	MessageID int64  `json:"message_id"`
	From      string `json:"from"`
	FromID    string `json:"from_id"`
	Actor     string `json:"actor,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`

	Timestamp    time.Time `json:"timestamp"`
	EpochSeconds int64     `json:"epoch_seconds"`

	Text       string `json:"text"`
	TextLength int    `json:"text_length"`

	Type          string `json:"type"`
	Action        string `json:"action,omitempty"`
	ReplyTo       int64  `json:"reply_to_message_id,omitempty"`
	ForwardedFrom string `json:"forwarded_from,omitempty"`
	MediaType     string `json:"media_type,omitempty"`
	File          string `json:"file,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	DurationSec   int    `json:"duration_seconds,omitempty"`

	// Производные календарные поля, вычисляемые один раз при нормализации.
	Date      time.Time `json:"date"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	MonthName string    `json:"month_name"`
	Day       int       `json:"day"`
	Hour      int       `json:"hour"`
	Weekday   string    `json:"weekday"`
}

// IsCall сообщает, является ли запись сервисным событием звонка.
func (r MessageRecord) IsCall() bool {
	return r.Action == ActionPhoneCall
}

// HasMedia сообщает, несет ли запись медиа-вложение.
func (r MessageRecord) HasMedia() bool {
	return r.MediaType != ""
}

// BasicStats — скалярная сводка по набору записей.
type BasicStats struct {
	TotalMessages   int       `json:"total_messages"`
	TotalChats      int       `json:"total_chats"`
	DateRangeStart  time.Time `json:"date_range_start"`
	DateRangeEnd    time.Time `json:"date_range_end"`
	TotalDays       int       `json:"total_days"`
	TotalTextLength int       `json:"total_text_length"`
	MediaMessages   int       `json:"media_messages"`
	TotalCalls      int       `json:"total_calls"`
	AvgCallDuration float64   `json:"avg_call_duration"`
}

// ChatSummary — одна строка сводки по чату. Вычисляется по требованию и
// нигде не хранится.
type ChatSummary struct {
	ChatID          int64     `json:"chat_id"`
	ChatName        string    `json:"chat_name"`
	ChatType        string    `json:"chat_type"`
	MessageCount    int       `json:"message_count"`
	TotalTextLength int       `json:"total_text_length"`
	AvgTextLength   float64   `json:"avg_text_length"`
	UniqueSenders   int       `json:"unique_senders"`
	FirstMessage    time.Time `json:"first_message"`
	LastMessage     time.Time `json:"last_message"`
	MediaCount      int       `json:"media_count"`
	DaysActive      int       `json:"days_active"`
	MessagesPerDay  float64   `json:"messages_per_day"`
}

// WeekdayNames возвращает английские имена дней недели в фиксированном
// порядке с понедельника по воскресенье.
func WeekdayNames() [7]string {
	return [7]string{
		"Monday", "Tuesday", "Wednesday", "Thursday",
		"Friday", "Saturday", "Sunday",
	}
}

// ActivityMatrix — матрица активности 7×24: строки — дни недели, начиная с
// понедельника, столбцы — часы суток 0–23. Отсутствующие комбинации равны 0.
type ActivityMatrix struct {
	Weekdays [7]string  `json:"weekdays"`
	Counts   [7][24]int `json:"counts"`
}

// Гранулярности временной шкалы.
const (
	GranularityHour  = "hour"
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"
)

// Именованные окна фильтра по времени.
const (
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
	Period1y  = "1y"
	PeriodAll = "all"
)

// TimelineBucket — количество сообщений за один период временной шкалы.
type TimelineBucket struct {
	Period time.Time `json:"period"`
	Count  int       `json:"count"`
}

// WordStats — очищенный мультимножественный набор слов для частотной
// визуализации вместе с итоговыми счетчиками.
type WordStats struct {
	Counts      map[string]int `json:"counts"`
	TotalWords  int            `json:"total_words"`
	UniqueWords int            `json:"unique_words"`
}

// WordCount — одно слово с частотой.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Top возвращает до limit самых частых слов по убыванию частоты; слова с
// равной частотой упорядочены лексикографически.
func (ws WordStats) Top(limit int) []WordCount {
	out := make([]WordCount, 0, len(ws.Counts))
	for word, count := range ws.Counts {
		out = append(out, WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Word < out[j].Word
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// WordReport — усеченное частотное представление для отчетов: верхние
// слова плюс итоговые счетчики по всему выжившему набору.
type WordReport struct {
	Top         []WordCount `json:"top"`
	TotalWords  int         `json:"total_words"`
	UniqueWords int         `json:"unique_words"`
}

// ParticipantStat — активность одного отправителя внутри чата.
type ParticipantStat struct {
	Name       string `json:"name"`
	Messages   int    `json:"messages"`
	Characters int    `json:"characters"`
}

// LengthBucket — корзина распределения длин сообщений.
type LengthBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Report — агрегированное представление обзорной вкладки: сводка, чаты,
// тепловая карта, временная шкала и активность по часам/дням недели.
type Report struct {
	Stats     BasicStats       `json:"stats"`
	Chats     []ChatSummary    `json:"chats"`
	Heatmap   ActivityMatrix   `json:"heatmap"`
	Timeline  []TimelineBucket `json:"timeline"`
	ByHour    [24]int          `json:"by_hour"`
	ByWeekday [7]int           `json:"by_weekday"`
	Words     WordReport       `json:"words"`
}

// ChatReport — детальное представление одного выбранного чата.
type ChatReport struct {
	Summary           ChatSummary       `json:"summary"`
	Timeline          []TimelineBucket  `json:"timeline"`
	Heatmap           ActivityMatrix    `json:"heatmap"`
	MediaTypes        map[string]int    `json:"media_types"`
	Participants      []ParticipantStat `json:"participants"`
	LengthBuckets     []LengthBucket    `json:"length_buckets"`
	VoiceMessages     int               `json:"voice_messages"`
	VideoMessages     int               `json:"video_messages"`
	TotalCalls        int               `json:"total_calls"`
	AvgCallDuration   float64           `json:"avg_call_duration"`
	MostActiveHour    int               `json:"most_active_hour"`
	MostActiveWeekday string            `json:"most_active_weekday"`
	Words             WordReport        `json:"words"`
}
