package services

import (
	"math"
	"sort"
	"time"

	"github.com/undeluro/tglens/internal/domain"
)

// Агрегатные функции — чистые и детерминированные: вход не изменяется,
// пустой или nil набор записей дает пустой/нулевой результат, а не ошибку.

// ComputeBasicStats вычисляет скалярную сводку по набору записей за один
// проход.
func ComputeBasicStats(records []domain.MessageRecord) domain.BasicStats {
	if len(records) == 0 {
		return domain.BasicStats{}
	}

	var stats domain.BasicStats
	stats.TotalMessages = len(records)

	chats := make(map[int64]struct{})
	var callDurationSum int
	minTS, maxTS := records[0].Timestamp, records[0].Timestamp

	for _, r := range records {
		chats[r.ChatID] = struct{}{}
		if r.Timestamp.Before(minTS) {
			minTS = r.Timestamp
		}
		if r.Timestamp.After(maxTS) {
			maxTS = r.Timestamp
		}
		stats.TotalTextLength += r.TextLength
		if r.HasMedia() {
			stats.MediaMessages++
		}
		if r.IsCall() {
			stats.TotalCalls++
			callDurationSum += r.DurationSec
		}
	}

	stats.TotalChats = len(chats)
	stats.DateRangeStart = minTS
	stats.DateRangeEnd = maxTS
	stats.TotalDays = daysBetween(minTS, maxTS) + 1
	if stats.TotalCalls > 0 {
		stats.AvgCallDuration = float64(callDurationSum) / float64(stats.TotalCalls)
	}
	return stats
}

// SummarizeChats группирует записи по (id, имя, тип чата) и строит по
// строке сводки на чат. Строки упорядочены по убыванию числа сообщений;
// при равенстве сохраняется порядок первого появления чата (стабильная
// сортировка).
func SummarizeChats(records []domain.MessageRecord) []domain.ChatSummary {
	if len(records) == 0 {
		return nil
	}

	type chatKey struct {
		id   int64
		name string
		typ  string
	}
	type chatAgg struct {
		summary domain.ChatSummary
		senders map[string]struct{}
	}

	groups := make(map[chatKey]*chatAgg)
	var order []chatKey

	for _, r := range records {
		key := chatKey{id: r.ChatID, name: r.ChatName, typ: r.ChatType}
		agg, ok := groups[key]
		if !ok {
			agg = &chatAgg{
				summary: domain.ChatSummary{
					ChatID:       r.ChatID,
					ChatName:     r.ChatName,
					ChatType:     r.ChatType,
					FirstMessage: r.Timestamp,
					LastMessage:  r.Timestamp,
				},
				senders: make(map[string]struct{}),
			}
			groups[key] = agg
			order = append(order, key)
		}

		agg.summary.MessageCount++
		agg.summary.TotalTextLength += r.TextLength
		agg.senders[r.From] = struct{}{}
		if r.Timestamp.Before(agg.summary.FirstMessage) {
			agg.summary.FirstMessage = r.Timestamp
		}
		if r.Timestamp.After(agg.summary.LastMessage) {
			agg.summary.LastMessage = r.Timestamp
		}
		if r.HasMedia() {
			agg.summary.MediaCount++
		}
	}

	out := make([]domain.ChatSummary, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		s := agg.summary
		s.UniqueSenders = len(agg.senders)
		s.AvgTextLength = round2(float64(s.TotalTextLength) / float64(s.MessageCount))
		s.DaysActive = daysBetween(s.FirstMessage, s.LastMessage) + 1
		s.MessagesPerDay = round2(float64(s.MessageCount) / float64(s.DaysActive))
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MessageCount > out[j].MessageCount
	})
	return out
}

// FilterPeriod оставляет записи с меткой времени не раньше, чем
// (максимальная метка набора − окно). Окно "all" и неизвестные имена окон
// возвращают набор без фильтрации: снисходительность к опечаткам вызывающей
// стороны — осознанное решение, а не ошибка.
func FilterPeriod(records []domain.MessageRecord, period string) []domain.MessageRecord {
	if len(records) == 0 || period == domain.PeriodAll {
		return records
	}

	var days int
	switch period {
	case domain.Period7d:
		days = 7
	case domain.Period30d:
		days = 30
	case domain.Period90d:
		days = 90
	case domain.Period1y:
		days = 365
	default:
		return records
	}

	now := records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp.After(now) {
			now = r.Timestamp
		}
	}
	start := now.AddDate(0, 0, -days)

	out := make([]domain.MessageRecord, 0, len(records))
	for _, r := range records {
		if !r.Timestamp.Before(start) {
			out = append(out, r)
		}
	}
	return out
}

// FilterPrivate оставляет записи личных чатов и "Избранного".
func FilterPrivate(records []domain.MessageRecord) []domain.MessageRecord {
	return filterTypes(records, domain.ChatTypePersonal, domain.ChatTypeSaved)
}

// FilterGroups оставляет записи групп и супергрупп.
func FilterGroups(records []domain.MessageRecord) []domain.MessageRecord {
	return filterTypes(records, domain.ChatTypeGroup, domain.ChatTypeSupergroup)
}

// FilterChat оставляет записи одного чата. Фильтр использует и идентификатор,
// и имя: имена чатов не уникальны.
func FilterChat(records []domain.MessageRecord, chatID int64, chatName string) []domain.MessageRecord {
	out := make([]domain.MessageRecord, 0, len(records))
	for _, r := range records {
		if r.ChatID == chatID && r.ChatName == chatName {
			out = append(out, r)
		}
	}
	return out
}

func filterTypes(records []domain.MessageRecord, types ...string) []domain.MessageRecord {
	out := make([]domain.MessageRecord, 0, len(records))
	for _, r := range records {
		for _, t := range types {
			if r.ChatType == t {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// ActivityHeatmap строит матрицу 7×24 количеств сообщений по (день недели,
// час суток). Строки всегда идут с понедельника по воскресенье независимо
// от того, какие дни представлены в данных; отсутствующие ячейки равны 0.
func ActivityHeatmap(records []domain.MessageRecord) domain.ActivityMatrix {
	matrix := domain.ActivityMatrix{Weekdays: domain.WeekdayNames()}
	for _, r := range records {
		row := weekdayIndex(r.Timestamp.Weekday())
		hour := r.Timestamp.Hour()
		if hour < 0 || hour > 23 {
			continue
		}
		matrix.Counts[row][hour]++
	}
	return matrix
}

// CountByHour возвращает количество сообщений по часам суток.
func CountByHour(records []domain.MessageRecord) [24]int {
	var out [24]int
	for _, r := range records {
		out[r.Timestamp.Hour()]++
	}
	return out
}

// CountByWeekday возвращает количество сообщений по дням недели, начиная с
// понедельника.
func CountByWeekday(records []domain.MessageRecord) [7]int {
	var out [7]int
	for _, r := range records {
		out[weekdayIndex(r.Timestamp.Weekday())]++
	}
	return out
}

// MostActiveHour возвращает час суток с наибольшим числом сообщений; при
// равенстве — наименьший час. Для пустого набора возвращается 0.
func MostActiveHour(records []domain.MessageRecord) int {
	counts := CountByHour(records)
	best := 0
	for h := 1; h < 24; h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return best
}

// MostActiveWeekday возвращает имя дня недели с наибольшим числом
// сообщений; при равенстве — более ранний день (с понедельника).
func MostActiveWeekday(records []domain.MessageRecord) string {
	counts := CountByWeekday(records)
	names := domain.WeekdayNames()
	best := 0
	for d := 1; d < 7; d++ {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return names[best]
}

// Timeline группирует количество сообщений по усеченной метке времени
// выбранной гранулярности. Неделя начинается с понедельника (ISO), месяц —
// с первого числа. Неизвестная гранулярность трактуется как день. Результат
// упорядочен по возрастанию периода.
func Timeline(records []domain.MessageRecord, granularity string) []domain.TimelineBucket {
	if len(records) == 0 {
		return nil
	}

	counts := make(map[time.Time]int)
	for _, r := range records {
		counts[truncatePeriod(r.Timestamp, granularity)]++
	}

	out := make([]domain.TimelineBucket, 0, len(counts))
	for period, count := range counts {
		out = append(out, domain.TimelineBucket{Period: period, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

// FullTimeline строит дневную шкалу без пропусков: по одной строке на
// каждый календарный день между start и end включительно, дни без
// сообщений получают 0. Это позволяет сравнивать графики разных
// подмножеств одного архива на общей оси.
func FullTimeline(records []domain.MessageRecord, start, end time.Time) []domain.TimelineBucket {
	startDay := start.Truncate(24 * time.Hour)
	endDay := end.Truncate(24 * time.Hour)
	if endDay.Before(startDay) {
		return nil
	}

	counts := make(map[time.Time]int)
	for _, r := range records {
		counts[r.Timestamp.Truncate(24*time.Hour)]++
	}

	var out []domain.TimelineBucket
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		out = append(out, domain.TimelineBucket{Period: day, Count: counts[day]})
	}
	return out
}

// MediaTypeDistribution возвращает количество записей по каждому типу медиа.
func MediaTypeDistribution(records []domain.MessageRecord) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		if r.HasMedia() {
			out[r.MediaType]++
		}
	}
	return out
}

// CallsByChat возвращает количество звонков по имени чата.
func CallsByChat(records []domain.MessageRecord) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		if r.IsCall() {
			out[r.ChatName]++
		}
	}
	return out
}

// AvgCallDurationByChat возвращает среднюю длительность звонков по имени
// чата в секундах.
func AvgCallDurationByChat(records []domain.MessageRecord) map[string]float64 {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range records {
		if r.IsCall() {
			sums[r.ChatName] += r.DurationSec
			counts[r.ChatName]++
		}
	}
	out := make(map[string]float64, len(counts))
	for name, count := range counts {
		out[name] = float64(sums[name]) / float64(count)
	}
	return out
}

// ParticipantActivity возвращает активность отправителей: количество
// сообщений и суммарное число символов, по убыванию числа сообщений.
func ParticipantActivity(records []domain.MessageRecord) []domain.ParticipantStat {
	idx := make(map[string]int)
	var out []domain.ParticipantStat
	for _, r := range records {
		i, ok := idx[r.From]
		if !ok {
			i = len(out)
			idx[r.From] = i
			out = append(out, domain.ParticipantStat{Name: r.From})
		}
		out[i].Messages++
		out[i].Characters += r.TextLength
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Messages == out[j].Messages {
			return out[i].Name < out[j].Name
		}
		return out[i].Messages > out[j].Messages
	})
	return out
}

// Корзины распределения длин сообщений; записи без текста не учитываются.
var lengthBuckets = []struct {
	label string
	max   int
}{
	{"Very Short (0-10)", 10},
	{"Short (11-50)", 50},
	{"Medium (51-100)", 100},
	{"Long (101-200)", 200},
	{"Very Long (201-500)", 500},
	{"Extremely Long (500+)", math.MaxInt},
}

// MessageLengthDistribution раскладывает записи с непустым текстом по
// корзинам длины.
func MessageLengthDistribution(records []domain.MessageRecord) []domain.LengthBucket {
	out := make([]domain.LengthBucket, len(lengthBuckets))
	for i, b := range lengthBuckets {
		out[i].Label = b.label
	}
	for _, r := range records {
		if r.TextLength == 0 {
			continue
		}
		for i, b := range lengthBuckets {
			if r.TextLength <= b.max {
				out[i].Count++
				break
			}
		}
	}
	return out
}

// truncatePeriod усекает метку времени до начала периода гранулярности.
func truncatePeriod(t time.Time, granularity string) time.Time {
	switch granularity {
	case domain.GranularityHour:
		return t.Truncate(time.Hour)
	case domain.GranularityWeek:
		day := t.Truncate(24 * time.Hour)
		return day.AddDate(0, 0, -weekdayIndex(day.Weekday()))
	case domain.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return t.Truncate(24 * time.Hour)
	}
}

// weekdayIndex переводит time.Weekday в индекс с понедельником в нуле.
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// daysBetween возвращает число целых календарных дней между двумя метками
// по их датам.
func daysBetween(start, end time.Time) int {
	startDay := start.Truncate(24 * time.Hour)
	endDay := end.Truncate(24 * time.Hour)
	return int(endDay.Sub(startDay) / (24 * time.Hour))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
