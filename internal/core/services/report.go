package services

import (
	"time"

	"github.com/undeluro/tglens/internal/domain"
)

// BuildOverviewReport собирает обзорное представление для набора записей:
// сводка, строки по чатам, тепловая карта, временная шкала выбранной
// гранулярности, активность по часам/дням недели и верхние слова.
func BuildOverviewReport(records []domain.MessageRecord, granularity string, topWords int) domain.Report {
	return domain.Report{
		Stats:     ComputeBasicStats(records),
		Chats:     SummarizeChats(records),
		Heatmap:   ActivityHeatmap(records),
		Timeline:  Timeline(records, granularity),
		ByHour:    CountByHour(records),
		ByWeekday: CountByWeekday(records),
		Words:     buildWordReport(records, topWords),
	}
}

// BuildChatReport собирает детальное представление одного чата. Дневная
// временная шкала строится без пропусков над границами [start, end], чтобы
// графики разных чатов одного архива были сравнимы; для остальных
// гранулярностей пустые периоды опускаются.
func BuildChatReport(records []domain.MessageRecord, start, end time.Time, granularity string, topWords int) domain.ChatReport {
	var report domain.ChatReport

	summaries := SummarizeChats(records)
	if len(summaries) == 0 {
		return report
	}
	report.Summary = summaries[0]

	switch granularity {
	case "", domain.GranularityDay:
		report.Timeline = FullTimeline(records, start, end)
	default:
		report.Timeline = Timeline(records, granularity)
	}
	report.Heatmap = ActivityHeatmap(records)
	report.MediaTypes = MediaTypeDistribution(records)
	report.Participants = ParticipantActivity(records)
	report.LengthBuckets = MessageLengthDistribution(records)
	report.MostActiveHour = MostActiveHour(records)
	report.MostActiveWeekday = MostActiveWeekday(records)
	report.Words = buildWordReport(records, topWords)

	var callDurationSum int
	for _, r := range records {
		switch r.MediaType {
		case domain.MediaVoiceMessage:
			report.VoiceMessages++
		case domain.MediaVideoMessage:
			report.VideoMessages++
		}
		if r.IsCall() {
			report.TotalCalls++
			callDurationSum += r.DurationSec
		}
	}
	if report.TotalCalls > 0 {
		report.AvgCallDuration = float64(callDurationSum) / float64(report.TotalCalls)
	}
	return report
}

func buildWordReport(records []domain.MessageRecord, topWords int) domain.WordReport {
	words := ExtractWords(records)
	return domain.WordReport{
		Top:         words.Top(topWords),
		TotalWords:  words.TotalWords,
		UniqueWords: words.UniqueWords,
	}
}
