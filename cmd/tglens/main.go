// Package main предоставляет CLI для анализа экспорта чатов без сервера.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/undeluro/tglens/internal/adapters/exporter"
	"github.com/undeluro/tglens/internal/adapters/parser"
	"github.com/undeluro/tglens/internal/adapters/source"
	"github.com/undeluro/tglens/internal/core/services"
	"github.com/undeluro/tglens/internal/domain"
	"github.com/undeluro/tglens/internal/pkg/term"
)

const (
	defaultTopWords    = 50
	defaultGranularity = domain.GranularityMonth
)

var (
	reportScope       string
	reportPeriod      string
	reportGranularity string
	reportTopWords    int

	chatPeriod      string
	chatGranularity string
	chatTopWords    int

	exportOutput string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tglens",
		Short:         "Анализ экспорта чатов Telegram",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <result.json>",
		Short: "Обзорный отчет по архиву",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportScope, "scope", "all", "охват чатов: private, group или all")
	cmd.Flags().StringVar(&reportPeriod, "period", domain.PeriodAll, "именованное окно: 7d, 30d, 90d, 1y или all")
	cmd.Flags().StringVar(&reportGranularity, "granularity", defaultGranularity, "гранулярность шкалы: hour, day, week или month")
	cmd.Flags().IntVar(&reportTopWords, "top-words", defaultTopWords, "количество верхних слов")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}

	switch reportScope {
	case "private":
		records = services.FilterPrivate(records)
	case "group":
		records = services.FilterGroups(records)
	case "all":
		// полный охват
	default:
		return fmt.Errorf("неизвестный охват %q (ожидается private, group или all)", reportScope)
	}
	records = services.FilterPeriod(records, reportPeriod)

	report := services.BuildOverviewReport(records, reportGranularity, reportTopWords)

	console := exporter.NewConsoleExporter(cmd.OutOrStdout(), term.Width())
	return console.RenderReport(report)
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <result.json> <chat-id>",
		Short: "Детальный отчет по одному чату",
		Args:  cobra.ExactArgs(2),
		RunE:  runChatCmd,
	}
	cmd.Flags().StringVar(&chatPeriod, "period", domain.PeriodAll, "именованное окно: 7d, 30d, 90d, 1y или all")
	cmd.Flags().StringVar(&chatGranularity, "granularity", domain.GranularityDay, "гранулярность шкалы: hour, day, week или month")
	cmd.Flags().IntVar(&chatTopWords, "top-words", defaultTopWords, "количество верхних слов")
	return cmd
}

func runChatCmd(cmd *cobra.Command, args []string) error {
	chatID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("недопустимый идентификатор чата %q: %w", args[1], err)
	}

	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}
	records = services.FilterPeriod(records, chatPeriod)

	stats := services.ComputeBasicStats(records)

	chatRecords := make([]domain.MessageRecord, 0)
	for _, r := range records {
		if r.ChatID == chatID {
			chatRecords = append(chatRecords, r)
		}
	}
	if len(chatRecords) == 0 {
		return fmt.Errorf("чат %d не найден в архиве", chatID)
	}

	report := services.BuildChatReport(chatRecords, stats.DateRangeStart, stats.DateRangeEnd, chatGranularity, chatTopWords)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Чат: %s (%s)\n", report.Summary.ChatName, report.Summary.ChatType)
	fmt.Fprintf(out, "Сообщений: %d  Отправителей: %d  Медиа: %d\n",
		report.Summary.MessageCount, report.Summary.UniqueSenders, report.Summary.MediaCount)
	fmt.Fprintf(out, "Звонков: %d  Голосовых: %d  Видеосообщений: %d\n",
		report.TotalCalls, report.VoiceMessages, report.VideoMessages)
	fmt.Fprintf(out, "Самый активный час: %d  Самый активный день: %s\n",
		report.MostActiveHour, report.MostActiveWeekday)

	if len(report.Timeline) > 0 {
		values := make([]float64, len(report.Timeline))
		for i, b := range report.Timeline {
			values[i] = float64(b.Count)
		}
		fmt.Fprintln(out, "Временная шкала:")
		fmt.Fprintln(out, exporter.Sparkline(values, term.Width()))
	}

	for _, p := range report.Participants {
		fmt.Fprintf(out, "  %s: %d сообщений, %d символов\n", p.Name, p.Messages, p.Characters)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <result.json>",
		Short: "Выгрузка сводки по чатам в XLSX",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "chats.xlsx", "путь к выходному файлу")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}

	summaries := services.SummarizeChats(records)
	excel := exporter.NewExcelExporter(exportOutput)
	if err := excel.Export(summaries); err != nil {
		return fmt.Errorf("не удалось выгрузить сводку: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Записано %d чатов в %s\n", len(summaries), exportOutput)
	return nil
}

// loadRecords читает, разбирает и нормализует файл экспорта.
func loadRecords(filePath string) ([]domain.MessageRecord, error) {
	ds := source.NewCliSource(filePath)
	data, err := ds.Fetch()
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл %s: %w", filePath, err)
	}

	export, err := parser.NewJsonParser().Parse(data)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать файл %s: %w", filePath, err)
	}

	records, err := services.NewNormalizeService().Normalize(export)
	if err != nil {
		return nil, fmt.Errorf("не удалось нормализовать экспорт: %w", err)
	}
	return records, nil
}
