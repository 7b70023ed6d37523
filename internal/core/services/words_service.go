package services

import (
	"regexp"
	"strings"

	"github.com/undeluro/tglens/internal/domain"
)

var (
	urlPattern = regexp.MustCompile(`http\S+|www\S+`)
	// Остаются буквы, цифры, подчеркивание, пробелы и базовая пунктуация.
	junkPattern  = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.,!?]`)
	spacePattern = regexp.MustCompile(`\s+`)
)

const tokenTrimSet = "-.,!?_"

// ExtractWords собирает очищенный набор слов из всех записей с непустым
// текстом: URL-подобные подстроки удаляются, символы вне консервативного
// набора заменяются пробелами, пробелы схлопываются, токены приводятся к
// нижнему регистру и фильтруются по двуязычному набору стоп-слов.
// Возвращаемая статистика считается по выжившим токенам.
func ExtractWords(records []domain.MessageRecord) domain.WordStats {
	stats := domain.WordStats{Counts: make(map[string]int)}
	if len(records) == 0 {
		return stats
	}

	var b strings.Builder
	for _, r := range records {
		if r.TextLength == 0 {
			continue
		}
		b.WriteString(r.Text)
		b.WriteByte(' ')
	}

	text := urlPattern.ReplaceAllString(b.String(), "")
	text = junkPattern.ReplaceAllString(text, " ")
	text = spacePattern.ReplaceAllString(text, " ")

	for _, token := range strings.Fields(text) {
		word := strings.Trim(strings.ToLower(token), tokenTrimSet)
		if word == "" {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		stats.Counts[word]++
		stats.TotalWords++
	}
	stats.UniqueWords = len(stats.Counts)
	return stats
}
