package ports

import "github.com/undeluro/tglens/internal/domain"

// DataSource определяет интерфейс для получения исходных данных экспорта.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// Parser определяет интерфейс для разбора данных экспорта.
type Parser interface {
	// Parse преобразует сырые данные в структурированную модель экспорта.
	Parse(data []byte) (*domain.RawExport, error)
}

// Normalizer определяет интерфейс для выравнивания экспорта в плоский
// набор записей с производными календарными полями.
type Normalizer interface {
	Normalize(raw *domain.RawExport) ([]domain.MessageRecord, error)
}

// Exporter определяет интерфейс для вывода сводки по чатам.
type Exporter interface {
	// Export принимает строки сводки и выводит их.
	Export(summaries []domain.ChatSummary) error
}
