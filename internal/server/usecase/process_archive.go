package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/undeluro/tglens/internal/adapters/source"
	"github.com/undeluro/tglens/internal/cache"
	"github.com/undeluro/tglens/internal/domain"
	"github.com/undeluro/tglens/internal/pkg/config"
	"github.com/undeluro/tglens/internal/ports"
)

// ProcessArchiveUseCase инкапсулирует бизнес-логику обработки архива экспорта:
// чтение файла, разбор JSON, нормализация в плоские записи и кеширование по
// хешу содержимого.
type ProcessArchiveUseCase struct {
	cfg        *config.Config
	parser     ports.Parser
	normalizer ports.Normalizer
	cacheStore *cache.CacheStore
}

// NewProcessArchiveUseCase создает новый экземпляр ProcessArchiveUseCase.
func NewProcessArchiveUseCase(
	cfg *config.Config,
	parser ports.Parser,
	normalizer ports.Normalizer,
	cacheStore *cache.CacheStore,
) *ProcessArchiveUseCase {
	return &ProcessArchiveUseCase{
		cfg:        cfg,
		parser:     parser,
		normalizer: normalizer,
		cacheStore: cacheStore,
	}
}

// ProcessArchive обрабатывает один файл экспорта чатов. Повторная загрузка
// того же содержимого обслуживается из кеша без повторного разбора.
func (uc *ProcessArchiveUseCase) ProcessArchive(ctx context.Context, filePath string) ([]domain.MessageRecord, error) {
	fileHash, err := cache.CalculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("не удалось вычислить хеш файла %s: %w", filePath, err)
	}

	if cachedItem, found := uc.cacheStore.Get(fileHash); found {
		slog.Info("Попадание в кеш для архива", "hash", fileHash)
		return cachedItem.Records, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	slog.Info("Обработка архива", "path", filePath)

	ds := source.NewCliSource(filePath)
	data, err := ds.Fetch()
	if err != nil {
		return nil, fmt.Errorf("не удалось извлечь данные из %s: %w", filePath, err)
	}

	export, err := uc.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать данные из %s: %w", filePath, err)
	}
	slog.Info("Разобран экспорт", "path", filePath, "chat_count", len(export.Chats.List))

	records, err := uc.normalizer.Normalize(export)
	if err != nil {
		return nil, fmt.Errorf("не удалось нормализовать экспорт из %s: %w", filePath, err)
	}
	slog.Info("Нормализованы записи", "path", filePath, "record_count", len(records))

	ttl := uc.cfg.CacheTTL()
	uc.cacheStore.Put(fileHash, records, ttl)
	slog.Info("Результат кеширован для архива", "hash", fileHash, "ttl", ttl.String())

	return records, nil
}
